package cli

import (
	"fmt"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/yildizm/SiteLens/internal/config"
	"github.com/yildizm/SiteLens/internal/emoji"
	"github.com/yildizm/SiteLens/internal/logger"
	"github.com/yildizm/SiteLens/internal/ui/components"
)

var (
	cfgFile      string
	verbose      bool
	noColor      bool
	noEmoji      bool
	globalConfig *config.Config
)

// skipConfigAnnotation marks commands that load configuration themselves
const skipConfigAnnotation = "sitelens/skip-config"

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sitelens [tree.yaml]",
		Short: "Select page elements and analyze them",
		Long: `SiteLens is a terminal page for inspecting a site's structure. Pick elements
from the sidebar tree and SiteLens analyzes the selection after a short delay.

Without a subcommand it opens the interactive page. The element tree comes from
the given YAML file, the tree.path setting, or a built-in demo page.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Auto-disable emojis on Windows if not explicitly set
			if runtime.GOOS == "windows" && !cmd.Flag("no-emoji").Changed {
				noEmoji = true
			}
			emoji.SetEmojiDisabled(noEmoji)

			if cmd.Annotations[skipConfigAnnotation] == "true" {
				return nil
			}
			return loadGlobalConfig()
		},
		RunE: runView,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noEmoji, "no-emoji", false, "disable emoji output (useful for Windows terminals)")

	// Add subcommands
	rootCmd.AddCommand(newViewCommand())
	rootCmd.AddCommand(newAnalyzeCommand())
	rootCmd.AddCommand(newTreeCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Show version information",
		Long:        "Display version number, build commit, date, and runtime information",
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "SiteLens %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// loadGlobalConfig loads configuration once per invocation and applies the output settings
func loadGlobalConfig() error {
	cfg, err := config.NewLoader().LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if verbose {
		cfg.Output.Verbose = true
	}

	globalConfig = cfg
	applyColorMode(cfg)
	return nil
}

// GetGlobalConfig returns the loaded configuration, or defaults before loading
func GetGlobalConfig() *config.Config {
	if globalConfig == nil {
		return config.DefaultConfig()
	}
	return globalConfig
}

// colorEnabled reports whether styled output is allowed
func colorEnabled(cfg *config.Config) bool {
	if noColor || components.IsColorDisabled() {
		return false
	}
	return cfg.Output.ColorMode != "never"
}

func applyColorMode(cfg *config.Config) {
	switch {
	case !colorEnabled(cfg):
		lipgloss.SetColorProfile(termenv.Ascii)
	case cfg.Output.ColorMode == "always":
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}

// newLogger creates the application logger for cfg
func newLogger(cfg *config.Config) *logger.Logger {
	return logger.NewWithCallback("sitelens", func() bool {
		return verbose || cfg.Output.Verbose
	})
}

// Global helpers
func isVerbose() bool {
	return verbose || GetGlobalConfig().Output.Verbose
}
