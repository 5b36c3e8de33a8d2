package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/yildizm/SiteLens/internal/config"
	"github.com/yildizm/SiteLens/internal/element"
	"github.com/yildizm/SiteLens/internal/logger"
	"github.com/yildizm/SiteLens/internal/ui"
	"github.com/yildizm/SiteLens/internal/watch"
)

func newViewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view [tree.yaml]",
		Short: "Open the interactive page",
		Long: `Open the interactive page: an element sidebar next to the current
selection and its analysis report.

When tree.watch is enabled the tree file is reloaded whenever it changes.`,
		Example: `  sitelens view
  sitelens view site.yaml
  SITELENS_TREE_WATCH=true sitelens view site.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: runView,
	}
}

func runView(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	log := newLogger(cfg)

	// the alt screen owns the terminal while the page runs
	closeLog, err := redirectLogs(log, cfg.Output.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	path := treePath(cfg, args)
	tree, err := loadTree(path)
	if err != nil {
		return err
	}
	log.InfoWithFields("starting page", []logger.Field{
		logger.F("tree", path),
		logger.Count(tree.Len()),
	})

	opts := ui.Options{Config: cfg, Tree: tree, Logger: log}
	if cfg.Tree.Watch && path != "" {
		w, err := watch.New(path, log)
		if err != nil {
			return fmt.Errorf("failed to watch tree file: %w", err)
		}
		opts.Source = w
	}

	return ui.Run(opts)
}

// treePath picks the tree file from the arguments or the configuration
func treePath(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Tree.Path
}

// loadTree loads the tree at path, or the built-in demo tree when path is empty
func loadTree(path string) (*element.Tree, error) {
	if path == "" {
		return element.DefaultTree(), nil
	}
	tree, err := element.LoadTree(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load element tree: %w", err)
	}
	return tree, nil
}

// redirectLogs sends log output to path, or discards it when path is empty
func redirectLogs(log *logger.Logger, path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}

	// #nosec G304 - path comes from the user's own configuration
	file, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(file)

	return func() {
		if err := file.Close(); err != nil && isVerbose() {
			fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
		}
	}, nil
}
