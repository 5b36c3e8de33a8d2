package config

import (
	"fmt"
	"time"
)

// Config holds the complete application configuration
type Config struct {
	Version  string         `yaml:"version" json:"version"`
	UI       UIConfig       `yaml:"ui" json:"ui"`
	Analysis AnalysisConfig `yaml:"analysis" json:"analysis"`
	Tree     TreeConfig     `yaml:"tree" json:"tree"`
	Output   OutputConfig   `yaml:"output" json:"output"`
}

// UIConfig configures the terminal page
type UIConfig struct {
	Title           string `yaml:"title" json:"title"`
	SidebarWidth    int    `yaml:"sidebar_width" json:"sidebar_width"`         // initial width in cells
	MinSidebarWidth int    `yaml:"min_sidebar_width" json:"min_sidebar_width"` // smallest width the sidebar will request
	Theme           string `yaml:"theme" json:"theme"`                         // default|high-contrast|minimal
	Mouse           bool   `yaml:"mouse" json:"mouse"`                         // enable drag-resize
}

// AnalysisConfig configures the simulated analysis
type AnalysisConfig struct {
	Delay time.Duration `yaml:"delay" json:"delay"`
}

// TreeConfig configures where sidebar elements come from
type TreeConfig struct {
	Path  string `yaml:"path" json:"path"`   // YAML element tree, empty for the built-in demo
	Watch bool   `yaml:"watch" json:"watch"` // reload when the file changes
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // text|json|markdown
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Verbose       bool   `yaml:"verbose" json:"verbose"`
	LogFile       string `yaml:"log_file" json:"log_file"` // where the TUI writes logs
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		UI: UIConfig{
			Title:           "SiteLens",
			SidebarWidth:    30,
			MinSidebarWidth: 12,
			Theme:           "default",
			Mouse:           true,
		},
		Analysis: AnalysisConfig{
			Delay: 1500 * time.Millisecond,
		},
		Tree: TreeConfig{
			Path:  "",
			Watch: false,
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
			Verbose:       false,
			LogFile:       "",
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateUIConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	if err := c.validateAnalysisConfig(); err != nil {
		return err
	}
	return nil
}

// validateUIConfig validates UI-related configuration
func (c *Config) validateUIConfig() error {
	if c.UI.SidebarWidth < 1 {
		return fmt.Errorf("sidebar_width must be greater than 0")
	}
	if c.UI.MinSidebarWidth < 1 {
		return fmt.Errorf("min_sidebar_width must be greater than 0")
	}
	if c.UI.MinSidebarWidth > c.UI.SidebarWidth {
		return fmt.Errorf("min_sidebar_width (%d) must not exceed sidebar_width (%d)", c.UI.MinSidebarWidth, c.UI.SidebarWidth)
	}
	if c.UI.Theme != "" {
		validThemes := map[string]bool{
			"default":       true,
			"high-contrast": true,
			"minimal":       true,
		}
		if !validThemes[c.UI.Theme] {
			return fmt.Errorf("invalid theme: %s (must be one of: default, high-contrast, minimal)", c.UI.Theme)
		}
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"markdown": true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	return nil
}

// validateAnalysisConfig validates analysis-related configuration
func (c *Config) validateAnalysisConfig() error {
	if c.Analysis.Delay <= 0 {
		return fmt.Errorf("analysis delay must be greater than 0")
	}
	return nil
}
