package config

// SampleConfig returns a fully documented configuration file
func SampleConfig() string {
	return `# SiteLens configuration
version: "1.0"

ui:
  # Heading shown above the main panel
  title: "SiteLens"
  # Initial sidebar width in terminal cells
  sidebar_width: 30
  # Smallest width the sidebar will request when resized with [ ] or the mouse
  min_sidebar_width: 12
  # default, high-contrast or minimal
  theme: default
  # Enable mouse drag on the sidebar border
  mouse: true

analysis:
  # Simulated analysis latency
  delay: 1500ms

tree:
  # YAML file with the sidebar elements; empty uses the built-in demo tree
  path: ""
  # Reload the tree when the file changes
  watch: false

output:
  # text, json or markdown (used by "sitelens analyze")
  default_format: text
  # auto, always or never
  color_mode: auto
  verbose: false
  # Log destination while the TUI is running; empty discards logs
  log_file: ""
`
}

// MinimalSampleConfig returns a compact configuration with essential settings
func MinimalSampleConfig() string {
	return `version: "1.0"
ui:
  sidebar_width: 30
analysis:
  delay: 1500ms
tree:
  path: ""
`
}
