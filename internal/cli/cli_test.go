package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yildizm/SiteLens/internal/analysis"
	"github.com/yildizm/SiteLens/internal/config"
	"github.com/yildizm/SiteLens/internal/element"
	"github.com/yildizm/SiteLens/internal/formatter"
)

const testTree = `
elements:
  - id: header
    name: Header
    type: section
    children:
      - id: logo
        name: Logo
        type: image
        url: /logo.png
  - id: footer
    name: Footer
    type: section
`

// writeFixtures creates a tree file and a config file so tests never read
// the user's own configuration.
func writeFixtures(t *testing.T) (treeFile, cfgPath string) {
	t.Helper()
	dir := t.TempDir()

	treeFile = filepath.Join(dir, "site.yaml")
	require.NoError(t, os.WriteFile(treeFile, []byte(testTree), 0o600))

	cfgPath = filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(config.MinimalSampleConfig()), 0o600))
	return treeFile, cfgPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { globalConfig = nil })

	var out bytes.Buffer
	cmd := NewRootCommand("1.2.3", "abc123", "2024-03-01")
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--no-emoji", "--no-color"))
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeText(t *testing.T) {
	treeFile, cfgPath := writeFixtures(t)

	out, err := execute(t, "analyze", treeFile, "--config", cfgPath, "--delay", "1ms", "--select", "logo,header")
	require.NoError(t, err)
	assert.Equal(t, "Analyzed 2 elements:\n- Header (section)\n- Logo (image: /logo.png)\n", out)
}

func TestAnalyzeAllElements(t *testing.T) {
	treeFile, cfgPath := writeFixtures(t)

	out, err := execute(t, "analyze", treeFile, "--config", cfgPath, "--delay", "1ms")
	require.NoError(t, err)
	assert.Contains(t, out, "Analyzed 3 elements:")
	assert.Contains(t, out, "- Footer (section)")
}

func TestAnalyzeJSON(t *testing.T) {
	treeFile, cfgPath := writeFixtures(t)

	out, err := execute(t, "analyze", treeFile, "--config", cfgPath, "--delay", "1ms", "-s", "footer", "-o", "json")
	require.NoError(t, err)

	var decoded formatter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "success", decoded.Status)
	require.Len(t, decoded.Elements, 1)
	assert.Equal(t, "footer", decoded.Elements[0].ID)
	assert.Equal(t, "Analyzed 1 elements:\n- Footer (section)", decoded.Report)
}

func TestAnalyzeOutputFile(t *testing.T) {
	treeFile, cfgPath := writeFixtures(t)
	target := filepath.Join(t.TempDir(), "report.md")

	out, err := execute(t, "analyze", treeFile, "--config", cfgPath, "--delay", "1ms", "-o", "markdown", "--output-file", target)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Site Analysis Report")
	assert.Contains(t, string(data), "| 2 | Logo | image | `/logo.png` |")
}

func TestAnalyzeErrors(t *testing.T) {
	treeFile, cfgPath := writeFixtures(t)

	_, err := execute(t, "analyze", treeFile, "--config", cfgPath, "--delay", "1ms", "--select", "missing")
	assert.EqualError(t, err, `unknown element id "missing"`)

	_, err = execute(t, "analyze", treeFile, "--config", cfgPath, "-o", "csv")
	assert.ErrorContains(t, err, "unknown format: csv")

	_, err = execute(t, "analyze", filepath.Join(t.TempDir(), "none.yaml"), "--config", cfgPath)
	assert.ErrorContains(t, err, "failed to load element tree")
}

func TestSelectElementsTreeOrder(t *testing.T) {
	tree, err := element.ParseTree([]byte(testTree))
	require.NoError(t, err)

	elements, err := selectElements(tree, []string{"footer", " logo ", ""})
	require.NoError(t, err)
	require.Len(t, elements, 2)
	assert.Equal(t, "logo", elements[0].ID)
	assert.Equal(t, "footer", elements[1].ID)

	all, err := selectElements(tree, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRunDelayedAnalysis(t *testing.T) {
	elements := []element.Element{{ID: "a", Name: "A", Type: "text"}}

	result := runDelayedAnalysis(context.Background(), analysis.NewSimulated(), elements, time.Millisecond)
	assert.True(t, result.OK())
	assert.Equal(t, "Analyzed 1 elements:\n- A (text)", result.Text)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result = runDelayedAnalysis(ctx, analysis.NewSimulated(), elements, time.Hour)
	assert.False(t, result.OK())
	assert.Contains(t, result.Text, "analysis cancelled")
}

func TestTreeCommand(t *testing.T) {
	treeFile, cfgPath := writeFixtures(t)

	out, err := execute(t, "tree", treeFile, "--config", cfgPath, "--summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Header")
	assert.Contains(t, out, "image #logo /logo.png")
	assert.Contains(t, out, "Elements       : 3")
}

func TestConfigCommands(t *testing.T) {
	target := filepath.Join(t.TempDir(), "sitelens.yaml")

	out, err := execute(t, "config", "init", "--minimal", "--output", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration file created at: "+target)

	_, err = execute(t, "config", "init", "--output", target)
	assert.ErrorContains(t, err, "already exists")

	out, err = execute(t, "config", "validate", "--config", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")
	assert.Contains(t, out, "Theme: default")
	assert.Contains(t, out, "Analysis Delay: 1.5s")

	out, err = execute(t, "config", "show", "--config", target, "--format", "json")
	require.NoError(t, err)
	var shown config.Config
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, 30, shown.UI.SidebarWidth)
}

func TestConfigValidateReportsErrors(t *testing.T) {
	target := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(target, []byte("ui:\n  theme: neon\n"), 0o600))

	out, err := execute(t, "config", "validate", "--config", target)
	require.Error(t, err)
	assert.Contains(t, out, "Configuration validation failed")
	assert.Contains(t, out, "invalid theme: neon")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "SiteLens 1.2.3 (abc123) built on 2024-03-01")
}

func TestTreePath(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Tree.Path = "from-config.yaml"

	assert.Equal(t, "arg.yaml", treePath(cfg, []string{"arg.yaml"}))
	assert.Equal(t, "from-config.yaml", treePath(cfg, nil))
}

func TestLoadTreeDefault(t *testing.T) {
	tree, err := loadTree("")
	require.NoError(t, err)
	assert.Positive(t, tree.Len())
}
