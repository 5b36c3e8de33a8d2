package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/yildizm/SiteLens/internal/analysis"
	"github.com/yildizm/SiteLens/internal/element"
	"github.com/yildizm/SiteLens/internal/formatter"
	"github.com/yildizm/SiteLens/internal/logger"
)

var (
	analyzeSelect     []string
	analyzeOutput     string
	analyzeOutputFile string
	analyzeDelay      time.Duration
)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [tree.yaml]",
		Short: "Analyze elements without the interactive page",
		Long: `Analyze a selection of elements and print the report.

The selection is given as element ids and is analyzed in tree order. Without
--select every element in the tree is analyzed. The analysis waits for the
configured delay, just like the interactive page.`,
		Example: `  sitelens analyze --select header,logo
  sitelens analyze site.yaml --select hero --output json
  sitelens analyze --output markdown --output-file report.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().StringSliceVarP(&analyzeSelect, "select", "s", nil, "element ids to analyze (default: every element)")
	cmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "output format (text, json, markdown)")
	cmd.Flags().StringVar(&analyzeOutputFile, "output-file", "", "save output to file instead of stdout")
	cmd.Flags().DurationVar(&analyzeDelay, "delay", 0, "analysis delay (default from config)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	log := newLogger(cfg).WithComponent("analyze")

	// Use config values if flags weren't explicitly set
	format := cfg.Output.DefaultFormat
	if cmd.Flag("output").Changed {
		format = analyzeOutput
	}
	delay := cfg.Analysis.Delay
	if cmd.Flag("delay").Changed {
		delay = analyzeDelay
	}

	f, err := formatter.New(format)
	if err != nil {
		return fmt.Errorf("failed to get formatter: %w", err)
	}

	tree, err := loadTree(treePath(cfg, args))
	if err != nil {
		return err
	}

	elements, err := selectElements(tree, analyzeSelect)
	if err != nil {
		return err
	}

	log.DebugWithFields("analyzing", []logger.Field{
		logger.Count(len(elements)),
		logger.Duration(delay),
	})

	result := runDelayedAnalysis(cmd.Context(), analysis.NewSimulated(), elements, delay)
	if !result.OK() {
		log.Warn("analysis failed: %s", result.Text)
	}

	output, err := f.Format(formatter.NewDocument(elements, result))
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	return handleOutputDestination(cmd.OutOrStdout(), output)
}

// selectElements resolves ids against tree. Elements come back in tree
// order; an empty id list selects everything.
func selectElements(tree *element.Tree, ids []string) ([]element.Element, error) {
	if len(ids) == 0 {
		return tree.Elements(), nil
	}

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := tree.Find(id); !ok {
			return nil, fmt.Errorf("unknown element id %q", id)
		}
		wanted[id] = true
	}

	elements := make([]element.Element, 0, len(wanted))
	tree.Walk(func(node *element.Node, _ int) bool {
		if wanted[node.ID] {
			elements = append(elements, node.Element)
		}
		return true
	})
	return elements, nil
}

// runDelayedAnalysis waits for delay and then analyzes elements. A cancelled
// context produces a failure result instead of an error.
func runDelayedAnalysis(ctx context.Context, analyzer analysis.Analyzer, elements []element.Element, delay time.Duration) analysis.Result {
	if ctx == nil {
		ctx = context.Background()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return analysis.Failure("analysis cancelled: %v", ctx.Err())
	case <-timer.C:
	}

	return analyzer.Analyze(ctx, elements)
}

// handleOutputDestination writes output to file or stdout
func handleOutputDestination(stdout io.Writer, output []byte) error {
	if analyzeOutputFile == "" {
		_, err := stdout.Write(output)
		return err
	}

	if err := writeOutputBytesToFile(output, analyzeOutputFile); err != nil {
		return fmt.Errorf("failed to write output to file: %w", err)
	}

	if isVerbose() {
		fmt.Fprintf(os.Stderr, "Output saved to: %s\n", analyzeOutputFile)
	}
	return nil
}

// writeOutputBytesToFile writes output to a file with proper error handling
func writeOutputBytesToFile(output []byte, filePath string) error {
	cleanPath := filepath.Clean(filePath)

	// Create or truncate the file
	file, err := os.Create(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && isVerbose() {
			fmt.Fprintf(os.Stderr, "Warning: failed to close output file: %v\n", closeErr)
		}
	}()

	if _, err := file.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	// Sync to ensure data is written
	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync output file: %w", err)
	}

	return nil
}
