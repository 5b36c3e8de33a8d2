package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/SiteLens/internal/analysis"
	"github.com/yildizm/SiteLens/internal/element"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct{}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{}
}

func (f *markdownFormatter) Format(doc *Document) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Site Analysis Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", doc.GeneratedAt.Format("2006-01-02 15:04:05"))

	f.writeElementTable(&b, doc.Elements)
	f.writeReport(&b, doc.Result)

	return []byte(b.String()), nil
}

// writeElementTable writes the analyzed elements as a table
func (f *markdownFormatter) writeElementTable(b *strings.Builder, elements []element.Element) {
	b.WriteString("## Elements\n\n")

	if len(elements) == 0 {
		b.WriteString("_No elements selected._\n\n")
		return
	}

	b.WriteString("| # | Name | Type | URL |\n")
	b.WriteString("|---|------|------|-----|\n")
	for i, el := range elements {
		url := "-"
		if el.HasURL() {
			url = "`" + escapeTableCell(el.URL) + "`"
		}
		fmt.Fprintf(b, "| %d | %s | %s | %s |\n", i+1, escapeTableCell(el.Name), escapeTableCell(el.Type), url)
	}
	b.WriteString("\n")
}

// writeReport writes the status line and the report in a fenced block
func (f *markdownFormatter) writeReport(b *strings.Builder, result analysis.Result) {
	b.WriteString("## Report\n\n")
	fmt.Fprintf(b, "**Status**: %s %s\n\n", statusSymbol(result), result.Status)
	b.WriteString("```text\n")
	b.WriteString(result.Text)
	if !strings.HasSuffix(result.Text, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("```\n")
}
