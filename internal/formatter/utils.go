package formatter

import (
	"strings"

	"github.com/yildizm/SiteLens/internal/analysis"
	"github.com/yildizm/go-termfmt"
)

// statusSymbol returns the go-termfmt symbol for a result status
func statusSymbol(result analysis.Result) string {
	opts := termfmt.DefaultOptions()
	if result.OK() {
		return termfmt.GetEmoji("info", opts)
	}
	return termfmt.GetEmoji("error", opts)
}

// escapeTableCell keeps cell text from breaking a Markdown table row
func escapeTableCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
