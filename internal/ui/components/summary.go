package components

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/SiteLens/internal/element"
	"github.com/yildizm/SiteLens/internal/emoji"
)

// SummaryBox renders a titled box of lines
type SummaryBox struct {
	Title   string
	Content []string
	Width   int

	styles *Styles
}

// NewSummaryBox creates a new summary box
func NewSummaryBox(title string, width int, styles *Styles) *SummaryBox {
	if styles == nil {
		styles = DefaultStyles()
	}
	return &SummaryBox{
		Title:  title,
		Width:  width,
		styles: styles,
	}
}

// AddLine adds a line to the summary
func (s *SummaryBox) AddLine(line string) {
	s.Content = append(s.Content, line)
}

// AddKeyValue adds a key-value pair to the summary
func (s *SummaryBox) AddKeyValue(key, value string) {
	s.Content = append(s.Content, fmt.Sprintf("%-15s: %s", key, value))
}

// Render renders the summary box
func (s *SummaryBox) Render() string {
	content := make([]string, 0, len(s.Content)+2)
	content = append(content, s.styles.Title.Render(s.Title), "")
	for _, line := range s.Content {
		content = append(content, s.styles.Muted.Render(line))
	}

	return s.styles.Box.
		Padding(1).
		Width(s.Width).
		Render(lipgloss.JoinVertical(lipgloss.Left, content...))
}

// TreeSummary counts the elements of tree by type
func TreeSummary(tree *element.Tree, width int, styles *Styles) *SummaryBox {
	box := NewSummaryBox(emoji.GetEmoji("list")+" Element tree", width, styles)

	counts := make(map[string]int)
	links := 0
	depth := 0
	tree.Walk(func(node *element.Node, d int) bool {
		counts[node.Type]++
		if node.HasURL() {
			links++
		}
		depth = max(depth, d+1)
		return true
	})

	box.AddKeyValue("Elements", formatNumber(tree.Len()))
	box.AddKeyValue("Roots", formatNumber(len(tree.Roots)))
	box.AddKeyValue("Depth", strconv.Itoa(depth))
	box.AddKeyValue("With URL", formatNumber(links))

	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		box.AddKeyValue(emoji.ForType(t)+" "+t, formatNumber(counts[t]))
	}
	return box
}

// formatNumber formats large numbers with commas
func formatNumber(n int) string {
	str := strconv.Itoa(n)
	if len(str) <= 3 {
		return str
	}

	var result strings.Builder
	for i, digit := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(digit)
	}

	return result.String()
}
