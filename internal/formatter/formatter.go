package formatter

import (
	"fmt"
	"time"

	"github.com/yildizm/SiteLens/internal/analysis"
	"github.com/yildizm/SiteLens/internal/element"
)

// Document is one completed analysis ready for output
type Document struct {
	Elements    []element.Element
	Result      analysis.Result
	GeneratedAt time.Time
}

// NewDocument builds a document stamped with the current time
func NewDocument(elements []element.Element, result analysis.Result) *Document {
	return &Document{
		Elements:    elements,
		Result:      result,
		GeneratedAt: time.Now(),
	}
}

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(doc *Document) ([]byte, error)
}

// New returns the formatter for format
func New(format string) (Formatter, error) {
	switch format {
	case "text", "":
		return NewText(), nil
	case "json":
		return NewJSON(), nil
	case "markdown", "md":
		return NewMarkdown(), nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}
