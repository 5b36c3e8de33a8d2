package formatter

import "strings"

// textFormatter prints the report text as-is
type textFormatter struct{}

// NewText creates a new plain text formatter
func NewText() Formatter {
	return &textFormatter{}
}

func (f *textFormatter) Format(doc *Document) ([]byte, error) {
	text := doc.Result.Text
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return []byte(text), nil
}
