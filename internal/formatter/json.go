package formatter

import (
	"encoding/json"
	"time"

	"github.com/yildizm/SiteLens/internal/element"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

// JSONOutput is the JSON document layout
type JSONOutput struct {
	Status      string            `json:"status"`
	Elements    []element.Element `json:"elements"`
	Report      string            `json:"report"`
	GeneratedAt time.Time         `json:"generated_at"`
}

func (f *jsonFormatter) Format(doc *Document) ([]byte, error) {
	elements := doc.Elements
	if elements == nil {
		elements = []element.Element{}
	}

	output := &JSONOutput{
		Status:      doc.Result.Status.String(),
		Elements:    elements,
		Report:      doc.Result.Text,
		GeneratedAt: doc.GeneratedAt,
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
