package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/SiteLens/internal/element"
)

// DefaultDelay is the simulated latency of an analysis run
const DefaultDelay = 1500 * time.Millisecond

// Status distinguishes a finished report from a failed run
type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
)

// String returns the status name
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Result is the outcome of one analysis run. Text holds the report on
// success and the failure message otherwise.
type Result struct {
	Status Status
	Text   string
}

// Success wraps a report
func Success(report string) Result {
	return Result{Status: StatusSuccess, Text: report}
}

// Failure wraps a failure message
func Failure(format string, args ...interface{}) Result {
	return Result{Status: StatusFailure, Text: fmt.Sprintf(format, args...)}
}

// OK reports whether the run produced a report
func (r Result) OK() bool {
	return r.Status == StatusSuccess
}

// Analyzer produces a result for a selection
type Analyzer interface {
	Analyze(ctx context.Context, elements []element.Element) Result
}

// Simulated formats a report without doing any real work
type Simulated struct{}

// NewSimulated creates the placeholder analyzer
func NewSimulated() *Simulated {
	return &Simulated{}
}

// Analyze returns the formatted report, or a failure when ctx is already done
func (s *Simulated) Analyze(ctx context.Context, elements []element.Element) Result {
	if err := ctx.Err(); err != nil {
		return Failure("analysis cancelled: %v", err)
	}
	return Success(FormatReport(elements))
}

// FormatReport renders the report for a selection:
//
//	Analyzed 2 elements:
//	- Header (section)
//	- Logo (image: /logo.png)
func FormatReport(elements []element.Element) string {
	lines := make([]string, 0, len(elements))
	for _, el := range elements {
		lines = append(lines, FormatLine(el))
	}
	return fmt.Sprintf("Analyzed %d elements:\n", len(elements)) + strings.Join(lines, "\n")
}

// FormatLine renders a single report line
func FormatLine(el element.Element) string {
	if el.HasURL() {
		return fmt.Sprintf("- %s (%s: %s)", el.Name, el.Type, el.URL)
	}
	return fmt.Sprintf("- %s (%s)", el.Name, el.Type)
}
