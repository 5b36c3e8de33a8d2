package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestLoggerVerboseGating(t *testing.T) {
	verbose := false
	var buf bytes.Buffer

	log := NewWithCallback("page", func() bool { return verbose })
	log.SetOutput(&buf)

	log.Debug("hidden %d", 1)
	log.Info("hidden too")
	if buf.Len() != 0 {
		t.Errorf("Expected no output when not verbose, got %q", buf.String())
	}

	log.Warn("shown")
	if !strings.Contains(buf.String(), "WARN [page] shown") {
		t.Errorf("Expected warn line, got %q", buf.String())
	}

	buf.Reset()
	verbose = true
	log.Debug("visible %s", "now")
	if !strings.Contains(buf.String(), "DEBUG [page] visible now") {
		t.Errorf("Expected debug line, got %q", buf.String())
	}
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithCallback("", func() bool { return true })
	log.SetOutput(&buf)

	log.InfoWithFields("analysis done", []Field{Count(3), F("generation", 7), Error(errors.New("boom"))})

	line := buf.String()
	if !strings.Contains(line, "INFO [main] analysis done [count=3 generation=7 error=boom]") {
		t.Errorf("Unexpected log line: %q", line)
	}
}

func TestWithComponentSharesOutput(t *testing.T) {
	var buf bytes.Buffer
	root := New("root", nil)
	child := root.WithComponent("sidebar")

	root.SetOutput(&buf)
	child.Error("width %d", 12)

	if !strings.Contains(buf.String(), "ERROR [sidebar] width 12") {
		t.Errorf("Expected derived logger to follow SetOutput, got %q", buf.String())
	}
}

func TestLiteralPercentWithoutArgs(t *testing.T) {
	var buf bytes.Buffer
	log := New("ui", nil)
	log.SetOutput(&buf)

	log.Warn("sidebar at 40% of viewport")
	if !strings.Contains(buf.String(), "sidebar at 40% of viewport") {
		t.Errorf("Expected message to be kept verbatim, got %q", buf.String())
	}
}

func TestNop(t *testing.T) {
	Nop().Error("discarded")
}
