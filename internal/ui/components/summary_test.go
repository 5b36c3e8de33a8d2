package components

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/yildizm/SiteLens/internal/emoji"
)

func TestTreeSummary(t *testing.T) {
	emoji.SetEmojiDisabled(true)
	defer emoji.SetEmojiDisabled(false)

	box := TreeSummary(testTree(), 50, nil)
	assert.Equal(t, []string{
		"Elements       : 3",
		"Roots          : 2",
		"Depth          : 2",
		"With URL       : 1",
		"[I] image      : 1",
		"[S] section    : 2",
	}, box.Content)

	out := ansi.Strip(box.Render())
	assert.Contains(t, out, "Element tree")
	assert.Contains(t, out, "With URL       : 1")
}

func TestFormatNumber(t *testing.T) {
	tests := map[int]string{
		7:       "7",
		999:     "999",
		1000:    "1,000",
		1234567: "1,234,567",
	}
	for n, want := range tests {
		assert.Equal(t, want, formatNumber(n))
	}
}
