package emoji

// emojiMap holds emoji and fallback mappings
var emojiMap = map[string][2]string{
	// [emoji, fallback]
	"error":     {"❌", "[ERR]"},
	"success":   {"✅", "[OK]"},
	"analyzing": {"🔍", "[..]"},
	"report":    {"📋", "[REP]"},
	"user":      {"👤", "[@]"},
	"checked":   {"☑", "[x]"},
	"unchecked": {"☐", "[ ]"},
	"expanded":  {"▾", "v"},
	"collapsed": {"▸", ">"},
	"leaf":      {"•", "-"},
	"section":   {"🧱", "[S]"},
	"image":     {"🖼️", "[I]"},
	"link":      {"🔗", "[L]"},
	"menu":      {"☰", "[M]"},
	"list":      {"📑", "[=]"},
	"text":      {"📝", "[T]"},
	"help":      {"❓", "[?]"},
	"reload":    {"🔄", "[R]"},
	"clipboard": {"📎", "[C]"},
}

var emojiDisabled bool

// SetEmojiDisabled sets the global emoji disabled state
func SetEmojiDisabled(disabled bool) {
	emojiDisabled = disabled
}

// IsEmojiDisabled returns the current emoji disabled state
func IsEmojiDisabled() bool {
	return emojiDisabled
}

// GetEmoji returns emoji or fallback based on no-emoji setting
func GetEmoji(key string) string {
	if mapping, exists := emojiMap[key]; exists {
		if emojiDisabled {
			return mapping[1]
		}
		return mapping[0]
	}
	return "[?]"
}

// ForType returns the icon for an element type, falling back to the leaf marker
func ForType(elementType string) string {
	if _, ok := emojiMap[elementType]; ok {
		return GetEmoji(elementType)
	}
	return GetEmoji("leaf")
}
