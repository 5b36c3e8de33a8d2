package components

import (
	"os"
	"os/user"

	"github.com/yildizm/SiteLens/internal/emoji"
)

// UserBadge shows who is running the session
type UserBadge struct {
	label  string
	styles *Styles
}

// NewUserBadge builds a badge from the current user and host
func NewUserBadge(styles *Styles) *UserBadge {
	name := "anonymous"
	if u, err := user.Current(); err == nil && u.Username != "" {
		name = u.Username
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "localhost"
	}
	return NewUserBadgeFor(name+"@"+host, styles)
}

// NewUserBadgeFor builds a badge with a fixed label
func NewUserBadgeFor(label string, styles *Styles) *UserBadge {
	if styles == nil {
		styles = DefaultStyles()
	}
	return &UserBadge{label: label, styles: styles}
}

// Label returns the badge text without decoration
func (b *UserBadge) Label() string {
	return b.label
}

// View renders the badge
func (b *UserBadge) View() string {
	return b.styles.Badge.Render(emoji.GetEmoji("user") + " " + b.label)
}
