package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/yildizm/SiteLens/internal/ui/components"
)

// keyMap defines the page level bindings. Sidebar bindings are included so
// the help view shows everything in one place.
type keyMap struct {
	Quit  key.Binding
	Focus key.Binding
	Copy  key.Binding
	Help  key.Binding

	sidebar components.SidebarKeyMap
}

func defaultKeyMap(sidebar components.SidebarKeyMap) keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch panel"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy report"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		sidebar: sidebar,
	}
}

// ShortHelp returns bindings for the single line help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.sidebar.Toggle, k.sidebar.Analyze, k.Focus, k.Help, k.Quit}
}

// FullHelp returns bindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	s := k.sidebar
	return [][]key.Binding{
		{s.Up, s.Down, s.Expand, s.Collapse},
		{s.Toggle, s.Open, s.Analyze, s.Clear},
		{s.Filter, s.Shrink, s.Grow},
		{k.Focus, k.Copy, k.Help, k.Quit},
	}
}
