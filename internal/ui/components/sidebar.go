package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"
	"github.com/yildizm/SiteLens/internal/element"
	"github.com/yildizm/SiteLens/internal/emoji"
)

// ResizeStep is how many cells [ and ] change the width by
const ResizeStep = 2

// AnalyzeSelectionMsg is emitted when the user asks for the current selection to be analyzed
type AnalyzeSelectionMsg struct {
	Elements []element.Element
}

// WidthChangeMsg is emitted when the user resizes the sidebar
type WidthChangeMsg struct {
	Width int
}

// SidebarKeyMap defines the sidebar key bindings
type SidebarKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Expand   key.Binding
	Collapse key.Binding
	Toggle   key.Binding
	Open     key.Binding
	Analyze  key.Binding
	Clear    key.Binding
	Filter   key.Binding
	Shrink   key.Binding
	Grow     key.Binding
}

// DefaultSidebarKeyMap returns the default sidebar bindings
func DefaultSidebarKeyMap() SidebarKeyMap {
	return SidebarKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Expand:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "expand")),
		Collapse: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "collapse")),
		Toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open/analyze")),
		Analyze:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "analyze")),
		Clear:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Shrink:   key.NewBinding(key.WithKeys("["), key.WithHelp("[", "narrower")),
		Grow:     key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "wider")),
	}
}

// sidebarRow is one visible line of the tree
type sidebarRow struct {
	node  *element.Node
	depth int
}

// Sidebar is the element tree panel
type Sidebar struct {
	tree     *element.Tree
	expanded map[string]bool
	checked  map[string]bool
	rows     []sidebarRow
	cursor   int

	width    int
	height   int
	minWidth int
	focused  bool
	dragging bool

	filtering bool
	filter    textinput.Model

	keys   SidebarKeyMap
	styles *Styles
}

// NewSidebar creates a sidebar over tree with every branch expanded
func NewSidebar(tree *element.Tree, minWidth int, styles *Styles) *Sidebar {
	if styles == nil {
		styles = DefaultStyles()
	}
	if minWidth < 1 {
		minWidth = 1
	}

	ti := textinput.New()
	ti.Placeholder = "filter elements..."
	ti.Prompt = "/ "
	ti.CharLimit = 64

	s := &Sidebar{
		expanded: make(map[string]bool),
		checked:  make(map[string]bool),
		minWidth: minWidth,
		focused:  true,
		filter:   ti,
		keys:     DefaultSidebarKeyMap(),
		styles:   styles,
	}
	s.SetTree(tree)
	return s
}

// SetTree replaces the tree, keeping checks and expansion for ids that still exist
func (s *Sidebar) SetTree(tree *element.Tree) {
	if tree == nil {
		tree = &element.Tree{}
	}
	s.tree = tree

	expanded := make(map[string]bool)
	checked := make(map[string]bool)
	tree.Walk(func(node *element.Node, _ int) bool {
		open, known := s.expanded[node.ID]
		expanded[node.ID] = open || !known
		if s.checked[node.ID] {
			checked[node.ID] = true
		}
		return true
	})
	s.expanded = expanded
	s.checked = checked
	s.rebuild()
}

// Tree returns the tree being shown
func (s *Sidebar) Tree() *element.Tree {
	return s.tree
}

// SetSize sets the outer width and height
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.filter.Width = max(1, s.innerWidth()-len(s.filter.Prompt)-1)
}

// Width returns the outer width
func (s *Sidebar) Width() int {
	return s.width
}

// SetFocused sets the focus state
func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
}

// Focused reports whether the sidebar has keyboard focus
func (s *Sidebar) Focused() bool {
	return s.focused
}

// Filtering reports whether the filter input is capturing keys
func (s *Sidebar) Filtering() bool {
	return s.filtering
}

// KeyMap returns the sidebar bindings for help rendering
func (s *Sidebar) KeyMap() SidebarKeyMap {
	return s.keys
}

// Checked returns the checked elements in tree order
func (s *Sidebar) Checked() []element.Element {
	var elements []element.Element
	s.tree.Walk(func(node *element.Node, _ int) bool {
		if s.checked[node.ID] {
			elements = append(elements, node.Element)
		}
		return true
	})
	return elements
}

// Current returns the node under the cursor
func (s *Sidebar) Current() *element.Node {
	if s.cursor < 0 || s.cursor >= len(s.rows) {
		return nil
	}
	return s.rows[s.cursor].node
}

// MoveUp moves the cursor up
func (s *Sidebar) MoveUp() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// MoveDown moves the cursor down
func (s *Sidebar) MoveDown() {
	if s.cursor < len(s.rows)-1 {
		s.cursor++
	}
}

// Update handles keys and mouse events. Only mouse events are handled
// while the sidebar is not focused.
func (s *Sidebar) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		return s.handleMouse(msg)
	case tea.KeyMsg:
		if !s.focused {
			return nil
		}
		if s.filtering {
			return s.handleFilterKey(msg)
		}
		return s.handleKey(msg)
	}
	return nil
}

func (s *Sidebar) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, s.keys.Up):
		s.MoveUp()
	case key.Matches(msg, s.keys.Down):
		s.MoveDown()
	case key.Matches(msg, s.keys.Expand):
		s.setExpanded(true)
	case key.Matches(msg, s.keys.Collapse):
		s.setExpanded(false)
	case key.Matches(msg, s.keys.Toggle):
		if node := s.Current(); node != nil {
			s.checked[node.ID] = !s.checked[node.ID]
		}
	case key.Matches(msg, s.keys.Open):
		// enter opens or closes a branch, and analyzes on a leaf
		if node := s.Current(); node != nil && !node.IsLeaf() && s.query() == "" {
			s.setExpanded(!s.expanded[node.ID])
			return nil
		}
		return s.analyze()
	case key.Matches(msg, s.keys.Analyze):
		return s.analyze()
	case key.Matches(msg, s.keys.Clear):
		s.checked = make(map[string]bool)
		return emit(AnalyzeSelectionMsg{Elements: []element.Element{}})
	case key.Matches(msg, s.keys.Filter):
		s.filtering = true
		return s.filter.Focus()
	case key.Matches(msg, s.keys.Shrink):
		return s.requestWidth(s.width - ResizeStep)
	case key.Matches(msg, s.keys.Grow):
		return s.requestWidth(s.width + ResizeStep)
	}
	return nil
}

func (s *Sidebar) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		s.filtering = false
		s.filter.Blur()
		s.filter.SetValue("")
		s.rebuild()
		return nil
	case tea.KeyEnter:
		s.filtering = false
		s.filter.Blur()
		return nil
	case tea.KeyUp, tea.KeyDown:
		if msg.Type == tea.KeyUp {
			s.MoveUp()
		} else {
			s.MoveDown()
		}
		return nil
	}

	var cmd tea.Cmd
	s.filter, cmd = s.filter.Update(msg)
	s.rebuild()
	return cmd
}

func (s *Sidebar) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft && s.onBorder(msg.X) {
			s.dragging = true
		}
	case tea.MouseActionMotion:
		if s.dragging {
			return s.requestWidth(msg.X + 1)
		}
	case tea.MouseActionRelease:
		if s.dragging {
			s.dragging = false
			return s.requestWidth(msg.X + 1)
		}
	}
	return nil
}

// Dragging reports whether a border drag is in progress
func (s *Sidebar) Dragging() bool {
	return s.dragging
}

// onBorder reports whether column x is the sidebar's right border (one cell of slack)
func (s *Sidebar) onBorder(x int) bool {
	return s.width > 0 && (x == s.width-1 || x == s.width)
}

func (s *Sidebar) requestWidth(width int) tea.Cmd {
	width = max(width, s.minWidth)
	if width == s.width {
		return nil
	}
	return emit(WidthChangeMsg{Width: width})
}

func (s *Sidebar) analyze() tea.Cmd {
	elements := s.Checked()
	if len(elements) == 0 {
		node := s.Current()
		if node == nil {
			return nil
		}
		elements = []element.Element{node.Element}
	}
	return emit(AnalyzeSelectionMsg{Elements: elements})
}

func (s *Sidebar) setExpanded(open bool) {
	node := s.Current()
	if node == nil || node.IsLeaf() || s.query() != "" {
		return
	}
	s.expanded[node.ID] = open
	s.rebuild()
}

func (s *Sidebar) query() string {
	return strings.TrimSpace(s.filter.Value())
}

// rebuild recomputes the visible rows
func (s *Sidebar) rebuild() {
	var currentID string
	if node := s.Current(); node != nil {
		currentID = node.ID
	}

	s.rows = s.rows[:0]
	if q := s.query(); q != "" {
		var nodes []*element.Node
		var targets []string
		s.tree.Walk(func(node *element.Node, _ int) bool {
			nodes = append(nodes, node)
			targets = append(targets, node.SearchText())
			return true
		})
		for _, match := range fuzzy.Find(q, targets) {
			s.rows = append(s.rows, sidebarRow{node: nodes[match.Index]})
		}
	} else {
		s.tree.Walk(func(node *element.Node, depth int) bool {
			s.rows = append(s.rows, sidebarRow{node: node, depth: depth})
			return s.expanded[node.ID]
		})
	}

	s.cursor = 0
	for i, row := range s.rows {
		if row.node.ID == currentID {
			s.cursor = i
			break
		}
	}
}

func (s *Sidebar) innerWidth() int {
	// two border cells and one cell of padding each side
	return max(1, s.width-4)
}

// View renders the sidebar
func (s *Sidebar) View() string {
	if s.width <= 2 || s.height <= 2 {
		return ""
	}
	inner := s.innerWidth()

	header := s.styles.Title.Render(truncate("Elements", inner))
	if n := len(s.Checked()); n > 0 {
		header = s.styles.Title.Render(truncate(fmt.Sprintf("Elements (%d selected)", n), inner))
	}
	lines := []string{header}

	footer := ""
	switch {
	case s.filtering:
		footer = s.filter.View()
	case s.query() != "":
		footer = s.styles.Muted.Render(truncate("/ "+s.query(), inner))
	}

	maxVisible := s.height - 2 - len(lines)
	if footer != "" {
		maxVisible--
	}
	maxVisible = max(1, maxVisible)

	start := 0
	if s.cursor >= maxVisible {
		start = s.cursor - maxVisible + 1
	}
	end := min(start+maxVisible, len(s.rows))

	if len(s.rows) == 0 {
		lines = append(lines, s.styles.Muted.Render(truncate("no matching elements", inner)))
	}
	for i := start; i < end; i++ {
		lines = append(lines, s.renderRow(s.rows[i], i == s.cursor, inner))
	}
	if footer != "" {
		lines = append(lines, footer)
	}

	style := s.styles.Sidebar
	switch {
	case s.dragging:
		style = s.styles.SidebarResize
	case s.focused:
		style = s.styles.SidebarFocus
	}

	return style.
		Padding(0, 1).
		Width(s.width - 2).
		Height(s.height - 2).
		MaxHeight(s.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (s *Sidebar) renderRow(row sidebarRow, selected bool, inner int) string {
	node := row.node

	marker := emoji.GetEmoji("leaf")
	if !node.IsLeaf() {
		marker = emoji.GetEmoji("collapsed")
		if s.expanded[node.ID] {
			marker = emoji.GetEmoji("expanded")
		}
	}

	box := emoji.GetEmoji("unchecked")
	if s.checked[node.ID] {
		box = emoji.GetEmoji("checked")
	}

	line := fmt.Sprintf("%s%s %s %s (%s)", strings.Repeat("  ", row.depth), marker, box, node.Name, node.Type)
	line = truncate(line, inner)

	switch {
	case selected && s.focused:
		return s.styles.Selected.Render(line)
	case s.checked[node.ID]:
		return s.styles.Checked.Render(line)
	default:
		return s.styles.Body.Render(line)
	}
}

// truncate shortens s to width display cells
func truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
