package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/SiteLens/internal/analysis"
	"github.com/yildizm/SiteLens/internal/config"
	"github.com/yildizm/SiteLens/internal/element"
	"github.com/yildizm/SiteLens/internal/emoji"
	"github.com/yildizm/SiteLens/internal/logger"
	"github.com/yildizm/SiteLens/internal/page"
	"github.com/yildizm/SiteLens/internal/ui/components"
	"github.com/yildizm/SiteLens/internal/watch"
)

// Message types for the page
type analysisDoneMsg struct {
	ticket page.Ticket
	result analysis.Result
}

type treeReloadedMsg struct {
	tree *element.Tree
}

type treeErrorMsg struct {
	err error
}

type clipboardMsg struct {
	err error
}

// TreeSource delivers reloaded element trees. *watch.Watcher implements it.
type TreeSource interface {
	Next() (watch.Update, bool)
	Close() error
}

// focusArea is the panel receiving keys
type focusArea int

const (
	focusSidebar focusArea = iota
	focusReport
)

// Options configures a Model. Only Config and Tree are required.
type Options struct {
	Config    *config.Config
	Tree      *element.Tree
	Analyzer  analysis.Analyzer
	Source    TreeSource
	Badge     *components.UserBadge
	Logger    *logger.Logger
	Clipboard func(string) error
}

// Model is the terminal page: a resizable element sidebar next to the
// selection and its analysis report
type Model struct {
	width    int
	height   int
	ready    bool
	quitting bool
	focus    focusArea

	title    string
	delay    time.Duration
	mouse    bool
	analyzer analysis.Analyzer

	controller *page.Controller
	notifier   *page.ResizeNotifier
	release    func()
	source     TreeSource
	ctx        context.Context
	cancel     context.CancelFunc

	sidebar *components.Sidebar
	badge   *components.UserBadge
	spinner spinner.Model
	report  viewport.Model
	help    help.Model
	keys    keyMap
	styles  *components.Styles

	status    string
	statusErr error

	copy func(string) error
	log  *logger.Logger
}

// NewModel creates the page model
func NewModel(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	tree := opts.Tree
	if tree == nil {
		tree = element.DefaultTree()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	theme, ok := components.ThemeByName(cfg.UI.Theme)
	if !ok {
		log.Warn("unknown theme %q, using default", cfg.UI.Theme)
	}
	styles := components.NewStyles(theme)

	analyzer := opts.Analyzer
	if analyzer == nil {
		analyzer = analysis.NewSimulated()
	}
	badge := opts.Badge
	if badge == nil {
		badge = components.NewUserBadge(styles)
	}
	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}
	delay := cfg.Analysis.Delay
	if delay <= 0 {
		delay = analysis.DefaultDelay
	}

	sidebar := components.NewSidebar(tree, cfg.UI.MinSidebarWidth, styles)
	ctx, cancel := context.WithCancel(context.Background())

	return &Model{
		title:      cfg.UI.Title,
		delay:      delay,
		mouse:      cfg.UI.Mouse,
		analyzer:   analyzer,
		controller: page.NewController(cfg.UI.SidebarWidth, log),
		notifier:   page.NewResizeNotifier(),
		source:     opts.Source,
		ctx:        ctx,
		cancel:     cancel,
		sidebar:    sidebar,
		badge:      badge,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Spinner)),
		report:     viewport.New(0, 0),
		help:       help.New(),
		keys:       defaultKeyMap(sidebar.KeyMap()),
		styles:     styles,
		copy:       copyFn,
		log:        log.WithComponent("ui"),
	}
}

// State exposes the controller state
func (m *Model) State() page.State {
	return m.controller.State()
}

// Init mounts the page on the terminal viewport and starts listening for tree reloads
func (m *Model) Init() tea.Cmd {
	if m.release == nil {
		m.release = m.controller.Mount(m.notifier)
	}
	return m.listen()
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	m.layout()
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case components.AnalyzeSelectionMsg:
		return m.handleSelection(msg)
	case components.WidthChangeMsg:
		m.controller.OnWidthChanged(msg.Width)
		return nil
	case analysisDoneMsg:
		return m.handleAnalysisDone(msg)
	case spinner.TickMsg:
		if !m.controller.State().Analyzing {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd
	case treeReloadedMsg:
		m.sidebar.SetTree(msg.tree)
		m.setStatus(fmt.Sprintf("%s Reloaded %d elements", emoji.GetEmoji("reload"), msg.tree.Len()))
		return m.listen()
	case treeErrorMsg:
		m.statusErr = msg.err
		m.status = ""
		return m.listen()
	case clipboardMsg:
		if msg.err != nil {
			m.statusErr = fmt.Errorf("copy failed: %w", msg.err)
			m.status = ""
			return nil
		}
		m.setStatus(emoji.GetEmoji("clipboard") + " Report copied to clipboard")
		return nil
	}
	return nil
}

// handleWindowResize publishes the new width to every mounted subscriber
func (m *Model) handleWindowResize(msg tea.WindowSizeMsg) tea.Cmd {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m.help.Width = msg.Width
	m.notifier.Publish(msg.Width)
	return nil
}

// handleKeyPress handles keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	// an open filter owns every key except ctrl+c
	if m.sidebar.Filtering() {
		if msg.Type == tea.KeyCtrlC {
			return m.handleQuit()
		}
		return m.sidebar.Update(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.handleQuit()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	case key.Matches(msg, m.keys.Focus):
		m.toggleFocus()
		return nil
	case key.Matches(msg, m.keys.Copy):
		return m.copyReport()
	}

	if m.focus == focusReport {
		var cmd tea.Cmd
		m.report, cmd = m.report.Update(msg)
		return cmd
	}
	return m.sidebar.Update(msg)
}

// handleMouse routes drags to the sidebar and wheel events over the report to the viewport
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	cmd := m.sidebar.Update(msg)
	if m.sidebar.Dragging() || msg.X < m.controller.SidebarWidth() {
		return cmd
	}
	var vpCmd tea.Cmd
	m.report, vpCmd = m.report.Update(msg)
	return tea.Batch(cmd, vpCmd)
}

// handleSelection starts a new analysis for the selection
func (m *Model) handleSelection(msg components.AnalyzeSelectionMsg) tea.Cmd {
	wasAnalyzing := m.controller.State().Analyzing
	ticket := m.controller.OnSelectionChanged(msg.Elements)
	m.statusErr = nil
	m.status = ""

	cmds := []tea.Cmd{m.scheduleAnalysis(ticket)}
	if !wasAnalyzing {
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// scheduleAnalysis runs the analyzer once the delay has elapsed
func (m *Model) scheduleAnalysis(ticket page.Ticket) tea.Cmd {
	ctx := m.ctx
	analyzer := m.analyzer
	return tea.Tick(m.delay, func(time.Time) tea.Msg {
		return analysisDoneMsg{
			ticket: ticket,
			result: analyzer.Analyze(ctx, ticket.Elements),
		}
	})
}

// handleAnalysisDone commits the result unless a newer selection superseded it
func (m *Model) handleAnalysisDone(msg analysisDoneMsg) tea.Cmd {
	if !m.controller.Complete(msg.ticket, msg.result) {
		return nil
	}

	content := msg.result.Text
	if !msg.result.OK() {
		content = m.styles.Error.Render(emoji.GetEmoji("error") + " " + content)
	}
	m.report.SetContent(content)
	m.report.GotoTop()
	return nil
}

func (m *Model) toggleFocus() {
	if m.focus == focusSidebar {
		m.focus = focusReport
	} else {
		m.focus = focusSidebar
	}
	m.sidebar.SetFocused(m.focus == focusSidebar)
}

func (m *Model) copyReport() tea.Cmd {
	result := m.controller.State().Result
	if result == nil {
		m.setStatus("Nothing to copy yet")
		return nil
	}
	text := result.Text
	copyFn := m.copy
	return func() tea.Msg {
		return clipboardMsg{err: copyFn(text)}
	}
}

func (m *Model) setStatus(status string) {
	m.status = status
	m.statusErr = nil
}

// listen waits for the next tree reload
func (m *Model) listen() tea.Cmd {
	if m.source == nil {
		return nil
	}
	source := m.source
	return func() tea.Msg {
		u, ok := source.Next()
		if !ok {
			return nil
		}
		if u.Err != nil {
			return treeErrorMsg{err: u.Err}
		}
		return treeReloadedMsg{tree: u.Tree}
	}
}

// handleQuit tears the page down before quitting
func (m *Model) handleQuit() tea.Cmd {
	m.quitting = true
	m.teardown()
	return tea.Quit
}

// teardown releases the resize subscription and the tree watcher. It is safe to call more than once.
func (m *Model) teardown() {
	if m.release != nil {
		m.release()
		m.release = nil
	}
	m.cancel()
	if m.source != nil {
		if err := m.source.Close(); err != nil {
			m.log.WarnWithFields("failed to close tree watcher", []logger.Field{logger.Error(err)})
		}
		m.source = nil
	}
}

// Layout

func (m *Model) mainWidth() int {
	return max(0, m.width-m.controller.SidebarWidth())
}

func (m *Model) bodyHeight() int {
	return max(0, m.height-lipgloss.Height(m.renderFooter()))
}

// layout sizes the sidebar and the report viewport for the current state
func (m *Model) layout() {
	if !m.ready {
		return
	}
	body := m.bodyHeight()
	m.sidebar.SetSize(m.controller.SidebarWidth(), body)

	inner := max(0, m.mainWidth()-2)
	top := lipgloss.Height(m.renderTop(inner))
	// report heading, blank line and the box border
	m.report.Width = max(1, inner-4)
	m.report.Height = max(1, body-top-4)
}

// View renders the page
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return m.styles.Muted.Render("Loading " + m.title + "...")
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), m.renderMain())
	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderFooter())
}

func (m *Model) renderMain() string {
	width := m.mainWidth()
	height := m.bodyHeight()
	if width <= 2 || height <= 0 {
		return ""
	}
	inner := width - 2

	sections := []string{m.renderTop(inner)}
	state := m.controller.State()
	if state.Result != nil && !state.Analyzing {
		sections = append(sections, "", m.renderReport(*state.Result, inner))
	}

	return lipgloss.NewStyle().
		Padding(0, 1).
		Width(width).
		Height(height).
		MaxHeight(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// renderTop renders everything above the report
func (m *Model) renderTop(inner int) string {
	state := m.controller.State()
	lines := []string{m.renderHeader(inner), ""}

	if state.HasSelection() {
		lines = append(lines, m.styles.Subheader.Render("Selected elements"))
		for _, el := range state.Selection {
			lines = append(lines, m.renderElement(el))
		}
		lines = append(lines, "", m.styles.Muted.Render(fmt.Sprintf("Selected elements: %d", len(state.Selection))))
	} else {
		lines = append(lines, m.styles.Muted.Render("Select elements in the sidebar for analysis"))
	}

	if state.Analyzing {
		lines = append(lines, "", fmt.Sprintf("%s %s",
			m.spinner.View(),
			m.styles.Info.Render(fmt.Sprintf("Analyzing %d elements...", len(state.Selection)))))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) renderHeader(inner int) string {
	title := m.styles.Title.Render(m.title)
	badge := m.badge.View()

	gap := inner - lipgloss.Width(title) - lipgloss.Width(badge)
	if gap < 1 {
		return lipgloss.JoinVertical(lipgloss.Left, title, badge)
	}
	return title + strings.Repeat(" ", gap) + badge
}

func (m *Model) renderElement(el element.Element) string {
	line := fmt.Sprintf("  %s %s %s",
		emoji.ForType(el.Type),
		m.styles.Body.Render(el.Name),
		m.styles.Muted.Render("("+el.Type+")"))
	if el.HasURL() {
		line += " " + m.styles.Link.Render(el.URL)
	}
	return line
}

func (m *Model) renderReport(result analysis.Result, inner int) string {
	heading := m.styles.Subheader.Render(emoji.GetEmoji("report") + " Report")
	if !result.OK() {
		heading = m.styles.Error.Render(emoji.GetEmoji("error") + " Analysis failed")
	}

	box := m.styles.Box
	switch {
	case !result.OK():
		box = box.BorderForeground(m.styles.Theme.Error)
	case m.focus == focusReport:
		box = box.BorderForeground(m.styles.Theme.Primary)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		heading,
		box.Width(max(1, inner-2)).Render(m.report.View()))
}

func (m *Model) renderFooter() string {
	var lines []string
	switch {
	case m.statusErr != nil:
		lines = append(lines, m.styles.Error.Render(emoji.GetEmoji("error")+" "+m.statusErr.Error()))
	case m.status != "":
		lines = append(lines, m.styles.Info.Render(m.status))
	}
	lines = append(lines, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Run runs the page until the user quits
func Run(opts Options) error {
	m := NewModel(opts)
	defer m.teardown()

	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if m.mouse {
		progOpts = append(progOpts, tea.WithMouseCellMotion())
	}

	p := tea.NewProgram(m, progOpts...)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
