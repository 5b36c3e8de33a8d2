package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yildizm/SiteLens/internal/analysis"
	"github.com/yildizm/SiteLens/internal/config"
	"github.com/yildizm/SiteLens/internal/element"
	"github.com/yildizm/SiteLens/internal/emoji"
	"github.com/yildizm/SiteLens/internal/page"
	"github.com/yildizm/SiteLens/internal/ui/components"
	"github.com/yildizm/SiteLens/internal/watch"
)

type analyzerFunc func(context.Context, []element.Element) analysis.Result

func (f analyzerFunc) Analyze(ctx context.Context, elements []element.Element) analysis.Result {
	return f(ctx, elements)
}

type fakeSource struct {
	updates []watch.Update
	closed  bool
}

func (f *fakeSource) Next() (watch.Update, bool) {
	if f.closed || len(f.updates) == 0 {
		return watch.Update{}, false
	}
	u := f.updates[0]
	f.updates = f.updates[1:]
	return u, true
}

func (f *fakeSource) Close() error {
	f.closed = true
	return nil
}

var (
	header = element.Element{ID: "header", Name: "Header", Type: "section"}
	logo   = element.Element{ID: "logo", Name: "Logo", Type: "image", URL: "/logo.png"}
)

func testTree() *element.Tree {
	return &element.Tree{Roots: []*element.Node{
		{Element: header, Children: []*element.Node{{Element: logo}}},
	}}
}

func newTestModel(t *testing.T, opts Options) *Model {
	t.Helper()
	emoji.SetEmojiDisabled(true)
	t.Cleanup(func() { emoji.SetEmojiDisabled(false) })

	if opts.Config == nil {
		cfg := config.DefaultConfig()
		cfg.Analysis.Delay = time.Millisecond
		opts.Config = cfg
	}
	if opts.Tree == nil {
		opts.Tree = testTree()
	}
	if opts.Badge == nil {
		opts.Badge = components.NewUserBadgeFor("tester@host", nil)
	}
	if opts.Clipboard == nil {
		opts.Clipboard = func(string) error { return nil }
	}

	m := NewModel(opts)
	m.Init()
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

// pump feeds msg through the model along with every message its commands produce
func pump(t *testing.T, m *Model, msg tea.Msg) {
	t.Helper()
	queue := []tea.Msg{msg}
	for i := 0; len(queue) > 0; i++ {
		require.Less(t, i, 100, "message loop did not settle")
		next := queue[0]
		queue = queue[1:]
		_, cmd := m.Update(next)
		queue = append(queue, collect(cmd)...)
	}
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, collect(c)...)
		}
		return out
	case spinner.TickMsg:
		// the spinner reschedules itself while analyzing
		return nil
	default:
		return []tea.Msg{msg}
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func view(m *Model) string {
	return ansi.Strip(m.View())
}

func TestInitialView(t *testing.T) {
	m := newTestModel(t, Options{})

	v := view(m)
	assert.Contains(t, v, "SiteLens")
	assert.Contains(t, v, "tester@host")
	assert.Contains(t, v, "Elements")
	assert.Contains(t, v, "Select elements in the sidebar for analysis")
	assert.NotContains(t, v, "Analyzing")
	assert.Equal(t, 30, m.State().SidebarWidth)
}

func TestViewBeforeWindowSize(t *testing.T) {
	m := NewModel(Options{Badge: components.NewUserBadgeFor("tester@host", nil)})
	assert.Contains(t, view(m), "Loading SiteLens...")
}

func TestSelectionShowsAnalyzingState(t *testing.T) {
	m := newTestModel(t, Options{})

	m.Update(components.AnalyzeSelectionMsg{Elements: []element.Element{header, logo}})

	state := m.State()
	require.True(t, state.Analyzing)
	assert.Equal(t, []element.Element{header, logo}, state.Selection)

	v := view(m)
	assert.Contains(t, v, "Selected elements")
	assert.Contains(t, v, "Header (section)")
	assert.Contains(t, v, "Logo (image) /logo.png")
	assert.Contains(t, v, "Selected elements: 2")
	assert.Contains(t, v, "Analyzing 2 elements...")
}

func TestAnalysisCompletesAfterDelay(t *testing.T) {
	m := newTestModel(t, Options{})

	pump(t, m, components.AnalyzeSelectionMsg{Elements: []element.Element{header, logo}})

	state := m.State()
	assert.False(t, state.Analyzing)
	require.NotNil(t, state.Result)
	assert.Equal(t, "Analyzed 2 elements:\n- Header (section)\n- Logo (image: /logo.png)", state.Result.Text)

	v := view(m)
	assert.NotContains(t, v, "Analyzing")
	assert.Contains(t, v, "Report")
	assert.Contains(t, v, "Analyzed 2 elements:")
	assert.Contains(t, v, "- Logo (image: /logo.png)")
}

func TestSupersededAnalysisIsIgnored(t *testing.T) {
	m := newTestModel(t, Options{})

	m.Update(components.AnalyzeSelectionMsg{Elements: []element.Element{header}})
	first := page.Ticket{Generation: m.State().Generation, Elements: []element.Element{header}}

	m.Update(components.AnalyzeSelectionMsg{Elements: []element.Element{logo}})
	m.Update(analysisDoneMsg{ticket: first, result: analysis.Success("stale")})

	state := m.State()
	assert.True(t, state.Analyzing, "an older completion must not end the newer analysis")
	assert.Nil(t, state.Result)
	assert.Contains(t, view(m), "Analyzing 1 elements...")
}

func TestSidebarKeysDriveSelection(t *testing.T) {
	m := newTestModel(t, Options{})

	// check the logo, then analyze
	pump(t, m, tea.KeyMsg{Type: tea.KeyDown})
	pump(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	pump(t, m, keyRunes("a"))

	state := m.State()
	assert.Equal(t, []element.Element{logo}, state.Selection)
	require.NotNil(t, state.Result)
	assert.Equal(t, "Analyzed 1 elements:\n- Logo (image: /logo.png)", state.Result.Text)

	// clearing analyzes an empty selection
	pump(t, m, keyRunes("c"))
	state = m.State()
	assert.Empty(t, state.Selection)
	assert.Equal(t, "Analyzed 0 elements:\n", state.Result.Text)
	assert.Contains(t, view(m), "Select elements in the sidebar for analysis")
}

func TestFailureResultIsShown(t *testing.T) {
	failing := analyzerFunc(func(context.Context, []element.Element) analysis.Result {
		return analysis.Failure("backend unavailable")
	})
	m := newTestModel(t, Options{Analyzer: failing})

	pump(t, m, components.AnalyzeSelectionMsg{Elements: []element.Element{header}})

	v := view(m)
	assert.Contains(t, v, "Analysis failed")
	assert.Contains(t, v, "backend unavailable")
}

func TestWindowResizeClampsSidebar(t *testing.T) {
	m := newTestModel(t, Options{})

	m.Update(tea.WindowSizeMsg{Width: 50, Height: 40})
	assert.Equal(t, 20, m.State().SidebarWidth)

	// growing the window does not grow the sidebar back
	m.Update(tea.WindowSizeMsg{Width: 200, Height: 40})
	assert.Equal(t, 20, m.State().SidebarWidth)
}

func TestSidebarWidthRequests(t *testing.T) {
	m := newTestModel(t, Options{})

	pump(t, m, keyRunes("]"))
	assert.Equal(t, 32, m.State().SidebarWidth)
	assert.Equal(t, 32, m.sidebar.Width())

	// requests are applied as-is, the clamp only runs on resize
	m.Update(components.WidthChangeMsg{Width: 100})
	assert.Equal(t, 100, m.State().SidebarWidth)

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 48, m.State().SidebarWidth)
}

func TestMouseDragResizesSidebar(t *testing.T) {
	m := newTestModel(t, Options{})

	pump(t, m, tea.MouseMsg{X: 29, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	pump(t, m, tea.MouseMsg{X: 39, Y: 2, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	assert.Equal(t, 40, m.State().SidebarWidth)

	pump(t, m, tea.MouseMsg{X: 44, Y: 2, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	assert.Equal(t, 45, m.State().SidebarWidth)
}

func TestQuitReleasesResources(t *testing.T) {
	source := &fakeSource{}
	m := newTestModel(t, Options{Source: source})
	require.Equal(t, 1, m.notifier.Subscribers())

	_, cmd := m.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	assert.Equal(t, 0, m.notifier.Subscribers())
	assert.True(t, source.closed)
	assert.Empty(t, m.View())

	// resize events after teardown no longer reach the controller
	m.notifier.Publish(10)
	assert.Equal(t, 30, m.State().SidebarWidth)
}

func TestFilterCapturesQuitKey(t *testing.T) {
	m := newTestModel(t, Options{})

	m.Update(keyRunes("/"))
	require.True(t, m.sidebar.Filtering())

	m.Update(keyRunes("q"))
	assert.False(t, m.quitting)
	assert.Equal(t, 1, m.notifier.Subscribers())
}

func TestFocusSwitchesPanels(t *testing.T) {
	m := newTestModel(t, Options{})

	pump(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.False(t, m.sidebar.Focused())

	pump(t, m, keyRunes("a"))
	assert.False(t, m.State().Analyzing, "sidebar keys are ignored while the report has focus")

	pump(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, m.sidebar.Focused())
}

func TestCopyReport(t *testing.T) {
	var copied string
	m := newTestModel(t, Options{Clipboard: func(s string) error {
		copied = s
		return nil
	}})

	pump(t, m, keyRunes("y"))
	assert.Contains(t, view(m), "Nothing to copy yet")

	pump(t, m, components.AnalyzeSelectionMsg{Elements: []element.Element{header}})
	pump(t, m, keyRunes("y"))
	assert.Equal(t, "Analyzed 1 elements:\n- Header (section)", copied)
	assert.Contains(t, view(m), "Report copied to clipboard")
}

func TestCopyReportError(t *testing.T) {
	m := newTestModel(t, Options{Clipboard: func(string) error {
		return errors.New("no clipboard")
	}})

	pump(t, m, components.AnalyzeSelectionMsg{Elements: []element.Element{header}})
	pump(t, m, keyRunes("y"))
	assert.Contains(t, view(m), "copy failed: no clipboard")
}

func TestTreeReload(t *testing.T) {
	reloaded := &element.Tree{Roots: []*element.Node{
		{Element: element.Element{ID: "hero", Name: "Hero", Type: "image"}},
	}}
	source := &fakeSource{updates: []watch.Update{
		{Tree: reloaded},
		{Err: errors.New("elements[0]: name is required")},
	}}

	m := NewModel(Options{
		Tree:   testTree(),
		Source: source,
		Badge:  components.NewUserBadgeFor("tester@host", nil),
	})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	// first reload replaces the tree
	msgs := collect(m.Init())
	require.Len(t, msgs, 1)
	_, cmd := m.Update(msgs[0])
	assert.Same(t, reloaded, m.sidebar.Tree())
	assert.Contains(t, view(m), "Reloaded 1 elements")

	// a broken file keeps the previous tree and reports the error
	msgs = collect(cmd)
	require.Len(t, msgs, 1)
	m.Update(msgs[0])
	assert.Same(t, reloaded, m.sidebar.Tree())
	assert.Contains(t, view(m), "name is required")
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel(t, Options{})
	assert.NotContains(t, view(m), "collapse")

	pump(t, m, keyRunes("?"))
	assert.Contains(t, view(m), "collapse")
}
