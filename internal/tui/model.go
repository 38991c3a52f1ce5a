package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"nexus/internal/config"
	"nexus/internal/history"
	"nexus/pkg/catalog"
	"nexus/pkg/installer"
	"nexus/pkg/tracker"
)

// View represents different views in the TUI
type View int

const (
	ViewCatalog View = iota
	ViewDetails
	ViewHelp
)

// FetchFunc loads the catalog of one environment.
type FetchFunc func(ctx context.Context, env config.Environment) ([]catalog.Package, error)

// Tab is one environment.
type Tab struct {
	Name string
	Env  config.Environment
}

// TabsFor returns one tab per configured environment.
func TabsFor(cfg *config.Config) []Tab {
	tabs := make([]Tab, 0, len(cfg.Environments))
	for _, env := range cfg.Environments {
		tabs = append(tabs, Tab{Name: env.Name, Env: env})
	}
	return tabs
}

// envState is what one tab has loaded.
type envState struct {
	packages []catalog.Package
	trackers *tracker.Set
	loading  bool
	err      error

	// failures holds the last failure detail per package name.
	failures map[string]string
}

func newEnvState() *envState {
	return &envState{
		trackers: tracker.NewSet(),
		failures: make(map[string]string),
	}
}

// Model holds the application state. Only App.Update mutates it.
type Model struct {
	// Core state
	ready    bool
	quitting bool

	// Dimensions
	width  int
	height int

	// Navigation
	tabs       []Tab
	activeTab  int
	activeView View
	prevView   View

	// Data
	config       *config.Config
	installer    installer.Installer
	historyStore *history.Store
	fetch        FetchFunc
	envs         []*envState
	busy         map[string]bool
	detailName   string

	// UI state
	errorMsg   string
	successMsg string
	filterText string
	inputMode  bool

	// Cursor positions and scroll offsets per tab
	cursors map[int]int
	scrolls map[int]int

	// Styles and keys
	styles *Styles
	keys   KeyMap

	// Confirmation dialog
	showConfirm   bool
	confirmTitle  string
	confirmAction func() tea.Cmd
}

// NewModel creates a new TUI model. inst may be nil when no installer is
// available; browsing still works.
func NewModel(cfg *config.Config, inst installer.Installer, historyStore *history.Store, fetch FetchFunc) *Model {
	tabs := TabsFor(cfg)
	envs := make([]*envState, len(tabs))
	for i := range envs {
		envs[i] = newEnvState()
	}

	m := &Model{
		tabs:         tabs,
		activeView:   ViewCatalog,
		config:       cfg,
		installer:    inst,
		historyStore: historyStore,
		fetch:        fetch,
		envs:         envs,
		busy:         make(map[string]bool),
		cursors:      make(map[int]int),
		scrolls:      make(map[int]int),
		styles:       DefaultStyles(),
		keys:         DefaultKeyMap(),
	}

	if env, err := cfg.Environment(""); err == nil {
		for i, tab := range tabs {
			if tab.Name == env.Name {
				m.activeTab = i
			}
		}
	}
	return m
}

// SetSize sets the terminal size
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// CurrentTab returns the current tab
func (m *Model) CurrentTab() Tab {
	if m.activeTab >= 0 && m.activeTab < len(m.tabs) {
		return m.tabs[m.activeTab]
	}
	return Tab{}
}

func (m *Model) state() *envState {
	if m.activeTab >= 0 && m.activeTab < len(m.envs) {
		return m.envs[m.activeTab]
	}
	return nil
}

// Cursor returns the cursor position for the current tab
func (m *Model) Cursor() int {
	return m.cursors[m.activeTab]
}

// SetCursor sets the cursor position for the current tab
func (m *Model) SetCursor(pos int) {
	m.cursors[m.activeTab] = pos
}

// Scroll returns the scroll offset for the current tab
func (m *Model) Scroll() int {
	return m.scrolls[m.activeTab]
}

// SetScroll sets the scroll offset for the current tab
func (m *Model) SetScroll(offset int) {
	m.scrolls[m.activeTab] = offset
}

// VisibleHeight returns the height available for list content
func (m *Model) VisibleHeight() int {
	// header, tabs, title, footer and padding
	h := m.height - 7
	if h < 1 {
		return 1
	}
	return h
}

// ListItems returns the trackers of the current tab that match the search.
func (m *Model) ListItems() []*tracker.Tracker {
	st := m.state()
	if st == nil {
		return nil
	}

	visible := catalog.Filter(st.packages, m.filterText)
	items := make([]*tracker.Tracker, 0, len(visible))
	for _, p := range visible {
		if t, ok := st.trackers.Get(p.Name); ok {
			items = append(items, t)
		}
	}
	return items
}

// SelectedTracker returns the tracker under the cursor.
func (m *Model) SelectedTracker() *tracker.Tracker {
	items := m.ListItems()
	cursor := m.Cursor()
	if cursor >= 0 && cursor < len(items) {
		return items[cursor]
	}
	return nil
}

// detailTracker returns the tracker shown by the details view.
func (m *Model) detailTracker() *tracker.Tracker {
	st := m.state()
	if st == nil {
		return nil
	}
	t, _ := st.trackers.Get(m.detailName)
	return t
}

// currentTracker is the package the action keys apply to.
func (m *Model) currentTracker() *tracker.Tracker {
	if m.activeView == ViewDetails {
		return m.detailTracker()
	}
	return m.SelectedTracker()
}

// MoveCursor moves the cursor by delta, clamping to valid range
func (m *Model) MoveCursor(delta int) {
	items := m.ListItems()
	if len(items) == 0 {
		return
	}

	newPos := m.Cursor() + delta
	if newPos < 0 {
		newPos = 0
	}
	if newPos >= len(items) {
		newPos = len(items) - 1
	}
	m.SetCursor(newPos)

	// Adjust scroll to keep cursor visible
	visibleHeight := m.VisibleHeight()
	scroll := m.Scroll()

	if newPos < scroll {
		m.SetScroll(newPos)
	} else if newPos >= scroll+visibleHeight {
		m.SetScroll(newPos - visibleHeight + 1)
	}
}

// clampCursor pulls the cursor back inside the list after it shrank.
func (m *Model) clampCursor() {
	n := len(m.ListItems())
	if m.Cursor() >= n {
		m.SetCursor(max(n-1, 0))
	}
	if m.Scroll() > m.Cursor() {
		m.SetScroll(m.Cursor())
	}
}

// GoToTop moves cursor to the top
func (m *Model) GoToTop() {
	m.SetCursor(0)
	m.SetScroll(0)
}

// GoToBottom moves cursor to the bottom
func (m *Model) GoToBottom() {
	items := m.ListItems()
	if len(items) == 0 {
		return
	}
	m.SetCursor(len(items) - 1)

	visibleHeight := m.VisibleHeight()
	if len(items) > visibleHeight {
		m.SetScroll(len(items) - visibleHeight)
	}
}

// NextTab switches to the next tab
func (m *Model) NextTab() {
	if len(m.tabs) == 0 {
		return
	}
	m.SetTab((m.activeTab + 1) % len(m.tabs))
}

// PrevTab switches to the previous tab
func (m *Model) PrevTab() {
	if len(m.tabs) == 0 {
		return
	}
	m.SetTab((m.activeTab - 1 + len(m.tabs)) % len(m.tabs))
}

// SetTab switches to a specific tab by index
func (m *Model) SetTab(index int) {
	if index >= 0 && index < len(m.tabs) {
		m.activeTab = index
		m.activeView = ViewCatalog
		m.clampCursor()
	}
}

// ShowDetails shows the details view for the selected package
func (m *Model) ShowDetails() {
	if t := m.SelectedTracker(); t != nil {
		m.detailName = t.Name()
		m.prevView = m.activeView
		m.activeView = ViewDetails
	}
}

// GoBack returns to the previous view
func (m *Model) GoBack() {
	if m.activeView == ViewDetails || m.activeView == ViewHelp {
		m.activeView = m.prevView
	}
}

// SetError sets an error message
func (m *Model) SetError(msg string) {
	m.errorMsg = msg
	m.successMsg = ""
}

// SetSuccess sets a success message
func (m *Model) SetSuccess(msg string) {
	m.successMsg = msg
	m.errorMsg = ""
}

// ClearMessages clears all messages
func (m *Model) ClearMessages() {
	m.errorMsg = ""
	m.successMsg = ""
}

// SetFilter narrows the current list to names containing text.
func (m *Model) SetFilter(text string) {
	m.filterText = text
	m.SetCursor(0)
	m.SetScroll(0)
}

// ShowConfirm shows a confirmation dialog
func (m *Model) ShowConfirm(title string, action func() tea.Cmd) {
	m.showConfirm = true
	m.confirmTitle = title
	m.confirmAction = action
}

// ConfirmYes runs the confirmation action and returns its command.
func (m *Model) ConfirmYes() tea.Cmd {
	var cmd tea.Cmd
	if m.confirmAction != nil {
		cmd = m.confirmAction()
	}
	m.showConfirm = false
	m.confirmTitle = ""
	m.confirmAction = nil
	return cmd
}

// ConfirmNo cancels the confirmation
func (m *Model) ConfirmNo() {
	m.showConfirm = false
	m.confirmTitle = ""
	m.confirmAction = nil
}

func busyKey(env int, name string) string {
	return fmt.Sprintf("%d/%s", env, name)
}

// IsBusy reports whether an operation on name is in flight in env.
func (m *Model) IsBusy(env int, name string) bool {
	return m.busy[busyKey(env, name)]
}

// BusyCount returns the number of operations in flight.
func (m *Model) BusyCount() int {
	return len(m.busy)
}

// Loading reports whether the current tab is fetching its catalog.
func (m *Model) Loading() bool {
	st := m.state()
	return st != nil && st.loading
}

// applyPackages stores a fetched catalog. Install state survives every
// reload. A failed fetch shows an empty list but keeps the trackers for the
// next reload.
func (m *Model) applyPackages(env int, pkgs []catalog.Package, err error) {
	if env < 0 || env >= len(m.envs) {
		return
	}
	st := m.envs[env]
	st.loading = false
	st.err = err

	if err != nil {
		st.packages = nil
	} else {
		st.packages = pkgs
		st.trackers.Sync(pkgs)
	}

	if env == m.activeTab {
		m.clampCursor()
	}
}

// applyOutcome records a finished operation on the package's tracker. The
// returned error is what the user should see.
func (m *Model) applyOutcome(env int, o installer.Outcome) error {
	if env < 0 || env >= len(m.envs) {
		return fmt.Errorf("unknown environment index %d", env)
	}
	st := m.envs[env]
	delete(m.busy, busyKey(env, o.Package))

	t, ok := st.trackers.Get(o.Package)
	if !ok {
		return fmt.Errorf("%s is no longer in the %s catalog", o.Package, m.tabs[env].Name)
	}

	detail := installer.Detail(o.Err)
	var err error
	switch o.Op {
	case installer.OpUninstall:
		err = t.RecordUninstallOutcome(o.Success(), detail)
	default:
		err = t.RecordInstallOutcome(o.Success(), o.Version, detail)
	}

	var fe *tracker.FailureError
	switch {
	case errors.As(err, &fe):
		st.failures[o.Package] = detail
	case err == nil:
		delete(st.failures, o.Package)
	}
	return err
}

// lastFailure returns the stored failure output for name in the current tab.
func (m *Model) lastFailure(name string) string {
	st := m.state()
	if st == nil {
		return ""
	}
	return st.failures[name]
}
