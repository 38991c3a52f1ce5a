package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"nexus/internal/config"
	"nexus/internal/history"
	"nexus/pkg/catalog"
	"nexus/pkg/installer"
	"nexus/pkg/tracker"
)

// Messages for async operations
type (
	packagesLoadedMsg struct {
		env      int
		packages []catalog.Package
		err      error
	}

	operationCompleteMsg struct {
		env     int
		outcome installer.Outcome
	}

	historyRecordedMsg struct {
		err error
	}
)

// App wraps the Model with bubbletea components
type App struct {
	*Model
	spinner   spinner.Model
	textInput textinput.Model
}

// NewApp creates a new TUI application
func NewApp(cfg *config.Config, inst installer.Installer, historyStore *history.Store, fetch FetchFunc) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	ti := textinput.New()
	ti.Placeholder = "package name"
	ti.CharLimit = 100
	ti.Width = 40

	return &App{
		Model:     NewModel(cfg, inst, historyStore, fetch),
		spinner:   sp,
		textInput: ti,
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.spinner.Tick}
	for i := range a.tabs {
		cmds = append(cmds, a.loadEnv(i))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetSize(msg.Width, msg.Height)
		a.ready = true

	case tea.KeyMsg:
		if a.showConfirm {
			switch msg.String() {
			case "y", "Y", "enter":
				return a, a.ConfirmYes()
			case "n", "N", "esc", "q":
				a.ConfirmNo()
			}
			return a, nil
		}

		if a.inputMode {
			return a, a.updateSearch(msg)
		}

		return a, a.handleKey(msg)

	case packagesLoadedMsg:
		a.applyPackages(msg.env, msg.packages, msg.err)
		if msg.err != nil {
			log.Printf("load %s: %v", a.tabs[msg.env].Name, msg.err)
			if msg.env == a.activeTab {
				a.SetError(fmt.Sprintf("%s: %v", a.tabs[msg.env].Name, msg.err))
			}
		} else {
			log.Printf("load %s: %d packages", a.tabs[msg.env].Name, len(msg.packages))
		}

	case operationCompleteMsg:
		o := msg.outcome
		log.Printf("%s %s %s via %s: success=%t exit=%d in %s",
			o.Op, o.Package, o.Version, o.Installer, o.Success(), o.Result.ExitCode, o.Duration)

		if err := a.applyOutcome(msg.env, o); err != nil {
			a.SetError(statusLine(err))
		} else {
			a.SetSuccess(a.successText(o))
		}
		if cmd := a.recordHistory(msg.env, o); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case historyRecordedMsg:
		if msg.err != nil {
			log.Printf("history: %v", msg.err)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return a, tea.Batch(cmds...)
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Quit):
		a.quitting = true
		return tea.Quit

	case key.Matches(msg, a.keys.Help):
		if a.activeView == ViewHelp {
			a.GoBack()
		} else {
			a.prevView = a.activeView
			a.activeView = ViewHelp
		}

	case key.Matches(msg, a.keys.GoToTab):
		a.SetTab(int(msg.String()[0] - '1'))
	case key.Matches(msg, a.keys.NextTab):
		a.NextTab()
	case key.Matches(msg, a.keys.PrevTab):
		a.PrevTab()

	case key.Matches(msg, a.keys.Cancel):
		if a.activeView == ViewCatalog && a.filterText != "" {
			a.SetFilter("")
			a.textInput.SetValue("")
		}
		a.GoBack()
		a.ClearMessages()
	case key.Matches(msg, a.keys.Back):
		a.GoBack()

	// Navigation
	case key.Matches(msg, a.keys.Up):
		a.MoveCursor(-1)
	case key.Matches(msg, a.keys.Down):
		a.MoveCursor(1)
	case key.Matches(msg, a.keys.PageUp):
		a.MoveCursor(-a.VisibleHeight())
	case key.Matches(msg, a.keys.PageDown):
		a.MoveCursor(a.VisibleHeight())
	case key.Matches(msg, a.keys.Home):
		a.GoToTop()
	case key.Matches(msg, a.keys.End):
		a.GoToBottom()

	case key.Matches(msg, a.keys.NextVersion):
		a.cycleVersion(1)
	case key.Matches(msg, a.keys.PrevVersion):
		a.cycleVersion(-1)

	case key.Matches(msg, a.keys.Enter):
		if a.activeView == ViewCatalog {
			a.ShowDetails()
		}

	case key.Matches(msg, a.keys.Search):
		a.startSearch()

	case key.Matches(msg, a.keys.Reload):
		if !a.Loading() {
			a.ClearMessages()
			return a.loadEnv(a.activeTab)
		}

	case key.Matches(msg, a.keys.Install):
		a.requestInstall()

	case key.Matches(msg, a.keys.Uninstall):
		a.requestUninstall()
	}

	return nil
}

func (a *App) cycleVersion(delta int) {
	t := a.currentTracker()
	if t == nil || a.IsBusy(a.activeTab, t.Name()) {
		return
	}
	t.SelectNext(delta)
}

// checkAction returns why an action on t cannot start, or "".
func (a *App) checkAction(t *tracker.Tracker) string {
	switch {
	case a.installer == nil:
		return "no installer available"
	case a.IsBusy(a.activeTab, t.Name()):
		return fmt.Sprintf("%s: an operation is already running", t.Name())
	}
	return ""
}

func (a *App) requestInstall() {
	t := a.currentTracker()
	if t == nil {
		return
	}
	if reason := a.checkAction(t); reason != "" {
		a.SetError(reason)
		return
	}
	if !t.Affordance().CanInstall() {
		a.SetError(fmt.Sprintf("%s %s is already installed", t.Name(), t.Selected()))
		return
	}

	env := a.activeTab
	req := installer.Request{Op: installer.OpInstall, Package: t.Name(), Version: t.Selected()}
	title := fmt.Sprintf("Install %s %s with %s?", req.Package, versionLabel(req.Version), a.installer.DisplayName())
	a.ShowConfirm(title, func() tea.Cmd {
		return a.startOperation(env, req)
	})
}

func (a *App) requestUninstall() {
	t := a.currentTracker()
	if t == nil {
		return
	}
	if reason := a.checkAction(t); reason != "" {
		a.SetError(reason)
		return
	}
	installed, ok := t.Installed()
	if !ok || !t.Affordance().CanUninstall() {
		a.SetError(fmt.Sprintf("%s is not installed", t.Name()))
		return
	}

	env := a.activeTab
	req := installer.Request{Op: installer.OpUninstall, Package: t.Name(), Version: installed}
	title := fmt.Sprintf("Uninstall %s %s with %s?", req.Package, versionLabel(installed), a.installer.DisplayName())
	a.ShowConfirm(title, func() tea.Cmd {
		return a.startOperation(env, req)
	})
}

// startOperation marks the package busy and runs req off the update loop.
func (a *App) startOperation(env int, req installer.Request) tea.Cmd {
	a.busy[busyKey(env, req.Package)] = true
	a.ClearMessages()
	log.Printf("start %s %s %s in %s", req.Op, req.Package, req.Version, a.tabs[env].Name)

	inst := a.installer
	return func() tea.Msg {
		return operationCompleteMsg{
			env:     env,
			outcome: installer.Run(context.Background(), inst, req),
		}
	}
}

func (a *App) recordHistory(env int, o installer.Outcome) tea.Cmd {
	if a.historyStore == nil {
		return nil
	}
	entry := history.FromOutcome(a.tabs[env].Name, o, a.config.General.DryRun)
	store := a.historyStore
	return func() tea.Msg {
		return historyRecordedMsg{err: store.Record(entry)}
	}
}

func (a *App) successText(o installer.Outcome) string {
	var s string
	if o.Op == installer.OpUninstall {
		s = fmt.Sprintf("Uninstalled %s", o.Package)
	} else {
		s = fmt.Sprintf("Installed %s %s", o.Package, versionLabel(o.Version))
	}
	if a.config.General.DryRun {
		s = "[dry-run] " + s
	}
	return s
}

func (a *App) startSearch() {
	if a.activeView != ViewCatalog {
		return
	}
	a.inputMode = true
	a.textInput.SetValue(a.filterText)
	a.textInput.CursorEnd()
	a.textInput.Focus()
}

// updateSearch feeds a key to the search box; the list filters as you type.
func (a *App) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		a.quitting = true
		return tea.Quit
	case "enter":
		a.inputMode = false
		a.textInput.Blur()
		return nil
	case "esc":
		a.inputMode = false
		a.textInput.Blur()
		a.textInput.SetValue("")
		a.SetFilter("")
		return nil
	}

	var cmd tea.Cmd
	a.textInput, cmd = a.textInput.Update(msg)
	if v := a.textInput.Value(); v != a.filterText {
		a.SetFilter(v)
	}
	return cmd
}

// Async commands

func (a *App) loadEnv(i int) tea.Cmd {
	if i < 0 || i >= len(a.tabs) || a.fetch == nil {
		return nil
	}
	a.envs[i].loading = true

	env := a.tabs[i].Env
	fetch := a.fetch
	return func() tea.Msg {
		pkgs, err := fetch(context.Background(), env)
		return packagesLoadedMsg{env: i, packages: pkgs, err: err}
	}
}

// View implements tea.Model
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	if a.quitting {
		return ""
	}

	if a.showConfirm {
		return a.renderDialog()
	}

	var b strings.Builder

	b.WriteString(a.renderHeader())
	b.WriteString("\n")

	b.WriteString(a.renderTabs())
	b.WriteString("\n")

	b.WriteString(a.renderContent())

	b.WriteString(a.renderFooter())

	return b.String()
}

// renderHeader renders the header bar
func (a *App) renderHeader() string {
	title := a.styles.Header.Render(" Nexus Package Manager ")

	var right string
	switch {
	case a.Loading():
		right = a.spinner.View() + " Loading catalog..."
	case a.errorMsg != "":
		right = a.styles.Error.Render(truncate(a.errorMsg, a.width/2))
	case a.successMsg != "":
		right = a.styles.Success.Render(truncate(a.successMsg, a.width/2))
	case a.BusyCount() > 0:
		right = a.spinner.View() + fmt.Sprintf(" %d running", a.BusyCount())
	}

	padding := a.width - lipgloss.Width(title) - lipgloss.Width(right) - 2
	if padding < 0 {
		padding = 0
	}

	return title + strings.Repeat(" ", padding) + right
}

// renderTabs renders the tab bar
func (a *App) renderTabs() string {
	var tabs []string
	for i, tab := range a.tabs {
		style := a.styles.TabInactive
		if i == a.activeTab {
			style = a.styles.TabActive
		}
		tabs = append(tabs, style.Render(fmt.Sprintf("[%d] %s", i+1, tab.Name)))
	}

	return lipgloss.NewStyle().
		Width(a.width).
		Background(ColorBgAlt).
		Padding(0, 1).
		Render(strings.Join(tabs, " "))
}

// renderContent renders the main content area
func (a *App) renderContent() string {
	height := a.height - 3

	var content string
	switch a.activeView {
	case ViewCatalog:
		content = a.renderCatalog()
	case ViewDetails:
		content = a.renderDetails()
	case ViewHelp:
		content = a.renderHelp()
	}

	return lipgloss.NewStyle().
		Width(a.width).
		Height(height).
		MaxHeight(height).
		Render(content)
}

func (a *App) renderCatalog() string {
	var b strings.Builder

	st := a.state()
	if st == nil {
		b.WriteString(a.styles.Description.Render("No environments configured"))
		return b.String()
	}

	items := a.ListItems()
	tab := a.CurrentTab()

	titleStr := fmt.Sprintf("%s catalog (%d packages, %d installed", tab.Name, len(items), st.trackers.InstalledCount())
	if n := st.trackers.Parked(); n > 0 {
		titleStr += fmt.Sprintf(", %d installed not listed", n)
	}
	titleStr += ")"
	b.WriteString(a.styles.Title.Render(titleStr))
	b.WriteString("\n")

	switch {
	case a.inputMode:
		b.WriteString(a.styles.InputPrompt.Render("Search: "))
		b.WriteString(a.textInput.View())
	case a.filterText != "":
		b.WriteString(a.styles.Description.Render(fmt.Sprintf("Search: %s  (esc to clear)", a.filterText)))
	}
	b.WriteString("\n")

	switch {
	case st.loading && len(st.packages) == 0:
		b.WriteString(a.spinner.View() + " Fetching " + tab.Env.URL)
		return b.String()
	case st.err != nil:
		b.WriteString(a.styles.Error.Render(statusLine(st.err)))
		b.WriteString("\n")
		b.WriteString(a.styles.Description.Render("Press R to retry"))
		return b.String()
	case len(items) == 0:
		b.WriteString(a.styles.Description.Render("No packages found"))
		return b.String()
	}

	visibleHeight := a.VisibleHeight()
	scroll := a.Scroll()
	cursor := a.Cursor()

	end := scroll + visibleHeight
	if end > len(items) {
		end = len(items)
	}

	nameWidth := 0
	for _, t := range items[scroll:end] {
		nameWidth = max(nameWidth, lipgloss.Width(t.Name()))
	}
	nameWidth = min(nameWidth, 40)

	for i := scroll; i < end; i++ {
		b.WriteString(a.renderRow(items[i], i == cursor, nameWidth))
		b.WriteString("\n")
	}

	if len(items) > visibleHeight {
		b.WriteString(a.styles.Description.Render(fmt.Sprintf("  (%d/%d)", cursor+1, len(items))))
	}

	return b.String()
}

// renderRow renders one package: name, selected version, actions, badge.
func (a *App) renderRow(t *tracker.Tracker, selected bool, nameWidth int) string {
	cursor := "  "
	nameStyle := lipgloss.NewStyle().Foreground(ColorText)
	if selected {
		cursor = a.styles.ListItemSelected.Render("> ")
		nameStyle = a.styles.PackageName
	}
	name := nameStyle.Width(nameWidth).Render(truncate(t.Name(), nameWidth))

	version := a.styles.PackageVersion.Render(fmt.Sprintf("< %s >", t.Selected()))

	aff := t.Affordance()
	parts := []string{
		cursor + name,
		version,
		a.action("[install]", aff.CanInstall()),
		a.action("[uninstall]", aff.CanUninstall()),
	}

	if a.IsBusy(a.activeTab, t.Name()) {
		parts = append(parts, a.spinner.View()+" working")
	} else if installed, ok := t.Installed(); ok && aff.ShowInstalled() {
		parts = append(parts, InstalledBadge(installed))
	}
	if a.lastFailure(t.Name()) != "" {
		parts = append(parts, a.styles.Error.Render("!"))
	}

	return strings.Join(parts, "  ")
}

func (a *App) action(label string, enabled bool) string {
	if enabled {
		return a.styles.ActionEnabled.Render(label)
	}
	return a.styles.ActionDisabled.Render(label)
}

// renderDetails renders the selected package with its versions and the
// output of its last failed operation.
func (a *App) renderDetails() string {
	var b strings.Builder

	t := a.detailTracker()
	if t == nil {
		b.WriteString(a.styles.Error.Render("Package is no longer in the catalog"))
		return b.String()
	}

	b.WriteString(a.styles.Title.Render(t.Name()))
	b.WriteString(" ")
	b.WriteString(EnvBadge(a.CurrentTab().Name))
	b.WriteString("\n\n")

	b.WriteString(a.styles.Subtitle.Render("Status: "))
	aff := t.Affordance()
	switch {
	case a.IsBusy(a.activeTab, t.Name()):
		b.WriteString(a.spinner.View() + " operation running")
	case aff.ShowInstalled():
		b.WriteString(a.styles.Success.Render(aff.String()))
	default:
		b.WriteString(a.styles.Info.Render(aff.String()))
	}
	b.WriteString("\n\n")

	b.WriteString(a.styles.Subtitle.Render("Versions"))
	b.WriteString("\n")
	installed, has := t.Installed()
	for _, v := range t.Package().Versions {
		marker := "  "
		if v == t.Selected() {
			marker = a.styles.ListItemSelected.Render("> ")
		}
		line := marker + a.styles.PackageVersion.Render(v)
		if has && v == installed {
			line += "  " + InstalledBadge(v)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if detail := a.lastFailure(t.Name()); detail != "" {
		b.WriteString(a.styles.Subtitle.Render("Last failure"))
		b.WriteString("\n")
		b.WriteString(a.styles.Output.Render(tailLines(detail, 12)))
		b.WriteString("\n\n")
	}

	b.WriteString(a.styles.Subtitle.Render("Actions"))
	b.WriteString("\n")
	b.WriteString("  " + a.action("[i] install "+versionLabel(t.Selected()), aff.CanInstall()) + "\n")
	b.WriteString("  " + a.action("[u] uninstall", aff.CanUninstall()) + "\n")
	b.WriteString("  [h/l] change version\n")
	b.WriteString("  [b] back\n")

	return b.String()
}

// renderHelp renders the help view
func (a *App) renderHelp() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Keyboard Shortcuts"))
	b.WriteString("\n")

	for i, group := range a.keys.FullHelp() {
		if i < len(helpSections) {
			b.WriteString(a.styles.Subtitle.Render(helpSections[i]))
			b.WriteString("\n")
		}
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-16s%s%s\n",
				a.styles.HelpKey.Render(h.Key),
				a.styles.HelpSep.String(),
				a.styles.HelpDesc.Render(h.Desc)))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// renderFooter renders the footer bar
func (a *App) renderFooter() string {
	var bindings []key.Binding
	switch a.activeView {
	case ViewDetails:
		bindings = []key.Binding{a.keys.Install, a.keys.Uninstall, a.keys.PrevVersion, a.keys.NextVersion, a.keys.Back}
	case ViewHelp:
		bindings = []key.Binding{a.keys.Help, a.keys.Quit}
	default:
		bindings = a.keys.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		h := binding.Help()
		hints = append(hints, h.Key+":"+h.Desc)
	}

	return lipgloss.NewStyle().
		Width(a.width).
		Background(ColorBgAlt).
		Foreground(ColorMuted).
		Padding(0, 1).
		Render(strings.Join(hints, "  "))
}

func (a *App) renderDialog() string {
	dialog := a.styles.Dialog.Render(
		a.styles.DialogTitle.Render(a.confirmTitle) + "\n\n" +
			a.styles.DialogButton.Render("[Y]es") + " " +
			lipgloss.NewStyle().Foreground(ColorMuted).Render("[N]o"),
	)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, dialog,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(ColorBg))
}

func versionLabel(v string) string {
	if v == "" || v == catalog.NotAvailable {
		return "(latest)"
	}
	return v
}

// statusLine reduces an error to one line for the header. The full failure
// output stays available in the details view.
func statusLine(err error) string {
	var fe *tracker.FailureError
	if errors.As(err, &fe) {
		target := fe.Package
		if fe.Version != "" && fe.Version != catalog.NotAvailable {
			target += " " + fe.Version
		}
		return fmt.Sprintf("failed to %s %s (enter for details)", fe.Op, target)
	}
	s, _, _ := strings.Cut(err.Error(), "\n")
	return s
}

func truncate(s string, n int) string {
	if n <= 3 || lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) > n-3 {
		r = r[:n-3]
	}
	return string(r) + "..."
}

func tailLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

// Run starts the TUI application. Debug lines go to the data dir when
// verbose is configured and are discarded otherwise.
func Run(cfg *config.Config, inst installer.Installer, historyStore *history.Store, fetch FetchFunc) error {
	if cfg.Output.Verbose {
		if err := config.EnsureDataDir(); err != nil {
			return err
		}
		f, err := tea.LogToFile(config.DebugLogPath(), "nexus")
		if err != nil {
			return err
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	app := NewApp(cfg, inst, historyStore, fetch)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
