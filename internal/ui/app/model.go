package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	libdto "metis/internal/modules/library/dto"
	reviewdto "metis/internal/modules/review/dto"
	sessiondto "metis/internal/modules/session/dto"
	"metis/internal/ui/components"
	"metis/internal/ui/theme"
	dashboardview "metis/internal/ui/views/dashboard"
	reviewview "metis/internal/ui/views/review"
	sessionview "metis/internal/ui/views/session"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type LibraryPort interface {
	AddBook(ctx context.Context, title, coverURL, role string) (libdto.BookOutput, error)
	ListBooks(ctx context.Context) ([]libdto.BookOutput, error)
	SetGoal(ctx context.Context, text string, level int) (libdto.GoalOutput, error)
	ListGoals(ctx context.Context, bookID string) ([]libdto.GoalOutput, error)
	CurrentGoal(ctx context.Context) (libdto.CurrentGoalOutput, error)
	MoveGoal(ctx context.Context, goalID, status string) (libdto.GoalOutput, error)
}

type SessionPort interface {
	sessionview.Port
	Streak(ctx context.Context) (sessiondto.StreakOutput, error)
}

type ReviewPort interface {
	Due(ctx context.Context, today string) ([]reviewdto.ReviewOutput, error)
	Record(ctx context.Context, goalID, outcome string) (reviewdto.ReviewOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabDashboard tabID = iota
	tabSession
	tabReview
	tabCount
)

var tabLabels = [tabCount]string{
	"Dashboard", "Session", "Review",
}

// ─── async messages ───────────────────────────────────────────────────────────

type libraryChangedMsg struct {
	status string
	err    error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Session key.Binding
	Submit  key.Binding
	Leave   key.Binding
	Rate    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Session: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start session")),
		Submit:  key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit text")),
		Leave:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "abandon session")),
		Rate:    key.NewBinding(key.WithKeys("1", "2", "3"), key.WithHelp("1/2/3", "forgot/good/perfect")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Session},
		{k.Submit, k.Leave},
		{k.Rate},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the help overlay
// and the command palette. Leaving the Session tab abandons a running
// session.
type Model struct {
	library LibraryPort

	dashView    dashboardview.Model
	sessionView sessionview.Model
	reviewView  reviewview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(library LibraryPort, session SessionPort, review ReviewPort, startTab string) Model {
	m := Model{
		library:     library,
		dashView:    dashboardview.New(dashboardBridge{library: library, session: session, review: review}),
		sessionView: sessionview.New(session),
		reviewView:  reviewview.New(reviewBridge{library: library, review: review}),
		activeTab:   tabDashboard,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(),
		status:      "ready",
	}
	switch startTab {
	case "session":
		m.activeTab = tabSession
	case "review":
		m.activeTab = tabReview
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.dashView.Init(), m.reviewView.Init()}
	if m.activeTab == tabSession {
		cmds = append(cmds, m.askCmd())
	}
	return tea.Batch(cmds...)
}

// askCmd opens the pre-session question once the dashboard knows the goal.
func (m Model) askCmd() tea.Cmd {
	library := m.library
	return func() tea.Msg {
		current, err := library.CurrentGoal(context.Background())
		if err != nil || !current.Found {
			return libraryChangedMsg{status: "no goal in progress", err: err}
		}
		return askMsg{goal: current.Goal.Text}
	}
}

type askMsg struct{ goal string }

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case askMsg:
		m.activeTab = tabSession
		cmd := m.sessionView.Ask(msg.goal)
		return m, cmd

	case libraryChangedMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
		} else {
			m.status = msg.status
		}
		return m, m.refreshCmd()

	case sessionview.FinishedMsg:
		m.status = "session recorded"
		return m, m.refreshCmd()

	case sessionview.LeftMsg:
		m.status = "session abandoned"
		return m, nil

	case reviewview.RecordedMsg:
		var cmd tea.Cmd
		m.reviewView, cmd = m.reviewView.Update(msg)
		return m, tea.Batch(cmd, m.dashView.Load())

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab":
			return m.switchTab((m.activeTab + 1) % tabCount)
		case "shift+tab":
			return m.switchTab((m.activeTab + tabCount - 1) % tabCount)
		}

		// Yield to text fields and list filters.
		if (m.activeTab == tabSession && m.sessionView.Capturing()) ||
			(m.activeTab == tabDashboard && m.dashView.Filtering()) {
			break
		}

		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			cmd := m.palette.Open()
			return m, cmd
		case "s":
			if m.activeTab == tabDashboard {
				return m.startSession()
			}
		}
	}

	// Messages not handled above belong to the sub-views. Async results are
	// routed to every view; key presses only to the active tab.
	if _, isKey := msg.(tea.KeyMsg); isKey {
		var cmd tea.Cmd
		switch m.activeTab {
		case tabDashboard:
			m.dashView, cmd = m.dashView.Update(msg)
		case tabSession:
			m.sessionView, cmd = m.sessionView.Update(msg)
		case tabReview:
			m.reviewView, cmd = m.reviewView.Update(msg)
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.dashView, cmd = m.dashView.Update(msg)
	cmds = append(cmds, cmd)
	m.sessionView, cmd = m.sessionView.Update(msg)
	cmds = append(cmds, cmd)
	m.reviewView, cmd = m.reviewView.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) switchTab(next tabID) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.activeTab == tabSession && next != tabSession && m.sessionView.Running() {
		cmd = m.sessionView.Abandon()
	}
	m.activeTab = next
	return m, cmd
}

func (m Model) startSession() (tea.Model, tea.Cmd) {
	if !m.dashView.HasCurrentGoal() {
		m.status = "set a goal for the main book first"
		return m, nil
	}
	m.activeTab = tabSession
	cmd := m.sessionView.Ask(m.dashView.CurrentGoalText())
	return m, cmd
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabDashboard:
		return m.dashView.View()
	case tabSession:
		return m.sessionView.View()
	case tabReview:
		return m.reviewView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "metis  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.sessionView.Running() {
		left = theme.Hot.Render("● session") + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "session:start":
		return m.startSession()

	case "session:abandon":
		if !m.sessionView.Running() {
			m.status = "no session running"
			return m, nil
		}
		cmd := m.sessionView.Abandon()
		return m, cmd

	case "book:add":
		if len(parts) < 3 {
			m.status = "usage: book:add <main|secondary> <title>"
			return m, nil
		}
		title := strings.TrimSpace(strings.TrimPrefix(input, parts[0]+" "+parts[1]))
		return m, m.addBookCmd(parts[1], title)

	case "goal:set":
		if len(parts) < 3 {
			m.status = "usage: goal:set <level> <text>"
			return m, nil
		}
		level, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid level"
			return m, nil
		}
		text := strings.TrimSpace(strings.TrimPrefix(input, parts[0]+" "+parts[1]))
		return m, m.setGoalCmd(text, level)

	case "goal:move":
		if len(parts) < 2 {
			m.status = "usage: goal:move <todo|in-progress|completed>"
			return m, nil
		}
		selected, ok := m.dashView.SelectedGoalID()
		if !ok {
			m.status = "no goal selected"
			return m, nil
		}
		return m, m.moveGoalCmd(selected, parts[1])

	case "review:refresh":
		m.activeTab = tabReview
		return m, m.reviewView.Load()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.dashView, _ = m.dashView.Update(sz)
	m.sessionView, _ = m.sessionView.Update(sz)
	m.reviewView, _ = m.reviewView.Update(sz)
}

func (m Model) refreshCmd() tea.Cmd {
	return tea.Batch(m.dashView.Load(), m.reviewView.Load())
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) addBookCmd(role, title string) tea.Cmd {
	return func() tea.Msg {
		book, err := m.library.AddBook(context.Background(), title, "", role)
		return libraryChangedMsg{status: fmt.Sprintf("added %s book %q", book.Role, book.Title), err: err}
	}
}

func (m Model) setGoalCmd(text string, level int) tea.Cmd {
	return func() tea.Msg {
		goal, err := m.library.SetGoal(context.Background(), text, level)
		return libraryChangedMsg{status: "goal in progress: " + goal.Text, err: err}
	}
}

func (m Model) moveGoalCmd(goalID, status string) tea.Cmd {
	return func() tea.Msg {
		goal, err := m.library.MoveGoal(context.Background(), goalID, status)
		return libraryChangedMsg{status: fmt.Sprintf("moved %q to %s", goal.Text, goal.Status), err: err}
	}
}

// ─── port bridges ─────────────────────────────────────────────────────────────
// Each bridge narrows the broad ports to the interface a sub-view needs.

type dashboardBridge struct {
	library LibraryPort
	session SessionPort
	review  ReviewPort
}

func (b dashboardBridge) ListBooks(ctx context.Context) ([]libdto.BookOutput, error) {
	return b.library.ListBooks(ctx)
}
func (b dashboardBridge) ListGoals(ctx context.Context, bookID string) ([]libdto.GoalOutput, error) {
	return b.library.ListGoals(ctx, bookID)
}
func (b dashboardBridge) CurrentGoal(ctx context.Context) (libdto.CurrentGoalOutput, error) {
	return b.library.CurrentGoal(ctx)
}
func (b dashboardBridge) Streak(ctx context.Context) (sessiondto.StreakOutput, error) {
	return b.session.Streak(ctx)
}
func (b dashboardBridge) Due(ctx context.Context, today string) ([]reviewdto.ReviewOutput, error) {
	return b.review.Due(ctx, today)
}

type reviewBridge struct {
	library LibraryPort
	review  ReviewPort
}

func (b reviewBridge) Due(ctx context.Context, today string) ([]reviewdto.ReviewOutput, error) {
	return b.review.Due(ctx, today)
}
func (b reviewBridge) Record(ctx context.Context, goalID, outcome string) (reviewdto.ReviewOutput, error) {
	return b.review.Record(ctx, goalID, outcome)
}
func (b reviewBridge) ListGoals(ctx context.Context, bookID string) ([]libdto.GoalOutput, error) {
	return b.library.ListGoals(ctx, bookID)
}
