package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	libdto "metis/internal/modules/library/dto"
	reviewdto "metis/internal/modules/review/dto"
	sessiondto "metis/internal/modules/session/dto"
	"metis/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	ListBooks(ctx context.Context) ([]libdto.BookOutput, error)
	ListGoals(ctx context.Context, bookID string) ([]libdto.GoalOutput, error)
	CurrentGoal(ctx context.Context) (libdto.CurrentGoalOutput, error)
	Streak(ctx context.Context) (sessiondto.StreakOutput, error)
	Due(ctx context.Context, today string) ([]reviewdto.ReviewOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

// Snapshot is everything the dashboard shows, loaded in one go.
type Snapshot struct {
	Books   []libdto.BookOutput
	Goals   []libdto.GoalOutput
	Current libdto.CurrentGoalOutput
	Streak  sessiondto.StreakOutput
	DueN    int
}

type LoadedMsg struct {
	Snapshot Snapshot
	Err      error
}

// RefreshMsg asks the dashboard to reload, e.g. after a session finished.
type RefreshMsg struct{}

// ─── list item ───────────────────────────────────────────────────────────────

type goalItem struct {
	goal libdto.GoalOutput
}

func (i goalItem) Title() string       { return i.goal.Text }
func (i goalItem) Description() string { return fmt.Sprintf("%s  level %d", i.goal.Status, i.goal.Level) }
func (i goalItem) FilterValue() string { return i.goal.Text }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port     Port
	list     list.Model
	snapshot Snapshot
	detail   viewport.Model
	spinner  spinner.Model
	loading  bool
	err      error
	width    int
	height   int
}

func New(port Port) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Goals"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{port: port, list: l, detail: vp, spinner: sp, loading: true}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Load(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case RefreshMsg:
		return m, m.Load()

	case LoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err != nil {
			m.detail.SetContent(theme.Alert.Render(msg.Err.Error()))
			return m, nil
		}
		m.snapshot = msg.Snapshot
		items := make([]list.Item, len(msg.Snapshot.Goals))
		for i, goal := range msg.Snapshot.Goals {
			items[i] = goalItem{goal: goal}
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.detail.SetContent(m.renderDetail())

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		var lCmd, vCmd tea.Cmd
		m.list, lCmd = m.list.Update(msg)
		m.detail, vCmd = m.detail.Update(msg)
		cmds = append(cmds, lCmd, vCmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading…")
	}

	listW := m.width * 5 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.detail.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// SelectedGoalID returns the goal under the cursor, if any.
func (m Model) SelectedGoalID() (string, bool) {
	if item, ok := m.list.SelectedItem().(goalItem); ok {
		return item.goal.ID, true
	}
	return "", false
}

// HasCurrentGoal reports whether a session can be started.
func (m Model) HasCurrentGoal() bool {
	return m.snapshot.Current.Found
}

func (m Model) CurrentGoalText() string {
	return m.snapshot.Current.Goal.Text
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Load fetches a fresh snapshot.
func (m Model) Load() tea.Cmd {
	return func() tea.Msg {
		snapshot, err := load(context.Background(), m.port)
		return LoadedMsg{Snapshot: snapshot, Err: err}
	}
}

// ─── private ─────────────────────────────────────────────────────────────────

func load(ctx context.Context, port Port) (Snapshot, error) {
	var (
		out Snapshot
		err error
	)
	if out.Books, err = port.ListBooks(ctx); err != nil {
		return Snapshot{}, err
	}
	if out.Current, err = port.CurrentGoal(ctx); err != nil {
		return Snapshot{}, err
	}
	if len(out.Books) > 0 && out.Books[0].Role == "main" {
		if out.Goals, err = port.ListGoals(ctx, out.Books[0].ID); err != nil {
			return Snapshot{}, err
		}
	}
	if out.Streak, err = port.Streak(ctx); err != nil {
		return Snapshot{}, err
	}
	due, err := port.Due(ctx, "")
	if err != nil {
		return Snapshot{}, err
	}
	out.DueN = len(due)
	return out, nil
}

func (m *Model) resize() {
	listW := m.width * 5 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.detail.Width = detailW - 4
	m.detail.Height = m.height - 4
}

func (m Model) renderDetail() string {
	s := m.snapshot
	var sb strings.Builder
	others := s.Books
	if len(s.Books) == 0 || s.Books[0].Role != "main" {
		sb.WriteString(theme.Muted.Render("No main book yet.") + "\n")
		sb.WriteString(theme.Muted.Render("Add one with  :book:add main <title>") + "\n\n")
	} else {
		main := s.Books[0]
		others = s.Books[1:]
		sb.WriteString(theme.Title.Render(main.Title) + "\n")
		sb.WriteString(theme.Muted.Render("cover: ") + main.CoverURL + "\n\n")
	}
	if s.Current.Found {
		sb.WriteString(theme.Muted.Render("current goal: ") + s.Current.Goal.Text + "\n")
		sb.WriteString(fmt.Sprintf("%s%d\n\n", theme.Muted.Render("level:        "), s.Current.Goal.Level))
	} else {
		sb.WriteString(theme.Muted.Render("No goal in progress. Set one with  :goal:set <level> <text>") + "\n\n")
	}
	sb.WriteString(theme.Hot.Render(fmt.Sprintf("● %d day streak", s.Streak.Days)) + "\n")
	if s.Streak.LastSessionDate != "" {
		sb.WriteString(theme.Muted.Render("last session: ") + s.Streak.LastSessionDate + "\n")
	}
	sb.WriteString(fmt.Sprintf("%s%d\n", theme.Muted.Render("reviews due:  "), s.DueN))

	if len(others) > 0 {
		sb.WriteString("\n" + theme.Title.Render("Other books") + "\n")
		for _, book := range others {
			sb.WriteString("  " + book.Title + "\n")
		}
	}
	sb.WriteString("\n" + theme.Muted.Render("s: start session  :goal:move <status>: move selected goal"))
	return sb.String()
}
