package review

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	libdto "metis/internal/modules/library/dto"
	reviewdto "metis/internal/modules/review/dto"
	"metis/internal/ui/theme"
)

type Port interface {
	Due(ctx context.Context, today string) ([]reviewdto.ReviewOutput, error)
	Record(ctx context.Context, goalID, outcome string) (reviewdto.ReviewOutput, error)
	ListGoals(ctx context.Context, bookID string) ([]libdto.GoalOutput, error)
}

type card struct {
	item reviewdto.ReviewOutput
	text string
}

type LoadedMsg struct {
	cards []card
	err   error
}

// RecordedMsg reports the rescheduled item after a review.
type RecordedMsg struct {
	Item reviewdto.ReviewOutput
	Err  error
}

type RefreshMsg struct{}

// Model is the review deck: one due goal at a time, answered with a recall
// rating.
type Model struct {
	port   Port
	cards  []card
	status string
	width  int
	height int
}

func New(port Port) Model {
	return Model{port: port}
}

func (m Model) Init() tea.Cmd {
	return m.Load()
}

func (m Model) Load() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		due, err := m.port.Due(ctx, "")
		if err != nil {
			return LoadedMsg{err: err}
		}
		goals, err := m.port.ListGoals(ctx, "")
		if err != nil {
			return LoadedMsg{err: err}
		}
		texts := make(map[string]string, len(goals))
		for _, goal := range goals {
			texts[goal.ID] = goal.Text
		}
		cards := make([]card, 0, len(due))
		for _, item := range due {
			text, ok := texts[item.GoalID]
			if !ok {
				text = item.GoalID
			}
			cards = append(cards, card{item: item, text: text})
		}
		return LoadedMsg{cards: cards}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case RefreshMsg:
		return m, m.Load()

	case LoadedMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.cards = msg.cards

	case RecordedMsg:
		if msg.Err != nil {
			m.status = "review failed: " + msg.Err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("next review in %d day(s), on %s", msg.Item.Interval, msg.Item.DueDate)
		return m, m.Load()

	case tea.KeyMsg:
		if len(m.cards) == 0 {
			return m, nil
		}
		outcome := ""
		switch msg.String() {
		case "1":
			outcome = "forgot"
		case "2":
			outcome = "good"
		case "3":
			outcome = "perfect"
		}
		if outcome != "" {
			return m, m.recordCmd(m.cards[0].item.GoalID, outcome)
		}
	}
	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Review deck") + "\n\n")
	if len(m.cards) == 0 {
		sb.WriteString(theme.Muted.Render("Nothing due today.") + "\n")
	} else {
		current := m.cards[0]
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("%d due", len(m.cards))) + "\n\n")
		cardW := max(min(m.width-8, 72), 20)
		sb.WriteString(theme.PaneActive.Width(cardW).Render(
			theme.Hot.Render(current.text)+"\n\n"+
				"Explain this goal in your own words without looking at the book.",
		) + "\n\n")
		sb.WriteString(theme.Muted.Render("1: forgot  2: good  3: perfect") + "\n")
	}
	if m.status != "" {
		sb.WriteString("\n" + m.status + "\n")
	}
	return lipgloss.NewStyle().Width(m.width).Height(m.height).Padding(1, 2).Render(sb.String())
}

func (m Model) recordCmd(goalID, outcome string) tea.Cmd {
	return func() tea.Msg {
		item, err := m.port.Record(context.Background(), goalID, outcome)
		return RecordedMsg{Item: item, Err: err}
	}
}
