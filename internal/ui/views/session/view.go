package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "metis/internal/modules/session/dto"
	"metis/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	Start(ctx context.Context, userPrediction string) (sessiondto.StartOutput, error)
	Submit(ctx context.Context, stage int, text string) (sessiondto.StateOutput, error)
	UpdateInput(ctx context.Context, text string) error
	Abandon(ctx context.Context) error
	State(ctx context.Context) (sessiondto.StateOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type tickMsg time.Time

// stateMsg answers a submit or a poll. seq is the request generation it was
// issued in; answers from an older generation are dropped.
type stateMsg struct {
	state  sessiondto.StateOutput
	err    error
	seq    int
	submit bool
}

type startedMsg struct {
	out sessiondto.StartOutput
	err error
}

// FinishedMsg is emitted once a session reached its last stage and was
// recorded.
type FinishedMsg struct {
	State sessiondto.StateOutput
}

// LeftMsg is emitted when the learner walks away from a running session.
type LeftMsg struct{}

type mode int

const (
	modeIdle mode = iota
	modeAsking
	modeRunning
	modeDone
)

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port   Port
	mode   mode
	goal   string
	state  sessiondto.StateOutput
	final  sessiondto.StateOutput
	ask    textinput.Model
	input  textarea.Model
	status string
	width  int
	height int

	// seq is bumped by every submit and by abandon. inflight is set while a
	// submit is unanswered; polls answered meanwhile are ignored.
	seq      int
	inflight bool
}

func New(port Port) Model {
	ask := textinput.New()
	ask.Placeholder = "one sentence…"
	ask.CharLimit = 280

	ta := textarea.New()
	ta.Placeholder = "write here…"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0

	return Model{port: port, ask: ask, input: ta}
}

// Ask shows the question asked before a session starts.
func (m *Model) Ask(goalText string) tea.Cmd {
	if m.mode == modeRunning {
		return nil
	}
	m.mode = modeAsking
	m.goal = goalText
	m.status = ""
	m.ask.SetValue("")
	return m.ask.Focus()
}

// Running reports whether a session is live.
func (m Model) Running() bool { return m.mode == modeRunning }

// Capturing reports whether keystrokes belong to a text field.
func (m Model) Capturing() bool {
	return m.mode == modeAsking || (m.mode == modeRunning && m.input.Focused())
}

// Abandon stops a running session without recording it.
func (m *Model) Abandon() tea.Cmd {
	if m.mode != modeRunning {
		return nil
	}
	m.mode = modeIdle
	m.state = sessiondto.StateOutput{}
	m.input.Blur()
	m.seq++
	m.inflight = false
	port := m.port
	return func() tea.Msg {
		_ = port.Abandon(context.Background())
		return LeftMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(max(m.width-8, 20))
		m.input.SetHeight(max(m.height/3, 5))
		m.ask.Width = max(m.width-8, 20)
		return m, nil

	case startedMsg:
		if msg.err != nil {
			m.mode = modeIdle
			m.status = "session start failed: " + msg.err.Error()
			return m, nil
		}
		if !msg.out.Started {
			m.mode = modeIdle
			m.status = "no goal in progress"
			return m, nil
		}
		m.mode = modeRunning
		return m.applyState(msg.out.State), tick()

	case tickMsg:
		if m.mode != modeRunning {
			return m, nil
		}
		return m, tea.Batch(m.pollCmd(), tick())

	case stateMsg:
		if msg.seq != m.seq || (m.inflight && !msg.submit) {
			return m, nil
		}
		if msg.submit {
			m.inflight = false
		}
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		if m.mode != modeRunning {
			return m, nil
		}
		if msg.state.Completed {
			m.mode = modeDone
			m.final = msg.state
			m.state = sessiondto.StateOutput{}
			m.input.Blur()
			final := msg.state
			return m, func() tea.Msg { return FinishedMsg{State: final} }
		}
		if !msg.state.Active {
			m.mode = modeIdle
			m.state = sessiondto.StateOutput{}
			return m, nil
		}
		return m.applyState(msg.state), nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.mode {
	case modeAsking:
		switch msg.String() {
		case "esc":
			m.mode = modeIdle
			m.ask.Blur()
			return m, nil
		case "enter":
			answer := strings.TrimSpace(m.ask.Value())
			m.ask.Blur()
			return m, m.startCmd(answer)
		}
		var cmd tea.Cmd
		m.ask, cmd = m.ask.Update(msg)
		return m, cmd

	case modeRunning:
		if msg.String() == "esc" {
			cmd := m.Abandon()
			return m, cmd
		}
		if m.input.Focused() {
			if msg.String() == "ctrl+s" {
				return m.submit(m.input.Value())
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, tea.Batch(cmd, m.updateInputCmd(m.input.Value()))
		}
		if msg.String() == "enter" {
			return m.submit("")
		}

	case modeDone:
		if msg.String() == "enter" || msg.String() == "esc" {
			m.mode = modeIdle
			m.final = sessiondto.StateOutput{}
		}
	}
	return m, nil
}

// applyState adopts a fresh controller state and resets the text field
// whenever the stage changed.
func (m Model) applyState(state sessiondto.StateOutput) Model {
	changed := state.CurrentStage != m.state.CurrentStage
	m.state = state
	if !changed {
		return m
	}
	m.input.Reset()
	if acceptsInput(state.CurrentStage) {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
	return m
}

func (m Model) View() string {
	var body string
	switch m.mode {
	case modeAsking:
		body = m.viewAsk()
	case modeRunning:
		body = m.viewStage()
	case modeDone:
		body = m.viewDone()
	default:
		body = theme.Muted.Render("No session running. Press s on the dashboard to start one.")
		if m.status != "" {
			body += "\n\n" + theme.Alert.Render(m.status)
		}
	}
	return lipgloss.NewStyle().Width(m.width).Height(m.height).Padding(1, 2).Render(body)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) viewAsk() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Before you start") + "\n\n")
	sb.WriteString(fmt.Sprintf("Today's goal is '%s'. What do you expect to understand once you reach it?\n", m.goal))
	sb.WriteString("Answer in one sentence.\n\n")
	sb.WriteString(m.ask.View() + "\n\n")
	sb.WriteString(theme.Muted.Render("enter: start  esc: cancel"))
	return sb.String()
}

func (m Model) viewStage() string {
	s := m.state
	var sb strings.Builder
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("goal: %s  ·  stage %d/6", s.GoalText, s.CurrentStage)) + "\n\n")
	switch s.CurrentStage {
	case 1:
		sb.WriteString(theme.Title.Render("Focused reading") + "\n")
		sb.WriteString("Read with the goal in mind.\n\n")
		sb.WriteString(theme.Timer.Render(clock(s.TimeRemaining)) + "\n\n")
		sb.WriteString(theme.Muted.Render("enter: skip ahead  esc: abandon"))
	case 2:
		sb.WriteString(theme.Title.Render("Brain dump") + "\n")
		sb.WriteString("Write down what you just read and what you think about it.\n\n")
		sb.WriteString(theme.Timer.Render(clock(s.TimeRemaining)) + "\n\n")
		sb.WriteString(m.input.View() + "\n\n")
		sb.WriteString(theme.Muted.Render("ctrl+s: submit  esc: abandon"))
	case 3:
		sb.WriteString(theme.Title.Render("Predict the feedback") + "\n")
		sb.WriteString("What will the feedback on your notes say? What did you miss or misread?\n\n")
		sb.WriteString(m.input.View() + "\n\n")
		sb.WriteString(theme.Muted.Render("ctrl+s: submit and compare  esc: abandon"))
	case 4:
		sb.WriteString(theme.Title.Render("Compare") + "\n\n")
		sb.WriteString(m.viewComparison() + "\n\n")
		sb.WriteString(theme.Muted.Render("enter: done  esc: abandon"))
	case 5:
		sb.WriteString(theme.Title.Render("Gap analysis") + "\n")
		sb.WriteString("What was the biggest difference between the feedback and your prediction?\n\n")
		sb.WriteString(m.input.View() + "\n\n")
		sb.WriteString(theme.Muted.Render("ctrl+s: finish  esc: abandon"))
	}
	return sb.String()
}

func (m Model) viewComparison() string {
	colW := max((m.width-12)/3, 16)
	column := func(title, text string) string {
		if strings.TrimSpace(text) == "" {
			text = theme.Muted.Render("nothing recorded")
		}
		return theme.Pane.Width(colW).Render(theme.Hot.Render(title) + "\n\n" + text)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		column("Your notes", m.state.BrainDump),
		column("Feedback", m.state.AIFeedback),
		column("Your prediction", m.state.Prediction),
	)
}

func (m Model) viewDone() string {
	var sb strings.Builder
	sb.WriteString(theme.Good.Render("Session complete") + "\n\n")
	sb.WriteString("Your session was recorded. Revisit it from the Review tab when it comes due.\n")
	if m.final.JournalPath != "" {
		sb.WriteString("\n" + theme.Muted.Render("journal: ") + m.final.JournalPath + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("enter: close"))
	return sb.String()
}

func acceptsInput(stage int) bool {
	return stage == 2 || stage == 3 || stage == 5
}

func clock(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) startCmd(answer string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Start(context.Background(), answer)
		return startedMsg{out: out, err: err}
	}
}

func (m Model) submit(text string) (Model, tea.Cmd) {
	m.seq++
	m.inflight = true
	port, stage, seq := m.port, m.state.CurrentStage, m.seq
	return m, func() tea.Msg {
		state, err := port.Submit(context.Background(), stage, text)
		return stateMsg{state: state, err: err, seq: seq, submit: true}
	}
}

func (m Model) updateInputCmd(text string) tea.Cmd {
	return func() tea.Msg {
		_ = m.port.UpdateInput(context.Background(), text)
		return nil
	}
}

func (m Model) pollCmd() tea.Cmd {
	port, seq := m.port, m.seq
	return func() tea.Msg {
		state, err := port.State(context.Background())
		return stateMsg{state: state, err: err, seq: seq}
	}
}
