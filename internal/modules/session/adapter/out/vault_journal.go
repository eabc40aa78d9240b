package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"metis/internal/modules/session/domain"
	sessionout "metis/internal/modules/session/port/out"
	"metis/internal/platform/markdown"
	"metis/internal/platform/slug"
)

// JournalMeta is the frontmatter of a session note.
type JournalMeta struct {
	SchemaVersion   int    `yaml:"schema_version"`
	GoalID          string `yaml:"goal_id"`
	Goal            string `yaml:"goal"`
	Level           int    `yaml:"level"`
	Book            string `yaml:"book,omitempty"`
	StartedAt       string `yaml:"started_at"`
	EndedAt         string `yaml:"ended_at"`
	DurationMinutes int    `yaml:"duration_minutes"`
}

// VaultJournal writes one markdown note per finished session under
// dir/YYYY/MM/DD.
type VaultJournal struct {
	dir string
	loc *time.Location
}

func NewVaultJournal(dir string, loc *time.Location) sessionout.Journal {
	if loc == nil {
		loc = time.Local
	}
	return &VaultJournal{dir: dir, loc: loc}
}

func (j *VaultJournal) Write(_ context.Context, record domain.Record, goal domain.GoalSnapshot) (string, error) {
	started := record.StartTime.In(j.loc)
	dir := filepath.Join(j.dir, started.Format("2006"), started.Format("01"), started.Format("02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create journal dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s.md", started.Format("150405"), slug.Make(goal.Text))
	path := filepath.Join(dir, name)

	meta := JournalMeta{
		SchemaVersion:   domain.SchemaVersion,
		GoalID:          record.GoalID,
		Goal:            goal.Text,
		Level:           goal.Level,
		Book:            goal.BookTitle,
		StartedAt:       record.StartTime.Format(time.RFC3339),
		EndedAt:         record.EndTime.Format(time.RFC3339),
		DurationMinutes: int(record.Duration().Minutes()),
	}
	body := strings.Join([]string{
		"# " + goal.Text,
		section("Expectation", record.UserPrediction),
		section("Brain dump", record.BrainDump),
		section("Predicted feedback", record.Prediction),
		section("Feedback", record.AIFeedback),
		section("Gap", record.Gap),
	}, "\n\n") + "\n"
	rendered, err := markdown.Render(meta, body)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write journal note: %w", err)
	}
	return path, nil
}

func section(title, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		text = "_nothing recorded_"
	}
	return "## " + title + "\n\n" + text
}
