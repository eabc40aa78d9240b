package out_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sessionout "metis/internal/modules/session/adapter/out"
	"metis/internal/modules/session/domain"
	"metis/internal/platform/markdown"
)

func TestVaultJournalWritesNote(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	journal := sessionout.NewVaultJournal(dir, time.UTC)
	start := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	record := domain.Record{
		GoalID:         "g1",
		StartTime:      start,
		EndTime:        start.Add(40 * time.Minute),
		UserPrediction: "I know the main cast",
		BrainDump:      "Paul, Jessica and the spice",
		AIFeedback:     "feedback",
	}
	goal := domain.GoalSnapshot{ID: "g1", BookTitle: "Dune", Text: "Name the houses", Level: 2}

	path, err := journal.Write(context.Background(), record, goal)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	want := filepath.Join(dir, "2026", "03", "14", "093000-name-the-houses.md")
	if path != want {
		t.Fatalf("unexpected path %s", path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	var meta sessionout.JournalMeta
	body, err := markdown.Parse(string(raw), &meta)
	if err != nil {
		t.Fatalf("parse note: %v", err)
	}
	if meta.GoalID != "g1" || meta.Book != "Dune" || meta.DurationMinutes != 40 || meta.Level != 2 {
		t.Fatalf("unexpected meta %+v", meta)
	}
	if !strings.Contains(body, "Paul, Jessica and the spice") || !strings.Contains(body, "## Gap\n\n_nothing recorded_") {
		t.Fatalf("unexpected body:\n%s", body)
	}
}
