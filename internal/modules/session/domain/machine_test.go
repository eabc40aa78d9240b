package domain_test

import (
	"strings"
	"testing"
	"time"

	"metis/internal/modules/session/domain"
)

var goal = domain.GoalSnapshot{ID: "g1", BookID: "b1", Text: "explain closures", Level: 2}

func TestMachineWalksStagesInOrder(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)
	m := domain.NewMachine(goal, start, "closures capture variables")

	steps := []struct {
		trigger domain.Trigger
		payload string
		want    domain.Stage
	}{
		{domain.TriggerTimer, "", domain.StageBrainDump},
		{domain.TriggerSubmit, "x", domain.StagePrediction},
		{domain.TriggerSubmit, "y", domain.StageComparison},
		{domain.TriggerSubmit, "", domain.StageGapAnalysis},
		{domain.TriggerSubmit, "z", domain.StageCompletion},
	}
	for _, step := range steps {
		if !m.Advance(m.Stage(), step.trigger, step.payload) {
			t.Fatalf("advance to %s rejected", step.want)
		}
		if m.Stage() != step.want {
			t.Fatalf("expected %s, got %s", step.want, m.Stage())
		}
	}
	if m.Advance(domain.StageCompletion, domain.TriggerSubmit, "") {
		t.Fatalf("completion is terminal")
	}

	record, err := m.Record(start.Add(40 * time.Minute))
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if record.GoalID != "g1" || record.BrainDump != "x" || record.Prediction != "y" || record.Gap != "z" {
		t.Fatalf("unexpected record %+v", record)
	}
	if record.UserPrediction != "closures capture variables" || record.Duration() != 40*time.Minute {
		t.Fatalf("unexpected record metadata %+v", record)
	}
	if record.AIFeedback != domain.ComposeFeedback("x", goal) {
		t.Fatalf("feedback should be computed from the brain dump, got %q", record.AIFeedback)
	}
}

func TestMachineIgnoresStaleAndInvalidTriggers(t *testing.T) {
	t.Parallel()
	m := domain.NewMachine(goal, time.Now(), "")

	if !m.Advance(domain.StageFocusedReading, domain.TriggerSubmit, "") {
		t.Fatalf("focused reading can be skipped")
	}
	if m.Advance(domain.StageFocusedReading, domain.TriggerTimer, "") {
		t.Fatalf("late focus timer must be a no-op")
	}
	if m.Stage() != domain.StageBrainDump {
		t.Fatalf("stale trigger moved the machine to %s", m.Stage())
	}
	if m.Advance(domain.StageBrainDump, domain.Trigger("poke"), "") {
		t.Fatalf("unknown trigger must be rejected")
	}

	m.SetPending("typed before the timer ran out")
	if !m.Advance(domain.StageBrainDump, domain.TriggerTimer, "") {
		t.Fatalf("brain dump timer should advance")
	}
	if m.Draft().BrainDump != "typed before the timer ran out" {
		t.Fatalf("timer expiry should keep the pending text, got %q", m.Draft().BrainDump)
	}
	if m.Advance(domain.StageBrainDump, domain.TriggerSubmit, "late submit") {
		t.Fatalf("submit after timer expiry must be a no-op")
	}
	if m.Draft().BrainDump != "typed before the timer ran out" {
		t.Fatalf("stale submit overwrote the brain dump")
	}
	if m.Advance(domain.StagePrediction, domain.TriggerTimer, "") {
		t.Fatalf("prediction is untimed")
	}
	if _, err := m.Record(time.Now()); err == nil {
		t.Fatalf("record before completion should fail")
	}
}

func TestMachineComputesFeedbackOnce(t *testing.T) {
	t.Parallel()
	m := domain.NewMachine(goal, time.Now(), "")
	m.Advance(domain.StageFocusedReading, domain.TriggerTimer, "")
	m.Advance(domain.StageBrainDump, domain.TriggerSubmit, "closures keep their environment alive")
	m.Advance(domain.StagePrediction, domain.TriggerSubmit, "it will say I missed escape analysis")
	first := m.Draft().AIFeedback
	if first == "" {
		t.Fatalf("feedback should be set on entering comparison")
	}
	m.Advance(domain.StageComparison, domain.TriggerSubmit, "")
	if m.Draft().AIFeedback != first {
		t.Fatalf("feedback changed after comparison")
	}
}

func TestComposeFeedbackIsDeterministic(t *testing.T) {
	t.Parallel()
	short := domain.ComposeFeedback("   too short   ", goal)
	if short != domain.ComposeFeedback("tiny", goal) {
		t.Fatalf("short brain dumps should share one message")
	}
	long := domain.ComposeFeedback("a long enough brain dump", goal)
	if long == short || !strings.Contains(long, "explain closures") {
		t.Fatalf("expected goal-specific feedback, got %q", long)
	}
	if long != domain.ComposeFeedback("a long enough brain dump", goal) {
		t.Fatalf("feedback must be deterministic")
	}
	if domain.ComposeFeedback("", goal) != short {
		t.Fatalf("empty brain dump should be too short")
	}
}

func TestRecordValidate(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)
	base := domain.Record{GoalID: "g1", StartTime: start, EndTime: start.Add(time.Minute)}
	if err := base.Validate(); err != nil {
		t.Fatalf("record should be valid: %v", err)
	}
	backwards := base
	backwards.EndTime = start.Add(-time.Minute)
	if err := backwards.Validate(); err == nil {
		t.Fatalf("end before start should fail")
	}
	orphan := base
	orphan.GoalID = ""
	if err := orphan.Validate(); err == nil {
		t.Fatalf("missing goal id should fail")
	}
}

func TestRecordClampsEndTimeBeforeStart(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)
	m := domain.NewMachine(goal, start, "")
	for m.Stage() != domain.StageCompletion {
		if !m.Advance(m.Stage(), domain.TriggerSubmit, "text") {
			t.Fatalf("advance from %s rejected", m.Stage())
		}
	}
	record, err := m.Record(start.Add(-2 * time.Second))
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if !record.EndTime.Equal(start) || record.Duration() != 0 {
		t.Fatalf("end time should be clamped to the start, got %s", record.EndTime)
	}
	if err := record.Validate(); err != nil {
		t.Fatalf("clamped record should be valid: %v", err)
	}
}
