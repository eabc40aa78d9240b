package date_test

import (
	"encoding/json"
	"testing"
	"time"

	"metis/internal/platform/date"
)

func TestAddDaysCrossesMonthAndYear(t *testing.T) {
	t.Parallel()
	d := date.New(2026, time.December, 31)
	if got := d.AddDays(1).String(); got != "2027-01-01" {
		t.Fatalf("expected 2027-01-01, got %s", got)
	}
	if got := date.New(2026, time.March, 1).AddDays(-1).String(); got != "2026-02-28" {
		t.Fatalf("expected 2026-02-28, got %s", got)
	}
}

func TestInUsesLocationCalendarDay(t *testing.T) {
	t.Parallel()
	loc := time.FixedZone("KST", 9*60*60)
	instant := time.Date(2026, 2, 25, 20, 0, 0, 0, time.UTC)
	if got := date.In(instant, loc).String(); got != "2026-02-26" {
		t.Fatalf("expected local day 2026-02-26, got %s", got)
	}
	if got := date.In(instant, nil).String(); got != "2026-02-25" {
		t.Fatalf("expected utc day 2026-02-25, got %s", got)
	}
}

func TestParseAndJSON(t *testing.T) {
	t.Parallel()
	d, err := date.Parse("2026-02-25")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	zero, err := date.Parse("  ")
	if err != nil || !zero.IsZero() {
		t.Fatalf("blank should parse to zero date, got %v %v", zero, err)
	}
	if _, err := date.Parse("25/02/2026"); err == nil {
		t.Fatalf("expected parse error")
	}

	payload, err := json.Marshal(struct {
		Due  date.Date `json:"due"`
		Last date.Date `json:"last"`
	}{Due: d})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(payload) != `{"due":"2026-02-25","last":null}` {
		t.Fatalf("unexpected json %s", payload)
	}

	var decoded struct {
		Due  date.Date `json:"due"`
		Last date.Date `json:"last"`
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !decoded.Due.Equal(d) || !decoded.Last.IsZero() {
		t.Fatalf("round trip mismatch: %s vs %s, last=%s", decoded.Due, d, decoded.Last)
	}
	legacy := struct {
		Last date.Date `json:"last"`
	}{Last: d}
	if err := json.Unmarshal([]byte(`{"last":""}`), &legacy); err != nil || !legacy.Last.IsZero() {
		t.Fatalf("empty string should decode to the zero date, got %s %v", legacy.Last, err)
	}
}

func TestOrdering(t *testing.T) {
	t.Parallel()
	a := date.New(2026, 2, 25)
	b := a.AddDays(1)
	if !a.Before(b) || !b.After(a) || a.Equal(b) {
		t.Fatalf("ordering broken for %s and %s", a, b)
	}
}
