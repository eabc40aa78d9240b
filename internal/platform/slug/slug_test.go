package slug_test

import (
	"strings"
	"testing"

	"metis/internal/platform/slug"
)

func TestMake(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"Summarise Part One!":   "summarise-part-one",
		"  chapter 3: the end ": "chapter-3-the-end",
		"???":                   "session",
	}
	for in, want := range cases {
		if got := slug.Make(in); got != want {
			t.Fatalf("Make(%q) = %q, want %q", in, got, want)
		}
	}
	long := slug.Make(strings.Repeat("word ", 30))
	if len(long) > slug.MaxLength || strings.HasSuffix(long, "-") {
		t.Fatalf("long slug not trimmed: %q", long)
	}
}
