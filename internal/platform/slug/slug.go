package slug

import (
	"regexp"
	"strings"
)

// MaxLength bounds slugs used in file names.
const MaxLength = 48

var separators = regexp.MustCompile(`[^a-z0-9]+`)

// Make turns free text such as a goal into a file-name-safe slug. Text with
// no usable characters becomes "session".
func Make(text string) string {
	s := separators.ReplaceAllString(strings.ToLower(text), "-")
	s = strings.Trim(s, "-")
	if len(s) > MaxLength {
		s = strings.TrimRight(s[:MaxLength], "-")
	}
	if s == "" {
		return "session"
	}
	return s
}
