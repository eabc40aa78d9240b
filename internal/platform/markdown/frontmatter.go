package markdown

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---"

// Render prefixes body with meta encoded as a YAML frontmatter block. meta
// is usually a struct with yaml tags so keys keep their declared order.
func Render(meta any, body string) (string, error) {
	raw, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	var b strings.Builder
	b.WriteString(fence + "\n")
	b.Write(raw)
	b.WriteString(fence + "\n\n")
	b.WriteString(strings.TrimLeft(body, "\n"))
	return b.String(), nil
}

// Parse decodes the frontmatter of content into meta and returns the body.
// Content without frontmatter leaves meta untouched.
func Parse(content string, meta any) (string, error) {
	first, rest, ok := strings.Cut(content, "\n")
	if !ok || strings.TrimSpace(first) != fence {
		return content, nil
	}
	raw, body, ok := strings.Cut(rest, "\n"+fence+"\n")
	if !ok {
		return "", fmt.Errorf("frontmatter is not closed")
	}
	if err := yaml.Unmarshal([]byte(raw), meta); err != nil {
		return "", fmt.Errorf("unmarshal frontmatter: %w", err)
	}
	return strings.TrimLeft(body, "\n"), nil
}
