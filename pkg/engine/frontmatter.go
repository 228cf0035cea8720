package engine

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

var fmDelimiter = []byte("---")

// Frontmatter is the YAML header of a markdown mail template.
type Frontmatter struct {
	Meta map[string]any
}

// String returns the metadata value for key, matched case-insensitively.
func (f Frontmatter) String(key string) string {
	for k, v := range f.Meta {
		if strings.EqualFold(k, key) {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}

// Subject is the subject template declared by the mail template.
func (f Frontmatter) Subject() string { return f.String("subject") }

// Layout is the layout file, relative to the template, declared by the mail template.
func (f Frontmatter) Layout() string { return f.String("layout") }

// splitFrontmatter separates an optional leading "---" YAML block from the body.
// Content without a leading delimiter line is returned whole as the body.
func splitFrontmatter(content []byte) (Frontmatter, []byte, error) {
	fm := Frontmatter{Meta: map[string]any{}}

	first, rest, found := bytes.Cut(content, []byte("\n"))
	if !bytes.Equal(bytes.TrimRight(first, "\r \t"), fmDelimiter) {
		return fm, content, nil
	}
	if !found {
		return fm, nil, fmt.Errorf("%w: no content after opening delimiter", ErrInvalidFrontmatter)
	}

	var header []byte
	remaining := rest
	for {
		line, tail, more := bytes.Cut(remaining, []byte("\n"))
		if bytes.Equal(bytes.TrimRight(line, "\r \t"), fmDelimiter) {
			if len(bytes.TrimSpace(header)) > 0 {
				if err := yaml.Unmarshal(header, &fm.Meta); err != nil {
					return fm, nil, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
				}
				if fm.Meta == nil {
					fm.Meta = map[string]any{}
				}
			}
			return fm, tail, nil
		}
		if !more {
			return fm, nil, fmt.Errorf("%w: closing delimiter not found", ErrInvalidFrontmatter)
		}
		header = append(append(header, line...), '\n')
		remaining = tail
	}
}
