package sanitizer

import (
	"strings"
	"sync"

	"github.com/k3a/html2text"
	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	initOnce     sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		// StrictPolicy strips ALL HTML and drops script/style content
		strictPolicy = bluemonday.StrictPolicy()
	})
}

// StripTags removes all markup and returns the text content with entities still escaped.
func StripTags(s string) string {
	initPolicies()
	return strictPolicy.Sanitize(s)
}

// PlainText converts an HTML mail body into a plain text alternative.
// Head, script and style content is dropped, entities are decoded, list items
// are prefixed with "- " and every non-empty line is trimmed.
func PlainText(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}

	text := html2text.HTML2TextWithOptions(s,
		html2text.WithUnixLineBreaks(),
		html2text.WithListSupport(),
	)

	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
