package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/mailkit/pkg/sanitizer"
)

func TestStripTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "strips script injection",
			input:    `<p>Hello</p><script>alert('xss')</script>`,
			expected: "Hello",
		},
		{
			name:     "strips all HTML tags",
			input:    `<p>Hello <strong>world</strong></p>`,
			expected: "Hello world",
		},
		{
			name:     "strips event handlers",
			input:    `<img src="x" onerror="alert('xss')">`,
			expected: "",
		},
		{
			name:     "strips javascript URLs",
			input:    `<a href="javascript:alert('xss')">click</a>`,
			expected: "click",
		},
		{
			name:     "handles plain text",
			input:    "normal text without HTML",
			expected: "normal text without HTML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizer.StripTags(tt.input))
		})
	}
}

func TestPlainText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty",
			input:    "  ",
			expected: "",
		},
		{
			name:     "paragraphs become lines",
			input:    "<h1>Welcome</h1><p>Hello <strong>Alice</strong></p><p>Bye</p>",
			expected: "Welcome\nHello Alice\nBye",
		},
		{
			name:     "line breaks",
			input:    "one<br>two<br/>three",
			expected: "one\ntwo\nthree",
		},
		{
			name:     "list items",
			input:    "<ul><li>first</li><li>second</li></ul>",
			expected: "- first\n- second",
		},
		{
			name:     "entities decoded",
			input:    "<p>Tom &amp; Jerry &lt;3</p>",
			expected: "Tom & Jerry <3",
		},
		{
			name:     "blank lines dropped",
			input:    "<p>a</p>\n\n\n\n<p>b</p>",
			expected: "a\nb",
		},
		{
			name:     "head of a full document dropped",
			input:    `<html><head><link rel="stylesheet" href="x.css"><title>Hi</title></head><body><p>Hello</p></body></html>`,
			expected: "Hello",
		},
		{
			name:     "link and list-like tags are not list items",
			input:    `<p><link href="a.css">Hello <lite>there</lite></p>`,
			expected: "Hello there",
		},
		{
			name:     "style content dropped",
			input:    "<style>p{color:red}</style><p>text</p>",
			expected: "text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizer.PlainText(tt.input))
		})
	}
}
