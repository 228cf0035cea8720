package engine

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"path"

	"github.com/dmitrymomot/mailkit/pkg/mailer"
)

// HTML renders html/template files with contextual escaping of the send data.
type HTML struct {
	files     mailer.Files
	funcs     template.FuncMap
	templates *parseCache[*template.Template]
}

// HTMLOption configures an HTML engine.
type HTMLOption func(*HTML)

// WithFuncs registers template functions.
func WithFuncs(funcs template.FuncMap) HTMLOption {
	return func(h *HTML) {
		for k, v := range funcs {
			h.funcs[k] = v
		}
	}
}

// WithoutHTMLCache re-reads templates on every render.
func WithoutHTMLCache() HTMLOption {
	return func(h *HTML) { h.templates = newParseCache[*template.Template](true) }
}

// NewHTML creates an HTML engine reading templates through files.
func NewHTML(files mailer.Files, opts ...HTMLOption) *HTML {
	if files == nil {
		files = mailer.OSFiles()
	}
	h := &HTML{
		files:     files,
		funcs:     template.FuncMap{},
		templates: newParseCache[*template.Template](false),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Render implements mailer.Renderer.
func (h *HTML) Render(ctx context.Context, p string, data any) (string, error) {
	tpl, err := h.templates.get(p, func() (*template.Template, error) {
		raw, err := readFile(ctx, h.files, p)
		if err != nil {
			return nil, err
		}
		tpl, err := template.New(path.Base(p)).Funcs(h.funcs).Parse(string(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrTemplateParse, p, err)
		}
		return tpl, nil
	})
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrTemplateExecute, p, err)
	}
	return buf.String(), nil
}
