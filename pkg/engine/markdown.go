package engine

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"path"
	texttemplate "text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/dmitrymomot/mailkit/pkg/mailer"
)

// markdownTemplate is the parsed form of a markdown mail template.
type markdownTemplate struct {
	body    *texttemplate.Template
	subject *texttemplate.Template // nil when the frontmatter has no subject
	layout  string                 // resolved layout path, "" for none
}

// Markdown renders markdown mail templates with optional YAML frontmatter.
//
// The body is executed as a text/template with the send data, converted to
// HTML with goldmark and, when a layout is configured, placed into the layout
// as {{.Content}}. The executed markdown is returned as the plain text part.
type Markdown struct {
	files     mailer.Files
	md        goldmark.Markdown
	templates *parseCache[*markdownTemplate]
	layouts   *parseCache[*template.Template]
	layout    string
}

// MarkdownOption configures a Markdown engine.
type MarkdownOption func(*markdownConfig)

type markdownConfig struct {
	layout     string
	buttons    *ButtonExtension
	extensions []goldmark.Extender
	noCache    bool
}

// WithLayout sets the default layout path used when a template declares none.
func WithLayout(p string) MarkdownOption {
	return func(c *markdownConfig) { c.layout = p }
}

// WithButtons replaces the call-to-action button extension settings.
func WithButtons(ext *ButtonExtension) MarkdownOption {
	return func(c *markdownConfig) {
		if ext != nil {
			c.buttons = ext
		}
	}
}

// WithExtensions adds goldmark extensions.
func WithExtensions(exts ...goldmark.Extender) MarkdownOption {
	return func(c *markdownConfig) { c.extensions = append(c.extensions, exts...) }
}

// WithoutCache re-reads templates on every render. Useful while editing templates.
func WithoutCache() MarkdownOption {
	return func(c *markdownConfig) { c.noCache = true }
}

// NewMarkdown creates a markdown engine reading templates through files.
func NewMarkdown(files mailer.Files, opts ...MarkdownOption) *Markdown {
	cfg := &markdownConfig{buttons: NewButtonExtension()}
	for _, opt := range opts {
		opt(cfg)
	}
	if files == nil {
		files = mailer.OSFiles()
	}

	exts := append([]goldmark.Extender{extension.GFM, cfg.buttons}, cfg.extensions...)
	return &Markdown{
		files:     files,
		md:        goldmark.New(goldmark.WithExtensions(exts...)),
		templates: newParseCache[*markdownTemplate](cfg.noCache),
		layouts:   newParseCache[*template.Template](cfg.noCache),
		layout:    cfg.layout,
	}
}

// Render implements mailer.Renderer.
func (m *Markdown) Render(ctx context.Context, p string, data any) (string, error) {
	out, err := m.RenderMessage(ctx, p, data)
	if err != nil {
		return "", err
	}
	return out.HTML, nil
}

// RenderMessage implements mailer.MessageRenderer.
func (m *Markdown) RenderMessage(ctx context.Context, p string, data any) (*mailer.Rendered, error) {
	tpl, err := m.templates.get(p, func() (*markdownTemplate, error) {
		return m.parse(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	var processed bytes.Buffer
	if err := tpl.body.Execute(&processed, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateExecute, p, err)
	}

	var content bytes.Buffer
	if err := m.md.Convert(processed.Bytes(), &content); err != nil {
		return nil, fmt.Errorf("%w: %s: markdown: %v", ErrTemplateExecute, p, err)
	}

	out := &mailer.Rendered{
		HTML: content.String(),
		Text: processed.String(),
	}

	if tpl.subject != nil {
		var subject bytes.Buffer
		if err := tpl.subject.Execute(&subject, data); err != nil {
			return nil, fmt.Errorf("%w: %s: subject: %v", ErrTemplateExecute, p, err)
		}
		out.Subject = subject.String()
	}

	if tpl.layout != "" {
		layout, err := m.layouts.get(tpl.layout, func() (*template.Template, error) {
			return m.parseLayout(ctx, tpl.layout)
		})
		if err != nil {
			return nil, err
		}
		var page bytes.Buffer
		if err := layout.Execute(&page, map[string]any{
			"Content": template.HTML(out.HTML),
			"Subject": out.Subject,
			"Data":    data,
		}); err != nil {
			return nil, fmt.Errorf("%w: layout %s: %v", ErrTemplateExecute, tpl.layout, err)
		}
		out.HTML = page.String()
	}

	return out, nil
}

func (m *Markdown) parse(ctx context.Context, p string) (*markdownTemplate, error) {
	raw, err := readFile(ctx, m.files, p)
	if err != nil {
		return nil, err
	}

	fm, body, err := splitFrontmatter(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}

	tpl := &markdownTemplate{}
	tpl.body, err = texttemplate.New(path.Base(p)).Parse(string(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateParse, p, err)
	}

	if s := fm.Subject(); s != "" {
		tpl.subject, err = texttemplate.New("subject").Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: subject: %v", ErrTemplateParse, p, err)
		}
	}

	switch layout := fm.Layout(); {
	case layout != "":
		tpl.layout = path.Join(path.Dir(p), layout)
	default:
		tpl.layout = m.layout
	}
	return tpl, nil
}

func (m *Markdown) parseLayout(ctx context.Context, p string) (*template.Template, error) {
	raw, err := readFile(ctx, m.files, p)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLayoutNotFound, err)
	}
	layout, err := template.New(path.Base(p)).Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: layout %s: %v", ErrTemplateParse, p, err)
	}
	return layout, nil
}
