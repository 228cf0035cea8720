package engine

import (
	"context"
	"io/fs"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailkit/pkg/mailer"
)

// countingFS counts Open calls to observe template caching.
type countingFS struct {
	fstest.MapFS
	opens *atomic.Int32
}

func (c countingFS) Open(name string) (fs.File, error) {
	c.opens.Add(1)
	return c.MapFS.Open(name)
}

const welcomeTemplate = `---
Subject: Welcome {{.Name}}
---
Hello **{{.Name}}**!

[!button|Get started]({{.URL}})
`

func TestMarkdown_RenderMessage(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"templates/mails/welcome/html.md": &fstest.MapFile{Data: []byte(welcomeTemplate)},
	}
	md := NewMarkdown(mailer.FS(fsys))

	out, err := md.RenderMessage(context.Background(), "templates/mails/welcome/html.md",
		map[string]string{"Name": "Alice", "URL": "https://example.com/start"})
	require.NoError(t, err)

	require.Equal(t, "Welcome Alice", out.Subject)
	require.Contains(t, out.HTML, "<strong>Alice</strong>")
	require.Contains(t, out.HTML, `href="https://example.com/start"`)
	require.Contains(t, out.Text, "Hello **Alice**!")
	require.NotContains(t, out.Text, "<strong>")
}

func TestMarkdown_Render_ReturnsHTML(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{"t/html.md": &fstest.MapFile{Data: []byte("# Title {{.}}")}}
	html, err := NewMarkdown(mailer.FS(fsys)).Render(context.Background(), "t/html.md", "X")
	require.NoError(t, err)
	require.Contains(t, html, "<h1>Title X</h1>")
}

func TestMarkdown_Layouts(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"templates/layout.html":              &fstest.MapFile{Data: []byte(`<html><title>{{.Subject}}</title><body>{{.Content}}</body></html>`)},
		"templates/alt.html":                 &fstest.MapFile{Data: []byte(`<div class="alt">{{.Content}}</div>`)},
		"templates/mails/plain/html.md":      &fstest.MapFile{Data: []byte("---\nsubject: Plain\n---\nplain body")},
		"templates/mails/custom/html.md":     &fstest.MapFile{Data: []byte("---\nlayout: ../../alt.html\n---\ncustom body")},
		"templates/mails/missing/html.md":    &fstest.MapFile{Data: []byte("---\nlayout: nope.html\n---\nbody")},
	}
	md := NewMarkdown(mailer.FS(fsys), WithLayout("templates/layout.html"))
	ctx := context.Background()

	t.Run("default layout", func(t *testing.T) {
		out, err := md.RenderMessage(ctx, "templates/mails/plain/html.md", nil)
		require.NoError(t, err)
		require.Contains(t, out.HTML, "<title>Plain</title>")
		require.Contains(t, out.HTML, "<body><p>plain body</p>")
	})

	t.Run("frontmatter layout relative to template", func(t *testing.T) {
		out, err := md.RenderMessage(ctx, "templates/mails/custom/html.md", nil)
		require.NoError(t, err)
		require.Contains(t, out.HTML, `<div class="alt"><p>custom body</p>`)
	})

	t.Run("missing layout", func(t *testing.T) {
		_, err := md.RenderMessage(ctx, "templates/mails/missing/html.md", nil)
		require.ErrorIs(t, err, ErrLayoutNotFound)
	})
}

func TestMarkdown_Errors(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"bad-syntax.md":      &fstest.MapFile{Data: []byte("Hello {{.Name")},
		"bad-frontmatter.md": &fstest.MapFile{Data: []byte("---\nSubject: x\nno closing")},
		"bad-exec.md":        &fstest.MapFile{Data: []byte("{{.Missing.Field}}")},
	}
	md := NewMarkdown(mailer.FS(fsys))
	ctx := context.Background()

	_, err := md.Render(ctx, "nope.md", nil)
	require.ErrorIs(t, err, ErrTemplateRead)
	require.ErrorIs(t, err, fs.ErrNotExist)

	_, err = md.Render(ctx, "bad-syntax.md", nil)
	require.ErrorIs(t, err, ErrTemplateParse)

	_, err = md.Render(ctx, "bad-frontmatter.md", nil)
	require.ErrorIs(t, err, ErrInvalidFrontmatter)

	_, err = md.Render(ctx, "bad-exec.md", map[string]int{"Missing": 1})
	require.ErrorIs(t, err, ErrTemplateExecute)
}

func TestMarkdown_CachesParsedTemplates(t *testing.T) {
	t.Parallel()

	var opens atomic.Int32
	fsys := countingFS{
		MapFS: fstest.MapFS{
			"layout.html": &fstest.MapFile{Data: []byte(`<html>{{.Content}}</html>`)},
			"email.md":    &fstest.MapFile{Data: []byte("Hello {{.}}")},
		},
		opens: &opens,
	}
	md := NewMarkdown(mailer.FS(fsys), WithLayout("layout.html"))
	ctx := context.Background()

	first, err := md.Render(ctx, "email.md", "Alice")
	require.NoError(t, err)
	require.Equal(t, int32(2), opens.Load())

	second, err := md.Render(ctx, "email.md", "Bob")
	require.NoError(t, err)
	require.Equal(t, int32(2), opens.Load(), "parsed templates are reused")

	require.Contains(t, first, "Hello Alice")
	require.Contains(t, second, "Hello Bob")
}

func TestMarkdown_WithoutCache(t *testing.T) {
	t.Parallel()

	var opens atomic.Int32
	fsys := countingFS{
		MapFS: fstest.MapFS{"email.md": &fstest.MapFile{Data: []byte("Hi")}},
		opens: &opens,
	}
	md := NewMarkdown(mailer.FS(fsys), WithoutCache())

	for range 3 {
		_, err := md.Render(context.Background(), "email.md", nil)
		require.NoError(t, err)
	}
	require.Equal(t, int32(3), opens.Load())
}

func TestMarkdown_ConcurrentRenders(t *testing.T) {
	t.Parallel()

	var opens atomic.Int32
	fsys := countingFS{
		MapFS: fstest.MapFS{"email.md": &fstest.MapFile{Data: []byte("Hello {{.}}")}},
		opens: &opens,
	}
	md := NewMarkdown(mailer.FS(fsys))

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			html, err := md.Render(context.Background(), "email.md", i)
			require.NoError(t, err)
			require.Contains(t, html, "Hello")
		}()
	}
	wg.Wait()

	require.LessOrEqual(t, opens.Load(), int32(50))
	require.GreaterOrEqual(t, opens.Load(), int32(1))
}
