package engine

import (
	"context"
	"html/template"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailkit/pkg/mailer"
)

func TestHTML_Render(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"welcome/html.html": &fstest.MapFile{Data: []byte(`<p>Hello {{.Name}}</p><p>{{upper .Team}}</p>`)},
		"broken/html.html":  &fstest.MapFile{Data: []byte(`<p>{{if}}</p>`)},
	}
	h := NewHTML(mailer.FS(fsys), WithFuncs(template.FuncMap{"upper": strings.ToUpper}))
	ctx := context.Background()

	out, err := h.Render(ctx, "welcome/html.html", map[string]string{
		"Name": "<script>alert(1)</script>",
		"Team": "ops",
	})
	require.NoError(t, err)
	require.Contains(t, out, "&lt;script&gt;")
	require.Contains(t, out, "<p>OPS</p>")

	_, err = h.Render(ctx, "broken/html.html", nil)
	require.ErrorIs(t, err, ErrTemplateParse)

	_, err = h.Render(ctx, "missing/html.html", nil)
	require.ErrorIs(t, err, ErrTemplateRead)
}
