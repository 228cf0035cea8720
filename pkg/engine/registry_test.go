package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailkit/pkg/mailer"
)

type staticRenderer string

func (s staticRenderer) Render(context.Context, string, any) (string, error) { return string(s), nil }

func TestRegistry_OrderAndLookup(t *testing.T) {
	t.Parallel()

	r := NewRegistry().
		Register(".TXT", "text", staticRenderer("txt")).
		Register("ejs", "ejs", staticRenderer("ejs"))

	require.Equal(t, []mailer.EngineDescriptor{
		{Extension: "txt", Type: "text"},
		{Extension: "ejs", Type: "ejs"},
	}, r.Descriptors())

	got, ok := r.Engine("txt")
	require.True(t, ok)
	require.Equal(t, staticRenderer("txt"), got)

	_, ok = r.Engine("md")
	require.False(t, ok)

	// Re-registering keeps the declared position.
	r.Register("txt", "plain", staticRenderer("txt2"))
	require.Equal(t, "txt", r.Descriptors()[0].Extension)
	require.Equal(t, "plain", r.Descriptors()[0].Type)
	got, _ = r.Engine("txt")
	require.Equal(t, staticRenderer("txt2"), got)
}

func TestDefault(t *testing.T) {
	t.Parallel()

	r := Default(nil)
	require.Equal(t, []mailer.EngineDescriptor{
		{Extension: "md", Type: TypeMarkdown},
		{Extension: "html", Type: TypeHTML},
	}, r.Descriptors())

	md, ok := r.Engine("md")
	require.True(t, ok)
	require.IsType(t, &Markdown{}, md)
}

func TestFromDescriptors(t *testing.T) {
	t.Parallel()

	raw := []any{
		map[string]any{"extension": "html", "type": "html"},
		map[string]any{"extension": "md", "type": "markdown"},
	}
	descs, err := DecodeDescriptors(raw)
	require.NoError(t, err)

	r, err := FromDescriptors(descs, nil)
	require.NoError(t, err)
	require.Equal(t, "html", r.Descriptors()[0].Extension)
	require.Equal(t, "md", r.Descriptors()[1].Extension)

	_, err = FromDescriptors([]mailer.EngineDescriptor{{Extension: "ejs", Type: "ejs"}}, nil)
	require.ErrorIs(t, err, ErrUnknownType)
}

func TestFromSettings(t *testing.T) {
	t.Parallel()

	r, err := FromSettings(nil, nil)
	require.NoError(t, err)
	require.Len(t, r.Descriptors(), 2)

	r, err = FromSettings([]any{map[string]any{"extension": ".HTML", "type": "html"}}, nil)
	require.NoError(t, err)
	require.Equal(t, []mailer.EngineDescriptor{{Extension: "html", Type: "html"}}, r.Descriptors())

	_, err = FromSettings("not a list", nil)
	require.Error(t, err)
}
