package mailer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
)

// renderTemplate searches the configured engines in declaration order for
// <templates>/mails/<name>/html.<ext> and renders the first regular file found.
// A missing file moves on to the next engine; any other probe error, a missing
// renderer or a render error aborts the search.
func (b *Builder) renderTemplate(ctx context.Context, name string, data any) (*Rendered, error) {
	if b.env.Engines == nil {
		return nil, fmt.Errorf("%w: %s: no engines configured", ErrTemplateNotFound, name)
	}
	paths := b.env.Paths
	if paths == nil {
		paths = TemplateRoot("")
	}
	files := b.env.Files
	if files == nil {
		files = OSFiles()
	}

	for _, desc := range b.env.Engines.Descriptors() {
		candidate := paths.TemplatePath(name, desc.Extension)

		info, err := files.Stat(ctx, candidate)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("probe template %s: %w", candidate, err)
		}
		if !info.Mode().IsRegular() {
			continue
		}

		renderer, ok := b.env.Engines.Engine(desc.Extension)
		if !ok || renderer == nil {
			return nil, fmt.Errorf("%w: %q (%s)", ErrEngineNotFound, desc.Extension, candidate)
		}

		b.log.DebugContext(ctx, "rendering mail template",
			"template", name,
			"engine", desc.Extension,
			"path", candidate,
		)

		out, err := render(ctx, renderer, candidate, data)
		if err != nil {
			return nil, errors.Join(ErrRenderFailed, err)
		}
		return out, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
}

func render(ctx context.Context, r Renderer, path string, data any) (*Rendered, error) {
	if mr, ok := r.(MessageRenderer); ok {
		out, err := mr.RenderMessage(ctx, path, data)
		if err != nil {
			return nil, err
		}
		if out == nil {
			return &Rendered{}, nil
		}
		return out, nil
	}
	html, err := r.Render(ctx, path, data)
	if err != nil {
		return nil, err
	}
	return &Rendered{HTML: html}, nil
}
