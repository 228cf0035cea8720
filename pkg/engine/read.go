package engine

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrymomot/mailkit/pkg/mailer"
)

func readFile(ctx context.Context, files mailer.Files, p string) ([]byte, error) {
	rc, err := files.Open(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTemplateRead, p, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTemplateRead, p, err)
	}
	return data, nil
}
