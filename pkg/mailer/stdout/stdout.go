// Package stdout prints mail to a writer instead of delivering it.
// It is meant for local development.
package stdout

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/mailkit/pkg/mailer"
	"github.com/dmitrymomot/mailkit/pkg/sanitizer"
)

const separator = "========================================\n"

// Transport writes a readable rendition of each message.
type Transport struct {
	mu sync.Mutex
	w  io.Writer
}

// New creates a transport writing to os.Stdout.
func New() *Transport { return NewWithWriter(os.Stdout) }

// NewWithWriter creates a transport writing to w.
func NewWithWriter(w io.Writer) *Transport { return &Transport{w: w} }

// Send implements mailer.Transport. The response is a random ID.
func (t *Transport) Send(ctx context.Context, msg *mailer.Message) (string, error) {
	var b strings.Builder

	b.WriteString(separator)
	fmt.Fprintf(&b, "From: %s\n", msg.From)
	fmt.Fprintf(&b, "To: %s\n", strings.Join(msg.ToList(), ", "))
	if cc := msg.CcList(); len(cc) > 0 {
		fmt.Fprintf(&b, "Cc: %s\n", strings.Join(cc, ", "))
	}
	if bcc := msg.BccList(); len(bcc) > 0 {
		fmt.Fprintf(&b, "Bcc: %s\n", strings.Join(bcc, ", "))
	}
	if replyTo := msg.ReplyToList(); len(replyTo) > 0 {
		fmt.Fprintf(&b, "Reply-To: %s\n", strings.Join(replyTo, ", "))
	}
	fmt.Fprintf(&b, "Subject: %s\n", msg.Subject)
	b.WriteString("Body:\n")

	body := msg.Text()
	if body == "" {
		body = sanitizer.PlainText(msg.HTML())
	}
	b.WriteString(body + "\n")

	if len(msg.Attachments) > 0 {
		names := make([]string, 0, len(msg.Attachments))
		for _, a := range msg.Attachments {
			data, err := a.Read(ctx)
			if err != nil {
				return "", fmt.Errorf("stdout: %w", err)
			}
			names = append(names, fmt.Sprintf("%s (%s)", a.Filename, formatSize(len(data))))
		}
		fmt.Fprintf(&b, "Attachments: %s\n", strings.Join(names, ", "))
	}
	b.WriteString(separator)

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := io.WriteString(t.w, b.String()); err != nil {
		return "", fmt.Errorf("stdout: write: %w", err)
	}
	return uuid.NewString(), nil
}

func formatSize(n int) string {
	const (
		kb = 1024
		mb = kb * 1024
	)
	switch {
	case n >= mb:
		return fmt.Sprintf("%.1f MB", float64(n)/float64(mb))
	case n >= kb:
		return fmt.Sprintf("%.1f KB", float64(n)/float64(kb))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
