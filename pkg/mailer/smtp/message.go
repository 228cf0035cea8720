package smtp

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/wneessen/go-mail"

	"github.com/dmitrymomot/mailkit/pkg/mailer"
	"github.com/dmitrymomot/mailkit/pkg/sanitizer"
)

// BuildMsg converts a composed message into a go-mail message ready to be
// dialed out or serialized. Attachments are read here, at delivery time.
// The returned string is the generated Message-ID.
func BuildMsg(ctx context.Context, msg *mailer.Message) (*mail.Msg, string, error) {
	m := mail.NewMsg()

	if err := m.From(msg.From); err != nil {
		return nil, "", fmt.Errorf("invalid from address %q: %w", msg.From, err)
	}
	if err := m.To(msg.ToList()...); err != nil {
		return nil, "", fmt.Errorf("invalid to address: %w", err)
	}
	if cc := msg.CcList(); len(cc) > 0 {
		if err := m.Cc(cc...); err != nil {
			return nil, "", fmt.Errorf("invalid cc address: %w", err)
		}
	}
	if bcc := msg.BccList(); len(bcc) > 0 {
		if err := m.Bcc(bcc...); err != nil {
			return nil, "", fmt.Errorf("invalid bcc address: %w", err)
		}
	}
	switch replyTo := msg.ReplyToList(); len(replyTo) {
	case 0:
	case 1:
		if err := m.ReplyTo(replyTo[0]); err != nil {
			return nil, "", fmt.Errorf("invalid reply-to address: %w", err)
		}
	default:
		m.SetGenHeader(mail.Header("Reply-To"), strings.Join(replyTo, ", "))
	}

	m.Subject(msg.Subject)
	for k, v := range msg.Headers {
		m.SetGenHeader(mail.Header(k), v)
	}

	id := messageID(msg.From)
	m.SetMessageIDWithValue(id)
	m.SetDate()

	html := msg.HTML()
	text := msg.Text()
	switch {
	case html != "":
		if text == "" {
			text = sanitizer.PlainText(html)
		}
		m.SetBodyString(mail.TypeTextPlain, text)
		m.AddAlternativeString(mail.TypeTextHTML, html)
	default:
		m.SetBodyString(mail.TypeTextPlain, text)
	}

	for _, a := range msg.Attachments {
		data, err := a.Read(ctx)
		if err != nil {
			return nil, "", err
		}
		m.AttachReadSeeker(a.Filename, bytes.NewReader(data),
			mail.WithFileContentType(mail.ContentType(a.ContentType)))
	}

	return m, "<" + id + ">", nil
}

// messageID builds a unique Message-ID value on the sender's domain.
func messageID(from string) string {
	domain := "localhost"
	if at := strings.LastIndex(from, "@"); at >= 0 {
		if d := strings.Trim(from[at+1:], "<> \t"); d != "" {
			domain = d
		}
	}
	return uuid.NewString() + "@" + domain
}
