// Package resend delivers mail through the Resend HTTP API.
package resend

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/resend/resend-go/v3"

	"github.com/dmitrymomot/mailkit/pkg/mailer"
)

// ErrInvalidConfig is returned by New when the config fails validation.
var ErrInvalidConfig = errors.New("resend: invalid config")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Transport implements mailer.Transport using the Resend API.
type Transport struct {
	client *resend.Client
	config Config
}

// New creates a Resend transport.
func New(cfg Config) (*Transport, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	client := resend.NewClient(cfg.APIKey)
	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, errors.Join(ErrInvalidConfig, err)
		}
		client.BaseURL = u
	}
	return &Transport{client: client, config: cfg}, nil
}

// Send implements mailer.Transport. The response is the Resend email ID.
func (t *Transport) Send(ctx context.Context, msg *mailer.Message) (string, error) {
	from := msg.From
	if from == "" {
		from = t.config.From
	}

	req := &resend.SendEmailRequest{
		From:    from,
		To:      msg.ToList(),
		Subject: msg.Subject,
		Html:    msg.HTML(),
		Text:    msg.Text(),
		Cc:      msg.CcList(),
		Bcc:     msg.BccList(),
		Headers: msg.Headers,
	}
	if replyTo := msg.ReplyToList(); len(replyTo) > 0 {
		req.ReplyTo = strings.Join(replyTo, ", ")
	}

	if len(msg.Attachments) > 0 {
		atts, err := convertAttachments(ctx, msg.Attachments)
		if err != nil {
			return "", fmt.Errorf("resend: %w", err)
		}
		req.Attachments = atts
	}

	if len(msg.Tags) > 0 {
		req.Tags = convertTags(msg.Tags)
	}

	sent, err := t.client.Emails.SendWithContext(ctx, req)
	if err != nil {
		return "", fmt.Errorf("resend: failed to send email: %w", err)
	}
	return sent.Id, nil
}

func convertAttachments(ctx context.Context, attachments []mailer.Attachment) ([]*resend.Attachment, error) {
	result := make([]*resend.Attachment, len(attachments))
	for i, a := range attachments {
		data, err := a.Read(ctx)
		if err != nil {
			return nil, err
		}
		result[i] = &resend.Attachment{
			Filename:    a.Filename,
			Content:     data,
			ContentType: a.ContentType,
		}
	}
	return result, nil
}

func convertTags(tags mailer.Tags) []resend.Tag {
	result := make([]resend.Tag, 0, len(tags))
	for name, value := range tags {
		result = append(result, resend.Tag{
			Name:  name,
			Value: tagValue(value),
		})
	}
	return result
}

// tagValue converts any value to a string for Resend's tag API.
// Presence-only tags (struct{}{}) become "true".
func tagValue(v any) string {
	switch val := v.(type) {
	case nil, struct{}:
		return "true"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
