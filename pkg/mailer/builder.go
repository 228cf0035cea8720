package mailer

import (
	"fmt"
	"log/slog"
	"maps"
	"net/textproto"
	"path"
	"strings"
	"sync/atomic"

	"github.com/dmitrymomot/mailkit/pkg/logger"
)

// Builder accumulates a single outbound message through chained setters and
// is consumed by exactly one Send or SendAsync call.
//
// Setters never return errors. The first invalid value is recorded, reported
// by Err immediately, turns later setters into no-ops and is returned by Send.
type Builder struct {
	env  Env
	log  *slog.Logger
	msg  Message
	err  error
	sent atomic.Bool
}

// NewBuilder creates a builder. env may be nil for test-mode-only usage.
func NewBuilder(env *Env) *Builder {
	b := &Builder{}
	if env != nil {
		b.env = *env
	}
	b.log = b.env.Logger
	if b.log == nil {
		b.log = logger.NewNope()
	}
	return b
}

// Err returns the first invalid argument recorded by a setter.
func (b *Builder) Err() error { return b.err }

// Message returns a snapshot of the message composed so far.
func (b *Builder) Message() *Message { return b.msg.Clone() }

func (b *Builder) fail(format string, args ...any) *Builder {
	if b.err == nil {
		b.err = fmt.Errorf("%w: "+format, append([]any{ErrInvalidArgument}, args...)...)
	}
	return b
}

// Subject sets the subject line.
func (b *Builder) Subject(s string) *Builder {
	if b.err == nil {
		b.msg.Subject = s
	}
	return b
}

// From sets the sender, overriding any configured default.
func (b *Builder) From(sender string) *Builder {
	if b.err == nil {
		b.msg.From = strings.TrimSpace(sender)
	}
	return b
}

// ReplyTo sets one or more reply-to addresses.
func (b *Builder) ReplyTo(addrs ...string) *Builder {
	if b.err == nil {
		b.msg.ReplyTo = joinAddresses(addrs)
	}
	return b
}

// To sets the primary recipients. Duplicates are removed keeping first occurrence;
// an empty list clears the field.
func (b *Builder) To(recipients ...string) *Builder {
	if b.err == nil {
		b.msg.To = joinAddresses(recipients)
	}
	return b
}

// Cc sets the carbon copy recipients.
func (b *Builder) Cc(recipients ...string) *Builder {
	if b.err == nil {
		b.msg.Cc = joinAddresses(recipients)
	}
	return b
}

// Bcc sets the blind carbon copy recipients, overriding any configured default.
func (b *Builder) Bcc(recipients ...string) *Builder {
	if b.err == nil {
		b.msg.Bcc = joinAddresses(recipients)
	}
	return b
}

// Text sets a plain text body, replacing any HTML body or template.
func (b *Builder) Text(s string) *Builder {
	if b.err == nil {
		b.msg.Body = TextBody(s)
		b.msg.AltText = ""
	}
	return b
}

// HTML sets a raw HTML body, replacing any text body or template.
func (b *Builder) HTML(s string) *Builder {
	if b.err == nil {
		b.msg.Body = HTMLBody(s)
		b.msg.AltText = ""
	}
	return b
}

// Body is an alias for HTML.
func (b *Builder) Body(s string) *Builder { return b.HTML(s) }

// Template selects a named template rendered at send time, replacing any
// text or HTML body. The name must stay inside the mail templates directory.
func (b *Builder) Template(name string) *Builder {
	if b.err != nil {
		return b
	}
	clean := path.Clean(strings.TrimSpace(name))
	if name == "" || clean == "." || clean == ".." || strings.HasPrefix(clean, "../") || path.IsAbs(clean) {
		return b.fail("invalid template name %q", name)
	}
	b.msg.Body = TemplateBody(clean)
	b.msg.AltText = ""
	return b
}

// Attachments replaces the attachment list with one entry per path.
// Files are opened only when the transport reads them.
func (b *Builder) Attachments(paths ...string) *Builder {
	if b.err != nil {
		return b
	}
	list := make([]Attachment, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			return b.fail("attachment path cannot be empty")
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		list = append(list, NewAttachment(b.env.Files, p))
	}
	b.msg.Attachments = list
	return b
}

// Header sets a custom message header.
func (b *Builder) Header(key, value string) *Builder {
	if b.err != nil {
		return b
	}
	canonical := textproto.CanonicalMIMEHeaderKey(strings.TrimSpace(key))
	if canonical == "" || strings.ContainsAny(canonical, " :\r\n") {
		return b.fail("invalid header name %q", key)
	}
	if b.msg.Headers == nil {
		b.msg.Headers = make(map[string]string)
	}
	b.msg.Headers[canonical] = value
	return b
}

// Tag adds a provider tag. A nil value makes it presence-only.
func (b *Builder) Tag(name string, value any) *Builder {
	if b.err != nil {
		return b
	}
	if strings.TrimSpace(name) == "" {
		return b.fail("tag name cannot be empty")
	}
	if b.msg.Tags == nil {
		b.msg.Tags = make(Tags)
	}
	if value == nil {
		value = struct{}{}
	}
	b.msg.Tags[name] = value
	return b
}

// Transporter stores an explicit transport configuration, bypassing settings.
func (b *Builder) Transporter(cfg map[string]any) *Builder {
	if b.err == nil {
		b.msg.Transport = maps.Clone(cfg)
	}
	return b
}

// Test toggles test mode. Called without arguments it enables it.
// In test mode nothing is transmitted and Send returns the composed message.
func (b *Builder) Test(enabled ...bool) *Builder {
	if b.err == nil {
		b.msg.Test = len(enabled) == 0 || enabled[0]
	}
	return b
}

// Logger overrides the logger for this builder.
func (b *Builder) Logger(l *slog.Logger) *Builder {
	if l != nil {
		b.log = l
	}
	return b
}
