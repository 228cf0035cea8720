package mailer

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/google/uuid"

	"github.com/dmitrymomot/mailkit/pkg/logger"
)

// stackSize bounds the stack trace logged for a recovered panic.
const stackSize = 4096

// Result is the outcome of a successful send.
type Result struct {
	// Message is the composed message as handed to the transport
	// (or returned untransmitted in test mode).
	Message *Message
	// Response is the transport's response token. Empty in test mode.
	Response string
	// Test reports whether the message was composed without being sent.
	Test bool
}

// Callback receives the single outcome of SendAsync.
type Callback func(*Result, error)

// Send runs the send pipeline and blocks until it completes.
// data is passed to the template engine when a template body is set.
//
// Pipeline: defaults from settings, recipient check, transport resolution
// (skipped in test mode), template rendering, delivery. Every failure,
// including a recovered panic, is returned as an error.
func (b *Builder) Send(ctx context.Context, data any) (res *Result, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !b.sent.CompareAndSwap(false, true) {
		return nil, ErrAlreadySent
	}
	if b.err != nil {
		return nil, b.err
	}

	ctx = logger.WithSendID(ctx, uuid.NewString())

	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, stackSize)
			stack = stack[:runtime.Stack(stack, false)]
			b.log.ErrorContext(ctx, "panic recovered in mail pipeline", "panic", r, "stack", string(stack))
			res, err = nil, fmt.Errorf("%w: %v", ErrUnexpected, r)
		}
	}()

	res, err = b.send(ctx, data)
	if err != nil {
		b.log.ErrorContext(ctx, "mail send failed", "error", err)
		return nil, err
	}

	b.log.InfoContext(ctx, "mail send completed",
		"test", res.Test,
		"recipients", len(res.Message.ToList()),
		"response", res.Response,
	)
	return res, nil
}

// SendAsync runs Send in a new goroutine and calls fn exactly once with its outcome.
func (b *Builder) SendAsync(ctx context.Context, data any, fn Callback) {
	go func() {
		res, err := b.Send(ctx, data)
		if fn != nil {
			fn(res, err)
		}
	}()
}

func (b *Builder) send(ctx context.Context, data any) (*Result, error) {
	msg := b.msg.Clone()

	b.applyDefaults(msg)

	if msg.To == "" {
		return nil, ErrNoRecipient
	}
	if msg.Body.Kind() == BodyNone {
		return nil, ErrNoContent
	}

	var transport Transport
	if !msg.Test {
		t, err := b.resolveTransport(ctx, msg)
		if err != nil {
			return nil, err
		}
		transport = t
	}

	if name, ok := msg.Body.Template(); ok {
		out, err := b.renderTemplate(ctx, name, data)
		if err != nil {
			return nil, err
		}
		msg.Body = HTMLBody(out.HTML)
		msg.AltText = out.Text
		if msg.Subject == "" {
			msg.Subject = out.Subject
		}
	}

	if msg.Test {
		return &Result{Message: msg, Test: true}, nil
	}

	b.log.DebugContext(ctx, "delivering mail", "attachments", len(msg.Attachments))

	resp, err := transport.Send(ctx, msg)
	if err != nil {
		return nil, errors.Join(ErrSendFailed, err)
	}
	return &Result{Message: msg, Response: resp}, nil
}
