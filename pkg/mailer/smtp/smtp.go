// Package smtp delivers mail over SMTP using github.com/wneessen/go-mail.
package smtp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-retry"
	"github.com/wneessen/go-mail"

	"github.com/dmitrymomot/mailkit/pkg/logger"
	"github.com/dmitrymomot/mailkit/pkg/mailer"
)

// ErrInvalidConfig is returned by New when the config fails validation.
var ErrInvalidConfig = errors.New("smtp: invalid config")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Dialer sends built messages. *mail.Client satisfies it.
type Dialer interface {
	DialAndSendWithContext(ctx context.Context, msgs ...*mail.Msg) error
}

// Transport sends mail through an SMTP server, dialing once per message.
type Transport struct {
	dialer  Dialer
	cfg     Config
	backoff retry.Backoff
	log     *slog.Logger
}

// Option configures a Transport.
type Option func(*Transport)

// WithDialer replaces the go-mail client.
func WithDialer(d Dialer) Option {
	return func(t *Transport) { t.dialer = d }
}

// WithBackoff replaces the retry backoff for temporary SMTP failures.
func WithBackoff(b retry.Backoff) Option {
	return func(t *Transport) { t.backoff = b }
}

// WithLogger sets the transport logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Transport) {
		if l != nil {
			t.log = l
		}
	}
}

// New validates cfg and creates an SMTP transport.
func New(cfg Config, opts ...Option) (*Transport, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	cfg.setDefaults()

	t := &Transport{
		cfg: cfg,
		log: logger.NewNope(),
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.dialer == nil {
		client, err := mail.NewClient(cfg.Host, clientOptions(cfg)...)
		if err != nil {
			return nil, errors.Join(ErrInvalidConfig, err)
		}
		t.dialer = client
	}
	if t.backoff == nil {
		t.backoff = retry.WithMaxRetries(uint64(cfg.Retries), retry.NewExponential(500*time.Millisecond))
	}
	return t, nil
}

func clientOptions(cfg Config) []mail.Option {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(cfg.Timeout),
	}
	switch {
	case cfg.Secure:
		opts = append(opts, mail.WithSSL())
	case cfg.IgnoreTLS:
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	return opts
}

// Send implements mailer.Transport. Temporary SMTP errors (4xx) are retried;
// the response is the generated Message-ID.
func (t *Transport) Send(ctx context.Context, msg *mailer.Message) (string, error) {
	if msg.From == "" && t.cfg.From != "" {
		msg = msg.Clone()
		msg.From = t.cfg.From
	}

	m, id, err := BuildMsg(ctx, msg)
	if err != nil {
		return "", fmt.Errorf("smtp: build message: %w", err)
	}

	attempt := 0
	err = retry.Do(ctx, t.backoff, func(ctx context.Context) error {
		attempt++
		err := t.dialer.DialAndSendWithContext(ctx, m)
		if err == nil {
			return nil
		}
		if isTemporary(err) {
			t.log.WarnContext(ctx, "temporary smtp failure, retrying", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return "", fmt.Errorf("smtp: send to %s:%d: %w", t.cfg.Host, t.cfg.Port, err)
	}
	return id, nil
}

// temporaryError is implemented by *mail.SendError.
type temporaryError interface {
	IsTemp() bool
}

func isTemporary(err error) bool {
	var te temporaryError
	return errors.As(err, &te) && te.IsTemp()
}
