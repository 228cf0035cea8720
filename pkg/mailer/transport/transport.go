// Package transport builds mailer transports from opaque configuration maps.
//
// The "service" key selects an API transport (resend, ses, graph, stdout) or a
// well-known SMTP provider whose host, port and TLS mode are filled in. Without
// a service, a "host" key selects plain SMTP:
//
//	mail:
//	  service: gmail
//	  auth:
//	    user: me@gmail.com
//	    pass: app-password
//	  from: Me <me@gmail.com>
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dmitrymomot/mailkit/pkg/logger"
	"github.com/dmitrymomot/mailkit/pkg/mailer"
	"github.com/dmitrymomot/mailkit/pkg/mailer/graph"
	"github.com/dmitrymomot/mailkit/pkg/mailer/resend"
	"github.com/dmitrymomot/mailkit/pkg/mailer/ses"
	"github.com/dmitrymomot/mailkit/pkg/mailer/smtp"
	"github.com/dmitrymomot/mailkit/pkg/mailer/stdout"
)

// Service names understood by the factory besides the SMTP presets.
const (
	ServiceSMTP   = "smtp"
	ServiceResend = "resend"
	ServiceSES    = "ses"
	ServiceGraph  = "graph"
	ServiceStdout = "stdout"
)

var (
	// ErrUnknownTransport is returned when the config names no known service and no host.
	ErrUnknownTransport = errors.New("transport: unknown transport")
	// ErrInvalidConfig is returned when the config cannot be decoded.
	ErrInvalidConfig = errors.New("transport: invalid config")
)

// Constructor builds a transport for a registered service name.
type Constructor func(ctx context.Context, cfg Config) (mailer.Transport, error)

// Factory implements mailer.TransportFactory.
type Factory struct {
	log      *slog.Logger
	out      io.Writer
	services map[string]Constructor
}

// Option configures a Factory.
type Option func(*Factory)

// WithLogger sets the logger handed to transports that log.
func WithLogger(l *slog.Logger) Option {
	return func(f *Factory) {
		if l != nil {
			f.log = l
		}
	}
}

// WithOutput sets the writer used by the stdout transport.
func WithOutput(w io.Writer) Option {
	return func(f *Factory) {
		if w != nil {
			f.out = w
		}
	}
}

// WithService registers or replaces the constructor for a service name.
func WithService(name string, c Constructor) Option {
	return func(f *Factory) { f.services[normalizeService(name)] = c }
}

// NewFactory creates a factory with the built-in services registered.
func NewFactory(opts ...Option) *Factory {
	f := &Factory{
		log: logger.NewNope(),
		out: os.Stdout,
	}
	f.services = map[string]Constructor{
		ServiceSMTP:   f.smtp,
		ServiceResend: f.resend,
		ServiceSES:    f.ses,
		ServiceGraph:  f.graph,
		"msgraph":     f.graph,
		ServiceStdout: f.stdout,
		"console":     f.stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// New builds a transport with a default factory.
func New(ctx context.Context, raw map[string]any) (mailer.Transport, error) {
	return NewFactory().NewTransport(ctx, raw)
}

// NewTransport implements mailer.TransportFactory.
func (f *Factory) NewTransport(ctx context.Context, raw map[string]any) (mailer.Transport, error) {
	cfg, err := Decode(raw)
	if err != nil {
		return nil, err
	}

	if ctor, ok := f.services[cfg.Service]; ok {
		return ctor(ctx, cfg)
	}

	isPreset, err := applyPreset(&cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if isPreset || cfg.Host != "" {
		return f.smtp(ctx, cfg)
	}
	if cfg.Service != "" {
		return nil, fmt.Errorf("%w: service %q", ErrUnknownTransport, cfg.Service)
	}
	return nil, fmt.Errorf("%w: no service or host configured", ErrUnknownTransport)
}

func (f *Factory) smtp(_ context.Context, cfg Config) (mailer.Transport, error) {
	return asTransport(smtp.New(smtp.Config{
		Host:      cfg.Host,
		Port:      cfg.Port,
		Username:  cfg.Auth.User,
		Password:  cfg.Auth.Pass,
		From:      cfg.From,
		Secure:    cfg.Secure,
		IgnoreTLS: cfg.IgnoreTLS,
		Timeout:   cfg.Timeout,
		Retries:   cfg.Retries,
	}, smtp.WithLogger(f.log)))
}

func (f *Factory) resend(_ context.Context, cfg Config) (mailer.Transport, error) {
	return asTransport(resend.New(resend.Config{
		APIKey:  cfg.APIKey,
		From:    cfg.From,
		BaseURL: cfg.BaseURL,
	}))
}

func (f *Factory) ses(ctx context.Context, cfg Config) (mailer.Transport, error) {
	return asTransport(ses.New(ctx, ses.Config{
		Region:           cfg.Region,
		AccessKeyID:      cfg.AccessKeyID,
		SecretAccessKey:  cfg.SecretAccessKey,
		From:             cfg.From,
		ConfigurationSet: cfg.ConfigurationSet,
	}))
}

func (f *Factory) graph(_ context.Context, cfg Config) (mailer.Transport, error) {
	return asTransport(graph.New(graph.Config{
		TenantID:     cfg.TenantID,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		From:         cfg.From,
		Retries:      cfg.Retries,
		Timeout:      cfg.Timeout,
		GraphURL:     cfg.BaseURL,
	}, graph.WithLogger(f.log)))
}

func (f *Factory) stdout(context.Context, Config) (mailer.Transport, error) {
	return stdout.NewWithWriter(f.out), nil
}

// asTransport drops the typed nil a failed constructor returns.
func asTransport[T mailer.Transport](t T, err error) (mailer.Transport, error) {
	if err != nil {
		return nil, err
	}
	return t, nil
}
