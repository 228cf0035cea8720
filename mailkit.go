package mailkit

import (
	"io/fs"
	"log/slog"

	"github.com/dmitrymomot/mailkit/internal"
	"github.com/dmitrymomot/mailkit/pkg/mailer"
	"github.com/dmitrymomot/mailkit/pkg/settings"
)

// Type aliases - public API
type (
	// Kit holds the collaborators shared by every mail builder.
	Kit = internal.Kit

	// Option configures a Kit.
	Option = internal.Option

	// Builder accumulates one outbound message and sends it once.
	Builder = mailer.Builder

	// Message is the composed message handed to a transport.
	Message = mailer.Message

	// Result is the outcome of a successful send.
	Result = mailer.Result

	// Callback receives the outcome of SendAsync.
	Callback = mailer.Callback

	// Transport delivers a composed message.
	Transport = mailer.Transport

	// TransportFactory builds a transport from configuration.
	TransportFactory = mailer.TransportFactory

	// Renderer renders a template file.
	Renderer = mailer.Renderer

	// Files probes and opens template and attachment files.
	Files = mailer.Files

	// Tags are provider tags attached to a message.
	Tags = mailer.Tags

	// Settings is a configuration source.
	Settings = settings.Source
)

// New creates a kit with the given options.
//
// Example:
//
//	src, err := settings.NewViper("mailkit.yaml")
//	if err != nil {
//	    return err
//	}
//	kit, err := mailkit.New(
//	    mailkit.WithSettings(src),
//	    mailkit.WithLogger(log),
//	)
//	if err != nil {
//	    return err
//	}
//
//	_, err = kit.Mail().To(user.Email).Template("welcome").Send(ctx, user)
func New(opts ...Option) (*Kit, error) {
	return internal.New(opts...)
}

// WithLogger sets the logger handed to every builder and transport.
func WithLogger(l *slog.Logger) Option {
	return internal.WithLogger(l)
}

// WithSettings sets the configuration source for the "mail" section and the engine list.
func WithSettings(src Settings) Option {
	return internal.WithSettings(src)
}

// WithTemplateRoot sets the directory containing templates/mails.
func WithTemplateRoot(root string) Option {
	return internal.WithTemplateRoot(root)
}

// WithFiles sets where templates and attachments are read from.
func WithFiles(files Files) Option {
	return internal.WithFiles(files)
}

// WithFS reads templates and attachments from fsys.
func WithFS(fsys fs.FS) Option {
	return internal.WithFS(fsys)
}

// WithEngine registers a renderer for a template file extension.
func WithEngine(ext, typ string, r Renderer) Option {
	return internal.WithEngine(ext, typ, r)
}

// WithTransportFactory replaces the default transport factory.
func WithTransportFactory(f TransportFactory) Option {
	return internal.WithTransportFactory(f)
}

// Helpers

// Recipient formats a display name and address as "Name <email>".
func Recipient(name, email string) string {
	return mailer.Recipient(name, email)
}

// SimpleTags builds presence-only tags.
func SimpleTags(names ...string) Tags {
	return mailer.SimpleTags(names...)
}

// Errors for checking send outcomes with errors.Is.
var (
	ErrInvalidArgument      = mailer.ErrInvalidArgument
	ErrNoRecipient          = mailer.ErrNoRecipient
	ErrNoContent            = mailer.ErrNoContent
	ErrTransportUnavailable = mailer.ErrTransportUnavailable
	ErrTemplateNotFound     = mailer.ErrTemplateNotFound
	ErrEngineNotFound       = mailer.ErrEngineNotFound
	ErrRenderFailed         = mailer.ErrRenderFailed
	ErrSendFailed           = mailer.ErrSendFailed
	ErrAlreadySent          = mailer.ErrAlreadySent
	ErrUnexpected           = mailer.ErrUnexpected
)
