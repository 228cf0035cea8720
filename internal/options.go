package internal

import (
	"io/fs"
	"log/slog"

	"github.com/dmitrymomot/mailkit/pkg/mailer"
	"github.com/dmitrymomot/mailkit/pkg/settings"
)

// Option configures the kit.
type Option func(*Kit)

// engineRegistration is an engine added with WithEngine.
type engineRegistration struct {
	renderer mailer.Renderer
	ext      string
	typ      string
}

// WithLogger sets the logger handed to every builder and transport.
func WithLogger(l *slog.Logger) Option {
	return func(k *Kit) {
		if l != nil {
			k.logger = l
		}
	}
}

// WithSettings sets the configuration source for the "mail" section and the engine list.
//
// Example:
//
//	src, err := settings.NewViper("mailkit.yaml")
//	kit, err := mailkit.New(mailkit.WithSettings(src))
func WithSettings(src settings.Source) Option {
	return func(k *Kit) { k.settings = src }
}

// WithTemplateRoot sets the directory containing templates/mails.
// Defaults to the current directory.
func WithTemplateRoot(root string) Option {
	return func(k *Kit) { k.templateRoot = root }
}

// WithFiles sets where templates and attachments are read from.
// Defaults to the local filesystem.
func WithFiles(files mailer.Files) Option {
	return func(k *Kit) {
		if files != nil {
			k.files = files
		}
	}
}

// WithFS reads templates and attachments from fsys, typically an embed.FS.
//
// Example:
//
//	//go:embed templates
//	var templates embed.FS
//
//	mailkit.New(mailkit.WithFS(templates))
func WithFS(fsys fs.FS) Option {
	return WithFiles(mailer.FS(fsys))
}

// WithEngine registers a renderer for ext after the configured engines.
// Registering an extension that already exists replaces its renderer and
// keeps its position.
func WithEngine(ext, typ string, r mailer.Renderer) Option {
	return func(k *Kit) {
		k.extraEngines = append(k.extraEngines, engineRegistration{ext: ext, typ: typ, renderer: r})
	}
}

// WithTransportFactory replaces the factory that turns transport configuration
// into a transport.
func WithTransportFactory(f mailer.TransportFactory) Option {
	return func(k *Kit) { k.transports = f }
}
