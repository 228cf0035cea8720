package internal

import (
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/mailkit/pkg/engine"
	"github.com/dmitrymomot/mailkit/pkg/logger"
	"github.com/dmitrymomot/mailkit/pkg/mailer"
	"github.com/dmitrymomot/mailkit/pkg/mailer/transport"
	"github.com/dmitrymomot/mailkit/pkg/settings"
)

// Kit holds the collaborators shared by every mail builder it creates.
// Kit is immutable after creation and safe for concurrent use.
type Kit struct {
	settings     settings.Source
	files        mailer.Files
	transports   mailer.TransportFactory
	engines      *engine.Registry
	logger       *slog.Logger
	templateRoot string
	extraEngines []engineRegistration
}

// New creates a kit. Without options it reads templates from
// ./templates/mails on the local filesystem with the markdown and html
// engines, and has no settings, so only test-mode sends succeed.
func New(opts ...Option) (*Kit, error) {
	k := &Kit{
		logger: logger.NewNope(),
		files:  mailer.OSFiles(),
	}
	for _, opt := range opts {
		opt(k)
	}

	if k.settings == nil {
		k.settings = settings.Map{}
	}
	if k.transports == nil {
		k.transports = transport.NewFactory(transport.WithLogger(k.logger))
	}

	raw, _ := k.settings.Value(engine.SettingsKey)
	registry, err := engine.FromSettings(raw, k.files)
	if err != nil {
		return nil, fmt.Errorf("configure template engines: %w", err)
	}
	for _, e := range k.extraEngines {
		if e.renderer == nil {
			return nil, fmt.Errorf("configure template engines: nil renderer for extension %q", e.ext)
		}
		registry.Register(e.ext, e.typ, e.renderer)
	}
	k.engines = registry

	k.logger.Debug("mail kit configured",
		"engines", len(registry.Descriptors()),
		"template_root", k.templateRoot,
	)
	return k, nil
}

// Mail starts a new message.
//
// Example:
//
//	res, err := kit.Mail().
//		To("user@example.com").
//		Subject("Welcome").
//		Template("welcome").
//		Send(ctx, map[string]any{"Name": "Ann"})
func (k *Kit) Mail() *mailer.Builder {
	return mailer.NewBuilder(k.Env())
}

// Env returns the collaborators builders are created with.
func (k *Kit) Env() *mailer.Env {
	return &mailer.Env{
		Settings:   k.settings,
		Engines:    k.engines,
		Paths:      mailer.TemplateRoot(k.templateRoot),
		Files:      k.files,
		Transports: k.transports,
		Logger:     k.logger,
	}
}

// Engines returns the template engine registry.
func (k *Kit) Engines() *engine.Registry {
	return k.engines
}

// Logger returns the kit logger.
func (k *Kit) Logger() *slog.Logger {
	return k.logger
}
