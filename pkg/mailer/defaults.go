package mailer

import (
	"context"
	"errors"
	"fmt"
)

// Settings sections holding mail configuration, in lookup order.
const (
	SectionMail       = "mail"
	SectionMailLegacy = "mailSettings"
)

// mailSettings returns the first present mail section.
func (b *Builder) mailSettings() (map[string]any, bool) {
	if b.env.Settings == nil {
		return nil, false
	}
	for _, name := range []string{SectionMail, SectionMailLegacy} {
		if section, ok := b.env.Settings.Section(name); ok && section != nil {
			return section, true
		}
	}
	return nil, false
}

// applyDefaults fills sender and bcc from settings when the caller left them unset.
// Caller values always win; values are never merged.
func (b *Builder) applyDefaults(msg *Message) {
	section, ok := b.mailSettings()
	if !ok {
		return
	}
	if msg.From == "" {
		if v, ok := settingAddresses(section, "from"); ok {
			msg.From = v
		}
	}
	if msg.Bcc == "" {
		if v, ok := settingAddresses(section, "bcc"); ok {
			msg.Bcc = v
		}
	}
}

// settingAddresses reads a string or list value; other shapes are ignored.
func settingAddresses(section map[string]any, key string) (string, bool) {
	raw, ok := section[key]
	if !ok || raw == nil {
		return "", false
	}
	values, err := Normalize(raw)
	if err != nil || len(values) == 0 {
		return "", false
	}
	return joinAddresses(values), true
}

// resolveTransport picks the explicit override first, then the settings section.
func (b *Builder) resolveTransport(ctx context.Context, msg *Message) (Transport, error) {
	cfg := msg.Transport
	source := "override"
	if cfg == nil {
		section, ok := b.mailSettings()
		if !ok {
			return nil, fmt.Errorf("%w: no transporter set and no %q settings section", ErrTransportUnavailable, SectionMail)
		}
		cfg = section
		source = "settings"
	}
	if b.env.Transports == nil {
		return nil, fmt.Errorf("%w: no transport factory configured", ErrTransportUnavailable)
	}

	t, err := b.env.Transports.NewTransport(ctx, cfg)
	if err != nil {
		return nil, errors.Join(ErrTransportUnavailable, err)
	}
	if t == nil {
		return nil, fmt.Errorf("%w: factory returned no transport", ErrTransportUnavailable)
	}
	b.log.DebugContext(ctx, "mail transport resolved", "source", source)
	return t, nil
}
