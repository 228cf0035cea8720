package engine

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/go-viper/mapstructure/v2"

	"github.com/dmitrymomot/mailkit/pkg/mailer"
)

// Engine types understood by FromDescriptors.
const (
	TypeMarkdown = "markdown"
	TypeHTML     = "html"
)

// SettingsKey is the settings section listing engines as {extension, type} entries.
const SettingsKey = "engines"

// Registry keeps engines in declaration order and resolves them by extension.
type Registry struct {
	engines map[string]mailer.Renderer
	order   []mailer.EngineDescriptor
	mu      sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{engines: make(map[string]mailer.Renderer)}
}

// Default registers markdown (md) before html (html), both reading through files.
func Default(files mailer.Files) *Registry {
	return NewRegistry().
		Register("md", TypeMarkdown, NewMarkdown(files)).
		Register("html", TypeHTML, NewHTML(files))
}

// FromDescriptors builds a registry from configured descriptors, constructing
// the built-in engine for each type.
func FromDescriptors(descs []mailer.EngineDescriptor, files mailer.Files) (*Registry, error) {
	r := NewRegistry()
	for _, d := range descs {
		var renderer mailer.Renderer
		switch strings.ToLower(d.Type) {
		case TypeMarkdown, "md":
			renderer = NewMarkdown(files)
		case TypeHTML, "gotmpl":
			renderer = NewHTML(files)
		default:
			return nil, fmt.Errorf("%w: %q for extension %q", ErrUnknownType, d.Type, d.Extension)
		}
		r.Register(d.Extension, d.Type, renderer)
	}
	return r, nil
}

// DecodeDescriptors converts a raw settings value (a list of maps) into descriptors.
func DecodeDescriptors(raw any) ([]mailer.EngineDescriptor, error) {
	var descs []mailer.EngineDescriptor
	if err := mapstructure.Decode(raw, &descs); err != nil {
		return nil, fmt.Errorf("decode engines: %w", err)
	}
	return descs, nil
}

// FromSettings builds a registry from the raw value stored under SettingsKey.
// A nil value yields Default.
func FromSettings(raw any, files mailer.Files) (*Registry, error) {
	if raw == nil {
		return Default(files), nil
	}
	descs, err := DecodeDescriptors(raw)
	if err != nil {
		return nil, err
	}
	if len(descs) == 0 {
		return Default(files), nil
	}
	return FromDescriptors(descs, files)
}

// Register adds or replaces the renderer for ext. Re-registering keeps the
// original declaration position.
func (r *Registry) Register(ext, typ string, renderer mailer.Renderer) *Registry {
	ext = normalizeExt(ext)
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.engines[ext]; !ok {
		r.order = append(r.order, mailer.EngineDescriptor{Extension: ext, Type: typ})
	} else {
		for i := range r.order {
			if r.order[i].Extension == ext {
				r.order[i].Type = typ
			}
		}
	}
	r.engines[ext] = renderer
	return r
}

// Descriptors implements mailer.Engines.
func (r *Registry) Descriptors() []mailer.EngineDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Engine implements mailer.Engines.
func (r *Registry) Engine(ext string) (mailer.Renderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	renderer, ok := r.engines[normalizeExt(ext)]
	return renderer, ok
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
