// Package settings provides the configuration sources mail builders read
// their "mail" section and engine list from.
package settings

import (
	"maps"

	"github.com/dmitrymomot/mailkit/pkg/mailer"
)

// Source exposes named sections and raw values.
type Source interface {
	mailer.Settings
	// Value returns the raw value stored under key.
	Value(key string) (any, bool)
}

// Map is an in-memory Source. Sections are values of type map[string]any.
type Map map[string]any

var _ Source = Map(nil)

// Section implements mailer.Settings. The returned map is a copy.
func (m Map) Section(name string) (map[string]any, bool) {
	section, ok := m[name].(map[string]any)
	if !ok {
		return nil, false
	}
	return maps.Clone(section), true
}

// Value implements Source.
func (m Map) Value(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}
