package settings

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides: MAILKIT_MAIL_HOST overrides mail.host.
const EnvPrefix = "MAILKIT"

// Viper is a Source backed by github.com/spf13/viper.
// Keys are matched case-insensitively.
type Viper struct {
	v *viper.Viper
}

var _ Source = (*Viper)(nil)

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// NewViper loads settings from a file. The format is inferred from the extension.
func NewViper(pathFile string) (*Viper, error) {
	v := newViper()
	v.SetConfigFile(pathFile)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("settings: read %s: %w", pathFile, err)
	}
	return &Viper{v: v}, nil
}

// NewViperFromBytes loads settings from memory.
// configType should be a format supported by Viper (e.g. "yaml", "json", "toml").
func NewViperFromBytes(configType string, data []byte) (*Viper, error) {
	if strings.TrimSpace(configType) == "" {
		return nil, errors.New("settings: config type is required")
	}
	v := newViper()
	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("settings: parse %s: %w", configType, err)
	}
	return &Viper{v: v}, nil
}

// Section implements mailer.Settings. Scalar values honor environment
// overrides; nested maps and lists are returned as stored.
func (s *Viper) Section(name string) (map[string]any, bool) {
	if !s.v.IsSet(name) {
		return nil, false
	}
	raw, ok := s.v.Get(name).(map[string]any)
	if !ok {
		return nil, false
	}

	section := make(map[string]any, len(raw))
	for k, val := range raw {
		switch val.(type) {
		case map[string]any, []any:
			section[k] = val
		default:
			section[k] = s.v.Get(name + "." + k)
		}
	}
	return section, true
}

// Value implements Source.
func (s *Viper) Value(key string) (any, bool) {
	if !s.v.IsSet(key) {
		return nil, false
	}
	return s.v.Get(key), true
}
