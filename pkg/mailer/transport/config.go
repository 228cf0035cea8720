package transport

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
)

// Auth holds SMTP credentials.
type Auth struct {
	User string `mapstructure:"user"`
	Pass string `mapstructure:"pass"`
}

// Config is the decoded form of an opaque transport configuration.
// Keys not used by the selected transport are ignored.
type Config struct {
	Service   string        `mapstructure:"service"`
	Host      string        `mapstructure:"host"`
	Port      int           `mapstructure:"port"`
	Secure    bool          `mapstructure:"secure"`
	IgnoreTLS bool          `mapstructure:"ignoreTLS"`
	Auth      Auth          `mapstructure:"auth"`
	From      string        `mapstructure:"from"`
	Retries   int           `mapstructure:"retries"`
	Timeout   time.Duration `mapstructure:"timeout"`

	// API transports
	APIKey           string `mapstructure:"apiKey"`
	BaseURL          string `mapstructure:"baseURL"`
	Region           string `mapstructure:"region"`
	AccessKeyID      string `mapstructure:"accessKeyId"`
	SecretAccessKey  string `mapstructure:"secretAccessKey"`
	ConfigurationSet string `mapstructure:"configurationSet"`
	TenantID         string `mapstructure:"tenantId"`
	ClientID         string `mapstructure:"clientId"`
	ClientSecret     string `mapstructure:"clientSecret"`
}

// Decode converts a raw settings map into a Config. Values are weakly typed,
// so "587" decodes into Port and "30s" into Timeout. A single-string "from"
// list is accepted as its first entry.
func Decode(raw map[string]any) (Config, error) {
	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			firstOfListHook,
		),
		Result: &cfg,
	})
	if err != nil {
		return cfg, err
	}
	if err := dec.Decode(raw); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	cfg.Service = normalizeService(cfg.Service)
	return cfg, nil
}

// firstOfListHook lets list-valued settings such as "from" decode into a string.
func firstOfListHook(_, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String {
		return data, nil
	}
	switch v := data.(type) {
	case []any:
		if len(v) > 0 {
			return v[0], nil
		}
		return "", nil
	case []string:
		if len(v) > 0 {
			return v[0], nil
		}
		return "", nil
	}
	return data, nil
}

// applyPreset fills host, port and TLS mode from a well-known service.
// Explicit values win; only zero fields are filled. The preset TLS mode
// belongs to the preset port, so it is not applied when the port is overridden.
func applyPreset(cfg *Config) (bool, error) {
	preset, ok := wellKnown[cfg.Service]
	if !ok {
		return false, nil
	}
	if cfg.Port != 0 && cfg.Port != preset.Port {
		preset.Secure = false
	}
	if err := mergo.Merge(cfg, preset); err != nil {
		return false, err
	}
	return true, nil
}

func normalizeService(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "", ".", "").Replace(s)
}

// wellKnown SMTP services.
var wellKnown = map[string]Config{
	"gmail":      {Host: "smtp.gmail.com", Port: 465, Secure: true},
	"googlemail": {Host: "smtp.gmail.com", Port: 465, Secure: true},
	"outlook":    {Host: "smtp-mail.outlook.com", Port: 587},
	"hotmail":    {Host: "smtp-mail.outlook.com", Port: 587},
	"office365":  {Host: "smtp.office365.com", Port: 587},
	"yahoo":      {Host: "smtp.mail.yahoo.com", Port: 465, Secure: true},
	"zoho":       {Host: "smtp.zoho.com", Port: 465, Secure: true},
	"sendgrid":   {Host: "smtp.sendgrid.net", Port: 587},
	"mailgun":    {Host: "smtp.mailgun.org", Port: 465, Secure: true},
	"mailjet":    {Host: "in-v3.mailjet.com", Port: 587},
	"postmark":   {Host: "smtp.postmarkapp.com", Port: 2525},
	"sessmtp":    {Host: "email-smtp.us-east-1.amazonaws.com", Port: 465, Secure: true},
}
