package smtp

import (
	"time"
)

// Default values applied by New when the config leaves them unset.
const (
	DefaultPort    = 587
	DefaultTimeout = 30 * time.Second
	DefaultRetries = 3
)

// Config holds SMTP transport configuration.
type Config struct {
	Host      string        `mapstructure:"host" validate:"required,hostname_rfc1123|ip"`
	Port      int           `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Username  string        `mapstructure:"user"`
	Password  string        `mapstructure:"pass" validate:"required_with=Username"`
	From      string        `mapstructure:"from"`
	Secure    bool          `mapstructure:"secure"`    // implicit TLS (usually port 465)
	IgnoreTLS bool          `mapstructure:"ignoreTLS"` // never upgrade with STARTTLS
	Timeout   time.Duration `mapstructure:"timeout"`
	Retries   int           `mapstructure:"retries" validate:"min=0,max=10"` // 0 means DefaultRetries
}

func (c *Config) setDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
		if c.Secure {
			c.Port = 465
		}
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Retries == 0 {
		c.Retries = DefaultRetries
	}
}
