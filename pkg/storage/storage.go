package storage

import (
	"fmt"
	"io/fs"
	"path"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// Config holds S3-compatible storage configuration.
type Config struct {
	// Bucket is the S3 bucket name (required).
	Bucket string `mapstructure:"bucket" validate:"required"`

	// Prefix is prepended to every path, e.g. "mail" to serve mail/templates/...
	Prefix string `mapstructure:"prefix"`

	// AccessKey and SecretKey are static credentials. When both are empty the
	// default AWS credential chain is used.
	AccessKey string `mapstructure:"accessKey" validate:"required_with=SecretKey"`
	SecretKey string `mapstructure:"secretKey" validate:"required_with=AccessKey"`

	// Endpoint is the custom S3 endpoint URL (optional, for MinIO or other S3-compatible services).
	Endpoint string `mapstructure:"endpoint" validate:"omitempty,url"`

	// Region is the AWS region (default: us-east-1).
	Region string `mapstructure:"region"`

	// PathStyle enables path-style URLs (required for MinIO).
	PathStyle bool `mapstructure:"pathStyle"`
}

// DefaultRegion is used when Config.Region is empty.
const DefaultRegion = "us-east-1"

// SettingsKey is the settings section holding the storage configuration.
const SettingsKey = "storage"

// DecodeConfig converts a settings section into a Config. Values are weakly
// typed, so "true" decodes into PathStyle.
func DecodeConfig(raw map[string]any) (Config, error) {
	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return cfg, err
	}
	if err := dec.Decode(raw); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
}

// objectInfo implements fs.FileInfo for an S3 object.
type objectInfo struct {
	key         string
	size        int64
	modTime     time.Time
	contentType string
}

func (o objectInfo) Name() string       { return path.Base(o.key) }
func (o objectInfo) Size() int64        { return o.size }
func (o objectInfo) Mode() fs.FileMode  { return 0o444 }
func (o objectInfo) ModTime() time.Time { return o.modTime }
func (o objectInfo) IsDir() bool        { return false }

// Sys returns the object's content type.
func (o objectInfo) Sys() any { return o.contentType }
