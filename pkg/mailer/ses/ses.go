// Package ses delivers mail through the AWS SES v2 API.
//
// Messages are serialized to raw MIME with go-mail so headers, alternatives
// and attachments are all preserved.
package ses

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/go-playground/validator/v10"

	"github.com/dmitrymomot/mailkit/pkg/mailer"
	"github.com/dmitrymomot/mailkit/pkg/mailer/smtp"
)

// ErrInvalidConfig is returned by New when the config fails validation.
var ErrInvalidConfig = errors.New("ses: invalid config")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds SES transport configuration. Credentials fall back to the
// default AWS chain when the static keys are empty.
type Config struct {
	Region           string `mapstructure:"region" validate:"required"`
	AccessKeyID      string `mapstructure:"accessKeyId" validate:"required_with=SecretAccessKey"`
	SecretAccessKey  string `mapstructure:"secretAccessKey" validate:"required_with=AccessKeyID"`
	From             string `mapstructure:"from"`
	ConfigurationSet string `mapstructure:"configurationSet"`
}

// SendEmailAPI is the subset of the SES v2 client used by Transport.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Transport implements mailer.Transport using SES v2 raw messages.
type Transport struct {
	client SendEmailAPI
	cfg    Config
}

// New loads AWS configuration and creates an SES transport.
func New(ctx context.Context, cfg Config) (*Transport, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("ses: load aws config: %w", err)
	}
	return NewWithClient(cfg, sesv2.NewFromConfig(awsCfg)), nil
}

// NewWithClient creates a transport around an existing client.
func NewWithClient(cfg Config, client SendEmailAPI) *Transport {
	return &Transport{client: client, cfg: cfg}
}

// Send implements mailer.Transport. The response is the SES message ID.
func (t *Transport) Send(ctx context.Context, msg *mailer.Message) (string, error) {
	if msg.From == "" && t.cfg.From != "" {
		msg = msg.Clone()
		msg.From = t.cfg.From
	}

	m, _, err := smtp.BuildMsg(ctx, msg)
	if err != nil {
		return "", fmt.Errorf("ses: build message: %w", err)
	}
	var raw bytes.Buffer
	if _, err := m.WriteTo(&raw); err != nil {
		return "", fmt.Errorf("ses: serialize message: %w", err)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(msg.From),
		Destination: &types.Destination{
			ToAddresses:  msg.ToList(),
			CcAddresses:  msg.CcList(),
			BccAddresses: msg.BccList(),
		},
		Content: &types.EmailContent{
			Raw: &types.RawMessage{Data: raw.Bytes()},
		},
		EmailTags: emailTags(msg.Tags),
	}
	if t.cfg.ConfigurationSet != "" {
		input.ConfigurationSetName = aws.String(t.cfg.ConfigurationSet)
	}

	out, err := t.client.SendEmail(ctx, input)
	if err != nil {
		return "", fmt.Errorf("ses: send email: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}

func emailTags(tags mailer.Tags) []types.MessageTag {
	if len(tags) == 0 {
		return nil
	}
	out := make([]types.MessageTag, 0, len(tags))
	for name, value := range tags {
		v := "true"
		switch val := value.(type) {
		case struct{}, nil:
		case string:
			v = val
		default:
			v = fmt.Sprint(val)
		}
		out = append(out, types.MessageTag{Name: aws.String(name), Value: aws.String(v)})
	}
	return out
}
