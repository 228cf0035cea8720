package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-playground/validator/v10"

	"github.com/dmitrymomot/mailkit/pkg/mailer"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ObjectAPI is the subset of the S3 client used by S3Files.
type ObjectAPI interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Files serves mail templates and attachments from an S3 bucket.
// It implements mailer.Files.
type S3Files struct {
	client ObjectAPI
	cfg    Config
}

var _ mailer.Files = (*S3Files)(nil)

// New creates an S3-backed file source.
func New(ctx context.Context, cfg Config) (*S3Files, error) {
	cfg.applyDefaults()
	if err := validate.Struct(cfg); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: load aws config: %v", ErrInvalidConfig, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.PathStyle
		}
	})
	return NewWithClient(cfg, client), nil
}

// NewWithClient creates a file source around an existing client.
func NewWithClient(cfg Config, client ObjectAPI) *S3Files {
	cfg.applyDefaults()
	return &S3Files{client: client, cfg: cfg}
}

// Stat implements mailer.Files using HeadObject.
func (s *S3Files) Stat(ctx context.Context, p string) (fs.FileInfo, error) {
	key, err := s.key("stat", p)
	if err != nil {
		return nil, err
	}

	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, &fs.PathError{Op: "stat", Path: p, Err: wrapS3Error(err, ErrReadFailed)}
	}

	return objectInfo{
		key:         key,
		size:        aws.ToInt64(out.ContentLength),
		modTime:     aws.ToTime(out.LastModified),
		contentType: aws.ToString(out.ContentType),
	}, nil
}

// Open implements mailer.Files using GetObject. The caller must close the reader.
func (s *S3Files) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	key, err := s.key("open", p)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: p, Err: wrapS3Error(err, ErrReadFailed)}
	}
	return out.Body, nil
}

// key maps a slash-separated path to an object key under the configured prefix.
// Paths escaping the prefix are rejected.
func (s *S3Files) key(op, p string) (string, error) {
	clean := strings.TrimPrefix(path.Clean("/"+p), "/")
	if rel := path.Clean(p); clean == "" || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", &fs.PathError{Op: op, Path: p, Err: fs.ErrInvalid}
	}
	if s.cfg.Prefix == "" {
		return clean, nil
	}
	return path.Join(strings.Trim(s.cfg.Prefix, "/"), clean), nil
}
