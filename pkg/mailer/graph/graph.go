// Package graph delivers mail through the Microsoft Graph sendMail API using
// OAuth2 client credentials.
package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-retry"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/dmitrymomot/mailkit/pkg/logger"
	"github.com/dmitrymomot/mailkit/pkg/mailer"
)

// Default endpoints.
const (
	DefaultGraphURL  = "https://graph.microsoft.com/v1.0"
	DefaultTokenURL  = "https://login.microsoftonline.com/%s/oauth2/v2.0/token"
	DefaultScope     = "https://graph.microsoft.com/.default"
	defaultTimeout   = 30 * time.Second
	defaultRetries   = 3
	maxResponseBytes = 64 << 10
)

var (
	// ErrInvalidConfig is returned by New when the config fails validation.
	ErrInvalidConfig = errors.New("graph: invalid config")
	// ErrRequestFailed wraps non-success Graph API responses.
	ErrRequestFailed = errors.New("graph: request failed")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds Graph transport configuration.
type Config struct {
	TenantID     string        `mapstructure:"tenantId" validate:"required"`
	ClientID     string        `mapstructure:"clientId" validate:"required"`
	ClientSecret string        `mapstructure:"clientSecret" validate:"required"`
	From         string        `mapstructure:"from" validate:"required,email"` // mailbox the mail is sent as
	Retries      int           `mapstructure:"retries" validate:"min=0,max=10"`
	Timeout      time.Duration `mapstructure:"timeout"`
	GraphURL     string        `mapstructure:"graphURL" validate:"omitempty,url"`
	TokenURL     string        `mapstructure:"tokenURL" validate:"omitempty,url"`
}

// Transport implements mailer.Transport.
type Transport struct {
	client  *http.Client
	sendURL string
	backoff func() retry.Backoff
	log     *slog.Logger
}

// Option configures a Transport.
type Option func(*Transport)

// WithBackoff replaces the retry backoff factory.
func WithBackoff(fn func() retry.Backoff) Option {
	return func(t *Transport) { t.backoff = fn }
}

// WithLogger sets the transport logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Transport) {
		if l != nil {
			t.log = l
		}
	}
}

// New creates a Graph transport. Tokens are fetched and cached by the oauth2 client.
func New(cfg Config, opts ...Option) (*Transport, error) {
	if cfg.Retries == 0 {
		cfg.Retries = defaultRetries
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.GraphURL == "" {
		cfg.GraphURL = DefaultGraphURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = fmt.Sprintf(DefaultTokenURL, url.PathEscape(cfg.TenantID))
	}

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       []string{DefaultScope},
	}
	base := &http.Client{Timeout: cfg.Timeout}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	client := cc.Client(ctx)
	client.Timeout = cfg.Timeout

	retries := uint64(cfg.Retries)
	t := &Transport{
		client:  client,
		sendURL: fmt.Sprintf("%s/users/%s/sendMail", cfg.GraphURL, url.PathEscape(cfg.From)),
		backoff: func() retry.Backoff {
			return retry.WithMaxRetries(retries, retry.NewExponential(time.Second))
		},
		log: logger.NewNope(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Send implements mailer.Transport. Throttling (429) and server errors are
// retried, honoring Retry-After. Graph returns no message ID, so the response
// is the request-id header.
func (t *Transport) Send(ctx context.Context, msg *mailer.Message) (string, error) {
	req, err := buildSendMailRequest(ctx, msg)
	if err != nil {
		return "", fmt.Errorf("graph: %w", err)
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("graph: marshal request: %w", err)
	}

	var requestID string
	err = retry.Do(ctx, t.backoff(), func(ctx context.Context) error {
		id, wait, err := t.post(ctx, body)
		if err == nil {
			requestID = id
			return nil
		}
		if wait < 0 {
			return err
		}
		t.log.WarnContext(ctx, "graph request failed, retrying", "error", err, "retry_after", wait)
		if wait > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		return retry.RetryableError(err)
	})
	if err != nil {
		return "", err
	}
	return requestID, nil
}

// post performs one sendMail call. wait is negative for permanent failures,
// otherwise the extra delay requested by the server.
func (t *Transport) post(ctx context.Context, body []byte) (string, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.sendURL, bytes.NewReader(body))
	if err != nil {
		return "", -1, fmt.Errorf("graph: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return "", -1, fmt.Errorf("graph: token: %w", err)
		}
		return "", 0, fmt.Errorf("graph: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusAccepted || resp.StatusCode == http.StatusOK {
		return resp.Header.Get("request-id"), 0, nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	message := string(raw)
	var apiErr graphErrorResponse
	if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
		message = apiErr.Error.Code + ": " + apiErr.Error.Message
	}
	err = fmt.Errorf("%w: HTTP %d: %s", ErrRequestFailed, resp.StatusCode, message)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", retryAfter(resp.Header.Get("Retry-After")), err
	case resp.StatusCode >= 500:
		return "", 0, err
	default:
		return "", -1, err
	}
}

func retryAfter(v string) time.Duration {
	seconds, err := strconv.Atoi(v)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
