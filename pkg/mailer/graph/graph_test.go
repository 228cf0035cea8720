package graph

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailkit/pkg/mailer"
)

type fakeGraph struct {
	tokenCalls atomic.Int32
	sendCalls  atomic.Int32
	statuses   []int // per send call; the last one repeats

	mu       sync.Mutex
	lastBody sendMailRequest
}

func (f *fakeGraph) last() sendMailMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastBody.Message
}

func (f *fakeGraph) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "client_credentials", r.Form.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("POST /users/{user}/sendMail", func(w http.ResponseWriter, r *http.Request) {
		n := int(f.sendCalls.Add(1)) - 1
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.Equal(t, "team@example.com", r.PathValue("user"))
		var body sendMailRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		f.mu.Lock()
		f.lastBody = body
		f.mu.Unlock()

		status := f.statuses[min(n, len(f.statuses)-1)]
		if status == http.StatusAccepted {
			w.Header().Set("request-id", "req-1")
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":{"code":"ErrorCode","message":"something went wrong"}}`))
	})
	return mux
}

func newTestTransport(t *testing.T, f *fakeGraph) *Transport {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)

	tr, err := New(Config{
		TenantID:     "tenant",
		ClientID:     "client",
		ClientSecret: "secret",
		From:         "team@example.com",
		GraphURL:     srv.URL,
		TokenURL:     srv.URL + "/token",
	}, WithBackoff(func() retry.Backoff {
		return retry.WithMaxRetries(2, retry.NewConstant(time.Millisecond))
	}))
	require.NoError(t, err)
	return tr
}

func testMessage() *mailer.Message {
	return &mailer.Message{
		From:    "Team <team@example.com>",
		To:      "alice@example.com",
		Bcc:     "audit@example.com",
		Subject: "Welcome",
		Body:    mailer.HTMLBody("<p>Hi</p>"),
		Headers: map[string]string{"X-Campaign": "spring"},
	}
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := New(Config{TenantID: "t", ClientID: "c"})
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(Config{TenantID: "t", ClientID: "c", ClientSecret: "s", From: "not-an-email"})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestTransport_Send(t *testing.T) {
	t.Parallel()

	f := &fakeGraph{statuses: []int{http.StatusAccepted}}
	tr := newTestTransport(t, f)

	id, err := tr.Send(context.Background(), testMessage())
	require.NoError(t, err)
	require.Equal(t, "req-1", id)
	require.Equal(t, int32(1), f.tokenCalls.Load())

	m := f.last()
	require.Equal(t, "Welcome", m.Subject)
	require.Equal(t, "html", m.Body.ContentType)
	require.Equal(t, "Team", m.From.EmailAddress.Name)
	require.Equal(t, "team@example.com", m.From.EmailAddress.Address)
	require.Equal(t, "alice@example.com", m.ToRecipients[0].EmailAddress.Address)
	require.Equal(t, "audit@example.com", m.BccRecipients[0].EmailAddress.Address)
	require.Equal(t, []messageHeader{{Name: "X-Campaign", Value: "spring"}}, m.InternetMessageHeaders)

	// The token is cached across sends.
	_, err = tr.Send(context.Background(), testMessage())
	require.NoError(t, err)
	require.Equal(t, int32(1), f.tokenCalls.Load())
}

func TestTransport_Send_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	f := &fakeGraph{statuses: []int{http.StatusServiceUnavailable, http.StatusAccepted}}
	tr := newTestTransport(t, f)

	_, err := tr.Send(context.Background(), testMessage())
	require.NoError(t, err)
	require.Equal(t, int32(2), f.sendCalls.Load())
}

func TestTransport_Send_PermanentError(t *testing.T) {
	t.Parallel()

	f := &fakeGraph{statuses: []int{http.StatusBadRequest}}
	tr := newTestTransport(t, f)

	_, err := tr.Send(context.Background(), testMessage())
	require.ErrorIs(t, err, ErrRequestFailed)
	require.Contains(t, err.Error(), "something went wrong")
	require.Equal(t, int32(1), f.sendCalls.Load())
}

func TestTransport_Send_GivesUp(t *testing.T) {
	t.Parallel()

	f := &fakeGraph{statuses: []int{http.StatusInternalServerError}}
	tr := newTestTransport(t, f)

	_, err := tr.Send(context.Background(), testMessage())
	require.ErrorIs(t, err, ErrRequestFailed)
	require.Equal(t, int32(3), f.sendCalls.Load())
}

func TestRetryAfter(t *testing.T) {
	t.Parallel()

	require.Equal(t, 2*time.Second, retryAfter("2"))
	require.Zero(t, retryAfter(""))
	require.Zero(t, retryAfter("Wed, 21 Oct 2015 07:28:00 GMT"))
}
