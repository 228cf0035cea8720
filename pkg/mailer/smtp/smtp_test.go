package smtp

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"github.com/dmitrymomot/mailkit/pkg/mailer"
)

// MockDialer is a mock implementation of Dialer.
type MockDialer struct {
	mock.Mock
}

func (m *MockDialer) DialAndSendWithContext(ctx context.Context, msgs ...*mail.Msg) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

type tempSMTPError struct{}

func (tempSMTPError) Error() string { return "421 service not available" }
func (tempSMTPError) IsTemp() bool  { return true }

func testMessage() *mailer.Message {
	msg, err := mailer.NewBuilder(nil).
		Test().
		To("alice@example.com").
		Cc("carol@example.com").
		ReplyTo("help@example.com", "support@example.com").
		Subject("Welcome").
		HTML("<p>Hello <b>Alice</b></p>").
		Header("X-Campaign", "spring").
		Send(context.Background(), nil)
	if err != nil {
		panic(err)
	}
	return msg.Message
}

func render(t *testing.T, m *mail.Msg) string {
	t.Helper()
	var sb strings.Builder
	_, err := m.WriteTo(&sb)
	require.NoError(t, err)
	return sb.String()
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := New(Config{})
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(Config{Host: "smtp.example.com", Username: "user"})
	require.ErrorIs(t, err, ErrInvalidConfig, "password is required with a username")

	tr, err := New(Config{Host: "smtp.example.com"}, WithDialer(&MockDialer{}))
	require.NoError(t, err)
	require.Equal(t, DefaultPort, tr.cfg.Port)
	require.Equal(t, DefaultRetries, tr.cfg.Retries)
	require.Equal(t, DefaultTimeout, tr.cfg.Timeout)

	tr, err = New(Config{Host: "127.0.0.1", Secure: true}, WithDialer(&MockDialer{}))
	require.NoError(t, err)
	require.Equal(t, 465, tr.cfg.Port)
}

func TestBuildMsg(t *testing.T) {
	t.Parallel()

	msg := testMessage()
	msg.From = "Team <team@example.com>"

	m, id, err := BuildMsg(context.Background(), msg)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(id, "<"))
	require.True(t, strings.HasSuffix(id, "@example.com>"))

	raw := render(t, m)
	require.Contains(t, raw, "Subject: Welcome")
	require.Contains(t, raw, "<alice@example.com>")
	require.Contains(t, raw, "<carol@example.com>")
	require.Contains(t, raw, "Reply-To: help@example.com, support@example.com")
	require.Contains(t, raw, "X-Campaign: spring")
	require.Contains(t, raw, "multipart/alternative")
	require.Contains(t, raw, "Hello Alice", "plain text part derived from HTML")
}

func TestBuildMsg_Attachments(t *testing.T) {
	t.Parallel()

	files := mailer.FS(fstest.MapFS{"docs/report.txt": &fstest.MapFile{Data: []byte("quarterly")}})
	msg := &mailer.Message{
		From:        "team@example.com",
		To:          "alice@example.com",
		Subject:     "Report",
		Body:        mailer.TextBody("attached"),
		Attachments: []mailer.Attachment{mailer.NewAttachment(files, "docs/report.txt")},
	}

	m, _, err := BuildMsg(context.Background(), msg)
	require.NoError(t, err)
	raw := render(t, m)
	require.Contains(t, raw, "multipart/mixed")
	require.Contains(t, raw, "report.txt")

	msg.Attachments = []mailer.Attachment{mailer.NewAttachment(files, "docs/missing.txt")}
	_, _, err = BuildMsg(context.Background(), msg)
	require.Error(t, err)
}

func TestBuildMsg_InvalidAddress(t *testing.T) {
	t.Parallel()

	_, _, err := BuildMsg(context.Background(), &mailer.Message{From: "not an address", To: "a@example.com"})
	require.Error(t, err)
}

func TestTransport_Send(t *testing.T) {
	t.Parallel()

	d := &MockDialer{}
	d.On("DialAndSendWithContext", mock.Anything, mock.Anything).Return(nil).Once()

	tr, err := New(Config{Host: "smtp.example.com", From: "noreply@example.com"}, WithDialer(d))
	require.NoError(t, err)

	id, err := tr.Send(context.Background(), testMessage())
	require.NoError(t, err)
	require.Contains(t, id, "@example.com>")
	d.AssertExpectations(t)
}

func TestTransport_Send_RetriesTemporaryErrors(t *testing.T) {
	t.Parallel()

	tempErr := tempSMTPError{}
	d := &MockDialer{}
	d.On("DialAndSendWithContext", mock.Anything, mock.Anything).Return(tempErr).Twice()
	d.On("DialAndSendWithContext", mock.Anything, mock.Anything).Return(nil).Once()

	tr, err := New(Config{Host: "smtp.example.com", From: "noreply@example.com"},
		WithDialer(d),
		WithBackoff(retry.WithMaxRetries(3, retry.NewConstant(time.Millisecond))),
	)
	require.NoError(t, err)

	_, err = tr.Send(context.Background(), testMessage())
	require.NoError(t, err)
	d.AssertNumberOfCalls(t, "DialAndSendWithContext", 3)
}

func TestTransport_Send_PermanentError(t *testing.T) {
	t.Parallel()

	permErr := errors.New("550 mailbox unavailable")
	d := &MockDialer{}
	d.On("DialAndSendWithContext", mock.Anything, mock.Anything).Return(permErr)

	tr, err := New(Config{Host: "smtp.example.com", From: "noreply@example.com"},
		WithDialer(d),
		WithBackoff(retry.WithMaxRetries(3, retry.NewConstant(time.Millisecond))),
	)
	require.NoError(t, err)

	_, err = tr.Send(context.Background(), testMessage())
	require.ErrorIs(t, err, permErr)
	d.AssertNumberOfCalls(t, "DialAndSendWithContext", 1)
}
