package mailkit_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailkit"
	"github.com/dmitrymomot/mailkit/pkg/mailer"
	"github.com/dmitrymomot/mailkit/pkg/settings"
)

type recordingTransport struct {
	sent []*mailkit.Message
}

func (r *recordingTransport) Send(_ context.Context, msg *mailkit.Message) (string, error) {
	r.sent = append(r.sent, msg)
	return "queued", nil
}

func TestKit(t *testing.T) {
	t.Parallel()

	tr := &recordingTransport{}
	factory := mailer.TransportFactoryFunc(func(context.Context, map[string]any) (mailer.Transport, error) {
		return tr, nil
	})

	kit, err := mailkit.New(
		mailkit.WithSettings(settings.Map{
			"mail": map[string]any{"from": "billing@example.com"},
		}),
		mailkit.WithFS(fstest.MapFS{
			"templates/mails/invoice/html.html": &fstest.MapFile{Data: []byte("<p>Invoice {{.Number}}</p>")},
		}),
		mailkit.WithTransportFactory(factory),
	)
	require.NoError(t, err)

	res, err := kit.Mail().
		To(mailkit.Recipient("Ann", "ann@example.com")).
		Subject("Invoice").
		Template("invoice").
		Send(context.Background(), map[string]any{"Number": 7})
	require.NoError(t, err)
	require.Equal(t, "queued", res.Response)

	require.Len(t, tr.sent, 1)
	require.Equal(t, "billing@example.com", tr.sent[0].From)
	require.Equal(t, "<p>Invoice 7</p>", tr.sent[0].HTML())
}

func TestKit_Errors(t *testing.T) {
	t.Parallel()

	kit, err := mailkit.New()
	require.NoError(t, err)

	_, err = kit.Mail().Text("hi").Send(context.Background(), nil)
	require.ErrorIs(t, err, mailkit.ErrNoRecipient)

	_, err = kit.Mail().To("ann@example.com").Test().Send(context.Background(), nil)
	require.ErrorIs(t, err, mailkit.ErrNoContent)
}
