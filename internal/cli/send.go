package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/mailkit/internal"
	"github.com/dmitrymomot/mailkit/pkg/mailer"
	"github.com/dmitrymomot/mailkit/pkg/mailer/stdout"
	"github.com/dmitrymomot/mailkit/pkg/mailer/transport"
	"github.com/dmitrymomot/mailkit/pkg/settings"
	"github.com/dmitrymomot/mailkit/pkg/storage"
)

type sendFlags struct {
	to        []string
	cc        []string
	bcc       []string
	replyTo   []string
	attach    []string
	headers   []string
	from      string
	subject   string
	text      string
	html      string
	template  string
	data      string
	templates string
	test      bool
}

func newSendCmd(g *globalFlags) *cobra.Command {
	f := &sendFlags{}

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Compose and send one message",
		Long: `Compose a message and send it with the transport from the "mail" settings
section. Sender and bcc default to the values in that section.

With --test the message is composed and rendered but not sent; the result is
printed instead.

--data takes a JSON object, or @path to read it from a file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSend(cmd, g, f)
		},
	}

	fl := cmd.Flags()
	fl.StringSliceVar(&f.to, "to", nil, "recipient (repeatable or comma separated)")
	fl.StringSliceVar(&f.cc, "cc", nil, "carbon copy recipient")
	fl.StringSliceVar(&f.bcc, "bcc", nil, "blind carbon copy recipient")
	fl.StringSliceVar(&f.replyTo, "reply-to", nil, "reply-to address")
	fl.StringSliceVar(&f.attach, "attach", nil, "file to attach")
	fl.StringArrayVar(&f.headers, "header", nil, "custom header as Key:Value")
	fl.StringVar(&f.from, "from", "", "sender, overrides mail.from")
	fl.StringVar(&f.subject, "subject", "", "subject line")
	fl.StringVar(&f.text, "text", "", "plain text body")
	fl.StringVar(&f.html, "html", "", "HTML body")
	fl.StringVar(&f.template, "template", "", "template name under templates/mails")
	fl.StringVar(&f.data, "data", "", "template data as JSON or @file")
	fl.StringVar(&f.templates, "templates", "", "directory containing templates/mails (default: current directory)")
	fl.BoolVar(&f.test, "test", false, "compose and print without sending")

	cmd.MarkFlagsMutuallyExclusive("text", "html", "template")
	cmd.MarkFlagsOneRequired("text", "html", "template")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func runSend(cmd *cobra.Command, g *globalFlags, f *sendFlags) error {
	ctx := cmd.Context()

	src, err := g.loadSettings()
	if err != nil {
		return err
	}
	log, err := g.newLogger(cmd.ErrOrStderr(), src)
	if err != nil {
		return err
	}

	data, err := f.templateData()
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithLogger(log),
		internal.WithSettings(src),
		internal.WithTemplateRoot(f.templates),
		internal.WithTransportFactory(transport.NewFactory(
			transport.WithLogger(log),
			transport.WithOutput(cmd.OutOrStdout()),
		)),
	}
	files, ok, err := remoteFiles(cmd, src)
	if err != nil {
		return err
	}
	if ok {
		opts = append(opts, internal.WithFiles(files))
	}

	kit, err := internal.New(opts...)
	if err != nil {
		return err
	}

	b := f.compose(kit.Mail())
	if err := b.Err(); err != nil {
		return err
	}

	res, err := b.Send(ctx, data)
	if err != nil {
		return err
	}

	if res.Test {
		_, err := stdout.NewWithWriter(cmd.OutOrStdout()).Send(ctx, res.Message)
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "sent: %s\n", res.Response)
	return nil
}

func (f *sendFlags) compose(b *mailer.Builder) *mailer.Builder {
	b.To(f.to...).Subject(f.subject).Test(f.test)
	if f.from != "" {
		b.From(f.from)
	}
	if len(f.cc) > 0 {
		b.Cc(f.cc...)
	}
	if len(f.bcc) > 0 {
		b.Bcc(f.bcc...)
	}
	if len(f.replyTo) > 0 {
		b.ReplyTo(f.replyTo...)
	}
	if len(f.attach) > 0 {
		b.Attachments(f.attach...)
	}
	for _, h := range f.headers {
		key, value, _ := strings.Cut(h, ":")
		b.Header(key, strings.TrimSpace(value))
	}

	switch {
	case f.template != "":
		b.Template(f.template)
	case f.html != "":
		b.HTML(f.html)
	default:
		b.Text(f.text)
	}
	return b
}

func (f *sendFlags) templateData() (map[string]any, error) {
	raw := strings.TrimSpace(f.data)
	if raw == "" {
		return nil, nil
	}
	if name, ok := strings.CutPrefix(raw, "@"); ok {
		b, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read template data: %w", err)
		}
		raw = string(b)
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("parse template data: %w", err)
	}
	return data, nil
}

// remoteFiles builds an S3 file source when the settings have a "storage" section.
func remoteFiles(cmd *cobra.Command, src settings.Source) (mailer.Files, bool, error) {
	section, ok := src.Section(storage.SettingsKey)
	if !ok {
		return nil, false, nil
	}
	cfg, err := storage.DecodeConfig(section)
	if err != nil {
		return nil, false, err
	}
	files, err := storage.New(cmd.Context(), cfg)
	if err != nil {
		return nil, false, err
	}
	return files, true, nil
}
