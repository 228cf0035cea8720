// Package mailer composes outbound email through a fluent Builder and sends it
// through a pluggable Transport.
//
// # Composing
//
// A Builder accumulates one message. Setters chain and never return errors;
// the first invalid value is recorded and reported by Err and by Send:
//
//	b := mailer.NewBuilder(env).
//		From("Team <team@example.com>").
//		To("alice@example.com", "bob@example.com").
//		Subject("Welcome").
//		Template("welcome").
//		Attachments("./terms.pdf")
//	if err := b.Err(); err != nil {
//		return err
//	}
//
// Address fields are normalized: values are trimmed, blanks dropped and
// duplicates removed keeping the first occurrence. Text, HTML and Template are
// mutually exclusive; the last one set wins.
//
// # Sending
//
// Send blocks until the pipeline completes; SendAsync runs it in a goroutine
// and reports through a callback. A builder sends at most once.
//
//	res, err := b.Send(ctx, map[string]any{"Name": "Alice"})
//
// The pipeline:
//
//  1. fills From and Bcc from the "mail" (or legacy "mailSettings") settings
//     section when the caller left them unset;
//  2. fails with ErrNoRecipient when no To address is set;
//  3. resolves a Transport from the Transporter override or the settings
//     section (skipped in test mode);
//  4. renders a template body by probing templates/mails/<name>/html.<ext>
//     for each configured engine in declaration order;
//  5. returns the composed message in test mode, or hands it to the transport.
//
// # Errors
//
// Failures are reported with sentinel errors usable with errors.Is:
//
//   - ErrInvalidArgument: a setter received an invalid value
//   - ErrNoRecipient: no To address after defaults
//   - ErrNoContent: no body was set
//   - ErrTransportUnavailable: no transport could be built
//   - ErrTemplateNotFound: no engine has a matching template file
//   - ErrEngineNotFound: a template file matched an extension with no renderer
//   - ErrRenderFailed: the template engine failed
//   - ErrSendFailed: the transport rejected the message
//   - ErrAlreadySent: the builder was already sent
//   - ErrUnexpected: a panic was recovered inside the pipeline
//
// # Custom transports
//
// Implement Transport and return it from a TransportFactory:
//
//	type logTransport struct{ log *slog.Logger }
//
//	func (t logTransport) Send(ctx context.Context, msg *mailer.Message) (string, error) {
//		t.log.InfoContext(ctx, "mail", "to", msg.ToList(), "subject", msg.Subject)
//		return "logged", nil
//	}
package mailer
