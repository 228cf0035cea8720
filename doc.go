// Package mailkit composes and sends email through pluggable transports and
// template engines.
//
// A Kit is created once with the collaborators every message needs: a
// settings source, the files templates and attachments are read from, the
// template engines and the transport factory. Each call to Kit.Mail returns a
// fresh builder:
//
//	kit, err := mailkit.New(
//	    mailkit.WithSettings(src),
//	    mailkit.WithLogger(log),
//	)
//	if err != nil {
//	    return err
//	}
//
//	res, err := kit.Mail().
//	    To("ann@example.com", "bob@example.com").
//	    Subject("Your invoice").
//	    Template("invoice").
//	    Attachments("invoices/2024-001.pdf").
//	    Send(ctx, invoice)
//
// # Settings
//
// The "mail" section (or the legacy "mailSettings" section) supplies the
// default sender, a default bcc list and the transport configuration:
//
//	mail:
//	  from: Acme <noreply@acme.com>
//	  bcc: [archive@acme.com]
//	  service: gmail
//	  auth:
//	    user: noreply@acme.com
//	    pass: app-password
//	engines:
//	  - {extension: md, type: markdown}
//	  - {extension: html, type: html}
//
// Values set on the builder always win over settings.
//
// # Templates
//
// Template("welcome") looks for templates/mails/welcome/html.<ext> for each
// configured engine in order and renders the first file found. Markdown
// templates may declare a subject and a layout in YAML frontmatter.
//
// # Test mode
//
// Test() runs the whole pipeline, including rendering, but skips transport
// resolution and delivery. Send returns the composed message:
//
//	res, err := kit.Mail().To(addr).Template("welcome").Test().Send(ctx, data)
//	fmt.Println(res.Message.HTML())
//
// # Errors
//
// Send returns errors matching one of the exported sentinels, such as
// ErrNoRecipient, ErrTransportUnavailable, ErrTemplateNotFound or
// ErrSendFailed. Setters record the first invalid argument; it is available
// from Builder.Err right away and returned by Send.
package mailkit
