package graph

import (
	"context"
	"encoding/base64"
	"net/mail"

	"github.com/dmitrymomot/mailkit/pkg/mailer"
)

type sendMailRequest struct {
	Message         sendMailMessage `json:"message"`
	SaveToSentItems bool            `json:"saveToSentItems"`
}

type sendMailMessage struct {
	Subject                string            `json:"subject"`
	Body                   messageBody       `json:"body"`
	From                   *recipient        `json:"from,omitempty"`
	ToRecipients           []recipient       `json:"toRecipients"`
	CcRecipients           []recipient       `json:"ccRecipients,omitempty"`
	BccRecipients          []recipient       `json:"bccRecipients,omitempty"`
	ReplyTo                []recipient       `json:"replyTo,omitempty"`
	InternetMessageHeaders []messageHeader   `json:"internetMessageHeaders,omitempty"`
	Attachments            []graphAttachment `json:"attachments,omitempty"`
}

type messageBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type recipient struct {
	EmailAddress emailAddress `json:"emailAddress"`
}

type emailAddress struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address"`
}

type messageHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type graphAttachment struct {
	ODataType    string `json:"@odata.type"`
	Name         string `json:"name"`
	ContentType  string `json:"contentType"`
	ContentBytes string `json:"contentBytes"`
}

type graphErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func recipients(addrs []string) []recipient {
	if len(addrs) == 0 {
		return nil
	}
	out := make([]recipient, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, toRecipient(a))
	}
	return out
}

// toRecipient splits "Name <addr>" forms; unparsable values are sent as-is.
func toRecipient(a string) recipient {
	parsed, err := mail.ParseAddress(a)
	if err != nil {
		return recipient{EmailAddress: emailAddress{Address: a}}
	}
	return recipient{EmailAddress: emailAddress{Name: parsed.Name, Address: parsed.Address}}
}

// buildSendMailRequest converts a composed message into a sendMail request body.
func buildSendMailRequest(ctx context.Context, msg *mailer.Message) (*sendMailRequest, error) {
	body := messageBody{ContentType: "text", Content: msg.Text()}
	if html := msg.HTML(); html != "" {
		body = messageBody{ContentType: "html", Content: html}
	}

	m := sendMailMessage{
		Subject:       msg.Subject,
		Body:          body,
		ToRecipients:  recipients(msg.ToList()),
		CcRecipients:  recipients(msg.CcList()),
		BccRecipients: recipients(msg.BccList()),
		ReplyTo:       recipients(msg.ReplyToList()),
	}
	if msg.From != "" {
		from := toRecipient(msg.From)
		m.From = &from
	}
	// Graph only accepts custom headers prefixed with X-.
	for k, v := range msg.Headers {
		m.InternetMessageHeaders = append(m.InternetMessageHeaders, messageHeader{Name: k, Value: v})
	}

	for _, a := range msg.Attachments {
		data, err := a.Read(ctx)
		if err != nil {
			return nil, err
		}
		m.Attachments = append(m.Attachments, graphAttachment{
			ODataType:    "#microsoft.graph.fileAttachment",
			Name:         a.Filename,
			ContentType:  a.ContentType,
			ContentBytes: base64.StdEncoding.EncodeToString(data),
		})
	}

	return &sendMailRequest{Message: m, SaveToSentItems: false}, nil
}
