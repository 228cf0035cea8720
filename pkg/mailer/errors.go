package mailer

import "errors"

var (
	// ErrInvalidArgument indicates a setter received a value of the wrong shape.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoRecipient indicates no primary recipient was specified.
	ErrNoRecipient = errors.New("invalid mail recipients: recipients list cannot be empty")

	// ErrNoContent indicates neither text, HTML nor a template was set.
	ErrNoContent = errors.New("email must have a text, html or template body")

	// ErrTransportUnavailable indicates no transport could be resolved.
	ErrTransportUnavailable = errors.New("mail transport is not configured")

	// ErrTemplateNotFound indicates no configured engine has a matching template file.
	ErrTemplateNotFound = errors.New("mail template cannot be found or refers to a template engine which is not implemented")

	// ErrEngineNotFound indicates a template file exists but no renderer is registered for its extension.
	ErrEngineNotFound = errors.New("template engine not registered")

	// ErrRenderFailed indicates template rendering failed.
	ErrRenderFailed = errors.New("failed to render template")

	// ErrSendFailed indicates the transport failed to deliver the message.
	ErrSendFailed = errors.New("failed to send email")

	// ErrAlreadySent indicates the builder was already consumed by a send.
	ErrAlreadySent = errors.New("builder already sent")

	// ErrUnexpected wraps a panic recovered inside the send pipeline.
	ErrUnexpected = errors.New("unexpected mail pipeline failure")
)
