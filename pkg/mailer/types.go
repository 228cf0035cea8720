package mailer

import (
	"context"
	"fmt"
	"io"
	"maps"
	"mime"
	"path"
	"path/filepath"
	"slices"
)

// Tags represents email tags/categories that can be either presence-only
// (using struct{}{}) or key-value pairs.
type Tags map[string]any

// SimpleTags creates presence-only tags from a list of tag names.
func SimpleTags(names ...string) Tags {
	t := make(Tags, len(names))
	for _, n := range names {
		t[n] = struct{}{}
	}
	return t
}

// Recipient formats a name and email into RFC 5322 address format.
// Returns "Name <email>" if name is provided, otherwise just email.
func Recipient(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

// Message is the state accumulated by a Builder and handed to a Transport.
// Address fields hold delimiter-joined lists; use the *List helpers to split them.
type Message struct {
	Headers     map[string]string // Custom headers
	Tags        Tags              // Provider-specific tags/categories
	Transport   map[string]any    // Explicit transport configuration, nil means resolve from settings
	To          string
	Cc          string
	Bcc         string
	From        string
	ReplyTo     string
	Subject     string
	AltText     string // Plain text alternative produced by a template engine
	Body        Body
	Attachments []Attachment
	Test        bool
}

// ToList returns the primary recipients.
func (m *Message) ToList() []string { return SplitAddresses(m.To) }

// CcList returns the carbon copy recipients.
func (m *Message) CcList() []string { return SplitAddresses(m.Cc) }

// BccList returns the blind carbon copy recipients.
func (m *Message) BccList() []string { return SplitAddresses(m.Bcc) }

// ReplyToList returns the reply-to addresses.
func (m *Message) ReplyToList() []string { return SplitAddresses(m.ReplyTo) }

// Text returns the plain text body, falling back to the template-provided alternative.
func (m *Message) Text() string {
	if s, ok := m.Body.Text(); ok {
		return s
	}
	return m.AltText
}

// HTML returns the HTML body or "".
func (m *Message) HTML() string {
	if s, ok := m.Body.HTML(); ok {
		return s
	}
	return ""
}

// Clone returns a copy that shares no mutable state with m.
func (m *Message) Clone() *Message {
	c := *m
	c.Headers = maps.Clone(m.Headers)
	c.Tags = maps.Clone(m.Tags)
	c.Transport = maps.Clone(m.Transport)
	c.Attachments = slices.Clone(m.Attachments)
	return &c
}

// Attachment is a file attached to a message. Its content is not opened until
// a transport calls Open or Read.
type Attachment struct {
	files       Files
	Filename    string // Display name for the attachment
	Path        string // Location passed to the Files capability
	ContentType string // MIME type derived from the file extension
}

// NewAttachment describes the file at p, read through files when sent.
// A nil files reads from the local filesystem.
func NewAttachment(files Files, p string) Attachment {
	name := filepath.Base(p)
	ct := mime.TypeByExtension(path.Ext(name))
	if ct == "" {
		ct = "application/octet-stream"
	}
	return Attachment{
		files:       files,
		Filename:    name,
		Path:        p,
		ContentType: ct,
	}
}

// Open opens the attachment content. The caller must close the returned reader.
func (a Attachment) Open(ctx context.Context) (io.ReadCloser, error) {
	files := a.files
	if files == nil {
		files = OSFiles()
	}
	return files.Open(ctx, a.Path)
}

// Read opens, fully reads and closes the attachment content.
func (a Attachment) Read(ctx context.Context) ([]byte, error) {
	rc, err := a.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open attachment %s: %w", a.Filename, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read attachment %s: %w", a.Filename, err)
	}
	return data, nil
}
