package mailer

// BodyKind identifies which body representation a message carries.
type BodyKind int

const (
	BodyNone BodyKind = iota
	BodyText
	BodyHTML
	BodyTemplate
)

func (k BodyKind) String() string {
	switch k {
	case BodyText:
		return "text"
	case BodyHTML:
		return "html"
	case BodyTemplate:
		return "template"
	default:
		return "none"
	}
}

// Body holds exactly one of plain text, raw HTML or a template name.
type Body struct {
	value string
	kind  BodyKind
}

// TextBody creates a plain text body.
func TextBody(s string) Body { return Body{kind: BodyText, value: s} }

// HTMLBody creates a raw HTML body.
func HTMLBody(s string) Body { return Body{kind: BodyHTML, value: s} }

// TemplateBody creates a body rendered from the named template at send time.
func TemplateBody(name string) Body { return Body{kind: BodyTemplate, value: name} }

// Kind reports the body representation.
func (b Body) Kind() BodyKind { return b.kind }

// Value returns the raw value regardless of kind.
func (b Body) Value() string { return b.value }

// Text returns the plain text body if that is the active kind.
func (b Body) Text() (string, bool) { return b.value, b.kind == BodyText }

// HTML returns the HTML body if that is the active kind.
func (b Body) HTML() (string, bool) { return b.value, b.kind == BodyHTML }

// Template returns the template name if that is the active kind.
func (b Body) Template() (string, bool) { return b.value, b.kind == BodyTemplate }
