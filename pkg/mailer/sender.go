package mailer

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"
)

// Transport delivers a fully composed message.
type Transport interface {
	// Send delivers the message and returns a provider-specific response token
	// (message ID, delivery receipt). Errors are surfaced to the caller verbatim.
	Send(ctx context.Context, msg *Message) (string, error)
}

// TransportFactory builds a Transport from opaque configuration.
type TransportFactory interface {
	NewTransport(ctx context.Context, cfg map[string]any) (Transport, error)
}

// TransportFactoryFunc adapts a function to TransportFactory.
type TransportFactoryFunc func(ctx context.Context, cfg map[string]any) (Transport, error)

// NewTransport implements TransportFactory.
func (f TransportFactoryFunc) NewTransport(ctx context.Context, cfg map[string]any) (Transport, error) {
	return f(ctx, cfg)
}

// Settings looks up named configuration sections.
type Settings interface {
	Section(name string) (map[string]any, bool)
}

// Renderer turns a template file and data into an HTML string.
type Renderer interface {
	Render(ctx context.Context, path string, data any) (string, error)
}

// Rendered is the richer output of a MessageRenderer.
type Rendered struct {
	HTML    string
	Text    string // Plain text alternative, optional
	Subject string // Subject from template metadata, optional
}

// MessageRenderer is implemented by renderers that can also provide a subject
// and a plain text part.
type MessageRenderer interface {
	Renderer
	RenderMessage(ctx context.Context, path string, data any) (*Rendered, error)
}

// EngineDescriptor declares a configured template engine.
type EngineDescriptor struct {
	Extension string `mapstructure:"extension" yaml:"extension"`
	Type      string `mapstructure:"type" yaml:"type"`
}

// Engines lists configured engines and resolves renderers by extension.
type Engines interface {
	// Descriptors returns the configured engines in declaration order.
	Descriptors() []EngineDescriptor
	// Engine returns the renderer registered for ext.
	Engine(ext string) (Renderer, bool)
}

// PathResolver maps a template name and engine extension to a file path.
type PathResolver interface {
	TemplatePath(name, ext string) string
}

// PathResolverFunc adapts a function to PathResolver.
type PathResolverFunc func(name, ext string) string

// TemplatePath implements PathResolver.
func (f PathResolverFunc) TemplatePath(name, ext string) string { return f(name, ext) }

// TemplateRoot resolves templates as <root>/templates/mails/<name>/html.<ext>.
func TemplateRoot(root string) PathResolver {
	if root == "" {
		root = "."
	}
	return PathResolverFunc(func(name, ext string) string {
		return path.Join(root, "templates", "mails", name, "html."+ext)
	})
}

// Files probes and opens files for templates and attachments.
// Stat must return an error matching fs.ErrNotExist when the path is absent.
type Files interface {
	Stat(ctx context.Context, path string) (fs.FileInfo, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

type osFiles struct{}

// OSFiles returns Files backed by the local filesystem.
func OSFiles() Files { return osFiles{} }

func (osFiles) Stat(_ context.Context, p string) (fs.FileInfo, error) { return os.Stat(p) }

func (osFiles) Open(_ context.Context, p string) (io.ReadCloser, error) { return os.Open(p) }

type fsFiles struct {
	fsys fs.FS
}

// FS returns Files backed by an fs.FS (embed.FS, os.DirFS, fstest.MapFS).
// Absolute paths are resolved from the root of fsys.
func FS(fsys fs.FS) Files { return fsFiles{fsys: fsys} }

func (f fsFiles) Stat(_ context.Context, p string) (fs.FileInfo, error) {
	return fs.Stat(f.fsys, fsPath(p))
}

func (f fsFiles) Open(_ context.Context, p string) (io.ReadCloser, error) {
	return f.fsys.Open(fsPath(p))
}

// fsPath converts p to the unrooted form fs.FS requires.
func fsPath(p string) string {
	clean := strings.TrimLeft(path.Clean(p), "/")
	if clean == "" {
		return "."
	}
	return clean
}

// Env carries the collaborators a Builder needs. Every field is optional;
// a nil Env restricts the builder to test mode.
type Env struct {
	Settings   Settings
	Engines    Engines
	Paths      PathResolver
	Files      Files
	Transports TransportFactory
	Logger     *slog.Logger
}
