// Package engine provides template engines for rendering mail bodies.
//
// Engines implement mailer.Renderer and are looked up by file extension
// through a Registry, which also records the order engines were declared in.
// The mail builder probes templates/mails/<name>/html.<ext> for each declared
// extension in that order and renders the first file it finds.
//
// Two engines are built in:
//
//   - Markdown: text/template + goldmark (GFM and [!button|Label](URL) links),
//     YAML frontmatter for Subject and Layout, plain text part from the executed markdown.
//   - HTML: html/template with contextual escaping.
//
// Typical setup reading templates from an embedded filesystem:
//
//	files := mailer.FS(templatesFS)
//	reg := engine.NewRegistry().
//		Register("md", engine.TypeMarkdown, engine.NewMarkdown(files, engine.WithLayout("templates/layout.html"))).
//		Register("html", engine.TypeHTML, engine.NewHTML(files))
//
// Both engines cache parsed templates by path; concurrent first renders of the
// same template share one parse.
package engine
