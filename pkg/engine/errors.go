package engine

import "errors"

var (
	// ErrInvalidFrontmatter indicates invalid YAML frontmatter.
	ErrInvalidFrontmatter = errors.New("invalid frontmatter")

	// ErrLayoutNotFound indicates the layout file was not found.
	ErrLayoutNotFound = errors.New("layout not found")

	// ErrTemplateRead indicates the template file could not be read.
	ErrTemplateRead = errors.New("failed to read template")

	// ErrTemplateParse indicates the template source is not valid.
	ErrTemplateParse = errors.New("failed to parse template")

	// ErrTemplateExecute indicates executing the template with the given data failed.
	ErrTemplateExecute = errors.New("failed to execute template")

	// ErrUnknownType indicates an engine type with no known constructor.
	ErrUnknownType = errors.New("unknown engine type")
)
