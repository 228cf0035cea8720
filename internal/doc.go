// Package internal provides the composition root behind the mailkit package.
//
// This package is internal and should not be used directly. Import
// "github.com/dmitrymomot/mailkit" instead, which re-exports the public API.
//
// A Kit wires the shared collaborators of the mail pipeline once:
//
//   - settings: the "mail" section (defaults and transport) and the "engines" list
//   - files: where template probes and attachments are read from
//   - engines: the registry built from settings plus engines added with WithEngine
//   - transports: the factory turning transport configuration into a transport
//   - logger: handed to every builder and the default transport factory
//
// Kit.Mail returns a fresh mailer.Builder bound to those collaborators.
// Builders are single-use; the kit is not.
package internal
