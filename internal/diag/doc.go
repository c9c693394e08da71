// Package diag defines the diagnostic model shared by the lexer, parser,
// semantic checker and driver.
//
// A Diagnostic has a severity, a numeric Code with a stable string ID
// (LEX/SYN/SEM/IO/PRJ ranges), a message, a primary span and optional notes.
// Phases emit through a Reporter, usually with the ReportBuilder helpers:
//
//	diag.ReportError(r, diag.SemaAmbiguousName, sp, msg).
//		WithNote(first, "object found here").
//		Emit()
//
// Rendering lives in internal/diagfmt; this package only knows the short
// one-line form used by tests and --format short.
package diag
