// Package token defines lexical token kinds for the acsc compiler.
// Invariants:
//   - Token.Text is the source spelling; identifiers are not folded here.
//   - Token.Span matches Text exactly (Start..End).
//   - Keywords are matched case-insensitively, so `Script` is KwScript.
//   - Comments are skipped by the lexer and never become tokens.
package token
