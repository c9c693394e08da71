package sema

import (
	"errors"
	"fmt"

	"acsc/internal/diag"
	"acsc/internal/source"
)

// ErrBail is matched by every fatal semantic error. The driver stops
// compiling as soon as it sees one.
var ErrBail = errors.New("semantic analysis aborted")

// errUnresolved unwinds to the nearest TestExpr boundary when a name is not
// resolved yet and the test tolerates that. It never leaves the package.
var errUnresolved = errors.New("unresolved reference")

// FatalError carries the one diagnostic that aborted the analysis.
type FatalError struct {
	Diag diag.Diagnostic
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Diag.Code.ID(), e.Diag.Message)
}

func (e *FatalError) Is(target error) bool {
	return target == ErrBail
}

// failure собирает фатальную диагностику с заметками.
type failure struct {
	c       *Checker
	builder *diag.ReportBuilder
}

func (c *Checker) fail(code diag.Code, span source.Span, format string, args ...any) *failure {
	return &failure{c: c, builder: diag.ReportError(c.reporter, code, span, fmt.Sprintf(format, args...))}
}

func (f *failure) note(span source.Span, format string, args ...any) *failure {
	f.builder.WithNote(span, fmt.Sprintf(format, args...))
	return f
}

// bail emits the diagnostic and returns the error that unwinds to the driver.
func (f *failure) bail() error {
	f.builder.Emit()
	return &FatalError{Diag: f.builder.Diagnostic()}
}

func (c *Checker) bail(code diag.Code, span source.Span, format string, args ...any) error {
	return c.fail(code, span, format, args...).bail()
}

func (c *Checker) warn(code diag.Code, span source.Span, format string, args ...any) {
	diag.ReportWarning(c.reporter, code, span, fmt.Sprintf(format, args...)).Emit()
}

// unresolved marks the test and unwinds to its TestExpr boundary.
func (c *Checker) unresolved(test *ExprTest) error {
	test.Unresolved = true
	return errUnresolved
}
