package diag

import (
	"fmt"
	"strings"

	"acsc/internal/source"
)

// FormatShortDiagnostics renders one line per diagnostic:
//
//	error SEM3004 main.acs:3:5 `x` not found
//
// Notes follow their diagnostic with the "note" label. Lines and columns are 1-based.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}
	var b strings.Builder
	line := func(label string, code Code, sp source.Span, msg string) {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		if int(sp.File) >= fs.Len() {
			fmt.Fprintf(&b, "%s %s %s", label, code.ID(), sanitizeMessage(msg))
			return
		}
		start, _ := fs.Resolve(sp)
		path := fs.Get(sp.File).DisplayPath(fs.BaseDir())
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", label, code.ID(), path, start.Line, start.Col, sanitizeMessage(msg))
	}
	for _, d := range diags {
		line(d.Severity.Label(), d.Code, d.Primary, d.Message)
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			line("note", d.Code, n.Span, n.Msg)
		}
	}
	return b.String()
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
