package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"acsc/internal/diag"
	"acsc/internal/source"
)

type palette struct {
	err, warn, info, note, code, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgBlue, color.Bold),
		note:   color.New(color.FgCyan),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.code, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// затем строку исходника с подчёркиванием ^~~~ по Span, затем Notes.
// Диагностики без места в исходнике печатаются как `acsc: <SEV> <CODE>: <Message>`.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			location(d.Primary, fs, opts.PathMode, opts.Pos),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			d.Message)
		if located(d.Primary, fs) {
			excerpt(w, fs, d.Primary, opts.Pos, p)
		}
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), location(n.Span, fs, opts.PathMode, opts.Pos), n.Msg)
			if located(n.Span, fs) {
				excerpt(w, fs, n.Span, opts.Pos, p)
			}
		}
	}
}

func location(span source.Span, fs *source.FileSet, mode PathMode, pos source.PosOptions) string {
	if !located(span, fs) {
		return "acsc"
	}
	f := fs.Get(span.File)
	lc := fs.Position(span, pos)
	return fmt.Sprintf("%s:%d:%d", displayPath(f, fs, mode), lc.Line, lc.Col)
}

// excerpt печатает строку со span и каретки под ним. Табуляции раскрываются,
// ширина символов считается через runewidth.
func excerpt(w io.Writer, fs *source.FileSet, span source.Span, pos source.PosOptions, p palette) {
	f := fs.Get(span.File)
	lc := fs.Position(span, pos)
	line := f.GetLine(lc.Line)
	start := lineStart(f, lc.Line)

	from := clamp(int(span.Start)-int(start), 0, len(line))
	to := clamp(int(span.End)-int(start), from, len(line))

	tab := pos.TabSize
	if tab <= 0 {
		tab = source.DefaultTabSize
	}
	prefix, col := expandTabs(line[:from], tab, 0)
	marked, _ := expandTabs(line[from:to], tab, col)
	rest, _ := expandTabs(line[to:], tab, col+runewidth.StringWidth(marked))

	width := max(runewidth.StringWidth(marked), 1)
	gutter := fmt.Sprintf("%4d | ", lc.Line)
	blank := strings.Repeat(" ", len(gutter)-2) + "| "

	fmt.Fprintf(w, "%s%s\n", p.gutter.Sprint(gutter), prefix+marked+rest)
	fmt.Fprintf(w, "%s%s%s\n", p.gutter.Sprint(blank), strings.Repeat(" ", col), p.caret.Sprint("^"+strings.Repeat("~", width-1)))
}

// lineStart returns the byte offset of the first byte of a 1-based line.
func lineStart(f *source.File, line uint32) uint32 {
	if line <= 1 {
		return 0
	}
	idx := int(line) - 2
	if idx < len(f.LineIdx) {
		return f.LineIdx[idx] + 1
	}
	return uint32(len(f.Content)) // #nosec G115 -- checked on Add
}

// expandTabs заменяет табуляции пробелами до следующей позиции табуляции,
// начиная с колонки col. Возвращает текст и колонку после него.
func expandTabs(s string, tab, col int) (string, int) {
	if !strings.ContainsRune(s, '\t') {
		return s, col + runewidth.StringWidth(s)
	}
	var b strings.Builder
	for _, r := range s {
		if r == '\t' {
			n := tab - col%tab
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return b.String(), col
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
