package source

import (
	"path/filepath"
	"slices"
	"unicode/utf8"
)

// normalizeCRLF заменяет все \r\n на \n, не трогая одиночные \r.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			changed = true
			continue
		}
		out = append(out, content[i])
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, 64)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i)) // #nosec G115 -- file size is checked on Add
		}
	}
	return out
}

// lineOf returns the 0-based line containing off and the offset where that line starts.
func lineOf(lineIdx []uint32, off uint32) (line int, start uint32) {
	// первый '\n', стоящий не левее off, закрывает нужную строку
	line, _ = slices.BinarySearch(lineIdx, off)
	if line > 0 {
		start = lineIdx[line-1] + 1
	}
	return line, start
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	line, start := lineOf(lineIdx, off)
	return LineCol{Line: uint32(line + 1), Col: off - start + 1} // #nosec G115 -- line count fits uint32
}

// visualColumn counts columns from the start of the line to off, expanding
// tabs to the next tab stop and counting one column per rune.
func visualColumn(line []byte, opts PosOptions) uint32 {
	tab := opts.TabSize
	if tab <= 0 {
		tab = DefaultTabSize
	}
	col := 0
	for len(line) > 0 {
		r, size := utf8.DecodeRune(line)
		line = line[size:]
		if r == '\t' {
			col += tab - col%tab
			continue
		}
		col++
	}
	if opts.OneColumn {
		col++
	}
	return uint32(col) // #nosec G115 -- bounded by line length
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
