package diagfmt

import (
	"path/filepath"
	"strings"

	"acsc/internal/source"
)

// autoPathLimit is the length above which PathModeAuto shows only the base name.
const autoPathLimit = 40

// located reports whether span points into a file of fs.
func located(span source.Span, fs *source.FileSet) bool {
	return fs != nil && int(span.File) < fs.Len()
}

func displayPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(f.Path); err == nil && f.Flags&source.FileVirtual == 0 {
			return filepath.ToSlash(abs)
		}
		return f.Path
	case PathModeRelative:
		if filepath.IsAbs(f.Path) {
			if rel, err := filepath.Rel(fs.BaseDir(), f.Path); err == nil {
				return filepath.ToSlash(rel)
			}
		}
		return f.Path
	case PathModeBasename:
		return filepath.Base(f.Path)
	default:
		p := f.DisplayPath(fs.BaseDir())
		if len(p) > autoPathLimit && strings.Contains(p, "/") {
			return filepath.Base(p)
		}
		return p
	}
}
