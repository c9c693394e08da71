package diagfmt

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"acsc/internal/diag"
	"acsc/internal/source"
)

// AccErrFileName is the file map editors read compiler errors from.
const AccErrFileName = "acs.err"

// WriteAccErrFile writes the errors of bag to path in the acc format, one
// `file:line: message` line each. With no errors a stale file is removed.
func WriteAccErrFile(path string, bag *diag.Bag, fs *source.FileSet, pos source.PosOptions) error {
	var buf bytes.Buffer
	for _, d := range bag.Items() {
		if d.Severity < diag.SevError {
			continue
		}
		if !located(d.Primary, fs) {
			fmt.Fprintf(&buf, "%s\n", d.Message)
			continue
		}
		f := fs.Get(d.Primary.File)
		lc := fs.Position(d.Primary, pos)
		fmt.Fprintf(&buf, "%s:%d: %s\n", filepath.FromSlash(f.Path), lc.Line, d.Message)
	}
	if buf.Len() == 0 {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { // #nosec G306 -- read by map editors
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
