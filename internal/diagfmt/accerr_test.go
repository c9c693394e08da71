package diagfmt

import (
	"os"
	"path/filepath"
	"testing"

	"acsc/internal/diag"
	"acsc/internal/source"
)

func TestWriteAccErrFile(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "main.acs")
	fs := source.NewFileSet()
	fileID := fs.Add(srcPath, []byte("const a = 1;\nint a;\n"), 0)

	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevWarning, diag.SemaUnusedVar, source.Span{File: fileID, Start: 17, End: 18}, "unused variable `a`"))
	bag.Add(diag.New(diag.SevError, diag.SemaDuplicateName, source.Span{File: fileID, Start: 17, End: 18}, "duplicate name `a`"))

	errPath := filepath.Join(dir, AccErrFileName)
	if err := WriteAccErrFile(errPath, bag, fs, source.PosOptions{}); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(errPath)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if want := srcPath + ":2: duplicate name `a`\n"; string(data) != want {
		t.Fatalf("got %q, want %q", data, want)
	}

	// без ошибок старый файл удаляется
	if err := WriteAccErrFile(errPath, diag.NewBag(0), fs, source.PosOptions{}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := os.Stat(errPath); !os.IsNotExist(err) {
		t.Fatalf("stale %s kept: %v", AccErrFileName, err)
	}
}
