package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.acs", []byte("int x;\nscript 1 {\n  x = 1;\n}\n"))

	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{6, LineCol{Line: 1, Col: 7}}, // сам '\n'
		{7, LineCol{Line: 2, Col: 1}},
		{20, LineCol{Line: 3, Col: 3}},
	}
	for _, tc := range cases {
		start, _ := fs.Resolve(Span{File: id, Start: tc.off, End: tc.off})
		if start != tc.want {
			t.Errorf("offset %d: want %+v, got %+v", tc.off, tc.want, start)
		}
	}
}

func TestFileSetPositionTabs(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("t.acs", []byte("a\n\tx = 1;\n"))
	sp := Span{File: id, Start: 3, End: 4} // 'x'

	if got := fs.Position(sp, PosOptions{TabSize: 4}); got.Line != 2 || got.Col != 4 {
		t.Fatalf("tab size 4: got %+v", got)
	}
	if got := fs.Position(sp, PosOptions{TabSize: 8, OneColumn: true}); got.Col != 9 {
		t.Fatalf("tab size 8, one column: got %+v", got)
	}
	if got := fs.Position(sp, PosOptions{}); got.Col != DefaultTabSize {
		t.Fatalf("default tab size: got %+v", got)
	}
}

func TestFileSetLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.acs")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFa\r\nb\r\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "a\nb\n" {
		t.Fatalf("unexpected content %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags not set: %b", f.Flags)
	}
	if got := f.GetLine(2); got != "b" {
		t.Fatalf("GetLine(2) = %q", got)
	}
	if got := f.GetLine(9); got != "" {
		t.Fatalf("GetLine(9) = %q", got)
	}
	if latest, ok := fs.GetLatest(path); !ok || latest != id {
		t.Fatalf("GetLatest = %d, %v", latest, ok)
	}
}

func TestDisplayPath(t *testing.T) {
	f := &File{Path: "/work/src/main.acs"}
	if got := f.DisplayPath("/work"); got != "src/main.acs" {
		t.Fatalf("relative: %q", got)
	}
	if got := f.DisplayPath("/other"); got != "/work/src/main.acs" {
		t.Fatalf("outside base: %q", got)
	}
}
