package cache

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func sampleRecord(path string) *Record {
	return &Record{
		Path: path,
		Hash: Digest{1, 2, 3},
		Name: "doors",
		Regions: []Region{
			{
				Constants: []Constant{{Name: "Speed", Value: 16}},
				Funcs:     []Func{{Name: "OpenAll", MinParam: 1, MaxParam: 2, Return: "int"}},
			},
			{
				Path:    []string{"geo"},
				Structs: []Struct{{Name: "point", Members: []Member{{Name: "x", Type: TypeRef{Primitive: "int"}}}}},
				Vars:    []Var{{Name: "origin", Type: TypeRef{Struct: []string{"geo", "point"}}, Dims: []int32{2}}},
			},
		},
	}
}

func openCache(t *testing.T, dir string, lifetime int) *Cache {
	t.Helper()
	c, err := Open(dir, lifetime)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return c
}

func TestRoundTripThroughDisk(t *testing.T) {
	dir := t.TempDir()
	c := openCache(t, dir, 24)
	c.Put(sampleRecord("/src/doors.acs"))
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	c = openCache(t, dir, 24)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	rec, ok := c.Get("/src/doors.acs", Digest{1, 2, 3})
	if !ok {
		t.Fatalf("entry not loaded")
	}
	if rec.Name != "doors" || rec.Objects() != 4 || rec.Schema != schemaVersion {
		t.Fatalf("record: %+v", rec)
	}
	origin := rec.Regions[1].Vars[0]
	if len(origin.Type.Struct) != 2 || origin.Type.Struct[1] != "point" || origin.Dims[0] != 2 {
		t.Fatalf("var: %+v", origin)
	}
	if _, ok := c.Get("/src/doors.acs", Digest{9}); ok {
		t.Fatalf("changed content must miss")
	}
}

func TestExpiredEntriesAreDropped(t *testing.T) {
	dir := t.TempDir()
	c := openCache(t, dir, 1)
	rec := sampleRecord("/src/old.acs")
	rec.CachedAt = time.Now().Add(-2 * time.Hour)
	c.Put(rec)
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	c = openCache(t, dir, 1)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.Entries()) != 0 {
		t.Fatalf("expired entry kept")
	}
	files, _ := filepath.Glob(filepath.Join(dir, "libs", "*"+entryExt))
	if len(files) != 0 {
		t.Fatalf("expired entry not removed: %v", files)
	}

	forever := openCache(t, dir, -1)
	forever.Put(rec)
	if _, ok := forever.Get(rec.Path, rec.Hash); !ok {
		t.Fatalf("negative lifetime must never expire")
	}
}

func TestCorruptEntriesAreDropped(t *testing.T) {
	dir := t.TempDir()
	c := openCache(t, dir, 24)
	bad := filepath.Join(dir, "libs", "deadbeef"+entryExt)
	if err := os.WriteFile(bad, []byte("not msgpack"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := os.Stat(bad); !os.IsNotExist(err) {
		t.Fatalf("corrupt entry not removed: %v", err)
	}
}

func TestPrintAndClear(t *testing.T) {
	dir := t.TempDir()
	c := openCache(t, dir, 24)
	c.Put(sampleRecord("/src/doors.acs"))
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	var buf bytes.Buffer
	c.Print(&buf)
	out := buf.String()
	for _, want := range []string{"/src/doors.acs", "library: doors", "objects: 4", "1 library cached"} {
		if !strings.Contains(out, want) {
			t.Fatalf("print lacks %q:\n%s", want, out)
		}
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	files, _ := filepath.Glob(filepath.Join(dir, "libs", "*"))
	if len(files) != 0 || len(c.Entries()) != 0 {
		t.Fatalf("clear left %v", files)
	}
	buf.Reset()
	c.Print(&buf)
	if !strings.Contains(buf.String(), "(empty)") {
		t.Fatalf("empty cache output:\n%s", buf.String())
	}
}
