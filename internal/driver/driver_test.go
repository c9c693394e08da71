package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"acsc/internal/cache"
	"acsc/internal/diag"
	"acsc/internal/symbols"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func compile(t *testing.T, opts Options) *Output {
	t.Helper()
	out, err := Compile(context.Background(), opts)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return out
}

func diagnostics(out *Output) string {
	return diag.FormatShortDiagnostics(out.Bag.Items(), out.FileSet, true)
}

func compileOK(t *testing.T, opts Options) *Output {
	t.Helper()
	out := compile(t, opts)
	if out.Bag.HasErrors() || out.Result == nil {
		t.Fatalf("unexpected errors:\n%s", diagnostics(out))
	}
	return out
}

func upmostConst(t *testing.T, out *Output, name string) int32 {
	t.Helper()
	k, ok := out.Table.Upmost.Body.Lookup(out.Table.Strings.InternFold(name)).(*symbols.Constant)
	if !ok {
		t.Fatalf("constant %s not found", name)
	}
	return k.Value
}

const libSource = `#library "doors"
const Speed = 8;
static const hidden = 100;
struct point { int x; int y; }
struct point origin[2];
region geo { const Unit = 4; }
function int Twice(int a) { return a * 2; }
`

const mainSource = `import "doors.acs";
const total = Speed + geo::Unit;
script 1 { int x = Twice(total); origin[1].y = x; }
`

func TestCompileResolvesImports(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"main.acs": mainSource, "doors.acs": libSource})

	out := compileOK(t, Options{Path: filepath.Join(dir, "main.acs")})
	if len(out.Files) != 2 {
		t.Fatalf("files: %d", len(out.Files))
	}
	if !strings.HasSuffix(out.Files[1].Path, "main.acs") {
		t.Fatalf("main file must be analysed last, got %s", out.Files[1].Path)
	}
	if got := upmostConst(t, out, "total"); got != 12 {
		t.Fatalf("total = %d, want 12", got)
	}
	lib := out.Table.Library(out.Files[0].Lib)
	if lib.Name != "doors" || !lib.Imported {
		t.Fatalf("library: %+v", lib)
	}
	if out.Table.Library(out.Files[1].Lib).Imported {
		t.Fatalf("main file marked imported")
	}
}

func TestCompileSearchesIncludeDirs(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"src/main.acs":   mainSource,
		"inc/doors.acs":  libSource,
		"other/misc.acs": "const unrelated = 1;",
	})
	opts := Options{
		Path:     filepath.Join(dir, "src", "main.acs"),
		Includes: []string{filepath.Join(dir, "other"), filepath.Join(dir, "inc")},
	}
	out := compileOK(t, opts)
	if got := upmostConst(t, out, "total"); got != 12 {
		t.Fatalf("total = %d, want 12", got)
	}

	// a file next to the importer wins over include directories
	writeFiles(t, dir, map[string]string{"src/doors.acs": "const Speed = 1; region geo { const Unit = 1; } function int Twice(int a) { return a; } struct point { int y; } struct point origin[2];"})
	out = compileOK(t, opts)
	if got := upmostConst(t, out, "total"); got != 2 {
		t.Fatalf("total = %d, want 2", got)
	}
}

func TestImportMissing(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"main.acs": `import "nope.acs"; const a = 1;`})
	out := compile(t, Options{Path: filepath.Join(dir, "main.acs")})
	items := out.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.IOImportMissing {
		t.Fatalf("diagnostics:\n%s", diagnostics(out))
	}
	if !strings.Contains(items[0].Message, "nope.acs") {
		t.Fatalf("message %q", items[0].Message)
	}
	if out.Result != nil {
		t.Fatalf("analysis must not run after a load error")
	}
}

func TestImportCycle(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"main.acs": `import "a.acs";`,
		"a.acs":    `#library "a"
import "b.acs";`,
		"b.acs":    `#library "b"
import "a.acs";`,
	})
	out := compile(t, Options{Path: filepath.Join(dir, "main.acs")})
	items := out.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.IOImportCycle {
		t.Fatalf("diagnostics:\n%s", diagnostics(out))
	}
	msg := items[0].Message
	if strings.Count(msg, " -> ") != 2 || !strings.HasSuffix(msg, "a.acs") || !strings.Contains(msg, "b.acs -> ") {
		t.Fatalf("message %q", msg)
	}
}

func TestMissingMainFile(t *testing.T) {
	_, err := Compile(context.Background(), Options{Path: filepath.Join(t.TempDir(), "absent.acs")})
	if err == nil {
		t.Fatalf("expected an error for a missing main file")
	}
}

func openCache(t *testing.T, dir string) *cache.Cache {
	t.Helper()
	c, err := cache.Open(dir, 24)
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	return c
}

func TestCacheRestoresLibraries(t *testing.T) {
	dir := t.TempDir()
	cacheDir := t.TempDir()
	writeFiles(t, dir, map[string]string{"main.acs": mainSource, "doors.acs": libSource})
	opts := Options{Path: filepath.Join(dir, "main.acs")}

	opts.Cache = openCache(t, cacheDir)
	out := compileOK(t, opts)
	if out.Cached != 0 || len(opts.Cache.Entries()) != 1 {
		t.Fatalf("cached %d, entries %d", out.Cached, len(opts.Cache.Entries()))
	}

	opts.Cache = openCache(t, cacheDir)
	out = compileOK(t, opts)
	if out.Cached != 1 || len(out.Files) != 1 {
		t.Fatalf("second run: cached %d, parsed %d", out.Cached, len(out.Files))
	}
	if got := upmostConst(t, out, "total"); got != 12 {
		t.Fatalf("total = %d, want 12", got)
	}
	strs := out.Table.Strings
	if out.Table.Upmost.Body.Lookup(strs.InternFold("hidden")) != nil {
		t.Fatalf("static constant restored into the upmost region")
	}
	origin, ok := out.Table.Upmost.Body.Lookup(strs.InternFold("origin")).(*symbols.Var)
	if !ok || origin.Dim.Depth() != 1 || out.Table.Struct(origin.Type) == nil {
		t.Fatalf("origin not restored: %+v", origin)
	}

	// changed source is parsed again
	writeFiles(t, dir, map[string]string{"doors.acs": strings.Replace(libSource, "Speed = 8", "Speed = 9", 1)})
	opts.Cache = openCache(t, cacheDir)
	out = compileOK(t, opts)
	if out.Cached != 0 {
		t.Fatalf("stale library restored")
	}
	if got := upmostConst(t, out, "total"); got != 13 {
		t.Fatalf("total = %d, want 13", got)
	}
}

func TestCacheHitNeedsCachedImports(t *testing.T) {
	dir := t.TempDir()
	cacheDir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"main.acs": `import "a.acs"; const m = A + B;`,
		"a.acs":    `#library "a"
import "b.acs"; const A = B * 2;`,
		"b.acs":    `#library "b"
const B = 1;`,
	})
	opts := Options{Path: filepath.Join(dir, "main.acs")}

	opts.Cache = openCache(t, cacheDir)
	compileOK(t, opts)
	opts.Cache = openCache(t, cacheDir)
	if out := compileOK(t, opts); out.Cached != 2 {
		t.Fatalf("cached %d, want 2", out.Cached)
	}

	writeFiles(t, dir, map[string]string{"b.acs": `#library "b"
const B = 5;`})
	opts.Cache = openCache(t, cacheDir)
	out := compileOK(t, opts)
	if out.Cached != 0 {
		t.Fatalf("a.acs restored although b.acs changed")
	}
	if got := upmostConst(t, out, "m"); got != 15 {
		t.Fatalf("m = %d, want 15", got)
	}
}

func TestCacheSkippedOnErrors(t *testing.T) {
	dir := t.TempDir()
	cacheDir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"main.acs":  `import "doors.acs"; const z = nope;`,
		"doors.acs": libSource,
	})
	c := openCache(t, cacheDir)
	out := compile(t, Options{Path: filepath.Join(dir, "main.acs"), Cache: c})
	if !out.Bag.HasErrors() {
		t.Fatalf("expected an error")
	}
	if len(c.Entries()) != 0 {
		t.Fatalf("libraries cached after a failed compilation")
	}
}

func TestCacheRestoresAliases(t *testing.T) {
	dir := t.TempDir()
	cacheDir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"main.acs": `import "lib.acs";
const total = Speed2 + U + 1;
script 1 { Wait(1); }
`,
		"lib.acs": `#library "lib"
const Speed = 8;
alias Speed2 = Speed;
region geo { const Unit = 4; }
alias U = geo::Unit;
alias Wait = Delay;
`,
	})
	opts := Options{Path: filepath.Join(dir, "main.acs")}

	for run, cached := range []int{0, 1} {
		opts.Cache = openCache(t, cacheDir)
		out := compileOK(t, opts)
		if out.Cached != cached {
			t.Fatalf("run %d: cached %d, want %d", run, out.Cached, cached)
		}
		if got := upmostConst(t, out, "total"); got != 13 {
			t.Fatalf("run %d: total = %d, want 13", run, got)
		}
	}
}

func TestCacheSkipsAliasesOfStaticNames(t *testing.T) {
	dir := t.TempDir()
	cacheDir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"main.acs": `import "lib.acs"; const total = Shown + 1;`,
		"lib.acs": `#library "lib"
static const hidden = 3;
alias Shown = hidden;
`,
	})
	opts := Options{Path: filepath.Join(dir, "main.acs")}

	for run := 0; run < 2; run++ {
		opts.Cache = openCache(t, cacheDir)
		out := compileOK(t, opts)
		if out.Cached != 0 || len(opts.Cache.Entries()) != 0 {
			t.Fatalf("run %d: cached %d, entries %d", run, out.Cached, len(opts.Cache.Entries()))
		}
		if got := upmostConst(t, out, "total"); got != 4 {
			t.Fatalf("run %d: total = %d, want 4", run, got)
		}
	}
}

func TestBrokenRecordIsParsed(t *testing.T) {
	dir := t.TempDir()
	cacheDir := t.TempDir()
	writeFiles(t, dir, map[string]string{"main.acs": mainSource, "doors.acs": libSource})
	opts := Options{Path: filepath.Join(dir, "main.acs")}

	opts.Cache = openCache(t, cacheDir)
	compileOK(t, opts)

	// a record that names one constant twice cannot be restored
	c := openCache(t, cacheDir)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	entries := c.Entries()
	if len(entries) != 1 {
		t.Fatalf("entries: %d", len(entries))
	}
	rec := entries[0]
	for i := range rec.Regions {
		if len(rec.Regions[i].Path) == 0 {
			rec.Regions[i].Constants = append(rec.Regions[i].Constants, cache.Constant{Name: "Speed", Value: 1})
		}
	}
	c.Put(rec)
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	opts.Cache = openCache(t, cacheDir)
	out := compileOK(t, opts)
	items := out.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.ProjCacheCorrupt || items[0].Severity != diag.SevWarning {
		t.Fatalf("diagnostics:\n%s", diagnostics(out))
	}
	if out.Cached != 0 || len(out.Files) != 2 {
		t.Fatalf("cached %d, parsed %d", out.Cached, len(out.Files))
	}
	if got := upmostConst(t, out, "total"); got != 12 {
		t.Fatalf("total = %d, want 12", got)
	}

	// the parsed library replaced the broken record
	opts.Cache = openCache(t, cacheDir)
	if out := compileOK(t, opts); out.Cached != 1 || out.Bag.Len() != 0 {
		t.Fatalf("cached %d after repair:\n%s", out.Cached, diagnostics(out))
	}
}
