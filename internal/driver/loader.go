package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"acsc/internal/ast"
	"acsc/internal/cache"
	"acsc/internal/diag"
	"acsc/internal/parser"
	"acsc/internal/source"
	"acsc/internal/symbols"
	"acsc/internal/trace"
)

type loadState uint8

const (
	stateNew loadState = iota
	stateVisiting
	stateDone
)

// library is one source file of the compilation and its place in the
// import graph.
type library struct {
	path   string // absolute
	src    *source.File
	lib    *symbols.Library
	file   *ast.File     // nil when restored from the cache
	record *cache.Record // set on a cache hit
	deps   []*library
	state  loadState
}

// importPaths returns the paths of the libraries this one imports.
func (l *library) importPaths() []string {
	out := make([]string, 0, len(l.deps))
	for _, dep := range l.deps {
		out = append(out, dep.path)
	}
	return out
}

// loader walks the import graph depth first. order receives every library
// after its imports, so the main file comes last.
type loader struct {
	ctx       context.Context
	tracer    trace.Tracer
	span      uint64
	fs        *source.FileSet
	nodes     *ast.Nodes
	table     *symbols.Table
	reporter  diag.Reporter
	includes  []string
	cache     *cache.Cache
	maxErrors uint

	libs  map[string]*library
	order []*library
	stack []*library
}

// add registers a file read from path.
func (l *loader) add(path string, content []byte, imported bool) *library {
	data, flags := source.Normalize(content)
	id := l.fs.Add(path, data, flags)
	lib := &library{
		path: path,
		src:  l.fs.Get(id),
		lib:  l.table.NewLibrary("", path),
	}
	lib.lib.Imported = imported
	l.libs[path] = lib
	return lib
}

// fetch reads the files not loaded yet in parallel and registers them in
// the order given. The returned map holds the paths that could not be read.
func (l *loader) fetch(paths []string) map[string]error {
	var todo []string
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		if p == "" || seen[p] || l.libs[p] != nil {
			continue
		}
		seen[p] = true
		todo = append(todo, p)
	}
	if len(todo) == 0 {
		return nil
	}

	contents := make([][]byte, len(todo))
	errs := make([]error, len(todo))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range todo {
		g.Go(func() error {
			// #nosec G304 -- imports name files on purpose
			contents[i], errs[i] = os.ReadFile(p)
			return nil
		})
	}
	_ = g.Wait()

	// FileSet не потокобезопасен, регистрируем последовательно
	var failed map[string]error
	for i, p := range todo {
		if errs[i] != nil {
			if failed == nil {
				failed = make(map[string]error)
			}
			failed[p] = errs[i]
			continue
		}
		l.add(p, contents[i], true)
	}
	return failed
}

// resolve finds an imported file: next to the importing file first, then
// in each include directory. It returns "" when nothing matches.
func (l *loader) resolve(importer, name string) string {
	var candidates []string
	if filepath.IsAbs(name) {
		candidates = []string{name}
	} else {
		candidates = append(candidates, filepath.Join(filepath.Dir(importer), name))
		for _, dir := range l.includes {
			candidates = append(candidates, filepath.Join(dir, name))
		}
	}
	for _, c := range candidates {
		info, err := os.Stat(c)
		if err != nil || info.IsDir() {
			continue
		}
		if abs, err := filepath.Abs(c); err == nil {
			return filepath.Clean(abs)
		}
		return filepath.Clean(c)
	}
	return ""
}

func (l *loader) visit(lib *library) error {
	if err := l.ctx.Err(); err != nil {
		return err
	}
	span := trace.Begin(l.tracer, trace.ScopeLibrary, "load "+filepath.Base(lib.path), l.span)
	lib.state = stateVisiting
	l.stack = append(l.stack, lib)
	defer func() {
		l.stack = l.stack[:len(l.stack)-1]
		lib.state = stateDone
		l.order = append(l.order, lib)
	}()

	if lib.lib.Imported {
		if rec, ok := l.cache.Get(lib.path, cache.Digest(lib.src.Hash)); ok {
			hit, err := l.visitCached(lib, rec)
			if err != nil {
				span.End("error")
				return err
			}
			if hit {
				span.WithExtra("deps", fmt.Sprint(len(lib.deps))).End("cached")
				return nil
			}
		}
	}

	l.parse(lib)
	err := l.visitImports(lib)
	span.WithExtra("deps", fmt.Sprint(len(lib.deps))).End("parsed")
	return err
}

// visitCached follows the imports a cached record remembers. The record is
// used only when every import is a cache hit too; otherwise the library is
// parsed like any other.
func (l *loader) visitCached(lib *library, rec *cache.Record) (bool, error) {
	l.fetch(rec.Imports)
	deps := make([]*library, 0, len(rec.Imports))
	for _, path := range rec.Imports {
		dep, ok := l.libs[path]
		if !ok || dep.state == stateVisiting {
			return false, nil
		}
		if dep.state == stateNew {
			if err := l.visit(dep); err != nil {
				return false, err
			}
		}
		if dep.record == nil {
			return false, nil
		}
		deps = append(deps, dep)
	}
	lib.record = rec
	lib.deps = deps
	lib.lib.Name = rec.Name
	lib.lib.Cached = true
	return true, nil
}

func (l *loader) parse(lib *library) {
	opts := parser.Options{Reporter: l.reporter, MaxErrors: l.maxErrors}
	lib.file = parser.ParseFile(lib.src, lib.lib.ID, l.nodes, l.table.Strings, opts)
	if lib.file.Library != nil {
		lib.lib.Name = lib.file.Library.Name
	}
}

// reparse drops the cache record of lib and parses it instead. Its imports
// are loaded already, unless the include directories changed since the
// record was written.
func (l *loader) reparse(lib *library) error {
	lib.record = nil
	lib.lib.Cached = false
	l.parse(lib)
	return l.visitImports(lib)
}

func (l *loader) visitImports(lib *library) error {
	decls := fileImports(lib.file.Decls, nil)
	paths := make([]string, len(decls))
	for i, d := range decls {
		paths[i] = l.resolve(lib.path, d.Path)
	}
	failed := l.fetch(paths)

	for i, d := range decls {
		path := paths[i]
		if path == "" {
			diag.ReportError(l.reporter, diag.IOImportMissing, d.Pos,
				fmt.Sprintf("imported file not found: %s", d.Path)).Emit()
			continue
		}
		if err, ok := failed[path]; ok {
			diag.ReportError(l.reporter, diag.IOLoadFileError, d.Pos,
				fmt.Sprintf("failed to read %s: %v", d.Path, err)).Emit()
			continue
		}
		dep := l.libs[path]
		switch dep.state {
		case stateVisiting:
			diag.ReportError(l.reporter, diag.IOImportCycle, d.Pos,
				fmt.Sprintf("import cycle: %s", l.cycle(dep))).Emit()
			continue
		case stateNew:
			if err := l.visit(dep); err != nil {
				return err
			}
		}
		if !hasDep(lib.deps, dep) {
			lib.deps = append(lib.deps, dep)
		}
	}
	return nil
}

// cycle renders the import chain from dep back to itself.
func (l *loader) cycle(dep *library) string {
	var names []string
	for i := len(l.stack) - 1; i >= 0; i-- {
		names = append(names, l.stack[i].src.DisplayPath(l.fs.BaseDir()))
		if l.stack[i] == dep {
			break
		}
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	names = append(names, dep.src.DisplayPath(l.fs.BaseDir()))
	return strings.Join(names, " -> ")
}

// fileImports collects `import "file";` declarations, regions included.
func fileImports(decls []ast.Decl, out []*ast.ImportDecl) []*ast.ImportDecl {
	for _, decl := range decls {
		switch d := decl.(type) {
		case *ast.ImportDecl:
			if d.Path != "" {
				out = append(out, d)
			}
		case *ast.RegionDecl:
			out = fileImports(d.Decls, out)
		}
	}
	return out
}

func hasDep(deps []*library, dep *library) bool {
	for _, d := range deps {
		if d == dep {
			return true
		}
	}
	return false
}
