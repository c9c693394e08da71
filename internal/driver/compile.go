package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"acsc/internal/ast"
	"acsc/internal/cache"
	"acsc/internal/diag"
	"acsc/internal/observ"
	"acsc/internal/sema"
	"acsc/internal/source"
	"acsc/internal/symbols"
	"acsc/internal/trace"
)

// Options configure one compilation.
type Options struct {
	Path           string
	Includes       []string // directories searched for imports, in order
	MaxDiagnostics int      // 0 = unlimited
	Cache          *cache.Cache
	Timer          *observ.Timer
}

// Output is what the front end produced. Diagnostics are in Bag; Result is
// nil when analysis did not run because loading or parsing failed.
type Output struct {
	FileSet *source.FileSet
	Bag     *diag.Bag
	Table   *symbols.Table
	Nodes   *ast.Nodes
	Files   []*ast.File // parsed files, imports first, main file last
	Result  *sema.Result
	Cached  int // libraries restored from the cache
}

// Compile loads the main file and everything it imports, then analyses the
// libraries that were not restored from the cache. The returned error is
// for failures outside the program itself: an unreadable main file or a
// cancelled context.
func Compile(ctx context.Context, opts Options) (*Output, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "compile", trace.CurrentSpan(ctx))
	defer span.End("")
	ctx = trace.WithSpan(ctx, span)

	path, err := filepath.Abs(opts.Path)
	if err != nil {
		return nil, err
	}
	// #nosec G304 -- the path comes from the command line
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", opts.Path, err)
	}

	out := &Output{
		FileSet: source.NewFileSet(),
		Bag:     diag.NewBag(opts.MaxDiagnostics),
		Nodes:   ast.NewNodes(0),
		Table:   symbols.NewTable(nil, nil),
	}
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: out.Bag})

	if opts.Cache != nil {
		done := opts.Timer.Track("cache_load")
		if err := opts.Cache.Load(ctx); err != nil {
			diag.ReportWarning(reporter, diag.ProjCacheCorrupt, source.NoSpan,
				fmt.Sprintf("failed to clean library cache: %v", err)).Emit()
		}
		done(fmt.Sprintf("%d entries", len(opts.Cache.Entries())))
	}

	l := &loader{
		ctx:      ctx,
		tracer:   tracer,
		span:     span.ID(),
		fs:       out.FileSet,
		nodes:    out.Nodes,
		table:    out.Table,
		reporter: reporter,
		includes: opts.Includes,
		cache:    opts.Cache,
		libs:     make(map[string]*library),
	}
	if opts.MaxDiagnostics > 0 {
		l.maxErrors = uint(opts.MaxDiagnostics)
	}

	loadDone := opts.Timer.Track("load")
	main := l.add(path, content, false)
	if err := l.visit(main); err != nil {
		loadDone("error")
		return out, err
	}
	loadDone(fmt.Sprintf("%d libraries", len(l.order)))

	restoreDone := opts.Timer.Track("restore")
	// l.order may grow while a library falls back to parsing.
	for i := 0; i < len(l.order); i++ {
		lib := l.order[i]
		if lib.record != nil {
			err := restoreLibrary(out.Table, lib.record)
			if err == nil {
				out.Cached++
				continue
			}
			diag.ReportWarning(reporter, diag.ProjCacheCorrupt, source.NoSpan,
				fmt.Sprintf("cannot restore %s from the cache, parsing it: %v", lib.src.DisplayPath(out.FileSet.BaseDir()), err)).Emit()
			if err := l.reparse(lib); err != nil {
				restoreDone("error")
				return out, err
			}
		}
		out.Files = append(out.Files, lib.file)
	}
	restoreDone(fmt.Sprintf("%d cached", out.Cached))

	if out.Bag.HasErrors() {
		span.WithExtra("stopped", "load")
		return out, nil
	}

	semaDone := opts.Timer.Track("sema")
	prog := &sema.Program{Nodes: out.Nodes, Table: out.Table, Files: out.Files}
	out.Result, err = sema.Check(ctx, prog, sema.Options{Reporter: reporter})
	if err != nil {
		semaDone("bail")
		if errors.Is(err, sema.ErrBail) {
			return out, nil
		}
		return out, err
	}
	semaDone(fmt.Sprintf("%d passes", out.Result.Passes))

	if opts.Cache != nil && !out.Bag.HasErrors() {
		storeDone := opts.Timer.Track("cache_store")
		stored := 0
		for _, lib := range l.order {
			if !lib.lib.Imported || lib.record != nil {
				continue
			}
			if rec, ok := exportLibrary(out.Table, lib); ok {
				opts.Cache.Put(rec)
				stored++
			}
		}
		if err := opts.Cache.Close(); err != nil {
			diag.ReportWarning(reporter, diag.ProjCacheWrite, source.NoSpan,
				fmt.Sprintf("failed to write library cache: %v", err)).Emit()
		}
		storeDone(fmt.Sprintf("%d stored", stored))
	}
	return out, nil
}
