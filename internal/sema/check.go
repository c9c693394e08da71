package sema

import (
	"context"
	"fmt"

	"acsc/internal/ast"
	"acsc/internal/diag"
	"acsc/internal/symbols"
	"acsc/internal/trace"
)

// Program is everything Check analyses: parsed files of every library that
// was not restored from the cache, sharing one node arena and one table.
type Program struct {
	Nodes *ast.Nodes
	Table *symbols.Table
	Files []*ast.File
}

// Options configure a semantic pass over a program.
type Options struct {
	Reporter diag.Reporter
}

// Check binds every declaration, resolves them in as many passes as forward
// references require, then checks function and script bodies. The first
// fatal error stops the analysis; the returned Result is then partial.
func Check(ctx context.Context, prog *Program, opts Options) (*Result, error) {
	c := NewChecker(prog.Nodes, prog.Table, opts.Reporter)
	c.tracer = trace.FromContext(ctx)
	span := trace.Begin(c.tracer, trace.ScopePass, "sema", trace.CurrentSpan(ctx))
	defer span.End("")

	bind := trace.Begin(c.tracer, trace.ScopePass, "bind", span.ID())
	for _, file := range prog.Files {
		if err := c.bindFile(file); err != nil {
			bind.End("error")
			return c.result, err
		}
	}
	bind.WithExtra("decls", fmt.Sprint(len(c.tasks)+len(c.imports))).End("")

	resolve := trace.Begin(c.tracer, trace.ScopePass, "resolve", span.ID())
	if err := c.resolveAll(ctx, resolve.ID()); err != nil {
		resolve.End("error")
		return c.result, err
	}
	resolve.WithExtra("passes", fmt.Sprint(c.result.Passes)).End("")

	bodies := trace.Begin(c.tracer, trace.ScopePass, "bodies", span.ID())
	defer bodies.End("")
	if err := c.checkBodies(ctx); err != nil {
		return c.result, err
	}
	return c.result, nil
}
