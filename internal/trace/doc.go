// Package trace provides a tracing subsystem for the acsc compiler.
//
// The trace package tracks compilation passes and per-library work to help
// diagnose slow builds and resolution loops that fail to converge.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	acsc --trace=- --trace-level=phase main.acs
//
// # Tracers
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: immediate write to output (file/stderr)
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: failures only
//   - LevelPhase: driver and pass boundaries
//   - LevelDetail: library loads and cache lookups
//   - LevelDebug: everything including single declarations
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "resolve", trace.CurrentSpan(ctx))
//	defer span.End("")
package trace
