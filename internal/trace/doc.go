// Package trace records what the compiler is doing: build stages, transform passes and
// per-file work. It is meant for diagnosing slow or stuck builds, not for user output.
//
//	tide build --trace=- --trace-level=detail
//
// A tracer travels in the context. Spans opened under a file span inherit its path, so
// events of parallel workers can be told apart:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, file := trace.StartFile(ctx, "Game/Player.cs")
//	_, pass := trace.Start(ctx, trace.ScopePass, "pass:normalize")
//	pass.End("")
//	file.End("ok")
//
// LevelPhase keeps driver and pass events, LevelDetail adds file events and LevelDebug
// keeps everything. Stream mode writes each event as it happens; ring mode keeps the
// last events in memory and writes them on Close.
package trace
