// Package chanlog is a leveled, multi-destination logging facility for
// highly concurrent programs.
//
// Callers emit free-form text messages tagged with a severity [Level] and an
// optional hierarchical [Context] — a stack-trace-like breadcrumb — and the
// [Logger] routes each message to one of several lazily created destinations:
// the shared default destination, or a per-identifier file chosen by the
// context. All emission runs inside one global critical section guarded by a
// hand-built [go.jacobcolvin.com/chanlog/spinlock.SpinLock], so concurrent
// callers never interleave output and the per-destination banner suppression
// state stays race-free.
//
// Severity levels form the total order [LevelDevel] < [LevelDebug] <
// [LevelWarning] < [LevelRuntime]. A logger emits a message when its
// threshold is at or below the message level; [Logger.Devel] is the
// exception, visible only when the threshold is exactly [LevelDevel], and
// [Logger.Critical] always fires under the fixed CRITICAL FAILURE banner.
//
// Typical usage creates a [Config], builds a [Logger], and derives contexts
// per call chain:
//
//	cfg := chanlog.NewConfig()
//	cfg.LogDirectory = "/var/log/myapp"
//
//	logger, err := cfg.NewLogger()
//	if err != nil {
//		return err
//	}
//	defer logger.Close()
//
//	ctx := chanlog.NewContext("worker-7")
//	ctx.TaskTag = "7"
//	ctx = ctx.WithFrame("main").WithFrame("ingest")
//
//	logger.Debug(ctx, "starting 6 tasks")
//	logger.Log(ctx, "ending")
//
// Destination I/O is best-effort: a failed open, write, flush, or sync never
// propagates to the logging caller. Install an [ErrorSink] via [Config] to
// observe dropped writes, and a [Publisher] to observe rendered output
// without touching the destination files.
package chanlog
