package chanlog

import (
	"io"
	"time"

	"go.jacobcolvin.com/chanlog/spinlock"
)

// exitMarker is the best-effort line appended to every still-open
// destination during shutdown.
const exitMarker = "EXCEPTION CAUGHT"

// ErrorSink observes dropped-write events. Destination I/O is best-effort
// throughout: a failed open, write, flush, or sync never propagates to the
// logging caller, but each failure is delivered here when a sink is
// installed. Sinks are invoked inside the logger's critical section and must
// not call back into the Logger.
type ErrorSink func(destination string, err error)

// Logger is the level-gating, multi-destination logging facade.
//
// Any number of goroutines may call its methods concurrently. The entire
// emission path runs inside one global critical section guarded by a
// [spinlock.SpinLock]: there is exactly one logical writer at a time
// system-wide, which keeps the per-destination suppression state and the
// destination registry free of races at the cost of per-destination
// parallelism. Lock acquisition has no timeout or cancellation; an in-flight
// emission cannot be aborted.
//
// Create instances with [Config.NewLogger].
type Logger struct {
	mu spinlock.SpinLock

	threshold   Level
	maxColumns  int
	indentWidth int
	startTime   time.Time

	flushEveryWrite    bool
	mirrorAllToConsole bool

	logDirectory    string
	defaultFileName string
	defaultWriter   io.Writer

	errorSink ErrorSink
	publisher *Publisher

	destinations map[string]*destination
	defaultDest  *destination

	closed bool
}

// Threshold returns the severity threshold the logger was created with.
func (l *Logger) Threshold() Level {
	return l.threshold
}

// enabled reports whether a message of the given level passes the threshold
// gate. The [LevelDevel] threshold is a devel-only mode: it accepts nothing
// but devel messages, and devel messages are invisible at every other
// threshold.
func (l *Logger) enabled(level Level) bool {
	if l.threshold == LevelDevel {
		return level == LevelDevel
	}

	return l.threshold <= level
}

// Debug emits the message parts at [LevelDebug].
func (l *Logger) Debug(ctx Context, parts ...string) {
	if !l.enabled(LevelDebug) {
		return
	}

	l.emit(parts, LevelDebug.BannerName(), ctx, false)
}

// Warning emits the message parts at [LevelWarning].
func (l *Logger) Warning(ctx Context, parts ...string) {
	if !l.enabled(LevelWarning) {
		return
	}

	l.emit(parts, LevelWarning.BannerName(), ctx, false)
}

// Log emits the message parts at [LevelRuntime].
func (l *Logger) Log(ctx Context, parts ...string) {
	if !l.enabled(LevelRuntime) {
		return
	}

	l.emit(parts, LevelRuntime.BannerName(), ctx, false)
}

// Devel emits the message parts only when the threshold is exactly
// [LevelDevel]; at any other threshold development chatter is invisible.
func (l *Logger) Devel(ctx Context, parts ...string) {
	if !l.enabled(LevelDevel) {
		return
	}

	l.emit(parts, LevelDevel.BannerName(), ctx, false)
}

// Critical always emits, regardless of the threshold, under the fixed
// CRITICAL FAILURE banner.
func (l *Logger) Critical(ctx Context, parts ...string) {
	l.emit(parts, criticalBanner, ctx, false)
}

// Header always emits a header-style message: the context path inline, the
// parts space-joined on a single unwrapped line. Headers never carry a
// timestamp and never render a breadcrumb block.
func (l *Logger) Header(ctx Context, parts ...string) {
	ctx.ShowTimestamp = false
	ctx.headerShown = true

	l.emit(parts, l.threshold.BannerName(), ctx, true)
}

// emit is the single synchronized emission path. It resolves the context's
// destination, maintains the per-destination suppression state, and performs
// all writes inside the global critical section, so no partial writes are
// observable across destinations.
func (l *Logger) emit(parts []string, levelName string, ctx Context, headerStyle bool) {
	l.mu.AcquireChecked("emit")
	defer l.mu.ReleaseChecked("emit")

	if l.closed {
		return
	}

	l.ensureDefault()

	// Console-only mode replaces named-destination writes with writes to
	// the default destination.
	dest := l.defaultDest
	if ctx.destinationName() != DefaultDestination && !l.mirrorAllToConsole {
		dest = l.resolveDestination(ctx)
	}

	label := elapsedLabel(time.Since(l.startTime))

	if levelName != dest.lastLevelBanner {
		l.emitChunk(dest, levelBanner(levelName, l.maxColumns)+"\n")
		dest.lastLevelBanner = levelName
	}

	path := ctx.RenderedPath()
	if !ctx.headerShown && path != dest.lastContextPath {
		l.emitChunk(dest, contextBanner(ctx))
	}

	dest.lastContextPath = path

	l.emitChunk(dest, messageBody(parts, ctx, label, headerStyle, l.maxColumns, l.indentWidth))

	if l.flushEveryWrite && dest != l.defaultDest {
		l.flushDestination(dest)
	}
}

// emitChunk writes one rendered chunk to the destination and offers it to
// the publisher, when one is installed.
func (l *Logger) emitChunk(d *destination, s string) {
	l.writeDestination(d, s)

	if l.publisher != nil {
		l.publisher.Publish(d.name, s)
	}
}

// Close shuts the logger down: it appends the exit marker to every
// still-open destination, flushes, syncs, and closes each one, swallowing
// per-destination failures and continuing with the rest. Callers are
// responsible for ensuring no goroutine is mid-emission; no join or barrier
// is provided. Emissions after Close are dropped.
func (l *Logger) Close() {
	l.mu.AcquireChecked("close")
	defer l.mu.ReleaseChecked("close")

	if l.closed {
		return
	}

	l.closed = true

	for _, d := range l.destinations {
		if d.writer != nil {
			if _, err := io.WriteString(d.writer, exitMarker+"\n"); err != nil {
				l.reportError(d.name, err)
			}

			continue
		}

		if d.file == nil {
			continue
		}

		if _, err := d.stream.WriteString(exitMarker + "\n"); err != nil {
			l.reportError(d.name, err)
		}

		l.flushDestination(d)
	}
}
