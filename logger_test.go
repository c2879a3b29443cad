package chanlog_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/chanlog"
	"go.jacobcolvin.com/chanlog/stringtest"
)

// newTestLogger builds a logger writing its default destination to an
// in-memory buffer. Writes are serialized by the logger's own lock, so the
// buffer needs no extra synchronization.
func newTestLogger(t *testing.T, mutate func(*chanlog.Config)) (*chanlog.Logger, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer

	cfg := chanlog.NewConfig()
	cfg.DefaultWriter = &buf
	cfg.MaxColumns = 40

	if mutate != nil {
		mutate(cfg)
	}

	logger, err := cfg.NewLogger()
	require.NoError(t, err)

	return logger, &buf
}

// plainContext returns a default-destination context without timestamps, so
// golden assertions are deterministic.
func plainContext(frames ...string) chanlog.Context {
	ctx := chanlog.NewContext(chanlog.DefaultDestination)
	ctx.ShowTimestamp = false

	for _, f := range frames {
		ctx.PushFrame(f)
	}

	return ctx
}

func TestLoggerEndToEnd(t *testing.T) {
	t.Parallel()

	logger, buf := newTestLogger(t, nil)

	ctx := plainContext("main", "tasks")

	logger.Debug(ctx, "Starting 6 tasks")
	logger.Log(ctx, "Ending")

	want := stringtest.JoinLF(
		"///// DEBUG "+strings.Repeat("/", 28),
		"",
		"      main//tasks//",
		"",
		"     Starting 6 tasks",
		"///// RUNTIME "+strings.Repeat("/", 26),
		"     Ending",
		"",
	)

	assert.Equal(t, want, buf.String())
}

func TestLevelBannerSuppression(t *testing.T) {
	t.Parallel()

	t.Run("identical level emits one banner", func(t *testing.T) {
		t.Parallel()

		logger, buf := newTestLogger(t, nil)
		ctx := plainContext("main")

		logger.Debug(ctx, "first")
		logger.Debug(ctx, "second")

		assert.Equal(t, 1, stringtest.Occurrences(buf.String(), "///// DEBUG"))
	})

	t.Run("changed level emits a new banner", func(t *testing.T) {
		t.Parallel()

		logger, buf := newTestLogger(t, nil)
		ctx := plainContext("main")

		logger.Debug(ctx, "first")
		logger.Warning(ctx, "second")
		logger.Debug(ctx, "third")

		out := buf.String()
		assert.Equal(t, 2, stringtest.Occurrences(out, "///// DEBUG"))
		assert.Equal(t, 1, stringtest.Occurrences(out, "///// WARNING"))
	})
}

func TestBreadcrumbSuppression(t *testing.T) {
	t.Parallel()

	t.Run("identical path emits one block", func(t *testing.T) {
		t.Parallel()

		logger, buf := newTestLogger(t, nil)
		ctx := plainContext("main", "ingest")

		logger.Log(ctx, "first")
		logger.Log(ctx, "second")

		assert.Equal(t, 1, stringtest.Occurrences(buf.String(), "      main//ingest//"))
	})

	t.Run("changed path emits a new block", func(t *testing.T) {
		t.Parallel()

		logger, buf := newTestLogger(t, nil)
		ctx := plainContext("main")

		logger.Log(ctx, "first")
		logger.Log(ctx.WithFrame("deeper"), "second")

		out := buf.String()
		assert.Equal(t, 1, stringtest.Occurrences(out, "      main//\n"))
		assert.Equal(t, 1, stringtest.Occurrences(out, "      main//deeper//\n"))
	})
}

func TestLevelGating(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		threshold string
		logFunc   func(*chanlog.Logger, chanlog.Context)
		emitted   bool
	}{
		"debug passes at debug threshold": {
			threshold: "debug",
			logFunc:   func(l *chanlog.Logger, ctx chanlog.Context) { l.Debug(ctx, "m") },
			emitted:   true,
		},
		"debug blocked at warning threshold": {
			threshold: "warning",
			logFunc:   func(l *chanlog.Logger, ctx chanlog.Context) { l.Debug(ctx, "m") },
			emitted:   false,
		},
		"warning passes at warning threshold": {
			threshold: "warning",
			logFunc:   func(l *chanlog.Logger, ctx chanlog.Context) { l.Warning(ctx, "m") },
			emitted:   true,
		},
		"warning blocked at runtime threshold": {
			threshold: "runtime",
			logFunc:   func(l *chanlog.Logger, ctx chanlog.Context) { l.Warning(ctx, "m") },
			emitted:   false,
		},
		"runtime passes at runtime threshold": {
			threshold: "runtime",
			logFunc:   func(l *chanlog.Logger, ctx chanlog.Context) { l.Log(ctx, "m") },
			emitted:   true,
		},
		"devel passes only at devel threshold": {
			threshold: "devel",
			logFunc:   func(l *chanlog.Logger, ctx chanlog.Context) { l.Devel(ctx, "m") },
			emitted:   true,
		},
		"devel blocked at debug threshold": {
			threshold: "debug",
			logFunc:   func(l *chanlog.Logger, ctx chanlog.Context) { l.Devel(ctx, "m") },
			emitted:   false,
		},
		"debug produces nothing at devel threshold": {
			threshold: "devel",
			logFunc:   func(l *chanlog.Logger, ctx chanlog.Context) { l.Debug(ctx, "m") },
			emitted:   false,
		},
		"critical passes at runtime threshold": {
			threshold: "runtime",
			logFunc:   func(l *chanlog.Logger, ctx chanlog.Context) { l.Critical(ctx, "m") },
			emitted:   true,
		},
		"critical passes at devel threshold": {
			threshold: "devel",
			logFunc:   func(l *chanlog.Logger, ctx chanlog.Context) { l.Critical(ctx, "m") },
			emitted:   true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			logger, buf := newTestLogger(t, func(cfg *chanlog.Config) {
				cfg.Threshold = tc.threshold
			})

			tc.logFunc(logger, plainContext("main"))

			if tc.emitted {
				assert.NotEmpty(t, buf.String())
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestCriticalBanner(t *testing.T) {
	t.Parallel()

	logger, buf := newTestLogger(t, func(cfg *chanlog.Config) {
		cfg.Threshold = "runtime"
	})

	logger.Critical(plainContext("main"), "disk on fire")

	out := buf.String()
	assert.Equal(t, 1, stringtest.Occurrences(out, "///// CRITICAL FAILURE"))
	assert.Contains(t, out, "disk on fire")
}

func TestHeaderStyle(t *testing.T) {
	t.Parallel()

	logger, buf := newTestLogger(t, func(cfg *chanlog.Config) {
		cfg.Threshold = "runtime"
	})

	ctx := chanlog.NewContext(chanlog.DefaultDestination)
	ctx.PushFrame("main")
	ctx.PushFrame("boot")

	logger.Header(ctx, "chanlog", "demo", "v1")

	out := buf.String()

	// Header never renders the breadcrumb block, only the inline prefix.
	assert.NotContains(t, out, "      main//boot//")
	assert.Contains(t, out, "main//boot// chanlog demo v1\n")

	// Timestamps are forced off for headers.
	assert.NotRegexp(t, regexp.MustCompile(`\d{7}\.\d{2} - `), out)
}

func TestTimestampLabel(t *testing.T) {
	t.Parallel()

	logger, buf := newTestLogger(t, nil)

	ctx := chanlog.NewContext(chanlog.DefaultDestination) // timestamps on
	logger.Debug(ctx, "hello")

	assert.Regexp(t, regexp.MustCompile(`(?m)^ {5}\d{7}\.\d{2} - hello$`), buf.String())
}

func TestNamedDestinations(t *testing.T) {
	t.Parallel()

	t.Run("file layout and identification banner", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()

		cfg := chanlog.NewConfig()
		cfg.LogDirectory = dir
		cfg.MaxColumns = 40

		logger, err := cfg.NewLogger()
		require.NoError(t, err)

		ctx := chanlog.NewContext("alpha")
		ctx.ShowTimestamp = false
		ctx.TaskTag = "7"
		ctx.PushFrame("main")

		logger.Debug(ctx, "first")
		logger.Debug(ctx, "second")
		logger.Close()

		data, err := os.ReadFile(filepath.Join(dir, "alpha.log"))
		require.NoError(t, err)

		out := string(data)
		lines := stringtest.Lines(out)
		require.NotEmpty(t, lines)

		assert.Equal(t, "TASK: 7 ID: alpha", lines[0])
		assert.Equal(t, "", lines[1])
		assert.Equal(t, 1, stringtest.Occurrences(out, "TASK:"), "identification banner is written once per key")
		assert.Contains(t, out, "first")
		assert.Contains(t, out, "second")
	})

	t.Run("distinct keys share a file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()

		cfg := chanlog.NewConfig()
		cfg.LogDirectory = dir
		cfg.MaxColumns = 40

		logger, err := cfg.NewLogger()
		require.NoError(t, err)

		one := chanlog.NewContext("shared")
		one.ShowTimestamp = false
		one.ChannelKey = "k1"

		two := chanlog.NewContext("shared")
		two.ShowTimestamp = false
		two.ChannelKey = "k2"

		logger.Log(one, "from k1")
		logger.Log(two, "from k2")
		logger.Close()

		data, err := os.ReadFile(filepath.Join(dir, "shared.log"))
		require.NoError(t, err)

		out := string(data)
		assert.Contains(t, out, "ID: k1")
		assert.Contains(t, out, "ID: k2")
		assert.Contains(t, out, "from k1")
		assert.Contains(t, out, "from k2")
	})

	t.Run("default destination file naming", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()

		cfg := chanlog.NewConfig()
		cfg.LogDirectory = dir
		cfg.DefaultFileName = "main.log"
		cfg.MaxColumns = 40

		logger, err := cfg.NewLogger()
		require.NoError(t, err)

		logger.Log(plainContext("main"), "to the default")
		logger.Close()

		data, err := os.ReadFile(filepath.Join(dir, "main.log"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "to the default")
	})
}

func TestMirrorConsoleOnly(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	var buf bytes.Buffer

	cfg := chanlog.NewConfig()
	cfg.LogDirectory = dir
	cfg.DefaultWriter = &buf
	cfg.MirrorAllToConsole = true
	cfg.MaxColumns = 40

	logger, err := cfg.NewLogger()
	require.NoError(t, err)

	ctx := chanlog.NewContext("alpha")
	ctx.ShowTimestamp = false

	logger.Log(ctx, "redirected")
	logger.Close()

	assert.Contains(t, buf.String(), "redirected")
	assert.NoFileExists(t, filepath.Join(dir, "alpha.log"),
		"console-only mode must not open named destinations")
}

func TestFlushEveryWrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cfg := chanlog.NewConfig()
	cfg.LogDirectory = dir
	cfg.FlushEveryWrite = true
	cfg.MaxColumns = 40

	logger, err := cfg.NewLogger()
	require.NoError(t, err)

	ctx := chanlog.NewContext("beta")
	ctx.ShowTimestamp = false

	logger.Log(ctx, "first")

	// The stream was flushed and closed; content is on disk before Close.
	data, err := os.ReadFile(filepath.Join(dir, "beta.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "first")

	// Next use reopens at end of file and appends.
	logger.Log(ctx, "second")

	data, err = os.ReadFile(filepath.Join(dir, "beta.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "first")
	assert.Contains(t, string(data), "second")

	logger.Close()
}

func TestErrorSink(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	// A regular file where the log directory should be makes every open
	// under it fail.
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	var (
		buf     bytes.Buffer
		dropped []string
	)

	cfg := chanlog.NewConfig()
	cfg.LogDirectory = blocker
	cfg.DefaultWriter = &buf
	cfg.MaxColumns = 40
	cfg.ErrorSink = func(destination string, err error) {
		require.Error(t, err)
		dropped = append(dropped, destination)
	}

	logger, err := cfg.NewLogger()
	require.NoError(t, err)

	ctx := chanlog.NewContext("gamma")
	ctx.ShowTimestamp = false

	// Emission is best-effort: the caller must be unaffected.
	require.NotPanics(t, func() {
		logger.Log(ctx, "lost")
	})

	assert.NotEmpty(t, dropped)
	assert.Contains(t, dropped, "gamma")

	logger.Close()
}

func TestClose(t *testing.T) {
	t.Parallel()

	t.Run("appends exit marker and drops later emissions", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()

		cfg := chanlog.NewConfig()
		cfg.LogDirectory = dir
		cfg.MaxColumns = 40

		logger, err := cfg.NewLogger()
		require.NoError(t, err)

		ctx := chanlog.NewContext("delta")
		ctx.ShowTimestamp = false

		logger.Log(ctx, "before close")
		logger.Close()

		path := filepath.Join(dir, "delta.log")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(string(data), "EXCEPTION CAUGHT\n"))

		logger.Log(ctx, "after close")

		after, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, data, after, "emissions after Close must be dropped")
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()

		logger, buf := newTestLogger(t, nil)

		logger.Log(plainContext("main"), "hello")
		logger.Close()

		first := buf.String()

		logger.Close()
		assert.Equal(t, first, buf.String())
	})
}

func TestConcurrentEmission(t *testing.T) {
	t.Parallel()

	const (
		goroutines = 8
		messages   = 50
	)

	logger, buf := newTestLogger(t, nil)

	var wg sync.WaitGroup

	for g := range goroutines {
		wg.Go(func() {
			ctx := chanlog.NewContext(chanlog.DefaultDestination)
			ctx.ShowTimestamp = false

			for m := range messages {
				logger.Log(ctx, fmt.Sprintf("msg-g%d-m%d", g, m))
			}
		})
	}

	wg.Wait()

	out := buf.String()

	// Every message appears exactly once, fully intact on its own line.
	for g := range goroutines {
		for m := range messages {
			tag := fmt.Sprintf("msg-g%d-m%d", g, m)
			require.Equal(t, 1, stringtest.Occurrences(out, tag+"\n"), "message %s", tag)
		}
	}

	// All emissions share one level, so the banner appears exactly once.
	assert.Equal(t, 1, stringtest.Occurrences(out, "///// RUNTIME"))
}
