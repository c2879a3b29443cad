package chanlog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// destination is one registered output channel: the shared default, or a
// named per-identifier file. Entries are created at most once per channel key
// and reused for every subsequent message with that key until shutdown.
//
// All access happens inside the logger's critical section.
type destination struct {
	name string // destination name, drives file naming
	key  string // registry key
	path string // file path; empty when backed by an injected writer

	file   *os.File
	stream *bufio.Writer
	writer io.Writer // injected writer backing, used instead of a file

	// Suppression state: the last level banner and breadcrumb path written
	// to this destination.
	lastLevelBanner string
	lastContextPath string

	// needsReopen marks a destination whose stream was flushed and closed
	// (flush-every-write mode) or whose open failed; the next use reopens
	// the file positioned at end of file.
	needsReopen bool
}

// destinationPath builds the file path for a destination name: the default
// sentinel maps to the configured default file name, any other name maps to
// <name>.log. The directory prefix is omitted when unconfigured.
func (l *Logger) destinationPath(name string) string {
	if name == DefaultDestination {
		return filepath.Join(l.logDirectory, l.defaultFileName)
	}

	return filepath.Join(l.logDirectory, name+".log")
}

// ensureDefault lazily creates the default destination on first use.
func (l *Logger) ensureDefault() {
	if l.defaultDest != nil {
		return
	}

	d := &destination{
		name: DefaultDestination,
		key:  DefaultDestination,
	}

	if l.defaultWriter != nil {
		d.writer = l.defaultWriter
	} else {
		d.path = l.destinationPath(DefaultDestination)
		d.needsReopen = true
	}

	l.defaultDest = d
	l.destinations[d.key] = d
}

// resolveDestination returns the registry entry for the context's channel
// key, creating it on first use. Creation opens the file for append and
// writes the one-line identification banner. Must be called inside the
// critical section to avoid duplicate-open races.
func (l *Logger) resolveDestination(ctx Context) *destination {
	key := ctx.channelKey()

	if d, ok := l.destinations[key]; ok {
		return d
	}

	d := &destination{
		name:        ctx.destinationName(),
		key:         key,
		path:        l.destinationPath(ctx.destinationName()),
		needsReopen: true,
	}

	l.destinations[key] = d

	if l.ensureOpen(d) {
		l.writeDestination(d, fmt.Sprintf("TASK: %s ID: %s\n\n", ctx.TaskTag, key))
	}

	return d
}

// ensureOpen makes sure the destination has a live stream, reopening the
// underlying file positioned at end of file when needed. Open failures are
// reported to the error sink and leave the destination marked for another
// attempt on next use.
func (l *Logger) ensureOpen(d *destination) bool {
	if d.writer != nil {
		return true
	}

	if d.file != nil && !d.needsReopen {
		return true
	}

	file, err := os.OpenFile(d.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		l.reportError(d.name, err)

		return false
	}

	d.file = file
	d.stream = bufio.NewWriter(file)
	d.needsReopen = false

	return true
}

// writeDestination writes s to the destination, best-effort. Failures are
// reported to the error sink and otherwise swallowed: a dropped write never
// propagates to the logging caller.
func (l *Logger) writeDestination(d *destination, s string) {
	if !l.ensureOpen(d) {
		return
	}

	var err error
	if d.writer != nil {
		_, err = io.WriteString(d.writer, s)
	} else {
		_, err = d.stream.WriteString(s)
	}

	if err != nil {
		l.reportError(d.name, err)
	}
}

// flushDestination flushes and syncs the destination's file and closes the
// stream, leaving it to be lazily reopened at end of file on next use.
// Injected-writer destinations have nothing to flush.
func (l *Logger) flushDestination(d *destination) {
	if d.file == nil {
		return
	}

	if err := d.stream.Flush(); err != nil {
		l.reportError(d.name, err)
	}

	if err := d.file.Sync(); err != nil {
		l.reportError(d.name, err)
	}

	if err := d.file.Close(); err != nil {
		l.reportError(d.name, err)
	}

	d.file = nil
	d.stream = nil
	d.needsReopen = true
}

// reportError delivers a dropped-write event to the configured error sink.
// Emission stays best-effort regardless of whether a sink is installed.
func (l *Logger) reportError(dest string, err error) {
	if l.errorSink != nil {
		l.errorSink(dest, err)
	}
}
