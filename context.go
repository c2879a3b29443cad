package chanlog

import "strings"

// Default formatting parameters for a [Context] created with [NewContext].
const (
	// DefaultDestination is the sentinel destination name that routes a
	// message to the shared default destination.
	DefaultDestination = "default"

	// DefaultSeparator joins breadcrumb frames in rendered paths.
	DefaultSeparator = "//"

	// DefaultMaxDisplayDepth is the number of trailing frames shown before
	// older frames collapse into the truncation marker.
	DefaultMaxDisplayDepth = 5

	// truncationMark prefixes a rendered path whose older frames were elided.
	truncationMark = ".."
)

// Context is the hierarchical breadcrumb carried alongside a log call,
// together with per-call formatting flags.
//
// A Context is a value type: it is passed by value into nested calls, and
// appending a frame never mutates a Context shared with another caller.
// [Context.WithFrame] returns a derived copy; [Context.PushFrame] mutates the
// caller's own binding in place. Both forms copy the frame storage, so two
// independent appends from the same base never observe each other's frame.
//
// The zero value targets the default destination with default formatting
// parameters.
type Context struct {
	frames []string

	// MaxDisplayDepth caps how many trailing frames RenderedPath shows.
	// Zero means DefaultMaxDisplayDepth.
	MaxDisplayDepth int

	// Separator joins displayed frames. Empty means DefaultSeparator.
	Separator string

	// DestinationName selects the output file; DefaultDestination (or empty)
	// selects the shared default destination.
	DestinationName string

	// ChannelKey is the destination registry key. Distinct keys may target
	// the same file name. Empty means the DestinationName itself.
	ChannelKey string

	// TaskTag is an opaque tag recorded in destination identification
	// banners.
	TaskTag string

	// ShowTimestamp controls whether body-style messages carry the
	// elapsed-time label.
	ShowTimestamp bool

	// headerShown suppresses the breadcrumb banner for this emission when
	// set; header-style messages never render a breadcrumb block.
	headerShown bool
}

// NewContext creates a Context targeting the named destination, with default
// display depth and separator and timestamps enabled.
func NewContext(destinationName string) Context {
	return Context{
		MaxDisplayDepth: DefaultMaxDisplayDepth,
		Separator:       DefaultSeparator,
		DestinationName: destinationName,
		ChannelKey:      destinationName,
		ShowTimestamp:   true,
	}
}

// WithFrame returns a copy of the context with frame appended to the
// breadcrumb stack. The receiver is unmodified.
func (c Context) WithFrame(frame string) Context {
	frames := make([]string, len(c.frames), len(c.frames)+1)
	copy(frames, c.frames)

	c.frames = append(frames, frame)

	return c
}

// PushFrame appends frame to the breadcrumb stack in place. Only the
// receiver's own value is mutated; contexts previously derived from it keep
// their own frame storage.
func (c *Context) PushFrame(frame string) {
	*c = c.WithFrame(frame)
}

// Frames returns a copy of the breadcrumb stack, oldest first.
func (c Context) Frames() []string {
	frames := make([]string, len(c.frames))
	copy(frames, c.frames)

	return frames
}

// Depth returns the number of frames on the breadcrumb stack.
func (c Context) Depth() int {
	return len(c.frames)
}

// separator returns the effective frame separator.
func (c Context) separator() string {
	if c.Separator == "" {
		return DefaultSeparator
	}

	return c.Separator
}

// maxDisplayDepth returns the effective display depth cap.
func (c Context) maxDisplayDepth() int {
	if c.MaxDisplayDepth <= 0 {
		return DefaultMaxDisplayDepth
	}

	return c.MaxDisplayDepth
}

// destinationName returns the effective destination name, mapping the empty
// string to [DefaultDestination].
func (c Context) destinationName() string {
	if c.DestinationName == "" {
		return DefaultDestination
	}

	return c.DestinationName
}

// channelKey returns the effective registry key, falling back to the
// destination name when unset.
func (c Context) channelKey() string {
	if c.ChannelKey == "" {
		return c.destinationName()
	}

	return c.ChannelKey
}

// RenderedPath joins the most recent frames with the separator, capped at the
// display depth. When older frames are elided the path is prefixed with the
// truncation marker and a separator. The rendered path doubles as the
// deduplication key for breadcrumb-banner suppression.
func (c Context) RenderedPath() string {
	sep := c.separator()

	shown := c.frames
	truncated := false

	if depth := c.maxDisplayDepth(); len(shown) > depth {
		shown = shown[len(shown)-depth:]
		truncated = true
	}

	path := strings.Join(shown, sep)
	if truncated {
		path = truncationMark + sep + path
	}

	return path
}

// EstimatedByteSize estimates the rendered size of the full breadcrumb:
// frame bytes plus separators plus a fixed overhead. Advisory only; it is
// not load-bearing for formatting.
func (c Context) EstimatedByteSize() int {
	const fixedOverhead = 16

	size := fixedOverhead + len(c.separator())*len(c.frames)
	for _, f := range c.frames {
		size += len(f)
	}

	return size
}
