package chanlog

import (
	"fmt"
	"strings"
	"time"
)

const (
	// bannerFill pads level banners out to the configured column width.
	bannerFill = "/"

	// bannerLeadWidth is the fixed run of fill characters before the level
	// name in a level banner.
	bannerLeadWidth = 5

	// breadcrumbIndent is the fixed indent of the breadcrumb banner line.
	breadcrumbIndent = 6

	// elapsedSeparator sits between the elapsed-time label and the message.
	elapsedSeparator = " - "
)

// levelBanner renders the fixed-width line announcing the active severity:
// five fill characters, a space, the level name, a space, then fill padding
// to exactly maxColumns. Names too long to pad are not clipped.
func levelBanner(levelName string, maxColumns int) string {
	var sb strings.Builder

	sb.WriteString(strings.Repeat(bannerFill, bannerLeadWidth))
	sb.WriteByte(' ')
	sb.WriteString(levelName)
	sb.WriteByte(' ')

	if pad := maxColumns - sb.Len(); pad > 0 {
		sb.WriteString(strings.Repeat(bannerFill, pad))
	}

	return sb.String()
}

// contextBanner renders the breadcrumb block: a blank line, the indented
// rendered path with a trailing separator, and another blank line.
func contextBanner(ctx Context) string {
	var sb strings.Builder

	sb.WriteByte('\n')
	sb.WriteString(strings.Repeat(" ", breadcrumbIndent))
	sb.WriteString(ctx.RenderedPath())
	sb.WriteString(ctx.separator())
	sb.WriteString("\n\n")

	return sb.String()
}

// elapsedLabel renders the fixed-width elapsed-time stamp: total seconds
// since logger start, zero-padded to ten characters with two decimals.
func elapsedLabel(elapsed time.Duration) string {
	return fmt.Sprintf("%010.2f", elapsed.Seconds())
}

// messageBody renders the message parts.
//
// Header style renders a single unwrapped line: the context path inline,
// then all parts space-joined. Body style renders an indented line with an
// optional elapsed-time label, word-wrapped token by token so that no line
// exceeds maxColumns; continuation lines are indented twice as deep as the
// first. Single tokens wider than maxColumns are not split.
func messageBody(parts []string, ctx Context, label string, headerStyle bool, maxColumns, indentWidth int) string {
	if headerStyle {
		return headerLine(parts, ctx, label)
	}

	var sb strings.Builder

	indent := strings.Repeat(" ", indentWidth)
	continuation := strings.Repeat(" ", indentWidth*2)

	sb.WriteString(indent)
	col := indentWidth

	if ctx.ShowTimestamp {
		sb.WriteString(label)
		sb.WriteString(elapsedSeparator)
		col += len(label) + len(elapsedSeparator)
	}

	lineStart := true

	for _, part := range parts {
		for _, token := range strings.Fields(part) {
			width := len(token)
			if !lineStart {
				width++ // joining space
			}

			if !lineStart && col+width > maxColumns {
				sb.WriteByte('\n')
				sb.WriteString(continuation)

				col = len(continuation)
				lineStart = true
				width = len(token)
			}

			if !lineStart {
				sb.WriteByte(' ')
			}

			sb.WriteString(token)

			col += width
			lineStart = false
		}
	}

	sb.WriteByte('\n')

	return sb.String()
}

// headerLine renders the single-line inline form used by header-style
// messages: the context's path as a prefix, then the parts space-joined,
// never wrapped.
func headerLine(parts []string, ctx Context, label string) string {
	var sb strings.Builder

	if ctx.ShowTimestamp {
		sb.WriteString(label)
		sb.WriteString(elapsedSeparator)
	}

	if path := ctx.RenderedPath(); path != "" {
		sb.WriteString(path)
		sb.WriteString(ctx.separator())
		sb.WriteByte(' ')
	}

	sb.WriteString(strings.Join(parts, " "))
	sb.WriteByte('\n')

	return sb.String()
}
