package chanlog

import (
	"errors"
	"strings"
)

// Level is the total-ordered severity tag of a message.
type Level int

// Severity levels, from most to least verbose. A logger with threshold T
// emits a message of level L when T <= L, except for [LevelDevel], which is
// only visible when the threshold is exactly [LevelDevel].
const (
	LevelDevel   Level = iota - 1 // development-only chatter
	LevelDebug                    // diagnostic detail
	LevelWarning                  // attention may be required
	LevelRuntime                  // normal operational output
)

// criticalBanner is the fixed banner text for always-firing critical
// messages. Critical is not a Level of its own: it emits at whatever the
// current threshold is, tagged with this banner.
const criticalBanner = "CRITICAL FAILURE"

// ErrUnknownLevel indicates an unrecognized level string.
var ErrUnknownLevel = errors.New("unknown log level")

// String returns the lower-case name of the level, suitable for flag values.
func (l Level) String() string {
	switch l {
	case LevelDevel:
		return "devel"
	case LevelDebug:
		return "debug"
	case LevelWarning:
		return "warning"
	case LevelRuntime:
		return "runtime"
	}

	return "unknown"
}

// BannerName returns the upper-case name rendered in level banners.
func (l Level) BannerName() string {
	return strings.ToUpper(l.String())
}

// ParseLevel parses a level string and returns the corresponding [Level].
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(level) {
	case "devel":
		return LevelDevel, nil
	case "debug":
		return LevelDebug, nil
	case "warn", "warning":
		return LevelWarning, nil
	case "runtime":
		return LevelRuntime, nil
	}

	return 0, ErrUnknownLevel
}

// GetAllLevelStrings returns the canonical level names, most verbose first.
func GetAllLevelStrings() []string {
	return []string{"devel", "debug", "warning", "runtime"}
}
