package chanlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Configuration defaults.
const (
	DefaultMaxColumns  = 160
	DefaultIndentWidth = 5
	DefaultFileName    = "default.log"
)

// Sentinel errors returned by configuration handling.
var (
	// ErrInvalidConfig indicates a configuration value that cannot be used.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrReadConfig indicates a configuration file that cannot be read or
	// parsed.
	ErrReadConfig = errors.New("read config")
)

// Flags holds CLI flag names for logger configuration, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	Threshold       string
	MaxColumns      string
	IndentWidth     string
	LogDirectory    string
	DefaultFileName string
	FlushEveryWrite string
	MirrorConsole   string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags:           f,
		Threshold:       LevelDebug.String(),
		MaxColumns:      DefaultMaxColumns,
		IndentWidth:     DefaultIndentWidth,
		DefaultFileName: DefaultFileName,
	}
}

// Config holds logger configuration.
//
// Create instances with [NewConfig], register CLI flags with
// [Config.RegisterFlags], or populate from a YAML file with
// [Config.LoadFile]. Use [Config.NewLogger] to construct the [Logger].
type Config struct {
	Flags Flags `yaml:"-" json:"-"`

	// Threshold is the minimum severity accepted, by level name.
	Threshold string `yaml:"threshold" json:"threshold"`

	// MaxColumns is the total line width for banners and word wrapping.
	MaxColumns int `yaml:"maxColumns" json:"maxColumns"`

	// IndentWidth is the indent of body-style message lines; continuation
	// lines indent twice as deep.
	IndentWidth int `yaml:"indentWidth" json:"indentWidth"`

	// LogDirectory is where destination files are created. Empty means the
	// working directory.
	LogDirectory string `yaml:"logDirectory" json:"logDirectory"`

	// DefaultFileName names the default destination's file.
	DefaultFileName string `yaml:"defaultFileName" json:"defaultFileName"`

	// FlushEveryWrite flushes, syncs, and closes a named destination's
	// stream after every write; the stream is lazily reopened at end of
	// file on next use.
	FlushEveryWrite bool `yaml:"flushEveryWrite" json:"flushEveryWrite"`

	// MirrorAllToConsole replaces writes to named destinations with writes
	// to the default destination only (console-only mode).
	MirrorAllToConsole bool `yaml:"mirrorAllToConsole" json:"mirrorAllToConsole"`

	// DefaultWriter, when set, backs the default destination instead of a
	// file. Injection point for tests and console-style usage.
	DefaultWriter io.Writer `yaml:"-" json:"-"`

	// ErrorSink observes dropped-write events. Optional.
	ErrorSink ErrorSink `yaml:"-" json:"-"`

	// Publisher, when set, receives every rendered chunk alongside the
	// destination writes. Optional.
	Publisher *Publisher `yaml:"-" json:"-"`
}

// NewConfig returns a new [Config] with default flag names and default
// values. Use [Config.RegisterFlags] to add CLI flags, or set values
// directly.
func NewConfig() *Config {
	f := Flags{
		Threshold:       "threshold",
		MaxColumns:      "max-columns",
		IndentWidth:     "indent-width",
		LogDirectory:    "log-dir",
		DefaultFileName: "default-file",
		FlushEveryWrite: "flush-every-write",
		MirrorConsole:   "mirror-console",
	}

	return f.NewConfig()
}

// RegisterFlags adds logger flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Threshold, c.Flags.Threshold, c.Threshold,
		fmt.Sprintf("severity threshold, one of: %s", GetAllLevelStrings()))
	flags.IntVar(&c.MaxColumns, c.Flags.MaxColumns, c.MaxColumns,
		"total line width for banners and word wrapping")
	flags.IntVar(&c.IndentWidth, c.Flags.IndentWidth, c.IndentWidth,
		"indent of message lines")
	flags.StringVar(&c.LogDirectory, c.Flags.LogDirectory, c.LogDirectory,
		"directory for destination files")
	flags.StringVar(&c.DefaultFileName, c.Flags.DefaultFileName, c.DefaultFileName,
		"file name of the default destination")
	flags.BoolVar(&c.FlushEveryWrite, c.Flags.FlushEveryWrite, c.FlushEveryWrite,
		"flush and sync named destinations after every write")
	flags.BoolVar(&c.MirrorAllToConsole, c.Flags.MirrorConsole, c.MirrorAllToConsole,
		"write only to the default destination, replacing named-destination writes")
}

// RegisterCompletions registers shell completions for logger flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Threshold,
		cobra.FixedCompletions(GetAllLevelStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Threshold, err)
	}

	return nil
}

// LoadFile merges configuration from a YAML file into c. Fields absent from
// the file keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // Config path from CLI flag is expected.
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadConfig, err)
	}

	err = yaml.Unmarshal(data, c)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrReadConfig, path, err)
	}

	return nil
}

// NewLogger constructs a [Logger] from this configuration. The logger's
// start time, the basis for elapsed-time labels, is the moment of
// construction.
func (c *Config) NewLogger() (*Logger, error) {
	threshold, err := ParseLevel(c.Threshold)
	if err != nil {
		return nil, fmt.Errorf("%w: threshold %q: %w", ErrInvalidConfig, c.Threshold, err)
	}

	maxColumns := c.MaxColumns
	if maxColumns <= 0 {
		maxColumns = DefaultMaxColumns
	}

	indentWidth := c.IndentWidth
	if indentWidth <= 0 {
		indentWidth = DefaultIndentWidth
	}

	defaultFileName := c.DefaultFileName
	if defaultFileName == "" {
		defaultFileName = DefaultFileName
	}

	return &Logger{
		threshold:          threshold,
		maxColumns:         maxColumns,
		indentWidth:        indentWidth,
		startTime:          time.Now(),
		flushEveryWrite:    c.FlushEveryWrite,
		mirrorAllToConsole: c.MirrorAllToConsole,
		logDirectory:       c.LogDirectory,
		defaultFileName:    defaultFileName,
		defaultWriter:      c.DefaultWriter,
		errorSink:          c.ErrorSink,
		publisher:          c.Publisher,
		destinations:       make(map[string]*destination),
	}, nil
}

// ConfigSchema returns a JSON Schema describing the YAML configuration file
// format accepted by [Config.LoadFile].
func ConfigSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "object",
		Description: "chanlog logger configuration",
		Properties: map[string]*jsonschema.Schema{
			"threshold": {
				Type:        "string",
				Description: "minimum severity accepted",
				Enum:        levelEnum(),
				Default:     defaultValue(LevelDebug.String()),
			},
			"maxColumns": {
				Type:        "integer",
				Description: "total line width for banners and word wrapping",
				Default:     defaultValue(DefaultMaxColumns),
			},
			"indentWidth": {
				Type:        "integer",
				Description: "indent of message lines",
				Default:     defaultValue(DefaultIndentWidth),
			},
			"logDirectory": {
				Type:        "string",
				Description: "directory for destination files",
			},
			"defaultFileName": {
				Type:        "string",
				Description: "file name of the default destination",
				Default:     defaultValue(DefaultFileName),
			},
			"flushEveryWrite": {
				Type:        "boolean",
				Description: "flush and sync named destinations after every write",
				Default:     defaultValue(false),
			},
			"mirrorAllToConsole": {
				Type:        "boolean",
				Description: "write only to the default destination",
				Default:     defaultValue(false),
			},
		},
		AdditionalProperties: &jsonschema.Schema{Not: &jsonschema.Schema{}},
	}
}

// levelEnum returns the level names as schema enum values.
func levelEnum() []any {
	names := GetAllLevelStrings()

	enum := make([]any, len(names))
	for i, n := range names {
		enum[i] = n
	}

	return enum
}

// defaultValue converts a Go value to a schema default. Returns nil if
// marshaling fails.
func defaultValue(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}

	return b
}
