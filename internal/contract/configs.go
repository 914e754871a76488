package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/timeline/schema"
)

// Default values for configuration.
const (
	DefaultLimit     = 0 // keep every bucket
	MaxLimit         = 10000
	DefaultPrecision = 1
	DefaultWidth     = 800
	DefaultHeight    = 240
	DefaultPadding   = 40
	DefaultDebounce  = "250ms"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a timeline run.
// This struct is the "final, validated" config.
type Config struct {
	SourcePath  string
	Granularity schema.Granularity
	StartTime   time.Time // zero = unbounded
	EndTime     time.Time // zero = unbounded
	Limit       int
	Mode        schema.BarMode
	Viewport    schema.Viewport
	Zoom        float64
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	UseColors   bool

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	// Selection percentages for the select command.
	Low  float64
	High float64

	// Pointer x coordinate for the point command.
	PointX float64

	// Playback script for the play command.
	Steps    int
	Step     int
	ZoomIns  int
	ZoomOuts int

	// Debounce for the watch command.
	Debounce time.Duration
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Source         string  `mapstructure:"source"`
	Granularity    string  `mapstructure:"granularity"`
	Start          string  `mapstructure:"start"`
	End            string  `mapstructure:"end"`
	Limit          int     `mapstructure:"limit"`
	Mode           string  `mapstructure:"mode"`
	Width          float64 `mapstructure:"width"`
	Height         float64 `mapstructure:"height"`
	Padding        float64 `mapstructure:"padding"`
	Zoom           float64 `mapstructure:"zoom"`
	Output         string  `mapstructure:"output"`
	OutputFile     string  `mapstructure:"output-file"`
	Precision      int     `mapstructure:"precision"`
	Color          string  `mapstructure:"color"`
	CacheBackend   string  `mapstructure:"cache-backend"`
	CacheDBConnect string  `mapstructure:"cache-db-connect"`

	// --- Fields from selectCmd.Flags() ---
	Low  float64 `mapstructure:"low"`
	High float64 `mapstructure:"high"`

	// --- Fields from pointCmd.Flags() ---
	X float64 `mapstructure:"x"`

	// --- Fields from playCmd.Flags() ---
	Steps   int `mapstructure:"steps"`
	Step    int `mapstructure:"step"`
	ZoomIn  int `mapstructure:"zoom-in"`
	ZoomOut int `mapstructure:"zoom-out"`

	// --- Fields from watchCmd.Flags() ---
	Debounce string `mapstructure:"debounce"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := processCommon(cfg, input); err != nil {
		return err
	}
	return resolveSourcePath(cfg, input)
}

// ProcessAndValidateServer is ProcessAndValidate for the MCP server, where
// every tool call may name its own source. The source is optional here.
func ProcessAndValidateServer(cfg *Config, input *ConfigRawInput) error {
	if err := processCommon(cfg, input); err != nil {
		return err
	}
	if strings.TrimSpace(input.Source) == "" {
		cfg.SourcePath = ""
		return nil
	}
	return resolveSourcePath(cfg, input)
}

func processCommon(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processViewport(cfg, input); err != nil {
		return err
	}
	if err := processTimeRange(cfg, input, time.Now()); err != nil {
		return err
	}
	if err := processPlayback(cfg, input); err != nil {
		return err
	}
	return validateBackendConfigs(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.BoltBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the cache backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, bolt, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	return ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect)
}

// validateSimpleInputs processes and validates all scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Low = input.Low
	cfg.High = input.High
	cfg.PointX = input.X

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit < 0 || input.Limit > MaxLimit {
		return fmt.Errorf("limit must be between 0 and %d (received %d)", MaxLimit, input.Limit)
	}
	cfg.Limit = input.Limit

	cfg.Granularity = schema.Granularity(strings.ToLower(input.Granularity))
	if _, ok := schema.ValidGranularities[cfg.Granularity]; !ok {
		return fmt.Errorf("invalid granularity '%s'. must be day, week", input.Granularity)
	}

	cfg.Mode = schema.BarMode(strings.ToLower(input.Mode))
	if _, ok := schema.ValidBarModes[cfg.Mode]; !ok {
		return fmt.Errorf("invalid mode '%s'. must be complexity, raw", input.Mode)
	}

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, html, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	return nil
}

// processViewport validates the chart geometry and zoom factor.
func processViewport(cfg *Config, input *ConfigRawInput) error {
	if input.Width <= 0 || input.Height <= 0 {
		return fmt.Errorf("width and height must be positive (received %gx%g)", input.Width, input.Height)
	}
	if input.Padding < 0 || 2*input.Padding >= input.Height {
		return fmt.Errorf("padding must be non-negative and smaller than half the height (received %g)", input.Padding)
	}
	cfg.Viewport = schema.Viewport{Width: input.Width, Height: input.Height, Padding: input.Padding}

	if input.Zoom < schema.MinZoom || input.Zoom > schema.MaxZoom {
		return fmt.Errorf("zoom must be between %.1f and %.1f (received %g)", schema.MinZoom, schema.MaxZoom, input.Zoom)
	}
	cfg.Zoom = input.Zoom
	return nil
}

// processTimeRange parses the optional time window.
func processTimeRange(cfg *Config, input *ConfigRawInput, now time.Time) error {
	start, err := ParseTimeBound(input.Start, now)
	if err != nil {
		return fmt.Errorf("invalid start '%s': %w", input.Start, err)
	}
	end, err := ParseTimeBound(input.End, now)
	if err != nil {
		return fmt.Errorf("invalid end '%s': %w", input.End, err)
	}
	if !start.IsZero() && !end.IsZero() && !start.Before(end) {
		return fmt.Errorf("start time (%s) must be before end time (%s)", start.Format(DateTimeFormat), end.Format(DateTimeFormat))
	}
	cfg.StartTime, cfg.EndTime = start, end
	return nil
}

// processPlayback validates the play and watch command inputs.
func processPlayback(cfg *Config, input *ConfigRawInput) error {
	if input.Steps < 0 || input.ZoomIn < 0 || input.ZoomOut < 0 {
		return fmt.Errorf("steps, zoom-in and zoom-out cannot be negative")
	}
	if input.Step < -MaxLimit || input.Step > MaxLimit {
		return fmt.Errorf("step must be between -%d and %d (received %d)", MaxLimit, MaxLimit, input.Step)
	}
	cfg.Steps = input.Steps
	cfg.Step = input.Step
	cfg.ZoomIns = input.ZoomIn
	cfg.ZoomOuts = input.ZoomOut

	debounce := input.Debounce
	if debounce == "" {
		debounce = DefaultDebounce
	}
	d, err := ParseDuration(debounce)
	if err != nil {
		return fmt.Errorf("invalid debounce: %w", err)
	}
	cfg.Debounce = d
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// resolveSourcePath makes the fixture path absolute and checks that it can be read.
func resolveSourcePath(cfg *Config, input *ConfigRawInput) error {
	if strings.TrimSpace(input.Source) == "" {
		return fmt.Errorf("a bucket source is required (--source or TIMELINE_SOURCE)")
	}
	abs, err := filepath.Abs(input.Source)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("cannot read source: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("source %s is a directory", abs)
	}
	if _, ok := SupportedSourceExtensions[strings.ToLower(filepath.Ext(abs))]; !ok {
		return fmt.Errorf("unsupported source format %q", filepath.Ext(abs))
	}
	cfg.SourcePath = abs
	return nil
}
