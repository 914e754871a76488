package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/timeline/schema"
)

// Tier label constants.
const (
	HighValue   = "High"
	MediumValue = "Medium"
	LowValue    = "Low"
)

// Color variables for console output.
var (
	HighColor   = color.New(color.FgRed, color.Bold) // HighColor marks saturated activity.
	MediumColor = color.New(color.FgYellow)          // MediumColor marks moderate activity.
	LowColor    = color.New(color.FgCyan)            // LowColor marks light activity.
)

// SupportedSourceExtensions lists the fixture file formats a source can read.
var SupportedSourceExtensions = map[string]struct{}{
	".json":    {},
	".yaml":    {},
	".yml":     {},
	".csv":     {},
	".parquet": {},
}

// GetPlainLabel returns the display label for a tier. This is the core
// logic used for CSV, JSON and table printing.
func GetPlainLabel(tier schema.Tier) string {
	switch tier {
	case schema.HighTier:
		return HighValue
	case schema.MediumTier:
		return MediumValue
	default:
		return LowValue
	}
}

// TierColor returns the console color associated with a tier.
func TierColor(tier schema.Tier) *color.Color {
	switch tier {
	case schema.HighTier:
		return HighColor
	case schema.MediumTier:
		return MediumColor
	default:
		return LowColor
	}
}

// GetColorLabel returns a colored tier label for console output.
func GetColorLabel(tier schema.Tier) string {
	return TierColor(tier).Sprint(GetPlainLabel(tier))
}

// TierHexColor returns the HTML color used for a tier in chart surfaces.
func TierHexColor(tier schema.Tier) string {
	switch tier {
	case schema.HighTier:
		return "#d62728"
	case schema.MediumTier:
		return "#ffbf00"
	default:
		return "#17becf"
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetDBFilePath returns the path to the SQLite DB file for cache storage.
func GetDBFilePath() string {
	return homeFile(".timeline_cache.db")
}

// GetBoltFilePath returns the path to the bbolt file for cache storage.
func GetBoltFilePath() string {
	return homeFile(".timeline_cache.bolt")
}

func homeFile(name string) string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(homeDir, name)
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
