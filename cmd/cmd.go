// Package cmd defines the command-line interface for timeline.
package cmd

import (
	"github.com/huangsam/timeline/internal/contract"
	"github.com/huangsam/timeline/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(pointCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("source", "s", "", "Path to a bucket fixture (json, yaml, csv or parquet)")
	rootCmd.PersistentFlags().StringP("granularity", "g", string(schema.DayGranularity), "Bucket granularity: day or week")
	rootCmd.PersistentFlags().String("start", "", "Start of the time window in ISO8601 or time ago")
	rootCmd.PersistentFlags().String("end", "", "End of the time window in ISO8601 or time ago")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultLimit, "Keep only the latest N buckets (0 = all)")
	rootCmd.PersistentFlags().String("mode", string(schema.ComplexityBars), "Bar mode: complexity or raw")
	rootCmd.PersistentFlags().Float64("width", contract.DefaultWidth, "Chart width in surface units")
	rootCmd.PersistentFlags().Float64("height", contract.DefaultHeight, "Chart height in surface units")
	rootCmd.PersistentFlags().Float64("padding", contract.DefaultPadding, "Chart padding in surface units")
	rootCmd.PersistentFlags().Float64("zoom", schema.DefaultZoom, "Initial zoom factor between 0.5 and 5")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or html or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored tiers in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or bolt or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of selectCmd to Viper
	selectCmd.Flags().Float64("low", schema.MinPercent, "Lower end of the selection in percent")
	selectCmd.Flags().Float64("high", schema.MaxPercent, "Upper end of the selection in percent")
	if err := viper.BindPFlags(selectCmd.Flags()); err != nil {
		contract.LogFatal("Error binding select flags", err)
	}

	// Bind all flags of pointCmd to Viper
	pointCmd.Flags().Float64("x", contract.DefaultPadding, "Pointer x coordinate on the surface, padding included")
	if err := viper.BindPFlags(pointCmd.Flags()); err != nil {
		contract.LogFatal("Error binding point flags", err)
	}

	// Bind all flags of playCmd to Viper
	playCmd.Flags().Int("steps", 10, "Maximum number of playback ticks")
	playCmd.Flags().Int("step", 1, "Buckets to advance per tick")
	playCmd.Flags().Int("zoom-in", 0, "Zoom in this many times before playing")
	playCmd.Flags().Int("zoom-out", 0, "Zoom out this many times before playing")
	if err := viper.BindPFlags(playCmd.Flags()); err != nil {
		contract.LogFatal("Error binding play flags", err)
	}

	// Bind all flags of watchCmd to Viper
	watchCmd.Flags().String("debounce", contract.DefaultDebounce, "Quiet period before reloading a changed source")
	if err := viper.BindPFlags(watchCmd.Flags()); err != nil {
		contract.LogFatal("Error binding watch flags", err)
	}

	// Bind all flags of cacheMigrateCmd to Viper
	cacheMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(cacheMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding cache migrate flags", err)
	}
}
