package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/timeline/internal/contract"
	"github.com/huangsam/timeline/internal/iocache"
	"github.com/huangsam/timeline/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")

	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, bolt, none", backend)
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheStoreSetupWrapper also opens the configured store.
func cacheStoreSetupWrapper(_ *cobra.Command, _ []string) error {
	if err := cacheSetup(); err != nil {
		return err
	}
	if err := iocache.InitCaching(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	return nil
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by the timeline commands. This avoids source
// validation and chart config processing for simple cache operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the aggregate cache (improves performance)",
	Long: `Manage the cache of cumulative aggregates and complexity scores.

Timeline caches the derived series of every bucket snapshot so that repeated
renders of the same data skip the aggregation pass. Entries expire after 7 days.

Supported backends: SQLite (default), MySQL, PostgreSQL, Bolt, or None

Subcommands:
  status  - Show cache statistics and connection info
  clear   - Remove all cached data
  migrate - Run cache schema migrations (SQL backends)

Examples:
  # Check cache status
  timeline cache status

  # Clear cache after fixtures were regenerated
  timeline cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached aggregates",
	Long: `Delete all cached aggregates from the configured backend.

For SQLite and Bolt: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  # Clear SQLite cache (default)
  timeline cache clear

  # Clear MySQL cache (set connection string via env variable)
  TIMELINE_CACHE_BACKEND=mysql TIMELINE_CACHE_DB_CONNECT="..." timeline cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the aggregate cache.

Displays:
- Backend type and connection status
- Total number of cached entries
- Last and oldest cache entry timestamps
- Cache database size

Examples:
  # Check cache status
  timeline cache status

  # Check a bolt cache
  timeline cache status --cache-backend bolt`,
	PreRunE: cacheStoreSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetAggregateStore()
		if store == nil {
			contract.LogFatal("Failed to get cache status", fmt.Errorf("no cache store for backend %s", cfg.CacheBackend))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		if err := iocache.PrintCacheStatus(os.Stdout, status); err != nil {
			contract.LogFatal("Failed to print cache status", err)
		}
	},
}

// cacheMigrateCmd runs schema migrations on SQL cache backends.
var cacheMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run cache schema migrations",
	Long: `Migrate the cache table of a SQL backend to a target schema version.

Version -1 applies every pending migration, 0 rolls everything back, and any
other value migrates up or down to that version. Bolt and None have no schema.

Examples:
  # Apply all migrations to the default SQLite cache
  timeline cache migrate

  # Roll back to the first schema version
  timeline cache migrate --target-version 1`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		target := viper.GetInt("target-version")
		v, err := iocache.MigrateCache(cfg.CacheBackend, cfg.CacheDBConnect, target)
		if err != nil {
			contract.LogFatal("Failed to migrate cache", err)
		}
		fmt.Printf("Cache schema is at version %d.\n", v)
	},
}
