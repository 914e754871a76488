package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/timeline/internal/contract"
	"github.com/huangsam/timeline/schema"
)

// aggregateTable is the name of the table (or bolt bucket) for aggregate caching.
const aggregateTable = "aggregate_cache"

// Global Manager instance for main logic.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitCaching initializes the global cache manager with the aggregate store.
func InitCaching(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		store, err := NewCacheStore(aggregateTable, backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize aggregate caching: %w", err)
			return
		}
		Manager.Lock()
		Manager.aggregate = store
		Manager.Unlock()
	})

	// After once.Do, initErr will contain any error from the initialization block.
	return initErr
}

// CloseCaching should be called on application shutdown.
func CloseCaching() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.aggregate != nil {
			_ = Manager.aggregate.Close()
		}
	})
}

// ClearCache clears the cache for the specified backend.
// For SQLite and bolt, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the table.
// For NoneBackend, it does nothing.
func ClearCache(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		return removeFile(connStr, contract.GetDBFilePath())

	case schema.BoltBackend:
		return removeFile(connStr, contract.GetBoltFilePath())

	case schema.MySQLBackend:
		return clearSQLTable("mysql", connStr, quoteTableName(aggregateTable, backend))

	case schema.PostgreSQLBackend:
		return clearSQLTable("pgx", connStr, quoteTableName(aggregateTable, backend))

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported cache backend for clearing: %s", backend)
	}
}

// removeFile deletes a file-backed cache; a missing file is not an error.
func removeFile(path, fallback string) error {
	if path == "" {
		path = fallback
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cache file %s: %w", path, err)
	}
	return nil
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(driverName, connStr, quotedTable string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	if _, err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", quotedTable)); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", quotedTable, err)
	}
	return nil
}
