//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestTimelineWithMySQL tests the timeline CLI with a MySQL cache backend.
func TestTimelineWithMySQL(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "timeline",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/timeline?parseTime=true", host, port.Port())
	t.Setenv("TIMELINE_CACHE_BACKEND", "mysql")
	t.Setenv("TIMELINE_CACHE_DB_CONNECT", connStr)

	exerciseCacheBackend(t)
}

// TestTimelineWithPostgres tests the timeline CLI with a PostgreSQL cache backend.
func TestTimelineWithPostgres(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())
	t.Setenv("TIMELINE_CACHE_BACKEND", "postgresql")
	t.Setenv("TIMELINE_CACHE_DB_CONNECT", connStr)

	exerciseCacheBackend(t)
}

// exerciseCacheBackend migrates, fills, inspects and clears the configured cache.
func exerciseCacheBackend(t *testing.T) {
	source := writeFixture(t)

	out, err := runTimeline(t, "cache", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "version 2")

	// Twice: the first run misses and stores, the second one hits
	_, err = runTimeline(t, "render", source, "--output", "json")
	require.NoError(t, err)
	_, err = runTimeline(t, "render", source, "--output", "json")
	require.NoError(t, err)

	out, err = runTimeline(t, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Entries")

	_, err = runTimeline(t, "cache", "clear")
	require.NoError(t, err)
}
