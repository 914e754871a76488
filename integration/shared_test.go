//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	// sharedTimelinePath holds the path to a shared timeline binary built once for all tests.
	sharedTimelinePath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// fixtureCSV holds two weeks of daily activity, starting on a Monday.
const fixtureCSV = `bucket_start,commit_count,file_change_count,granularity
2024-03-04,12,30,day
2024-03-05,8,14,day
2024-03-06,0,0,day
2024-03-07,25,61,day
2024-03-08,3,4,day
2024-03-11,40,120,day
2024-03-12,18,22,day
2024-03-13,7,9,day
2024-03-14,0,0,day
2024-03-15,55,140,day
`

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getTimelineBinary returns the path to the timeline binary, building it once if needed.
func getTimelineBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "timeline-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		timelinePath := filepath.Join(tempDir, "timeline")
		buildCmd := exec.Command("go", "build", "-o", timelinePath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build timeline: %v", err))
		}

		sharedTimelinePath = timelinePath
	})

	return sharedTimelinePath
}

// writeFixture writes the shared CSV fixture into a temp dir.
func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "buckets.csv")
	require.NoError(t, os.WriteFile(path, []byte(fixtureCSV), 0o644))
	return path
}

// runTimeline runs the binary from the project root and returns its combined output.
func runTimeline(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getTimelineBinary(), args...)
	cmd.Dir = "../" // Run from project root
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
	}
	return string(output), err
}
