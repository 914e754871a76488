// Package main provides a performance benchmarking tool for the timeline CLI.
// It generates synthetic bucket fixtures of increasing size, measures execution
// times of the render, select and play commands, running each test multiple
// times, treating the first successful run as cold and averaging the rest as warm,
// and generates CSV output for performance analysis and documentation.
//
// Prerequisites:
// - timeline binary installed and available in PATH
//
// Usage: go run ./benchmark [fixture-dir]
//
//	fixture-dir: Directory where the generated fixtures are written
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/timeline/internal/parquet"
	"github.com/huangsam/timeline/schema"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Fixture     string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	FixtureDir  string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	Fixtures    map[string]int // name -> number of daily buckets
	Order       []string
}

// commandSuite describes one benchmarked command and its success phrase.
type commandSuite struct {
	Command string
	Args    []string
	Success string
}

var suites = []commandSuite{
	{"render", nil, "Rendered in"},
	{"select", []string{"--low", "25", "--high", "75"}, "Selection completed in"},
	{"play", []string{"--steps", "50", "--zoom-in", "2"}, "Played"},
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [fixture-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		FixtureDir:  os.Args[1],
		Timeout:     time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Fixtures: map[string]int{
			"month":  30,
			"year":   365,
			"decade": 3650,
		},
		Order: []string{"month", "year", "decade"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("timeline", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the timeline binary exists and writes the fixtures.
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("timeline"); err != nil {
		return fmt.Errorf("timeline binary not found in PATH")
	}
	if err := os.MkdirAll(config.FixtureDir, 0o755); err != nil {
		return err
	}
	for _, name := range config.Order {
		path := fixturePath(config, name)
		if err := parquet.WriteBucketsParquet(syntheticBuckets(config.Fixtures[name]), path); err != nil {
			return fmt.Errorf("cannot write fixture %s: %w", name, err)
		}
	}
	return nil
}

func fixturePath(config BenchmarkConfig, name string) string {
	return filepath.Join(config.FixtureDir, name+".parquet")
}

// syntheticBuckets returns n days of bursty activity ending today.
func syntheticBuckets(n int) []schema.TimeBucket {
	rng := rand.New(rand.NewPCG(42, uint64(n)))
	end := time.Now().UTC().Truncate(24 * time.Hour)
	buckets := make([]schema.TimeBucket, n)
	for i := range buckets {
		commits := rng.IntN(20)
		if rng.IntN(10) == 0 {
			commits += rng.IntN(200)
		}
		buckets[i] = schema.TimeBucket{
			BucketStart:     end.AddDate(0, 0, i-n+1),
			CommitCount:     commits,
			FileChangeCount: commits * (1 + rng.IntN(5)),
			Granularity:     schema.DayGranularity,
		}
	}
	return buckets
}

// runBenchmarks executes all benchmark tests across configured fixtures.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d fixtures, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Order), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, name := range config.Order {
		fmt.Printf("Benchmarking %s (%d buckets)\n", name, config.Fixtures[name])
		for _, suite := range suites {
			results = append(results, runBenchmarkSuite(config, name, suite))
		}
	}
	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command.
func runBenchmarkSuite(config BenchmarkConfig, name string, suite commandSuite) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", suite.Command, name)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, name, suite, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Fixture:     name,
		Command:     suite.Command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a timeline command multiple times with the given cache
// backend and returns the cold time and the warm times.
func runBenchmark(config BenchmarkConfig, name string, suite commandSuite, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{suite.Command, fixturePath(config, name), "--cache-backend", cacheBackend, "--color", "no"}
	args = append(args, suite.Args...)

	var times []float64
	for range numRuns {
		start := time.Now()
		cmd := exec.Command("timeline", args...)

		done := make(chan bool, 1)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && strings.Contains(string(output), suite.Success) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("timeline_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"fixture", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Fixture, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, suite := range suites {
		fmt.Printf("%s:\n", suite.Command)
		for _, result := range results {
			if result.Command == suite.Command {
				fmt.Printf("  %-8s: No-cache: %s, Cold: %s, Warm: %s\n", result.Fixture, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
