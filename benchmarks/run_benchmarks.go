// Package main runs the blogd benchmarks and writes results to JSON/Markdown.
// Run with: go run benchmarks/run_benchmarks.go
package main

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const resultsDir = "benchmarks/results"

// BenchmarkResults holds all benchmark data
type BenchmarkResults struct {
	Timestamp   string           `json:"timestamp"`
	Environment Environment      `json:"environment"`
	Groups      map[string]Group `json:"groups"`
	Summary     Summary          `json:"summary"`
}

type Environment struct {
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	CPU       string `json:"cpu"`
	NumCPU    int    `json:"num_cpu"`
	GoVersion string `json:"go_version"`
}

type Group struct {
	Pattern    string      `json:"pattern"`
	Package    string      `json:"package"`
	Benchmarks []Benchmark `json:"benchmarks"`
	Passed     bool        `json:"passed"`
}

type Benchmark struct {
	Name        string  `json:"name"`
	NsPerOp     float64 `json:"ns_per_op"`
	OpsPerSec   float64 `json:"ops_per_sec"`
	BytesPerOp  int64   `json:"bytes_per_op"`
	AllocsPerOp int64   `json:"allocs_per_op"`
}

type Summary struct {
	Store StoreSummary `json:"store"`
	API   APISummary   `json:"api"`
}

type StoreSummary struct {
	GetOpsPerSec    float64 `json:"get_ops_per_sec"`
	CreateOpsPerSec float64 `json:"create_ops_per_sec"`
	MixedOpsPerSec  float64 `json:"mixed_ops_per_sec"`
}

type APISummary struct {
	ThroughputOpsPerSec float64 `json:"throughput_ops_per_sec"`
	LatencyNs           float64 `json:"latency_ns"`
	CreateLatencyNs     float64 `json:"create_latency_ns"`
}

var groups = []struct {
	name    string
	pattern string
	pkg     string
}{
	{"store", "BenchmarkStore", "./pkg/blog/..."},
	{"api", "BenchmarkAPI", "./pkg/api/..."},
}

func main() {
	fmt.Println("==========================================")
	fmt.Println("   BLOGD BENCHMARK SUITE")
	fmt.Println("==========================================")
	fmt.Println()

	results := BenchmarkResults{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Environment: Environment{
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			CPU:       getCPUInfo(),
			NumCPU:    runtime.NumCPU(),
			GoVersion: runtime.Version(),
		},
		Groups: make(map[string]Group),
	}

	for _, g := range groups {
		fmt.Printf("Running %s benchmarks...\n", g.name)
		benches, err := runBenchmarks(g.pattern, g.pkg)
		if err != nil {
			fmt.Printf("  %s: %v\n", g.name, err)
		}
		results.Groups[g.name] = Group{
			Pattern:    g.pattern,
			Package:    g.pkg,
			Benchmarks: benches,
			Passed:     err == nil,
		}
	}

	results.Summary = calculateSummary(results.Groups)

	if err := os.MkdirAll(resultsDir, 0o755); err != nil {
		fmt.Printf("Error creating %s: %v\n", resultsDir, err)
		os.Exit(1)
	}

	jsonPath := filepath.Join(resultsDir, "latest.json")
	if err := writeJSON(results, jsonPath); err != nil {
		fmt.Printf("Error writing JSON: %v\n", err)
	} else {
		fmt.Printf("\nJSON results: %s\n", jsonPath)
	}

	mdPath := filepath.Join(resultsDir, "LATEST.md")
	if err := writeMarkdown(results, mdPath); err != nil {
		fmt.Printf("Error writing Markdown: %v\n", err)
	} else {
		fmt.Printf("Markdown results: %s\n", mdPath)
	}

	printSummary(results)
}

func getCPUInfo() string {
	if runtime.GOOS == "linux" {
		data, err := os.ReadFile("/proc/cpuinfo")
		if err == nil {
			for _, line := range strings.Split(string(data), "\n") {
				if strings.HasPrefix(line, "model name") {
					parts := strings.SplitN(line, ":", 2)
					if len(parts) == 2 {
						return strings.TrimSpace(parts[1])
					}
				}
			}
		}
	}
	return "unknown"
}

func runBenchmarks(pattern, pkg string) ([]Benchmark, error) {
	cmd := exec.Command("go", "test", "-run=^$", "-bench="+pattern, "-benchtime=2s", "-benchmem", pkg)
	output, err := cmd.CombinedOutput()
	return parseBenchmarkOutput(string(output)), err
}

// Pattern: BenchmarkName-N    iterations    ns/op    bytes/op    allocs/op
// Sub-benchmarks keep their path, e.g. BenchmarkStore_List/1000/descending=true.
var benchLine = regexp.MustCompile(`(Benchmark[\w/=]+)-\d+\s+(\d+)\s+([\d.]+)\s+ns/op\s+(\d+)\s+B/op\s+(\d+)\s+allocs/op`)

func parseBenchmarkOutput(output string) []Benchmark {
	var benchmarks []Benchmark

	for _, match := range benchLine.FindAllStringSubmatch(output, -1) {
		nsPerOp, _ := strconv.ParseFloat(match[3], 64)
		bytesPerOp, _ := strconv.ParseInt(match[4], 10, 64)
		allocsPerOp, _ := strconv.ParseInt(match[5], 10, 64)

		opsPerSec := 0.0
		if nsPerOp > 0 {
			opsPerSec = 1e9 / nsPerOp
		}

		benchmarks = append(benchmarks, Benchmark{
			Name:        match[1],
			NsPerOp:     nsPerOp,
			OpsPerSec:   opsPerSec,
			BytesPerOp:  bytesPerOp,
			AllocsPerOp: allocsPerOp,
		})
	}

	return benchmarks
}

func calculateSummary(results map[string]Group) Summary {
	var summary Summary

	if store, ok := results["store"]; ok {
		for _, b := range store.Benchmarks {
			switch b.Name {
			case "BenchmarkStore_Get":
				summary.Store.GetOpsPerSec = b.OpsPerSec
			case "BenchmarkStore_Create":
				summary.Store.CreateOpsPerSec = b.OpsPerSec
			case "BenchmarkStore_ParallelMixed":
				summary.Store.MixedOpsPerSec = b.OpsPerSec
			}
		}
	}

	if api, ok := results["api"]; ok {
		for _, b := range api.Benchmarks {
			switch b.Name {
			case "BenchmarkAPI_ConcurrentGet":
				summary.API.ThroughputOpsPerSec = b.OpsPerSec
			case "BenchmarkAPI_GetPost":
				summary.API.LatencyNs = b.NsPerOp
			case "BenchmarkAPI_CreatePost":
				summary.API.CreateLatencyNs = b.NsPerOp
			}
		}
	}

	return summary
}

func writeJSON(results BenchmarkResults, path string) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func writeMarkdown(results BenchmarkResults, path string) error {
	var sb strings.Builder

	sb.WriteString("# blogd Benchmark Results\n\n")
	fmt.Fprintf(&sb, "**Generated**: %s\n\n", results.Timestamp)
	sb.WriteString("## Environment\n\n")
	fmt.Fprintf(&sb, "- **OS**: %s/%s\n", results.Environment.OS, results.Environment.Arch)
	fmt.Fprintf(&sb, "- **CPU**: %s (%d cores)\n", results.Environment.CPU, results.Environment.NumCPU)
	fmt.Fprintf(&sb, "- **Go**: %s\n\n", results.Environment.GoVersion)

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Area | Metric | Value |\n")
	sb.WriteString("|------|--------|-------|\n")
	fmt.Fprintf(&sb, "| Store | Get | %.0f ops/s |\n", results.Summary.Store.GetOpsPerSec)
	fmt.Fprintf(&sb, "| Store | Create | %.0f ops/s |\n", results.Summary.Store.CreateOpsPerSec)
	fmt.Fprintf(&sb, "| Store | Mixed (parallel) | %.0f ops/s |\n", results.Summary.Store.MixedOpsPerSec)
	fmt.Fprintf(&sb, "| API | GET /blogs/{id} | %.2fμs |\n", results.Summary.API.LatencyNs/1000)
	fmt.Fprintf(&sb, "| API | POST /blogs | %.2fμs |\n", results.Summary.API.CreateLatencyNs/1000)
	fmt.Fprintf(&sb, "| API | Concurrent GET | %.0f req/s |\n", results.Summary.API.ThroughputOpsPerSec)
	sb.WriteString("\n")

	title := cases.Title(language.English)
	for _, name := range slices.Sorted(maps.Keys(results.Groups)) {
		g := results.Groups[name]
		fmt.Fprintf(&sb, "## %s\n\n", title.String(name))
		sb.WriteString("| Benchmark | ops/sec | ns/op | B/op | allocs/op |\n")
		sb.WriteString("|-----------|---------|-------|------|----------|\n")
		for _, b := range g.Benchmarks {
			fmt.Fprintf(&sb, "| %s | %.0f | %.0f | %d | %d |\n",
				b.Name, b.OpsPerSec, b.NsPerOp, b.BytesPerOp, b.AllocsPerOp)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Reproducing\n\n")
	sb.WriteString("```bash\n")
	sb.WriteString("go run benchmarks/run_benchmarks.go\n")
	sb.WriteString("# Or individual groups:\n")
	for _, g := range groups {
		fmt.Fprintf(&sb, "go test -run='^$' -bench=%s -benchtime=2s -benchmem %s\n", g.pattern, g.pkg)
	}
	sb.WriteString("```\n")

	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

func printSummary(results BenchmarkResults) {
	fmt.Println()
	fmt.Println("==========================================")
	fmt.Println("              SUMMARY")
	fmt.Println("==========================================")
	fmt.Printf("Store: %.0f get/s, %.0f create/s, %.0f mixed/s\n",
		results.Summary.Store.GetOpsPerSec,
		results.Summary.Store.CreateOpsPerSec,
		results.Summary.Store.MixedOpsPerSec)
	fmt.Printf("API:   %.2fμs get, %.2fμs create, %.0f req/s concurrent\n",
		results.Summary.API.LatencyNs/1000,
		results.Summary.API.CreateLatencyNs/1000,
		results.Summary.API.ThroughputOpsPerSec)
	fmt.Println("==========================================")
}
