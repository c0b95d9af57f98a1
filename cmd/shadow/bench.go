package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"github.com/limaJavier/shadowsearch/internal/problem"
	"github.com/limaJavier/shadowsearch/pkg/montecarlo"
	"github.com/limaJavier/shadowsearch/pkg/progress"
	"github.com/spf13/cobra"
)

type BenchmarkResult struct {
	Variables   int
	Constraints int
	Run         int
	Iterations  uint64
	Best        uint64
	Duration    int64 // Milliseconds
}

var (
	benchSizes      []int
	benchRuns       int
	benchIterations uint64
	benchOut        string

	benchCmd = &cobra.Command{
		Use:   "bench",
		Short: "Measure how close the sampler gets on generated problems",
		Run: func(_ *cobra.Command, _ []string) {
			results := make([]BenchmarkResult, 0, len(benchSizes)*benchRuns)
			for _, size := range benchSizes {
				for run := range benchRuns {
					fmt.Printf("Benchmarking size %d, run %d\n", size, run)
					results = append(results, measure(size, run, benchIterations))
				}
			}

			file, err := os.Create(benchOut)
			if err != nil {
				log.Fatalf("[ERROR] cannot create CSV file: %v", err)
			}
			defer file.Close()

			if err := toCsv(file, results); err != nil {
				log.Fatalf("[ERROR] %v", err)
			}
		},
	}
)

func init() {
	benchCmd.Flags().IntSliceVar(&benchSizes, "sizes", []int{2, 4, 8}, "Problem sizes (variables and constraints) to benchmark")
	benchCmd.Flags().IntVar(&benchRuns, "runs", 3, "Runs per size, each one with its own problem and seed")
	benchCmd.Flags().Uint64Var(&benchIterations, "iterations", 200, "Samples drawn per run")
	benchCmd.Flags().StringVarP(&benchOut, "out", "o", "benchmark_results.csv", "Path to the CSV file")
}

// measure replays a generated problem into a sampler and lets it draw the given amount of samples
func measure(size, run int, iterations uint64) BenchmarkResult {
	seed := uint64(size)<<32 | uint64(run)
	generated, _ := problem.Generate(size, size, 9, rand.New(rand.NewPCG(seed, seed)))

	sampler := montecarlo.New(
		montecarlo.WithInterval(time.Microsecond),
		montecarlo.WithSeed(montecarlo.FixedSeed(seed)),
		montecarlo.WithReporter(progress.Discard),
		montecarlo.WithMaxIterations(iterations),
	)
	problem.Replay(generated, sampler)

	start := time.Now()
	sampler.Start()
	<-sampler.Done()
	duration := time.Since(start)
	sampler.MarkPrimaryFinished()
	if err := sampler.Close(); err != nil {
		log.Fatalf("[ERROR] sampler failed on size %d, run %d: %v", size, run, err)
	}

	best, _ := sampler.Best()
	return BenchmarkResult{
		Variables:   size,
		Constraints: size,
		Run:         run,
		Iterations:  sampler.Iterations(),
		Best:        best,
		Duration:    duration.Milliseconds(),
	}
}

func toCsv(out io.Writer, results []BenchmarkResult) error {
	writer := csv.NewWriter(out)

	header := []string{"Variables", "Constraints", "Run", "Iterations", "Best", "Duration(ms)"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("cannot write CSV header: %w", err)
	}

	for _, result := range results {
		record := []string{
			fmt.Sprintf("%d", result.Variables),
			fmt.Sprintf("%d", result.Constraints),
			fmt.Sprintf("%d", result.Run),
			fmt.Sprintf("%d", result.Iterations),
			fmt.Sprintf("%d", result.Best),
			fmt.Sprintf("%d", result.Duration),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("cannot write CSV record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
