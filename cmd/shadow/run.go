package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/limaJavier/shadowsearch/internal/config"
	"github.com/limaJavier/shadowsearch/internal/problem"
	"github.com/limaJavier/shadowsearch/pkg/logger"
	"github.com/limaJavier/shadowsearch/pkg/montecarlo"
	"github.com/limaJavier/shadowsearch/pkg/notify"
	"github.com/limaJavier/shadowsearch/pkg/progress"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// Exit codes follow the SAT competition convention
const (
	exitSatisfiable   = 10
	exitUnsatisfiable = 20
)

var (
	problemPath string
	configPath  string
	outPath     string
	workerName  string
	detach      bool
	metricsAddr string

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Search a problem while a background worker shadows the search",
		Run:   runShadow,
	}
)

func init() {
	runCmd.Flags().StringVarP(&problemPath, "problem", "p", "", "Path to the problem file")
	runCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a JSON or YAML (.yaml/.yml) configuration file; defaults are used if empty")
	runCmd.Flags().StringVarP(&outPath, "out", "o", "", "Path to the file where the assignment will be written; if empty, it'll be written into the Standard Output")
	runCmd.Flags().StringVarP(&workerName, "worker", "w", "", fmt.Sprintf("Background worker, overrides the configuration (%v or %v)", config.WorkerMonteCarlo, config.WorkerLogger))
	runCmd.Flags().BoolVar(&detach, "detach", false, "Do not wait for the background worker once the search is done")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Address to serve Prometheus metrics on during the run (e.g. \":9090\"); disabled if empty")
	lo.Must0(runCmd.MarkFlagRequired("problem"))
}

// shadowWorker is what the CLI needs from a background worker
type shadowWorker interface {
	notify.Observer
	Start()
	MarkPrimaryFinished()
	Done() <-chan struct{}
	Close() error
	Err() error
}

func runShadow(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		log.Fatalf("[ERROR] cannot load configuration: %v", err)
	}

	input, err := problem.FromJson(problemPath)
	if err != nil {
		log.Fatalf("[ERROR] cannot parse problem file: %v", err)
	}

	runId := uuid.NewString()[:8]
	useColor := cfg.Color && (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()))
	reporter := progress.NewConsoleWithPrefix(os.Stderr, useColor, runId)
	if metricsAddr != "" {
		registry := prometheus.NewRegistry()
		reporter = progress.Tee(reporter, progress.NewMetrics(registry))
		serveMetrics(metricsAddr, registry)
	}
	shadow := newShadow(cfg, reporter)
	log.Printf("[INFO] run %v: %d variables, %d constraints, worker %v", runId, len(input.Variables), len(input.Constraints), cfg.Worker)

	ctx := cmd.Context()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	shadow.Start()
	assignment, searchErr := search(ctx, input, shadow)
	if err := shadow.Close(); err != nil {
		log.Printf("[ERROR] background worker: %v", err)
	}
	if sampler, ok := shadow.(*montecarlo.Sampler); ok {
		if best, ok := sampler.Best(); ok {
			log.Printf("[INFO] run %v: best sampled error %d after %d iterations", runId, best, sampler.Iterations())
		}
	}

	if searchErr != nil {
		log.Fatalf("[ERROR] an error occurred during the search: %v", searchErr)
	} else if assignment == nil {
		fmt.Println("Not satisfiable")
		os.Exit(exitUnsatisfiable)
	} else if !problem.Verify(input, assignment) {
		log.Fatal("[ERROR] verification failed")
	}

	if err := writeAssignment(input, assignment); err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
	os.Exit(exitSatisfiable)
}

func serveMetrics(addr string, registry *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Printf("[ERROR] metrics server stopped: %v", err)
		}
	}()
	log.Printf("[INFO] serving metrics on %v/metrics", addr)
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return config.Config{}, err
		}
	}

	if cmd.Flags().Changed("worker") {
		cfg.Worker = workerName
	}
	if cmd.Flags().Changed("detach") {
		cfg.Detach = detach
	}
	return cfg, cfg.Validate()
}

func newShadow(cfg config.Config, reporter progress.Reporter) shadowWorker {
	if cfg.Worker == config.WorkerLogger {
		return logger.New(os.Stderr, logger.WithReporter(reporter), logger.WithDetach(cfg.Detach))
	}

	var seed montecarlo.SeedSource = montecarlo.TimeSeed
	if cfg.Seed != 0 {
		seed = montecarlo.FixedSeed(cfg.Seed)
	}
	return montecarlo.New(
		montecarlo.WithInterval(cfg.Interval),
		montecarlo.WithSeed(seed),
		montecarlo.WithReporter(reporter),
		montecarlo.WithDetach(cfg.Detach),
		montecarlo.WithMaxIterations(cfg.MaxIterations),
	)
}

// search plays the primary process: it replays the problem into shadow, then searches it. A background worker stopping
// on an error cancels the search.
func search(ctx context.Context, input problem.Problem, shadow shadowWorker) (problem.Assignment, error) {
	group, ctx := errgroup.WithContext(ctx)
	searched := make(chan struct{})

	var assignment problem.Assignment
	group.Go(func() error {
		defer close(searched)
		defer shadow.MarkPrimaryFinished()

		problem.Replay(input, shadow)
		var err error
		assignment, err = problem.NewBacktrackingSearcher().Search(ctx, input, shadow)
		return err
	})

	group.Go(func() error {
		select {
		case <-shadow.Done():
			return shadow.Err()
		case <-searched:
			return nil
		}
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return assignment, nil
}

func writeAssignment(input problem.Problem, assignment problem.Assignment) error {
	values := make(map[string]int, len(assignment))
	for i, variable := range input.Variables {
		values[variable.Name] = assignment[i]
	}

	assignmentJson, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("an error occurred while building output json: %w", err)
	}

	if outPath == "" {
		fmt.Println(string(assignmentJson))
		return nil
	}
	if err := os.WriteFile(outPath, assignmentJson, 0666); err != nil {
		return fmt.Errorf("an error occurred while writing to the output file: %w", err)
	}
	return nil
}
