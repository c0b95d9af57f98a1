package montecarlo

import (
	"os"
	"time"

	"github.com/limaJavier/shadowsearch/pkg/progress"
)

const DefaultInterval = 300 * time.Millisecond

// SeedSource is asked for a seed once, when the sampling loop starts
type SeedSource func() uint64

// TimeSeed seeds from the wall clock
func TimeSeed() uint64 {
	return uint64(time.Now().UnixNano())
}

// FixedSeed always returns seed
func FixedSeed(seed uint64) SeedSource {
	return func() uint64 { return seed }
}

type Option func(*options)

type options struct {
	interval      time.Duration
	seed          SeedSource
	reporter      progress.Reporter
	detach        bool
	maxIterations uint64
}

func defaultOptions() options {
	return options{
		interval: DefaultInterval,
		seed:     TimeSeed,
		reporter: progress.NewConsole(os.Stderr, false),
	}
}

// WithInterval sets the pause between two samples, which is also the worst-case latency to observe the primary finishing.
// Non-positive intervals fall back to DefaultInterval.
func WithInterval(interval time.Duration) Option {
	return func(o *options) { o.interval = interval }
}

func WithSeed(seed SeedSource) Option {
	return func(o *options) { o.seed = seed }
}

func WithReporter(reporter progress.Reporter) Option {
	return func(o *options) { o.reporter = reporter }
}

// WithDetach makes Close return without waiting for the sampling loop to exit
func WithDetach(detach bool) Option {
	return func(o *options) { o.detach = detach }
}

// WithMaxIterations stops the loop after the given number of samples even if the primary is still running. Zero means
// no limit.
func WithMaxIterations(iterations uint64) Option {
	return func(o *options) { o.maxIterations = iterations }
}
