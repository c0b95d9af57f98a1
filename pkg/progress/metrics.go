package progress

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "shadowsearch"
	metricsSubsystem = "worker"
)

// Metrics exports the signals of background workers as Prometheus metrics, labelled by worker name
type Metrics struct {
	Iterations *prometheus.CounterVec
	LastScore  *prometheus.GaugeVec
	BestScore  *prometheus.GaugeVec
	Violations *prometheus.CounterVec
	Running    *prometheus.GaugeVec

	mu     sync.Mutex
	worker string
	best   map[string]uint64
}

// NewMetrics creates the worker metrics and registers them into registerer
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	newCounter := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      name,
			Help:      help,
		}, []string{"worker"})
	}
	newGauge := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      name,
			Help:      help,
		}, []string{"worker"})
	}

	metrics := &Metrics{
		Iterations: newCounter("iterations_total", "Samples drawn by the worker"),
		LastScore:  newGauge("last_score", "Error score of the latest sample"),
		BestScore:  newGauge("best_score", "Lowest error score sampled so far"),
		Violations: newCounter("violations_total", "Protocol violations detected by the worker"),
		Running:    newGauge("running", "Whether the worker loop is running"),
		best:       make(map[string]uint64),
	}
	registerer.MustRegister(metrics.Iterations, metrics.LastScore, metrics.BestScore, metrics.Violations, metrics.Running)
	return metrics
}

func (metrics *Metrics) Start(worker string) {
	metrics.mu.Lock()
	metrics.worker = worker
	metrics.mu.Unlock()
	metrics.Running.WithLabelValues(worker).Set(1)
}

func (metrics *Metrics) Score(_ uint64, score uint64) {
	metrics.mu.Lock()
	worker := metrics.worker
	best, ok := metrics.best[worker]
	if !ok || score < best {
		best = score
		metrics.best[worker] = best
	}
	metrics.mu.Unlock()

	metrics.Iterations.WithLabelValues(worker).Inc()
	metrics.LastScore.WithLabelValues(worker).Set(float64(score))
	metrics.BestScore.WithLabelValues(worker).Set(float64(best))
}

func (metrics *Metrics) Violation(error) {
	metrics.Violations.WithLabelValues(metrics.currentWorker()).Inc()
}

func (metrics *Metrics) Done(uint64) {
	metrics.Running.WithLabelValues(metrics.currentWorker()).Set(0)
}

func (metrics *Metrics) currentWorker() string {
	metrics.mu.Lock()
	defer metrics.mu.Unlock()
	return metrics.worker
}

type tee []Reporter

// Tee forwards every signal to each reporter, in order
func Tee(reporters ...Reporter) Reporter {
	return tee(reporters)
}

func (reporters tee) Start(worker string) {
	for _, reporter := range reporters {
		reporter.Start(worker)
	}
}

func (reporters tee) Score(iteration uint64, score uint64) {
	for _, reporter := range reporters {
		reporter.Score(iteration, score)
	}
}

func (reporters tee) Violation(err error) {
	for _, reporter := range reporters {
		reporter.Violation(err)
	}
}

func (reporters tee) Done(iterations uint64) {
	for _, reporter := range reporters {
		reporter.Done(iterations)
	}
}
