// Package montecarlo mirrors the model built by a primary search and keeps scoring random assignments against it
// until the primary is done.
package montecarlo

import (
	"errors"
	"log"
	"math"
	"math/rand/v2"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/limaJavier/shadowsearch/pkg/async"
	"github.com/limaJavier/shadowsearch/pkg/notify"
)

const workerName = "MonteCarlo"

// Sampler observes the notifications of the primary search (it is a notify.Observer) and runs a Monte-Carlo sampling
// loop on its own goroutine. Notifications must come from a single goroutine, the one that owns the Sampler.
type Sampler struct {
	notify.Nop

	options
	worker *async.Worker
	mirror *mirror

	iterations atomic.Uint64
	best       atomic.Uint64

	errMu sync.Mutex
	err   error
}

func New(opts ...Option) *Sampler {
	sampler := &Sampler{
		options: defaultOptions(),
		mirror:  newMirror(),
	}
	for _, opt := range opts {
		opt(&sampler.options)
	}
	if sampler.interval <= 0 {
		sampler.interval = DefaultInterval
	}
	sampler.best.Store(math.MaxUint64)
	sampler.worker = async.New(sampler, async.WithDetach(sampler.detach))
	return sampler
}

var _ notify.Observer = (*Sampler)(nil)

//** Lifecycle

// Start launches the sampling loop and returns immediately
func (s *Sampler) Start() { s.worker.Start() }

func (s *Sampler) MarkPrimaryFinished() { s.worker.MarkPrimaryFinished() }

func (s *Sampler) IsPrimaryFinished() bool { return s.worker.IsPrimaryFinished() }

// Done is closed once the sampling loop exited
func (s *Sampler) Done() <-chan struct{} { return s.worker.Done() }

// Close stops the sampling loop and, unless detached, waits for it. The returned error carries the protocol violation
// that broke the mirrored model, if any.
func (s *Sampler) Close() error {
	return errors.Join(s.Err(), s.worker.Close())
}

//** Notifications

func (s *Sampler) VariableCreated(_ int, _ notify.Quantifier, name string, _ notify.VarType, min, max int) {
	s.mutate(func(m *mirror) error { return m.addVariable(name, min, max) })
}

func (s *Sampler) AuxVariableCreated(name string, _ notify.VarType, min, max int) {
	s.mutate(func(m *mirror) error { return m.addVariable(name, min, max) })
}

func (s *Sampler) BilinearProductPosted(n int, v0, v1 string, cmp notify.Comparison, v2 string) {
	s.mutate(func(m *mirror) error { return m.addBilinear(n, v0, v1, cmp, v2) })
}

func (s *Sampler) LinearSumPosted(terms []notify.Monomial, cmp notify.Comparison, v0 string) {
	s.mutate(func(m *mirror) error { return m.addLinear("linear", terms, cmp, v0) })
}

// LinearCombinationPosted mirrors n0*v0 + n1*v1 == v2 as a linear constraint
func (s *Sampler) LinearCombinationPosted(n0 int, v0 string, n1 int, v1 string, cmp notify.Comparison, v2 string) {
	terms := []notify.Monomial{{Coeff: n0, VarName: v0}, {Coeff: n1, VarName: v1}}
	s.mutate(func(m *mirror) error { return m.addLinear("plus", terms, cmp, v2) })
}

// mutate applies a change to the mirrored model. The first violation is kept and every later change is dropped: a model
// that missed a constraint would make every score meaningless.
func (s *Sampler) mutate(change func(*mirror) error) {
	if s.Err() != nil {
		return
	}
	if err := change(s.mirror); err != nil {
		log.Printf("[ERROR] %v", err)
		s.reporter.Violation(err)
		s.setErr(err)
	}
}

//** Inspection

// Err returns the first protocol violation observed, if any
func (s *Sampler) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

func (s *Sampler) setErr(err error) {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

// Snapshot returns the latest published view of the mirrored model. It is safe to call from any goroutine.
func (s *Sampler) Snapshot() Model {
	return s.mirror.model()
}

// Resolve returns the index of the variable called name, or ErrUnknownVariable if it was not created yet
func (s *Sampler) Resolve(name string) (int, error) {
	return s.Snapshot().Resolve(name)
}

func (s *Sampler) Iterations() uint64 {
	return s.iterations.Load()
}

// Best returns the lowest score sampled so far. ok is false until the first sample.
func (s *Sampler) Best() (score uint64, ok bool) {
	ok = s.iterations.Load() > 0 // Loaded first: a sample is recorded as best before it is counted
	return s.best.Load(), ok
}

func (s *Sampler) recordBest(score uint64) {
	for {
		current := s.best.Load()
		if score >= current || s.best.CompareAndSwap(current, score) {
			return
		}
	}
}

//** Sampling loop

// Run is the body of the sampling goroutine, see Start
func (s *Sampler) Run(w *async.Worker) error {
	s.reporter.Start(workerName)

	seed := s.seed()
	random := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	candidate := make([]int, len(s.Snapshot().Variables))

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	var iterations uint64
	for !w.IsPrimaryFinished() && s.Err() == nil {
		if s.maxIterations > 0 && iterations >= s.maxIterations {
			break
		}

		// Variables created after the loop started are picked up here
		model := s.Snapshot()
		if len(candidate) < len(model.Variables) {
			candidate = slices.Grow(candidate, len(model.Variables)-len(candidate))[:len(model.Variables)]
		}

		iterations++
		Generate(random, model.Variables, candidate)
		score := Evaluate(model, candidate)
		s.recordBest(score)
		s.iterations.Store(iterations)
		s.reporter.Score(iterations, score)

		timer.Reset(s.interval)
		select {
		case <-timer.C:
		case <-w.Finished():
		}
	}

	s.reporter.Done(iterations)
	return nil
}
