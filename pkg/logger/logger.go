// Package logger provides a background worker that writes every notification of the primary search as a readable line.
// It does not search by itself; it is the simplest observer that can be plugged where a sampler would be.
package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/limaJavier/shadowsearch/pkg/async"
	"github.com/limaJavier/shadowsearch/pkg/notify"
	"github.com/limaJavier/shadowsearch/pkg/progress"
	"github.com/samber/lo"
)

const workerName = "Logger"

type Logger struct {
	worker   *async.Worker
	reporter progress.Reporter

	mu     sync.Mutex
	out    io.Writer
	events uint64
	names  []string // Binder variable names, in creation order
}

type Option func(*Logger)

func WithReporter(reporter progress.Reporter) Option {
	return func(l *Logger) { l.reporter = reporter }
}

func WithDetach(detach bool) Option {
	return func(l *Logger) { l.worker = async.New(l, async.WithDetach(detach)) }
}

func New(out io.Writer, opts ...Option) *Logger {
	logger := &Logger{
		out:      out,
		reporter: progress.Discard,
	}
	logger.worker = async.New(logger)
	for _, opt := range opts {
		opt(logger)
	}
	return logger
}

var _ notify.Observer = (*Logger)(nil)

func (l *Logger) Start()                  { l.worker.Start() }
func (l *Logger) MarkPrimaryFinished()    { l.worker.MarkPrimaryFinished() }
func (l *Logger) IsPrimaryFinished() bool { return l.worker.IsPrimaryFinished() }
func (l *Logger) Done() <-chan struct{}   { return l.worker.Done() }
func (l *Logger) Close() error            { return l.worker.Close() }
func (l *Logger) Err() error              { return l.worker.Err() }

// Events returns the number of notifications written so far
func (l *Logger) Events() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.events
}

// Run waits for the primary to finish, then writes a summary line
func (l *Logger) Run(w *async.Worker) error {
	l.reporter.Start(workerName)
	<-w.Finished()

	events := l.Events()
	l.printf("end: %d events", events)
	l.reporter.Done(events)
	return nil
}

func (l *Logger) printf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, format+"\n", args...)
}

func (l *Logger) record(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events++
	fmt.Fprintf(l.out, format+"\n", args...)
}

func literal(polarity bool, name string) string {
	if polarity {
		return name
	}
	return "!" + name
}

func (l *Logger) VariableCreated(idx int, q notify.Quantifier, name string, t notify.VarType, min, max int) {
	l.mu.Lock()
	l.names = append(l.names, name)
	l.mu.Unlock()
	l.record("var #%d %v %v %v [%d..%d]", idx, q, t, name, min, max)
}

func (l *Logger) AuxVariableCreated(name string, t notify.VarType, min, max int) {
	l.record("aux %v %v [%d..%d]", t, name, min, max)
}

func (l *Logger) EqualityPosted(v0 string, val int) {
	l.record("%v == %d", v0, val)
}

func (l *Logger) ConjunctionPosted(p0 bool, v0 string, p1 bool, v1 string, cmp notify.Comparison, v2 string) {
	l.record("%v && %v %v %v", literal(p0, v0), literal(p1, v1), cmp, v2)
}

func (l *Logger) DisjunctionPosted(p0 bool, v0 string, p1 bool, v1 string, cmp notify.Comparison, v2 string) {
	l.record("%v || %v %v %v", literal(p0, v0), literal(p1, v1), cmp, v2)
}

func (l *Logger) ImplicationPosted(p0 bool, v0 string, p1 bool, v1 string, cmp notify.Comparison, v2 string) {
	l.record("%v >> %v %v %v", literal(p0, v0), literal(p1, v1), cmp, v2)
}

func (l *Logger) ExclusiveOrPosted(p0 bool, v0 string, p1 bool, v1 string, cmp notify.Comparison, v2 string) {
	l.record("%v ^ %v %v %v", literal(p0, v0), literal(p1, v1), cmp, v2)
}

func (l *Logger) LinearCombinationPosted(n0 int, v0 string, n1 int, v1 string, cmp notify.Comparison, v2 string) {
	l.record("%d*%v + %d*%v %v %v", n0, v0, n1, v1, cmp, v2)
}

func (l *Logger) BilinearProductPosted(n int, v0, v1 string, cmp notify.Comparison, v2 string) {
	l.record("%d*%v*%v %v %v", n, v0, v1, cmp, v2)
}

func (l *Logger) LinearSumPosted(terms []notify.Monomial, cmp notify.Comparison, v0 string) {
	sum := strings.Join(lo.Map(terms, func(term notify.Monomial, _ int) string { return term.String() }), " + ")
	l.record("%v %v %v", sum, cmp, v0)
}

func (l *Logger) ChoiceMade(idx, min, max int) {
	l.record("choice %v [%d..%d]", l.name(idx), min, max)
}

func (l *Logger) PromisingScenarioFound(scenario notify.Scenario) {
	assignments := lo.Map(scenario, func(value int, i int) string { return fmt.Sprintf("%v=%d", l.name(i), value) })
	l.record("promising scenario: %v", strings.Join(assignments, " "))
}

func (l *Logger) StrategyFound() { l.record("strategy found") }

func (l *Logger) LocalFailure() { l.record("failure") }

func (l *Logger) GlobalFailure() { l.record("global failure") }

func (l *Logger) name(idx int) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if idx >= 0 && idx < len(l.names) {
		return l.names[idx]
	}
	return fmt.Sprintf("#%d", idx)
}
