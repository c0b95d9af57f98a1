// Package async runs a single background task next to a primary goroutine. The task is not expected to finish on its
// own: it keeps working until the primary signals that it is done, then exits cooperatively.
package async

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
)

// ErrTaskPanicked wraps the value recovered from a panicking task
var ErrTaskPanicked = errors.New("background task panicked")

// Task is the body executed on the worker goroutine. Run must poll w.IsPrimaryFinished (or select on w.Finished) and
// return promptly once it is set.
type Task interface {
	Run(w *Worker) error
}

// TaskFunc adapts a plain function to Task
type TaskFunc func(w *Worker) error

func (f TaskFunc) Run(w *Worker) error { return f(w) }

type Option func(*Worker)

// WithDetach makes Close return without waiting for the task to exit
func WithDetach(detach bool) Option {
	return func(w *Worker) { w.detach = detach }
}

type Worker struct {
	task   Task
	detach bool

	primaryFinished atomic.Bool
	finished        chan struct{} // Closed by MarkPrimaryFinished
	finishOnce      sync.Once

	started   atomic.Bool
	exitGate  chan struct{} // Closed when the task returns
	closeOnce sync.Once

	errMu sync.Mutex
	err   error
}

func New(task Task, opts ...Option) *Worker {
	worker := &Worker{
		task:     task,
		finished: make(chan struct{}),
		exitGate: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(worker)
	}
	return worker
}

// Start runs the task on its own goroutine and returns immediately. Only the first call has an effect.
func (w *Worker) Start() {
	if !w.started.CompareAndSwap(false, true) {
		return
	}
	go w.run()
}

func (w *Worker) run() {
	defer close(w.exitGate)
	defer func() {
		if recovered := recover(); recovered != nil {
			err := fmt.Errorf("%w: %v", ErrTaskPanicked, recovered)
			log.Printf("[ERROR] %v", err)
			w.setErr(err)
		}
	}()

	if err := w.task.Run(w); err != nil {
		log.Printf("[ERROR] background task failed: %v", err)
		w.setErr(err)
	}
}

// MarkPrimaryFinished tells the task that the primary goroutine concluded its work. It is idempotent.
func (w *Worker) MarkPrimaryFinished() {
	w.finishOnce.Do(func() {
		w.primaryFinished.Store(true)
		close(w.finished)
	})
}

func (w *Worker) IsPrimaryFinished() bool {
	return w.primaryFinished.Load()
}

// Finished is closed once MarkPrimaryFinished was called. Tasks select on it to cut their sleeps short.
func (w *Worker) Finished() <-chan struct{} {
	return w.finished
}

// Done is closed once the task returned
func (w *Worker) Done() <-chan struct{} {
	return w.exitGate
}

// Close marks the primary as finished and, unless the worker is detached, blocks until the task exited. It returns the
// error the task ended with, if any.
func (w *Worker) Close() error {
	w.closeOnce.Do(func() {
		w.MarkPrimaryFinished()
		if w.detach || !w.started.Load() {
			return
		}
		<-w.exitGate
	})
	return w.Err()
}

func (w *Worker) Err() error {
	w.errMu.Lock()
	defer w.errMu.Unlock()
	return w.err
}

func (w *Worker) setErr(err error) {
	w.errMu.Lock()
	defer w.errMu.Unlock()
	if w.err == nil {
		w.err = err
	}
}
