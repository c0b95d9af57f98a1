package progress

import (
	"slices"
	"sync"
)

// Recorder keeps every signal in memory. It is meant for tests and for callers that inspect a run after it ended.
type Recorder struct {
	mu         sync.Mutex
	workers    []string
	scores     []uint64
	violations []error
	iterations uint64
	done       bool
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (recorder *Recorder) Start(worker string) {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.workers = append(recorder.workers, worker)
}

func (recorder *Recorder) Score(_ uint64, score uint64) {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.scores = append(recorder.scores, score)
}

func (recorder *Recorder) Violation(err error) {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.violations = append(recorder.violations, err)
}

func (recorder *Recorder) Done(iterations uint64) {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.iterations = iterations
	recorder.done = true
}

func (recorder *Recorder) Workers() []string {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	return slices.Clone(recorder.workers)
}

func (recorder *Recorder) Scores() []uint64 {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	return slices.Clone(recorder.scores)
}

func (recorder *Recorder) Violations() []error {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	return slices.Clone(recorder.violations)
}

// Finished reports whether Done was received and the iteration count it carried
func (recorder *Recorder) Finished() (iterations uint64, done bool) {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	return recorder.iterations, recorder.done
}
