package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// Reporter receives the progress signals emitted by a background worker. Implementations must be safe for use from the
// worker goroutine while the primary goroutine reports violations.
type Reporter interface {
	Start(worker string)
	Score(iteration uint64, score uint64)
	Violation(err error)
	Done(iterations uint64)
}

type console struct {
	mu     sync.Mutex
	out    io.Writer
	prefix string
	green  *color.Color
	red    *color.Color
	cyan   *color.Color
}

// NewConsole returns a Reporter writing human-readable lines into out. Colors are only emitted when useColor is set.
func NewConsole(out io.Writer, useColor bool) Reporter {
	return NewConsoleWithPrefix(out, useColor, "")
}

// NewConsoleWithPrefix is NewConsole with every line prefixed by prefix (e.g. a run id)
func NewConsoleWithPrefix(out io.Writer, useColor bool, prefix string) Reporter {
	reporter := &console{
		out:    out,
		prefix: prefix,
		green:  color.New(color.FgGreen),
		red:    color.New(color.FgRed, color.Bold),
		cyan:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{reporter.green, reporter.red, reporter.cyan} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return reporter
}

func (reporter *console) Start(worker string) {
	reporter.println(reporter.cyan, fmt.Sprintf("%v start", worker))
}

func (reporter *console) Score(_ uint64, score uint64) {
	line := fmt.Sprintf("Error: %v", score)
	if score == 0 {
		reporter.println(reporter.green, line)
		return
	}
	reporter.println(nil, line)
}

func (reporter *console) Violation(err error) {
	reporter.println(reporter.red, err.Error())
}

func (reporter *console) Done(iterations uint64) {
	reporter.println(reporter.cyan, fmt.Sprintf("stop (iterations: %v)", iterations))
}

func (reporter *console) println(c *color.Color, line string) {
	reporter.mu.Lock()
	defer reporter.mu.Unlock()

	if reporter.prefix != "" {
		fmt.Fprintf(reporter.out, "[%v] ", reporter.prefix)
	}
	if c == nil {
		fmt.Fprintln(reporter.out, line)
		return
	}
	c.Fprintln(reporter.out, line)
}

type discard struct{}

// Discard drops every signal
var Discard Reporter = discard{}

func (discard) Start(string)         {}
func (discard) Score(uint64, uint64) {}
func (discard) Violation(error)      {}
func (discard) Done(uint64)          {}
