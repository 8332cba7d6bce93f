package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// RunReporter prints one status line per watch run.
type RunReporter interface {
	Done(trigger string, rows int, duration time.Duration)
	Error(trigger string, err error)
}

// SimpleReporter implements a text status reporter.
type SimpleReporter struct {
	mu     sync.Mutex
	runs   int
	writer io.Writer
	now    func() time.Time
}

// NewRunReporter creates a reporter that writes to w.
// If w is nil, it defaults to os.Stderr.
func NewRunReporter(w io.Writer) *SimpleReporter {
	if w == nil {
		w = os.Stderr
	}
	return &SimpleReporter{
		writer: w,
		now:    time.Now,
	}
}

// Done reports a successful run.
func (r *SimpleReporter) Done(trigger string, rows int, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.runs++
	fmt.Fprintf(r.writer, "%s ✓ run %d (%s): %d rows in %s\n",
		r.now().Format(time.TimeOnly), r.runs, trigger, rows, duration.Round(time.Millisecond))
}

// Error reports a failed run.
func (r *SimpleReporter) Error(trigger string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.runs++
	fmt.Fprintf(r.writer, "%s ✗ run %d (%s): %v\n",
		r.now().Format(time.TimeOnly), r.runs, trigger, err)
}
