package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/devbush/tubescribe/internal/domain"
	"github.com/devbush/tubescribe/internal/ports"
)

const (
	maxResultLines = 10
	labelWidth     = 40
)

// renderProgressBar creates a text progress bar like [=====>    ]
// current=0, total=10, width=10 → [          ]
// current=5, total=10, width=10 → [=====>    ]
// current=10, total=10, width=10 → [==========]
// current=3, total=10, width=10 → [==>       ]
func renderProgressBar(current, total, width int) string {
	if total <= 0 || current <= 0 {
		return "[" + strings.Repeat(" ", width) + "]"
	}
	if current >= total {
		return "[" + strings.Repeat("=", width) + "]"
	}

	filled := current * width / total
	if filled >= width {
		filled = width - 1
	}
	return "[" + strings.Repeat("=", filled) + ">" + strings.Repeat(" ", width-filled-1) + "]"
}

type resultLine struct {
	index    int
	label    string
	ok       bool
	cached   bool
	message  string
	duration time.Duration
}

// BatchProgress renders task events of a batch run. It implements
// ports.ProgressObserver and is safe for concurrent use.
type BatchProgress struct {
	out         io.Writer
	total       int
	completed   int
	failed      int
	quiet       bool
	interactive bool

	mu       sync.Mutex
	working  map[int]domain.TaskStatus
	started  map[int]time.Time
	results  []resultLine
	rendered int
	now      func() time.Time
}

// NewBatchProgress creates a batch progress display. When interactive is
// set the display redraws in place; otherwise one line is printed per
// finished task.
func NewBatchProgress(out io.Writer, total int, quiet, interactive bool) *BatchProgress {
	if total < 0 {
		total = 0
	}
	return &BatchProgress{
		out:         out,
		total:       total,
		quiet:       quiet,
		interactive: interactive,
		working:     make(map[int]domain.TaskStatus),
		started:     make(map[int]time.Time),
		now:         time.Now,
	}
}

// OnTaskEvent records a task status change and updates the display
func (bp *BatchProgress) OnTaskEvent(event ports.TaskEvent) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if event.Total > bp.total {
		bp.total = event.Total
	}

	switch {
	case event.Status.IsWorking():
		if _, ok := bp.started[event.Index]; !ok {
			bp.started[event.Index] = bp.now()
		}
		bp.working[event.Index] = event.Status
		if bp.interactive {
			bp.render()
		}
		return
	case !event.Status.IsFinal():
		return
	}

	delete(bp.working, event.Index)
	line := resultLine{
		index:  event.Index,
		label:  TaskLabel(event.URL, labelWidth),
		ok:     event.Status == domain.StatusDone,
		cached: event.Cached,
	}
	if start, ok := bp.started[event.Index]; ok {
		line.duration = bp.now().Sub(start)
	}
	if event.Err != nil {
		line.message = domain.FormatFailure(event.Err.Stage, event.Err.Kind, event.Err.Message)
	}

	bp.completed++
	if !line.ok {
		bp.failed++
	}
	bp.results = append(bp.results, line)

	if bp.interactive {
		bp.render()
	} else if !bp.quiet {
		fmt.Fprintln(bp.out, bp.formatResult(line))
	}
}

func (bp *BatchProgress) formatResult(r resultLine) string {
	prefix := fmt.Sprintf("[%d/%d]", r.index+1, bp.total)
	if r.ok {
		s := fmt.Sprintf("%s %s %s", successStyle.Render("✓"), prefix, r.label)
		if r.cached {
			return s + cachedStyle.Render(" [cached]")
		}
		return s + fmt.Sprintf(" (%s)", FormatDuration(r.duration))
	}
	return fmt.Sprintf("%s %s %s: %s", failureStyle.Render("✗"), prefix, r.label, r.message)
}

func (bp *BatchProgress) render() {
	if bp.quiet {
		return
	}

	if bp.rendered > 0 {
		// Move cursor up and clear
		fmt.Fprintf(bp.out, "\033[%dA\033[J", bp.rendered)
	}

	percent := 0
	if bp.total > 0 {
		percent = bp.completed * 100 / bp.total
	}
	fmt.Fprintf(bp.out, "Transcribing %d/%d %s %d%%", bp.completed, bp.total, renderProgressBar(bp.completed, bp.total, 20), percent)
	if n := len(bp.working); n > 0 {
		fmt.Fprintf(bp.out, "  %s", hintStyle.Render(fmt.Sprintf("(%d in progress)", n)))
	}
	fmt.Fprintln(bp.out)
	lines := 1

	start := 0
	if len(bp.results) > maxResultLines {
		start = len(bp.results) - maxResultLines
	}
	for _, r := range bp.results[start:] {
		fmt.Fprintln(bp.out, bp.formatResult(r))
		lines++
	}

	bp.rendered = lines
}

// Complete prints the final summary of a finished batch
func (bp *BatchProgress) Complete(reportPath string) {
	if bp.quiet {
		return
	}

	bp.mu.Lock()
	defer bp.mu.Unlock()

	fmt.Fprintln(bp.out)
	fmt.Fprintf(bp.out, "Batch complete: %d/%d succeeded\n", bp.completed-bp.failed, bp.total)

	if bp.failed > 0 {
		fmt.Fprintln(bp.out, "\nFailures:")
		for _, r := range bp.results {
			if !r.ok {
				fmt.Fprintf(bp.out, "  %s %s: %s\n", failureStyle.Render("✗"), r.label, r.message)
			}
		}
	}

	if reportPath != "" {
		fmt.Fprintf(bp.out, "\nReport: %s\n", reportPath)
	}
}

// GetSuccessCount returns the number of successful results
func (bp *BatchProgress) GetSuccessCount() int {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return bp.completed - bp.failed
}

// GetFailureCount returns the number of failed results
func (bp *BatchProgress) GetFailureCount() int {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return bp.failed
}

var _ ports.ProgressObserver = (*BatchProgress)(nil)
