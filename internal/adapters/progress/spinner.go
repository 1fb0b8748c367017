package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

// SpinnerProgressReporter shows the current deployment stage with a spinner
// and prints a line with the duration of every finished stage
type SpinnerProgressReporter struct {
	spinner      *spinner.Spinner
	out          io.Writer
	currentStage string
	stageStart   time.Time
}

// NewSpinnerProgressReporter creates a new spinner-based progress reporter
func NewSpinnerProgressReporter() *SpinnerProgressReporter {
	return newSpinnerProgressReporter(os.Stderr)
}

func newSpinnerProgressReporter(out io.Writer) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false
	return &SpinnerProgressReporter{spinner: s, out: out}
}

// OnProgress handles progress events
func (r *SpinnerProgressReporter) OnProgress(_ context.Context, event usecase.ProgressEvent) {
	if event.Stage != r.currentStage {
		r.completeCurrentStage()
		r.currentStage = event.Stage
		r.stageStart = time.Now()
	}

	if event.Stage == usecase.StageCompleted {
		r.Stop()
		r.currentStage = ""
		return
	}

	if event.Spinner {
		r.spinner.Suffix = fmt.Sprintf(" %s %s", color.New(color.FgYellow).Sprint(event.Stage), event.Message)
		if !r.spinner.Active() {
			r.spinner.Start()
		}
	} else {
		r.Stop()
		fmt.Fprintf(r.out, "%s %s %s\n", color.New(color.FgYellow).Sprint("●"), event.Stage, event.Message)
	}
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.pause(func() { color.New(color.FgCyan).Fprintln(r.out, message) })
}

// Error prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	r.pause(func() { color.New(color.FgRed).Fprintln(r.out, message) })
}

func (r *SpinnerProgressReporter) pause(print func()) {
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}
	print()
	if wasActive {
		r.spinner.Start()
	}
}

// Stop halts the spinner without completing the current stage
func (r *SpinnerProgressReporter) Stop() {
	if r.spinner.Active() {
		r.spinner.Stop()
	}
}

// completeCurrentStage prints the finished stage with its duration
func (r *SpinnerProgressReporter) completeCurrentStage() {
	if r.currentStage == "" {
		return
	}
	r.Stop()
	fmt.Fprintf(r.out, "%s %s %s\n",
		color.New(color.FgGreen).Sprint("✓"),
		r.currentStage,
		color.New(color.FgHiBlack).Sprintf("(%s)", time.Since(r.stageStart).Round(time.Millisecond)),
	)
}

var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
