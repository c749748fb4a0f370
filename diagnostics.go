package main

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Reporter writes non-fatal diagnostics to an error stream.
// It is safe for concurrent use by the walker's workers.
type Reporter struct {
	writer      io.Writer
	mutex       sync.Mutex
	colorOutput bool
	warnings    atomic.Int64
}

// NewReporter creates a Reporter writing to w. A nil writer discards messages
// but warnings are still counted.
func NewReporter(w io.Writer, allowColor bool) *Reporter {
	return &Reporter{
		writer:      w,
		colorOutput: allowColor && isTerminal(w),
	}
}

// isTerminal checks whether w is a file attached to a TTY.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Warnf reports a recoverable problem.
func (r *Reporter) Warnf(format string, args ...any) {
	r.warnings.Add(1)
	r.write(color.FgYellow, "Warning", fmt.Sprintf(format, args...))
}

// Errorf reports a problem that ends the run.
func (r *Reporter) Errorf(format string, args ...any) {
	r.write(color.FgRed, "Error", fmt.Sprintf(format, args...))
}

// Infof reports progress that is not part of the report itself.
func (r *Reporter) Infof(format string, args ...any) {
	r.write(color.FgCyan, "Info", fmt.Sprintf(format, args...))
}

// Warnings returns the number of warnings reported so far.
func (r *Reporter) Warnings() int {
	return int(r.warnings.Load())
}

func (r *Reporter) write(attr color.Attribute, label, message string) {
	if r.writer == nil {
		return
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.colorOutput {
		c := color.New(attr)
		c.EnableColor() // TTY detection is done per writer, not on stdout
		label = c.Sprint(label)
	}
	fmt.Fprintf(r.writer, "%s: %s\n", label, message)
}
