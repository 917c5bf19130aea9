package guard

import (
	"fmt"
	"io"
)

// Tracer mirrors each pipeline stage for diagnostic replay. Tracing is
// purely observational: it never raises and never changes a verdict.
type Tracer interface {
	Trace(stage, message string)
}

type nopTracer struct{}

func (nopTracer) Trace(string, string) {}

// NopTracer discards all trace output.
var NopTracer Tracer = nopTracer{}

// WriterTracer writes one `[stage] message` line per trace call. Write
// errors are swallowed: a broken diagnostic stream must not affect the
// verdict.
type WriterTracer struct {
	w io.Writer
}

func NewWriterTracer(w io.Writer) *WriterTracer {
	return &WriterTracer{w: w}
}

func (t *WriterTracer) Trace(stage, message string) {
	if t.w == nil {
		return
	}
	_, _ = fmt.Fprintf(t.w, "[%s] %s\n", stage, message)
}
