package errors

import (
	"fmt"
	"io"
	"os"
)

// LogHandler is a Handler that logs errors to stderr.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
	// Out overrides the output writer. Defaults to os.Stderr.
	Out io.Writer
}

func (h *LogHandler) out() io.Writer {
	if h.Out != nil {
		return h.Out
	}
	return os.Stderr
}

// HandleError logs a structured error to stderr.
func (h *LogHandler) HandleError(err *Error) {
	if err == nil {
		return
	}
	if h.Verbose {
		fmt.Fprintf(h.out(), "[surface error] %s [%s]", err.Op, err.Kind)
		if err.Node != "" {
			fmt.Fprintf(h.out(), " node=%s", err.Node)
		}
		fmt.Fprintf(h.out(), ": %v\n", err.Err)
		if err.StackTrace != "" {
			fmt.Fprintf(h.out(), "Stack trace:\n%s\n", err.StackTrace)
		}
	} else {
		fmt.Fprintf(h.out(), "[surface error] %s: %v\n", err.Op, err.Err)
	}
}

// HandlePanic logs a PanicError to stderr.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	if err.Op != "" {
		fmt.Fprintf(h.out(), "[surface panic] %s: %v\n", err.Op, err.Value)
	} else {
		fmt.Fprintf(h.out(), "[surface panic] %v\n", err.Value)
	}
	if h.Verbose && err.StackTrace != "" {
		fmt.Fprintf(h.out(), "Stack trace:\n%s\n", err.StackTrace)
	}
}

// HandleWarning logs a warning to stderr.
func (h *LogHandler) HandleWarning(w *Warning) {
	if w == nil {
		return
	}
	fmt.Fprintf(h.out(), "[surface warn] %s\n", w.String())
}
