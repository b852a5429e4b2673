// Package errors provides structured error handling for the Surface runtime.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// Kind identifies the category of an error.
type Kind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown Kind = iota
	// KindInit indicates misuse of a destroyed or uninitialized node.
	KindInit
	// KindTemplate indicates a template fetch or compile failure.
	KindTemplate
	// KindRender indicates a rendering failure.
	KindRender
	// KindMount indicates a missing or detached container.
	KindMount
	// KindUnmount indicates a failure while detaching from the document.
	KindUnmount
	// KindAction indicates a failed declarative action handler.
	KindAction
	// KindListener indicates a failed event bus subscriber.
	KindListener
	// KindNavigation indicates a navigation dispatch failure.
	KindNavigation
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k Kind) String() string {
	switch k {
	case KindInit:
		return "init"
	case KindTemplate:
		return "template"
	case KindRender:
		return "render"
	case KindMount:
		return "mount"
	case KindUnmount:
		return "unmount"
	case KindAction:
		return "action"
	case KindListener:
		return "listener"
	case KindNavigation:
		return "navigation"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Error represents a structured error in the Surface runtime.
type Error struct {
	// Op is the operation that failed (e.g., "view.Render").
	Op string
	// Kind categorizes the error.
	Kind Kind
	// Node is the id of the component node involved, if any.
	Node string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *Error) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("%s [%s] node=%s: %v", e.Op, e.Kind, e.Node, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New constructs a structured error with the current timestamp.
func New(op string, kind Kind, node string, err error) *Error {
	return &Error{
		Op:        op,
		Kind:      kind,
		Node:      node,
		Err:       err,
		Timestamp: time.Now(),
	}
}

// Newf constructs a structured error from a format string.
func Newf(op string, kind Kind, node string, format string, args ...any) *Error {
	return New(op, kind, node, fmt.Errorf(format, args...))
}

// KindOf returns the Kind of err, or KindUnknown if err is not a *Error.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsInit reports whether err is a destroyed-node misuse error.
func IsInit(err error) bool { return KindOf(err) == KindInit }

// IsRender reports whether err is a render or template failure.
func IsRender(err error) bool {
	k := KindOf(err)
	return k == KindRender || k == KindTemplate
}

// IsMount reports whether err is a container failure.
func IsMount(err error) bool { return KindOf(err) == KindMount }

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "view.dispatchAction").
	Op string
	// Node is the id of the component node involved, if any.
	Node string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Warning is a non-fatal condition worth logging, such as a render call
// skipped by the render guard.
type Warning struct {
	// Op is the operation that produced the warning.
	Op string
	// Node is the id of the component node involved, if any.
	Node string
	// Message describes the condition.
	Message string
	// Timestamp is when the warning occurred.
	Timestamp time.Time
}

func (w *Warning) String() string {
	if w.Node != "" {
		return fmt.Sprintf("%s node=%s: %s", w.Op, w.Node, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Op, w.Message)
}

// Handler receives errors and warnings reported by the Surface runtime.
type Handler interface {
	// HandleError is called when an error occurs.
	HandleError(err *Error)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleWarning is called for non-fatal conditions.
	HandleWarning(w *Warning)
}
