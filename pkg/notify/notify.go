// Package notify defines the user-notification collaborator consumed by the
// Surface runtime.
//
// The runtime never renders toasts or dialogs itself; it hands messages to a
// Notifier injected through the component configuration. When no notifier is
// configured, messages degrade to log output.
package notify

import "github.com/go-surface/surface/pkg/errors"

// Severity levels for notifications.
const (
	LevelSuccess = "success"
	LevelError   = "error"
	LevelWarning = "warning"
	LevelInfo    = "info"
)

// Notifier presents one-shot messages to the user.
type Notifier interface {
	ShowError(msg string)
	ShowSuccess(msg string)
	ShowWarning(msg string)
	ShowInfo(msg string)
}

// LogNotifier is the default Notifier: it routes messages to the runtime's
// error handler as warnings, so a missing presentation surface degrades to
// logging only.
type LogNotifier struct{}

func (LogNotifier) ShowError(msg string)   { errors.Warnf("notify", "", "[%s] %s", LevelError, msg) }
func (LogNotifier) ShowSuccess(msg string) { errors.Warnf("notify", "", "[%s] %s", LevelSuccess, msg) }
func (LogNotifier) ShowWarning(msg string) { errors.Warnf("notify", "", "[%s] %s", LevelWarning, msg) }
func (LogNotifier) ShowInfo(msg string)    { errors.Warnf("notify", "", "[%s] %s", LevelInfo, msg) }

// Multi fans a notification out to several notifiers.
type Multi []Notifier

func (m Multi) ShowError(msg string) {
	for _, n := range m {
		n.ShowError(msg)
	}
}

func (m Multi) ShowSuccess(msg string) {
	for _, n := range m {
		n.ShowSuccess(msg)
	}
}

func (m Multi) ShowWarning(msg string) {
	for _, n := range m {
		n.ShowWarning(msg)
	}
}

func (m Multi) ShowInfo(msg string) {
	for _, n := range m {
		n.ShowInfo(msg)
	}
}
