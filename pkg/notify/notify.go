// Package notify reports the outcome of an import request to the user.
//
// The importer calls [Notifier.Notify] exactly once per request. [Gate]
// wraps a notifier so that the configuration's ShowNotifications flag can
// silence it without the importer knowing.
package notify

import (
	"sync"

	"github.com/charmbracelet/log"
)

// Kind classifies a notification.
type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
)

// Notifier presents a message. Implementations must not block for long.
type Notifier interface {
	Notify(msg string, kind Kind)
}

// Func adapts a function to Notifier.
type Func func(msg string, kind Kind)

// Notify calls f.
func (f Func) Notify(msg string, kind Kind) { f(msg, kind) }

// Nop discards every notification.
var Nop Notifier = Func(func(string, Kind) {})

// Gate forwards to next only while enabled reports true.
func Gate(next Notifier, enabled func() bool) Notifier {
	if next == nil {
		return Nop
	}
	return Func(func(msg string, kind Kind) {
		if enabled == nil || enabled() {
			next.Notify(msg, kind)
		}
	})
}

// Tee forwards every notification to each non-nil notifier in order.
func Tee(ns ...Notifier) Notifier {
	return Func(func(msg string, kind Kind) {
		for _, n := range ns {
			if n != nil {
				n.Notify(msg, kind)
			}
		}
	})
}

// LogNotifier writes notifications to a charm logger, successes at info
// level and failures at error level.
type LogNotifier struct {
	logger *log.Logger
}

// NewLogNotifier creates a notifier on logger; nil uses log.Default().
func NewLogNotifier(logger *log.Logger) *LogNotifier {
	if logger == nil {
		logger = log.Default()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs msg.
func (n *LogNotifier) Notify(msg string, kind Kind) {
	if kind == Error {
		n.logger.Error(msg)
		return
	}
	n.logger.Info(msg)
}

// Message is a recorded notification.
type Message struct {
	Text string `json:"text"`
	Kind Kind   `json:"kind"`
}

// Recorder keeps notifications in memory. The bridge returns them with the
// response so the page can render them.
type Recorder struct {
	mu   sync.Mutex
	msgs []Message
}

// Notify records msg.
func (r *Recorder) Notify(msg string, kind Kind) {
	r.mu.Lock()
	r.msgs = append(r.msgs, Message{Text: msg, Kind: kind})
	r.mu.Unlock()
}

// Messages returns a copy of the recorded notifications.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.msgs...)
}

// Reset drops recorded notifications.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.msgs = nil
	r.mu.Unlock()
}
