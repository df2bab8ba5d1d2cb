// Package notify defines the notification contract between the simulation
// and whatever renders it. The engine and interpreter depend only on Sink,
// never on a concrete output.
package notify

import "log/slog"

// Severity qualifies a notification. The zero value is neutral.
type Severity string

const (
	SeverityNone    Severity = ""
	SeverityWarning Severity = "warning"
	SeveritySuccess Severity = "success"
)

// Notification is one message bound for the session log.
type Notification struct {
	Channel  string
	Message  string
	Severity Severity
	// ForceVisible asks the presentation layer to bring the message into
	// view regardless of scroll position (operator echoes).
	ForceVisible bool
}

// Sink receives notifications.
type Sink interface {
	Notify(n Notification)
}

// MemorySink records notifications in order. Test and replay use.
type MemorySink struct {
	Entries []Notification
}

func (m *MemorySink) Notify(n Notification) {
	m.Entries = append(m.Entries, n)
}

// Last returns the most recent notification, or a zero value when empty.
func (m *MemorySink) Last() Notification {
	if len(m.Entries) == 0 {
		return Notification{}
	}
	return m.Entries[len(m.Entries)-1]
}

// Reset drops all recorded entries.
func (m *MemorySink) Reset() {
	m.Entries = m.Entries[:0]
}

// SlogSink forwards notifications to the process logger. Warnings log at
// Warn, everything else at Info.
type SlogSink struct {
	Logger *slog.Logger
}

func (s SlogSink) Notify(n Notification) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if n.Severity == SeverityWarning {
		logger.Warn(n.Message, "channel", n.Channel)
		return
	}
	logger.Info(n.Message, "channel", n.Channel, "severity", string(n.Severity))
}

// Multi fans a notification out to every sink.
type Multi []Sink

func (m Multi) Notify(n Notification) {
	for _, s := range m {
		s.Notify(n)
	}
}
