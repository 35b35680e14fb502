package deploy

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/go-logr/logr"
)

// Logger is the minimal printf-style logging surface.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Observer receives structured events while a deployment runs.
type Observer interface {
	Logger

	// Event emits a structured event.
	Event(event Event)

	// WithFields returns a new Observer with additional context fields.
	WithFields(fields map[string]string) Observer
}

// Event represents a structured deployment event.
type Event struct {
	Type      EventType         // Type of event
	Target    string            // Target identifier, if applicable
	Message   string            // Human-readable message
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of deployment event.
type EventType string

const (
	// EventRunStarted indicates a deployment run has started.
	EventRunStarted EventType = "run.started"
	// EventRunCompleted indicates a deployment run finished; every target
	// is in a terminal state.
	EventRunCompleted EventType = "run.completed"

	// EventTargetStarted indicates a target moved to in_progress.
	EventTargetStarted EventType = "target.started"
	// EventTargetAttemptFailed indicates one apply attempt failed and may
	// be retried.
	EventTargetAttemptFailed EventType = "target.attempt_failed"
	// EventTargetSucceeded indicates the device reported success.
	EventTargetSucceeded EventType = "target.succeeded"
	// EventTargetFailed indicates the retry budget is exhausted.
	EventTargetFailed EventType = "target.failed"
	// EventTargetSkipped indicates the target was never attempted.
	EventTargetSkipped EventType = "target.skipped"
)

// ConsoleObserver implements Observer using the standard log package.
type ConsoleObserver struct {
	contextFields map[string]string
}

// NewConsoleObserver creates a new console-based observer.
func NewConsoleObserver() *ConsoleObserver {
	return &ConsoleObserver{
		contextFields: make(map[string]string),
	}
}

// Printf implements the Logger interface.
func (o *ConsoleObserver) Printf(format string, v ...interface{}) {
	log.Printf(format, v...)
}

// Event implements the Observer interface.
func (o *ConsoleObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	fields := mergeFields(o.contextFields, event.Fields)
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]", event.Type)
	if event.Target != "" {
		fmt.Fprintf(&b, " target=%s", event.Target)
	}
	if event.Message != "" {
		b.WriteString(" " + event.Message)
	}
	for _, k := range sortedKeys(fields) {
		fmt.Fprintf(&b, " %s=%s", k, fields[k])
	}
	log.Print(b.String())
}

// WithFields implements the Observer interface.
func (o *ConsoleObserver) WithFields(fields map[string]string) Observer {
	return &ConsoleObserver{contextFields: mergeFields(o.contextFields, fields)}
}

// LogrObserver adapts a logr.Logger to the Observer interface, for callers
// that want machine-readable structured output.
type LogrObserver struct {
	logger logr.Logger
}

// NewLogrObserver creates an observer backed by the given logr.Logger.
func NewLogrObserver(logger logr.Logger) *LogrObserver {
	return &LogrObserver{logger: logger}
}

// Printf implements the Logger interface.
func (o *LogrObserver) Printf(format string, v ...interface{}) {
	o.logger.Info(fmt.Sprintf(format, v...))
}

// Event implements the Observer interface.
func (o *LogrObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	kv := []interface{}{"event", string(event.Type)}
	if event.Target != "" {
		kv = append(kv, "target", event.Target)
	}
	for _, k := range sortedKeys(event.Fields) {
		kv = append(kv, k, event.Fields[k])
	}
	o.logger.Info(event.Message, kv...)
}

// WithFields implements the Observer interface.
func (o *LogrObserver) WithFields(fields map[string]string) Observer {
	logger := o.logger
	for _, k := range sortedKeys(fields) {
		logger = logger.WithValues(k, fields[k])
	}
	return &LogrObserver{logger: logger}
}

// NopObserver discards everything. Useful in tests.
type NopObserver struct{}

// Printf implements the Logger interface.
func (NopObserver) Printf(string, ...interface{}) {}

// Event implements the Observer interface.
func (NopObserver) Event(Event) {}

// WithFields implements the Observer interface.
func (n NopObserver) WithFields(map[string]string) Observer { return n }

func mergeFields(base, extra map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
