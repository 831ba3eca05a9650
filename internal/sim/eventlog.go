package sim

import (
	"fmt"
	"strings"
)

// Event categories and keys written by the engine.
const (
	CategoryMatrix   = "matrix"
	CategoryStimulus = "stimulus"

	KeyReset   = "reset"
	KeyPointer = "pointer"
)

// Event is one recorded engine event.
type Event struct {
	Tick     int
	Category string  // matrix, stimulus
	Key      string  // event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the event as a fixed-width log line.
//
//	[T=042] matrix    reset            5x5
func (e Event) String() string {
	return fmt.Sprintf("[T=%03d] %-9s %-16s %s", e.Tick, e.Category, e.Key, e.Value)
}

// EventLog collects structured events from an Engine. It is unbounded and
// not safe for concurrent use; the engine only writes to it from Tick.
type EventLog struct {
	entries []Event
}

func NewEventLog() *EventLog {
	return &EventLog{}
}

// Add records a new event.
func (l *EventLog) Add(tick int, category, key, value string, numVal float64) {
	l.entries = append(l.entries, Event{
		Tick:     tick,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// Entries returns all recorded events.
func (l *EventLog) Entries() []Event {
	return l.entries
}

// Filter returns events matching category and key. An empty string matches
// anything.
func (l *EventLog) Filter(category, key string) []Event {
	var out []Event
	for _, e := range l.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Count returns how many events match category and key.
func (l *EventLog) Count(category, key string) int {
	return len(l.Filter(category, key))
}

// Format returns the whole log, one line per event.
func (l *EventLog) Format() string {
	var sb strings.Builder
	for _, e := range l.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
