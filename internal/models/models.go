// Package models defines the core data types for the task tracker.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle stage of a task.
type Status string

// Task statuses.
const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// ValidStatuses lists the accepted status values in lifecycle order.
var ValidStatuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// StatusHeadings maps statuses to Markdown heading text.
var StatusHeadings = map[Status]string{
	StatusTodo:       "Todo",
	StatusInProgress: "In Progress",
	StatusDone:       "Done",
}

// ParseStatus validates s and returns it as a Status.
func ParseStatus(s string) (Status, error) {
	for _, v := range ValidStatuses {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid status %q: must be one of %s", s, StatusNames())
}

// StatusNames returns the valid statuses joined for use in messages.
func StatusNames() string {
	names := make([]string, len(ValidStatuses))
	for i, v := range ValidStatuses {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}

// Task is a single tracked unit of work.
type Task struct {
	ID          int       `json:"id"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   Timestamp `json:"createdAt"`
	UpdatedAt   Timestamp `json:"updatedAt"`
}

// NewTask builds a todo task stamped with now for both timestamps.
func NewTask(id int, description string, now time.Time) Task {
	ts := NewTimestamp(now)
	return Task{
		ID:          id,
		Description: description,
		Status:      StatusTodo,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
}

// NextID returns 1 for an empty list, otherwise the largest id plus one.
// A deleted id is handed out again only if it was the largest.
func NextID(tasks []Task) int {
	maxID := 0
	for i := range tasks {
		if tasks[i].ID > maxID {
			maxID = tasks[i].ID
		}
	}
	return maxID + 1
}

// FilterByStatus returns the tasks holding status in their original order.
// An empty status returns tasks unchanged.
func FilterByStatus(tasks []Task, status Status) []Task {
	if status == "" {
		return tasks
	}
	filtered := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == status {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// CountByStatus tallies tasks per status. Every valid status has an entry.
func CountByStatus(tasks []Task) map[Status]int {
	counts := make(map[Status]int, len(ValidStatuses))
	for _, s := range ValidStatuses {
		counts[s] = 0
	}
	for i := range tasks {
		counts[tasks[i].Status]++
	}
	return counts
}

// ---------------------------------------------------------------------------
// Timestamp
// ---------------------------------------------------------------------------

// TimestampLayout is the ISO-8601 layout used for newly created timestamps.
const TimestampLayout = "2006-01-02T15:04:05.000000-07:00"

// parseLayouts are tried in order when reading a persisted timestamp.
// The zone-less layouts accept files written by earlier versions of the tool.
var parseLayouts = []string{
	TimestampLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// Timestamp is a point in time that remembers the text it was read from, so a
// loaded file is written back unchanged.
type Timestamp struct {
	t    time.Time
	text string
}

// NewTimestamp formats t in local time with TimestampLayout.
func NewTimestamp(t time.Time) Timestamp {
	t = t.Local()
	return Timestamp{t: t, text: t.Format(TimestampLayout)}
}

// ParseTimestamp parses an ISO-8601 timestamp with or without zone offset.
// Zone-less values are interpreted in local time.
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range parseLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return Timestamp{t: t, text: s}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("invalid timestamp %q", s)
}

// Time returns the parsed instant.
func (ts Timestamp) Time() time.Time { return ts.t }

// IsZero reports whether ts was never set.
func (ts Timestamp) IsZero() bool { return ts.text == "" }

// String returns the persisted text form.
func (ts Timestamp) String() string { return ts.text }

// MarshalJSON implements json.Marshaler.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.text)
}

// UnmarshalJSON implements json.Unmarshaler.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}
