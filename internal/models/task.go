package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Priority is the urgency of a task
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

var priorities = []Priority{PriorityLow, PriorityNormal, PriorityHigh}

// Priorities returns every known priority in rank order, lowest first.
func Priorities() []Priority {
	out := make([]Priority, len(priorities))
	copy(out, priorities)
	return out
}

// Rank orders priorities low < normal < high. Unknown values rank -1.
func (p Priority) Rank() int {
	for i, known := range priorities {
		if p == known {
			return i
		}
	}
	return -1
}

// Valid reports whether p is one of the known priorities
func (p Priority) Valid() bool {
	return p.Rank() >= 0
}

func (p Priority) String() string {
	return string(p)
}

// Next cycles low -> normal -> high -> low
func (p Priority) Next() Priority {
	r := p.Rank()
	if r < 0 {
		return PriorityNormal
	}
	return priorities[(r+1)%len(priorities)]
}

// ParsePriority converts user input into a Priority.
// Accepts the names, their numeric rank (1-3) and "medium"/"med" for normal.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "l", "1":
		return PriorityLow, nil
	case "normal", "n", "medium", "med", "2":
		return PriorityNormal, nil
	case "high", "h", "3":
		return PriorityHigh, nil
	default:
		return "", fmt.Errorf("invalid priority %q: use low, normal or high", s)
	}
}

// DateLayout is the short form accepted for due dates
const DateLayout = "2006-01-02"

// Date is a due date. It marshals as RFC 3339 and accepts either RFC 3339
// or a plain YYYY-MM-DD when decoding.
type Date struct {
	time.Time
}

// NewDate truncates t to midnight in its own location
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, t.Location())}
}

// Day returns midnight of the given calendar day in local time
func Day(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.Local)}
}

// AddDays moves the date by n calendar days
func (d Date) AddDays(n int) Date {
	return Date{d.AddDate(0, 0, n)}
}

// ParseDate parses RFC 3339 or YYYY-MM-DD. The calendar day is taken as
// written and returned as local midnight, so a stored date keeps its day
// when the machine's zone changes.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		y, m, d := t.Date()
		return Day(y, m, d), nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time.Format(time.RFC3339))
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// String renders the calendar day only
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Task represents a todo item.
//
// Completed and ShowCardButtons are both plain booleans that default to
// false; ShowCardButtons is UI state and always mirrors Completed after any
// mutation made through the list controller.
type Task struct {
	Task            string   `json:"task"`
	Priority        Priority `json:"priority"`
	DueDate         Date     `json:"dueDate"`
	TaskID          string   `json:"taskId"`
	Completed       bool     `json:"completed"`
	ShowCardButtons bool     `json:"showCardButtons"`
}

// SetCompleted moves the task between the normal and completed states
func (t *Task) SetCompleted(completed bool) {
	t.Completed = completed
	t.ShowCardButtons = completed
}

// Editable reports whether the edit action is offered for the task
func (t Task) Editable() bool {
	return !t.ShowCardButtons
}

// Status is a short human label
func (t Task) Status() string {
	if t.Completed {
		return "done"
	}
	return "todo"
}
