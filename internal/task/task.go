package task

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Priority represents a task priority level.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// DefaultPriority is used when an input leaves the priority empty.
const DefaultPriority = PriorityMedium

// Priorities returns the priority levels in ascending order.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// ParsePriority parses a priority name, ignoring case and surrounding space.
// An empty string yields DefaultPriority.
func ParsePriority(s string) (Priority, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultPriority, nil
	}
	for _, p := range Priorities() {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", &ValidationError{
		Field: "priority",
		Err:   fmt.Errorf("%w: %q, must be one of: Low, Medium, High", ErrUnknownPriority, s),
	}
}

// Category groups tasks. The built-in categories can be extended by config.
type Category string

const (
	CategoryGeneral  Category = "General"
	CategoryWork     Category = "Work"
	CategoryPersonal Category = "Personal"
)

// DefaultCategory is used when an input leaves the category empty.
const DefaultCategory = CategoryGeneral

// Categories returns the built-in categories followed by extra, skipping
// blanks and names that are already present.
func Categories(extra ...string) []Category {
	cats := []Category{CategoryGeneral, CategoryWork, CategoryPersonal}
	for _, name := range extra {
		name = strings.TrimSpace(name)
		if name == "" || containsCategory(cats, Category(name)) {
			continue
		}
		cats = append(cats, Category(name))
	}
	return cats
}

// ParseCategory matches s against known categories, ignoring case. Names
// that are not known are accepted as new categories with their spacing
// trimmed. An empty string yields DefaultCategory.
func ParseCategory(s string, known []Category) Category {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultCategory
	}
	for _, c := range known {
		if strings.EqualFold(s, string(c)) {
			return c
		}
	}
	return Category(s)
}

func containsCategory(cats []Category, c Category) bool {
	for _, existing := range cats {
		if strings.EqualFold(string(existing), string(c)) {
			return true
		}
	}
	return false
}

// DateLayout is the wire format of a due date.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time of day. The zero value means
// "no date".
type Date struct {
	time.Time
}

// NewDate returns the given calendar date.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string. An empty string yields the zero Date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, &ValidationError{
			Field: "dueDate",
			Err:   fmt.Errorf("%w: %q, expected YYYY-MM-DD", ErrInvalidDate, s),
		}
	}
	return Date{t}, nil
}

// String returns the date as YYYY-MM-DD, or "" for the zero Date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON encodes the date as "YYYY-MM-DD" or null.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "YYYY-MM-DD", "" or null.
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("due date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Task represents a single task in the list.
type Task struct {
	ID        int      `json:"id"`
	Title     string   `json:"title"`
	Priority  Priority `json:"priority"`
	DueDate   Date     `json:"dueDate,omitzero"`
	Category  Category `json:"category"`
	Completed bool     `json:"completed"`
}

// HasDueDate reports whether the task has a due date.
func (t Task) HasDueDate() bool {
	return !t.DueDate.IsZero()
}

// Input holds the fields a user supplies when adding a task.
type Input struct {
	Title    string   `json:"title"`
	Priority Priority `json:"priority,omitempty"`
	DueDate  Date     `json:"dueDate,omitzero"`
	Category Category `json:"category,omitempty"`
}
