package domain

import (
	"fmt"
	"time"
)

// Task is a single to-do item. BoardID is optional; an empty value means the
// task is unfiled. GithubID is set only on tasks imported from the external
// tracker and is the stringified remote issue id.
type Task struct {
	ID            string     `json:"id"`
	Text          string     `json:"text"`
	Description   string     `json:"description,omitempty"`
	UserID        string     `json:"user_id"`
	BoardID       string     `json:"board_id,omitempty"`
	IsCompleted   bool       `json:"is_completed"`
	IsPrioritized bool       `json:"is_prioritized"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	GithubID      string     `json:"github_id,omitempty"`
	ReminderAt    *time.Time `json:"reminder_at,omitempty"`
	ReminderSent  bool       `json:"reminder_sent"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ParseDeadline normalizes the deadline representations that exist in stored
// documents: a store timestamp (time.Time), a pointer to one, or a date
// string (RFC3339 or plain YYYY-MM-DD). Records written by older client
// versions used the string form.
func ParseDeadline(v interface{}) (*time.Time, error) {
	switch d := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return &d, nil
	case *time.Time:
		return d, nil
	case string:
		if d == "" {
			return nil, nil
		}
		if t, err := time.Parse(time.RFC3339, d); err == nil {
			return &t, nil
		}
		if t, err := time.Parse("2006-01-02", d); err == nil {
			return &t, nil
		}
		return nil, fmt.Errorf("unrecognized deadline string %q", d)
	default:
		return nil, fmt.Errorf("unrecognized deadline type %T", v)
	}
}
