// Package task implements the in-memory task repository. The store owns all
// Task values; callers always get copies and every mutation goes through a
// store method under the lock.
package task

import (
	"fmt"
	"time"
)

// Priority of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Status of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Terminal reports whether the status excludes a task from overdue and
// reminder consideration.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Task is a single work item.
//
// Invariants: ID and CreatedAt are immutable after creation; UpdatedAt never
// decreases; ReminderSent only ever transitions false -> true.
type Task struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	DueDate      time.Time `json:"dueDate"`
	Priority     Priority  `json:"priority"`
	Status       Status    `json:"status"`
	AssignedTo   string    `json:"assignedTo,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	ReminderSent bool      `json:"reminderSent"`
}

// Overdue reports whether the task is past due and still actionable.
func (t Task) Overdue(now time.Time) bool {
	return !t.Status.Terminal() && t.DueDate.Before(now)
}

// clone returns a copy safe to hand outside the store.
func (t Task) clone() Task {
	if t.Tags != nil {
		tags := make([]string, len(t.Tags))
		copy(tags, t.Tags)
		t.Tags = tags
	}
	return t
}

// NotFoundError reports an absent task id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task with ID %s not found", e.ID)
}
