package task

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is a mutex-guarded in-memory task table. Reads return snapshots;
// mutations are whole-record replacements under the lock, so an update never
// straddles a suspension point.
type Store struct {
	mu     sync.Mutex
	tasks  map[string]Task
	logger *slog.Logger
	now    func() time.Time // swapped in tests
}

// NewStore creates an empty store.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		tasks:  make(map[string]Task),
		logger: logger.With("component", "task-store"),
		now:    time.Now,
	}
}

// Create inserts a new task, assigning ID, CreatedAt, UpdatedAt and
// ReminderSent. Priority defaults to medium and status to pending when
// unset. Returns a snapshot of the stored task.
func (s *Store) Create(t Task) Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	t.ID = newID(now)
	t.CreatedAt = now
	t.UpdatedAt = now
	t.ReminderSent = false
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Status == "" {
		t.Status = StatusPending
	}

	s.tasks[t.ID] = t.clone()
	s.logger.Info("task created", "id", t.ID, "due", t.DueDate)
	return t.clone()
}

// Get returns a snapshot of the task, or *NotFoundError.
func (s *Store) Get(id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return Task{}, &NotFoundError{ID: id}
	}
	return t.clone(), nil
}

// Patch describes a partial update. Nil fields are left unchanged.
type Patch struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *Priority
	Status      *Status
	AssignedTo  *string
	Tags        []string // nil means unchanged
}

// Update merges the patch into the task. ID and CreatedAt cannot be changed;
// UpdatedAt always advances. Returns the updated snapshot.
func (s *Store) Update(id string, p Patch) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return Task{}, &NotFoundError{ID: id}
	}

	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.AssignedTo != nil {
		t.AssignedTo = *p.AssignedTo
	}
	if p.Tags != nil {
		t.Tags = p.Tags
	}
	t.UpdatedAt = s.advance(t.UpdatedAt)

	s.tasks[id] = t.clone()
	s.logger.Info("task updated", "id", id)
	return t.clone(), nil
}

// Delete removes the task, or returns *NotFoundError.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return &NotFoundError{ID: id}
	}
	delete(s.tasks, id)
	s.logger.Info("task deleted", "id", id)
	return nil
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Status     Status
	Priority   Priority
	AssignedTo string
}

// List returns snapshots of matching tasks sorted by due date ascending.
func (s *Store) List(f Filter) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Task
	for _, t := range s.tasks {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		if f.AssignedTo != "" && t.AssignedTo != f.AssignedTo {
			continue
		}
		out = append(out, t.clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return out
}

// Upcoming returns non-terminal tasks due within the next hours, inclusive
// at both bounds.
func (s *Store) Upcoming(hours int) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	horizon := now.Add(time.Duration(hours) * time.Hour)

	var out []Task
	for _, t := range s.tasks {
		if t.Status.Terminal() {
			continue
		}
		if t.DueDate.Before(now) || t.DueDate.After(horizon) {
			continue
		}
		out = append(out, t.clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return out
}

// Overdue returns non-terminal tasks whose due date has passed.
func (s *Store) Overdue() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var out []Task
	for _, t := range s.tasks {
		if t.Overdue(now) {
			out = append(out, t.clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return out
}

// ByPriority returns snapshots of all tasks with the given priority.
func (s *Store) ByPriority(p Priority) []Task {
	return s.List(Filter{Priority: p})
}

// MarkReminderSent flips the reminder flag. The flag never resets, so
// repeated calls are harmless.
func (s *Store) MarkReminderSent(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return &NotFoundError{ID: id}
	}
	t.ReminderSent = true
	t.UpdatedAt = s.advance(t.UpdatedAt)
	s.tasks[id] = t
	return nil
}

// Stats summarizes the store contents.
type Stats struct {
	Total      int            `json:"total"`
	Pending    int            `json:"pending"`
	InProgress int            `json:"inProgress"`
	Completed  int            `json:"completed"`
	Cancelled  int            `json:"cancelled"`
	Overdue    int            `json:"overdue"`
	ByPriority PriorityCounts `json:"byPriority"`
}

// PriorityCounts breaks totals down per priority.
type PriorityCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Stats computes aggregate counts in a single pass under the lock.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var st Stats
	for _, t := range s.tasks {
		st.Total++
		switch t.Status {
		case StatusPending:
			st.Pending++
		case StatusInProgress:
			st.InProgress++
		case StatusCompleted:
			st.Completed++
		case StatusCancelled:
			st.Cancelled++
		}
		switch t.Priority {
		case PriorityHigh:
			st.ByPriority.High++
		case PriorityMedium:
			st.ByPriority.Medium++
		case PriorityLow:
			st.ByPriority.Low++
		}
		if t.Overdue(now) {
			st.Overdue++
		}
	}
	return st
}

// advance returns the current time, never earlier than prev. UpdatedAt must
// not go backwards even if the wall clock does.
func (s *Store) advance(prev time.Time) time.Time {
	now := s.now()
	if now.Before(prev) {
		return prev
	}
	return now
}

// newID combines a millisecond timestamp with a random component so
// collisions stay negligible across the store's lifetime.
func newID(now time.Time) string {
	return fmt.Sprintf("task_%d_%s", now.UnixMilli(), uuid.NewString()[:8])
}
