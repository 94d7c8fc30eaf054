package domain

import (
	"time"
)

// OverdueAfter is how long a task without a due date may stay active before it counts as overdue.
const OverdueAfter = 7 * 24 * time.Hour

// TaskParams carries the values needed to build a new Task.
type TaskParams struct {
	Title     Title
	Completed bool
	CreatedAt time.Time
	Priority  Priority
	DueDate   *time.Time
}

// Task is the aggregate root. Its fields are only reachable through accessors and every
// mutator returns a modified copy, leaving the receiver untouched.
type Task struct {
	id        *ID
	title     Title
	completed bool
	createdAt time.Time
	priority  Priority
	dueDate   *time.Time
}

func NewTask(params TaskParams) (Task, error) {
	priority := params.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	task := Task{
		title:     params.Title,
		completed: params.Completed,
		createdAt: params.CreatedAt,
		priority:  priority,
		dueDate:   copyTime(params.DueDate),
	}

	if err := task.Validate(); err != nil {
		return Task{}, err
	}

	return task, nil
}

// RehydrateTask rebuilds a persisted task. Storage adapters use it after loading a row.
func RehydrateTask(id ID, params TaskParams) (Task, error) {
	task, err := NewTask(params)
	if err != nil {
		return Task{}, err
	}

	return task.WithID(id), nil
}

func (t Task) ID() (ID, bool) {
	if t.id == nil {
		return ID{}, false
	}

	return *t.id, true
}

func (t Task) Title() Title {
	return t.title
}

func (t Task) Completed() bool {
	return t.completed
}

func (t Task) CreatedAt() time.Time {
	return t.createdAt
}

func (t Task) Priority() Priority {
	return t.priority
}

func (t Task) DueDate() (time.Time, bool) {
	if t.dueDate == nil {
		return time.Time{}, false
	}

	return *t.dueDate, true
}

// Validate checks the aggregate invariants.
func (t Task) Validate() error {
	if t.title.IsBlank() {
		return newInvariantError("title", "is required", ErrInvalidTitle)
	}

	if !t.priority.IsValid() {
		return newInvariantError("priority", "must be one of low, medium, high", ErrInvalidPriority)
	}

	if t.dueDate != nil && t.dueDate.Before(t.createdAt) {
		return newInvariantError("due_date", "cannot be before created_at", ErrDueDateBeforeCreation)
	}

	return nil
}

func (t Task) Toggle() Task {
	next := t.clone()
	next.completed = !t.completed

	return next
}

// Complete differs from Toggle by refusing to run on a completed task.
func (t Task) Complete() (Task, error) {
	if !t.CanBeCompleted() {
		return Task{}, ErrAlreadyCompleted
	}

	next := t.clone()
	next.completed = true

	return next, nil
}

func (t Task) CanBeCompleted() bool {
	return !t.completed
}

func (t Task) WithTitle(title Title) Task {
	next := t.clone()
	next.title = title

	return next
}

func (t Task) WithPriority(priority Priority) Task {
	next := t.clone()
	next.priority = priority

	return next
}

// WithDueDate replaces the due date; nil clears it.
func (t Task) WithDueDate(dueDate *time.Time) Task {
	next := t.clone()
	next.dueDate = copyTime(dueDate)

	return next
}

func (t Task) WithCompleted(completed bool) Task {
	next := t.clone()
	next.completed = completed

	return next
}

func (t Task) WithID(id ID) Task {
	next := t.clone()
	next.id = &id

	return next
}

// IsOverdue reports whether an active task is past its due date, or older than OverdueAfter
// when it has none.
func (t Task) IsOverdue(now time.Time) bool {
	if t.completed {
		return false
	}

	if t.dueDate != nil {
		return t.dueDate.Before(now)
	}

	return now.Sub(t.createdAt) > OverdueAfter
}

// Equals compares by identity. Tasks that were never persisted are never equal.
func (t Task) Equals(other Task) bool {
	if t.id == nil || other.id == nil {
		return false
	}

	return t.id.Equals(*other.id)
}

func (t Task) clone() Task {
	next := t
	next.dueDate = copyTime(t.dueDate)

	if t.id != nil {
		id := *t.id
		next.id = &id
	}

	return next
}

func copyTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}

	v := *value

	return &v
}
