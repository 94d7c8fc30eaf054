package port

import (
	"context"
	"time"

	"taskapp/internal/core/domain"
)

// TaskChanges lists the fields a repository Update must write. Nil fields are left untouched.
// ClearDueDate removes the stored due date and takes precedence over DueDate.
type TaskChanges struct {
	Title        *domain.Title
	Completed    *bool
	Priority     *domain.Priority
	DueDate      *time.Time
	ClearDueDate bool
}

func (c TaskChanges) IsEmpty() bool {
	return c.Title == nil && c.Completed == nil && c.Priority == nil && c.DueDate == nil && !c.ClearDueDate
}

// Apply returns task with the changes applied through the entity mutators.
func (c TaskChanges) Apply(task domain.Task) domain.Task {
	if c.Title != nil {
		task = task.WithTitle(*c.Title)
	}

	if c.Completed != nil {
		task = task.WithCompleted(*c.Completed)
	}

	if c.Priority != nil {
		task = task.WithPriority(*c.Priority)
	}

	if c.ClearDueDate {
		task = task.WithDueDate(nil)
	} else if c.DueDate != nil {
		task = task.WithDueDate(c.DueDate)
	}

	return task
}

// TaskRepository is implemented by storage adapters. Update and Delete return an error
// matching domain.ErrNotFound when the id is unknown. Create returns the id the store assigned.
type TaskRepository interface {
	GetAll(ctx context.Context) ([]domain.Task, error)
	GetByID(ctx context.Context, id domain.ID) (domain.Task, bool, error)
	GetActive(ctx context.Context) ([]domain.Task, error)
	GetCompleted(ctx context.Context) ([]domain.Task, error)
	Create(ctx context.Context, task domain.Task) (domain.ID, error)
	Update(ctx context.Context, id domain.ID, changes TaskChanges) error
	Delete(ctx context.Context, id domain.ID) error
	FindBySpecification(ctx context.Context, spec domain.Specification) ([]domain.Task, error)
}
