package port

import (
	"context"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/command"
)

// TaskService is what transport adapters call. Every method maps to one use case.
type TaskService interface {
	Create(ctx context.Context, cmd command.CreateTask) (domain.Task, error)
	Update(ctx context.Context, cmd command.UpdateTask) (domain.Task, error)
	Delete(ctx context.Context, cmd command.DeleteTask) error
	Toggle(ctx context.Context, cmd command.ToggleTask) (domain.Task, error)

	GetAll(ctx context.Context) ([]domain.Task, error)
	GetFiltered(ctx context.Context, query command.GetFilteredTasks) ([]domain.Task, error)
	GetByID(ctx context.Context, query command.GetTaskByID) (domain.Task, bool, error)
	GetStats(ctx context.Context) (domain.TaskStats, error)
	Find(ctx context.Context, query command.FindTasks) ([]domain.Task, error)
}
