package service

import (
	"context"
	"fmt"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/command"
	"taskapp/internal/core/port"
)

type CreateTaskUseCase struct {
	repo  port.TaskRepository
	clock Clock
}

func NewCreateTaskUseCase(repo port.TaskRepository, opts ...Option) *CreateTaskUseCase {
	o := buildOptions(opts)

	return &CreateTaskUseCase{repo: repo, clock: o.clock}
}

// Execute builds an active task stamped with the current time and stores it. The returned
// task carries the id assigned by the repository.
func (uc *CreateTaskUseCase) Execute(ctx context.Context, cmd command.CreateTask) (domain.Task, error) {
	title, err := domain.NewTitle(cmd.Title)

	if err != nil {
		return domain.Task{}, err
	}

	priority, err := domain.ParsePriority(cmd.Priority)

	if err != nil {
		return domain.Task{}, err
	}

	task, err := domain.NewTask(domain.TaskParams{
		Title:     title,
		Completed: false,
		CreatedAt: uc.clock(),
		Priority:  priority,
		DueDate:   cmd.DueDate,
	})

	if err != nil {
		return domain.Task{}, err
	}

	id, err := uc.repo.Create(ctx, task)

	if err != nil {
		return domain.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	return task.WithID(id), nil
}
