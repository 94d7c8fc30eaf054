package service

import (
	"context"
	"fmt"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/command"
	"taskapp/internal/core/port"
)

type ToggleTaskUseCase struct {
	repo port.TaskRepository
}

func NewToggleTaskUseCase(repo port.TaskRepository) *ToggleTaskUseCase {
	return &ToggleTaskUseCase{repo: repo}
}

// Execute flips the completed flag and writes only that field once the result validates.
func (uc *ToggleTaskUseCase) Execute(ctx context.Context, cmd command.ToggleTask) (domain.Task, error) {
	id, err := parseTaskID(cmd.ID)

	if err != nil {
		return domain.Task{}, err
	}

	task, found, err := uc.repo.GetByID(ctx, id)

	if err != nil {
		return domain.Task{}, fmt.Errorf("failed to load task %s: %w", id, err)
	}

	if !found {
		return domain.Task{}, taskNotFound(id)
	}

	toggled := task.Toggle()

	if err := toggled.Validate(); err != nil {
		return domain.Task{}, err
	}

	completed := toggled.Completed()

	if err := uc.repo.Update(ctx, id, port.TaskChanges{Completed: &completed}); err != nil {
		return domain.Task{}, fmt.Errorf("failed to toggle task %s: %w", id, err)
	}

	return toggled, nil
}
