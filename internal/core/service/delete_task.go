package service

import (
	"context"
	"fmt"

	"taskapp/internal/core/model/command"
	"taskapp/internal/core/port"
)

type DeleteTaskUseCase struct {
	repo port.TaskRepository
}

func NewDeleteTaskUseCase(repo port.TaskRepository) *DeleteTaskUseCase {
	return &DeleteTaskUseCase{repo: repo}
}

func (uc *DeleteTaskUseCase) Execute(ctx context.Context, cmd command.DeleteTask) error {
	id, err := parseTaskID(cmd.ID)

	if err != nil {
		return err
	}

	_, found, err := uc.repo.GetByID(ctx, id)

	if err != nil {
		return fmt.Errorf("failed to load task %s: %w", id, err)
	}

	if !found {
		return taskNotFound(id)
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task %s: %w", id, err)
	}

	return nil
}
