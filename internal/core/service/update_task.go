package service

import (
	"context"
	"fmt"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/command"
	"taskapp/internal/core/port"
)

type UpdateTaskUseCase struct {
	repo port.TaskRepository
}

func NewUpdateTaskUseCase(repo port.TaskRepository) *UpdateTaskUseCase {
	return &UpdateTaskUseCase{repo: repo}
}

// Execute applies the fields present in cmd and persists only those fields.
func (uc *UpdateTaskUseCase) Execute(ctx context.Context, cmd command.UpdateTask) (domain.Task, error) {
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

	updated, changes, err := applyUpdate(task, cmd)

	if err != nil {
		return domain.Task{}, err
	}

	if err := updated.Validate(); err != nil {
		return domain.Task{}, err
	}

	if changes.IsEmpty() {
		return updated, nil
	}

	if err := uc.repo.Update(ctx, id, changes); err != nil {
		return domain.Task{}, fmt.Errorf("failed to update task %s: %w", id, err)
	}

	return updated, nil
}

func applyUpdate(task domain.Task, cmd command.UpdateTask) (domain.Task, port.TaskChanges, error) {
	var changes port.TaskChanges

	if cmd.Title != nil {
		title, err := domain.NewTitle(*cmd.Title)

		if err != nil {
			return domain.Task{}, changes, err
		}

		task = task.WithTitle(title)
		changes.Title = &title
	}

	if cmd.Completed != nil {
		completed := *cmd.Completed

		if completed != task.Completed() {
			task = task.Toggle()
		}

		changes.Completed = &completed
	}

	if cmd.Priority != nil {
		priority, err := domain.ParsePriority(*cmd.Priority)

		if err != nil {
			return domain.Task{}, changes, err
		}

		task = task.WithPriority(priority)
		changes.Priority = &priority
	}

	switch {
	case cmd.ClearDueDate:
		task = task.WithDueDate(nil)
		changes.ClearDueDate = true
	case cmd.DueDate != nil:
		due := *cmd.DueDate
		task = task.WithDueDate(&due)
		changes.DueDate = &due
	}

	return task, changes, nil
}
