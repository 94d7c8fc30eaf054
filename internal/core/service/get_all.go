package service

import (
	"context"
	"fmt"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/port"
)

type GetAllTasksQuery struct {
	repo port.TaskRepository
}

func NewGetAllTasksQuery(repo port.TaskRepository) *GetAllTasksQuery {
	return &GetAllTasksQuery{repo: repo}
}

func (q *GetAllTasksQuery) Execute(ctx context.Context) ([]domain.Task, error) {
	tasks, err := q.repo.GetAll(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}
