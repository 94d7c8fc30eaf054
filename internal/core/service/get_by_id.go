package service

import (
	"context"
	"fmt"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/command"
	"taskapp/internal/core/port"
)

type GetTaskByIDQuery struct {
	repo port.TaskRepository
}

func NewGetTaskByIDQuery(repo port.TaskRepository) *GetTaskByIDQuery {
	return &GetTaskByIDQuery{repo: repo}
}

// Execute reports absence through the boolean; it is up to the caller to treat it as an error.
func (q *GetTaskByIDQuery) Execute(ctx context.Context, query command.GetTaskByID) (domain.Task, bool, error) {
	id, err := domain.ParseID(query.ID)

	if err != nil {
		return domain.Task{}, false, nil
	}

	task, found, err := q.repo.GetByID(ctx, id)

	if err != nil {
		return domain.Task{}, false, fmt.Errorf("failed to load task %s: %w", id, err)
	}

	return task, found, nil
}
