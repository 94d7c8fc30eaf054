package service

import (
	"context"
	"fmt"
	"sort"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/command"
	"taskapp/internal/core/port"
)

type GetFilteredTasksQuery struct {
	repo port.TaskRepository
}

func NewGetFilteredTasksQuery(repo port.TaskRepository) *GetFilteredTasksQuery {
	return &GetFilteredTasksQuery{repo: repo}
}

func (q *GetFilteredTasksQuery) Execute(ctx context.Context, query command.GetFilteredTasks) ([]domain.Task, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	tasks, err := q.load(ctx, query.Filter)

	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	SortTasks(tasks, query.SortBy, query.SortOrder)

	return tasks, nil
}

func (q *GetFilteredTasksQuery) load(ctx context.Context, filter command.Filter) ([]domain.Task, error) {
	switch filter {
	case command.FilterActive:
		return q.repo.GetActive(ctx)
	case command.FilterCompleted:
		return q.repo.GetCompleted(ctx)
	default:
		return q.repo.GetAll(ctx)
	}
}

// SortTasks sorts in place and keeps the relative order of equal elements. Priority is
// compared by rank (low < medium < high). SortByNone leaves the slice as is.
func SortTasks(tasks []domain.Task, by command.SortField, order command.SortOrder) {
	var less func(a, b domain.Task) bool

	switch by {
	case command.SortByPriority:
		less = func(a, b domain.Task) bool { return a.Priority().Rank() < b.Priority().Rank() }
	case command.SortByCreatedAt:
		less = func(a, b domain.Task) bool { return a.CreatedAt().Before(b.CreatedAt()) }
	default:
		return
	}

	if order == command.SortDesc {
		asc := less
		less = func(a, b domain.Task) bool { return asc(b, a) }
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return less(tasks[i], tasks[j])
	})
}
