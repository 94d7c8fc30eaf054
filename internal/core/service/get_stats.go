package service

import (
	"context"
	"fmt"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/port"
)

type GetTaskStatsQuery struct {
	repo  port.TaskRepository
	clock Clock
}

func NewGetTaskStatsQuery(repo port.TaskRepository, opts ...Option) *GetTaskStatsQuery {
	o := buildOptions(opts)

	return &GetTaskStatsQuery{repo: repo, clock: o.clock}
}

func (q *GetTaskStatsQuery) Execute(ctx context.Context) (domain.TaskStats, error) {
	tasks, err := q.repo.GetAll(ctx)

	if err != nil {
		return domain.TaskStats{}, fmt.Errorf("failed to compute stats: %w", err)
	}

	return domain.ComputeStats(tasks, q.clock()), nil
}
