package service

import (
	"context"
	"fmt"
	"strings"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/command"
	"taskapp/internal/core/port"
)

type FindTasksQuery struct {
	repo  port.TaskRepository
	clock Clock
}

func NewFindTasksQuery(repo port.TaskRepository, opts ...Option) *FindTasksQuery {
	o := buildOptions(opts)

	return &FindTasksQuery{repo: repo, clock: o.clock}
}

func (q *FindTasksQuery) Execute(ctx context.Context, query command.FindTasks) ([]domain.Task, error) {
	spec, err := q.buildSpecification(query)

	if err != nil {
		return nil, err
	}

	tasks, err := q.repo.FindBySpecification(ctx, spec)

	if err != nil {
		return nil, fmt.Errorf("failed to search tasks: %w", err)
	}

	return tasks, nil
}

func (q *FindTasksQuery) buildSpecification(query command.FindTasks) (domain.Specification, error) {
	specs := []domain.Specification{}

	if text := strings.TrimSpace(query.TitleContains); text != "" {
		specs = append(specs, domain.TitleContainsSpec{Text: text})
	}

	if query.Priority != "" {
		priority, err := domain.ParsePriority(query.Priority)

		if err != nil {
			return nil, err
		}

		specs = append(specs, domain.PrioritySpec{Priority: priority})
	}

	if query.ActiveOnly {
		specs = append(specs, domain.ActiveSpec{})
	}

	if query.OverdueOnly {
		specs = append(specs, domain.OverdueSpec{Now: q.clock()})
	}

	return domain.And(specs...), nil
}
