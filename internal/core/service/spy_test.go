package service_test

import (
	"context"
	"sync"

	"taskapp/internal/adapter/database/memory"
	"taskapp/internal/core/domain"
	"taskapp/internal/core/port"
)

// spyRepository records write calls and can be told to fail every call with err.
// With blankReads set, GetByID reports a zero task as found.
type spyRepository struct {
	*memory.TaskRepository

	mu         sync.Mutex
	creates    int
	updates    []port.TaskChanges
	deletes    int
	err        error
	blankReads bool
}

func newSpyRepository() *spyRepository {
	return &spyRepository{TaskRepository: memory.NewTaskRepository()}
}

func (r *spyRepository) writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.creates + len(r.updates) + r.deletes
}

func (r *spyRepository) GetAll(ctx context.Context) ([]domain.Task, error) {
	if r.err != nil {
		return nil, r.err
	}

	return r.TaskRepository.GetAll(ctx)
}

func (r *spyRepository) GetByID(ctx context.Context, id domain.ID) (domain.Task, bool, error) {
	if r.err != nil {
		return domain.Task{}, false, r.err
	}

	if r.blankReads {
		return domain.Task{}, true, nil
	}

	return r.TaskRepository.GetByID(ctx, id)
}

func (r *spyRepository) Create(ctx context.Context, task domain.Task) (domain.ID, error) {
	r.mu.Lock()
	r.creates++
	r.mu.Unlock()

	if r.err != nil {
		return domain.ID{}, r.err
	}

	return r.TaskRepository.Create(ctx, task)
}

func (r *spyRepository) Update(ctx context.Context, id domain.ID, changes port.TaskChanges) error {
	r.mu.Lock()
	r.updates = append(r.updates, changes)
	r.mu.Unlock()

	if r.err != nil {
		return r.err
	}

	return r.TaskRepository.Update(ctx, id, changes)
}

func (r *spyRepository) Delete(ctx context.Context, id domain.ID) error {
	r.mu.Lock()
	r.deletes++
	r.mu.Unlock()

	if r.err != nil {
		return r.err
	}

	return r.TaskRepository.Delete(ctx, id)
}
