package memory

import (
	"context"
	"sync"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/port"
	"taskapp/internal/core/util"
)

// TaskRepository keeps tasks in a map guarded by a RWMutex. Listing order is insertion order.
type TaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]domain.Task
	order []string
	newID func() domain.ID
}

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{
		tasks: make(map[string]domain.Task),
		newID: util.NewHexID,
	}
}

var _ port.TaskRepository = (*TaskRepository)(nil)

func (r *TaskRepository) GetAll(ctx context.Context) ([]domain.Task, error) {
	return r.FindBySpecification(ctx, nil)
}

func (r *TaskRepository) GetByID(ctx context.Context, id domain.ID) (domain.Task, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, found := r.tasks[id.String()]

	return task, found, nil
}

func (r *TaskRepository) GetActive(ctx context.Context) ([]domain.Task, error) {
	return r.FindBySpecification(ctx, domain.ActiveSpec{})
}

func (r *TaskRepository) GetCompleted(ctx context.Context) ([]domain.Task, error) {
	return r.FindBySpecification(ctx, domain.CompletedSpec{})
}

func (r *TaskRepository) Create(ctx context.Context, task domain.Task) (domain.ID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.newID()
	r.tasks[id.String()] = task.WithID(id)
	r.order = append(r.order, id.String())

	return id, nil
}

func (r *TaskRepository) Update(ctx context.Context, id domain.ID, changes port.TaskChanges) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, found := r.tasks[id.String()]
	if !found {
		return domain.NewNotFoundError("task", id.String())
	}

	r.tasks[id.String()] = changes.Apply(task)

	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id domain.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found := r.tasks[id.String()]; !found {
		return domain.NewNotFoundError("task", id.String())
	}

	delete(r.tasks, id.String())

	for i, key := range r.order {
		if key == id.String() {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return nil
}

func (r *TaskRepository) FindBySpecification(ctx context.Context, spec domain.Specification) ([]domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]domain.Task, 0, len(r.order))
	for _, key := range r.order {
		tasks = append(tasks, r.tasks[key])
	}

	return domain.Filter(tasks, spec), nil
}
