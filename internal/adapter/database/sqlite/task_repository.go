package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"go.opentelemetry.io/otel/attribute"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/port"
	tel "taskapp/internal/core/telemetry"
	"taskapp/internal/core/util"
)

const tasksTable = "tasks"

type TaskRepository struct {
	db        *DB
	telemetry port.Telemetry
	newID     func() domain.ID
}

func NewTaskRepository(db *DB, telemetry port.Telemetry) *TaskRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TaskRepository{
		db:        db,
		telemetry: telemetry,
		newID:     util.NewHexID,
	}
}

var _ port.TaskRepository = (*TaskRepository)(nil)

func (r *TaskRepository) selectTasks() sq.SelectBuilder {
	return r.db.QueryBuilder.Select(taskColumns...).From(tasksTable).OrderBy("seq ASC")
}

func (r *TaskRepository) GetAll(ctx context.Context) ([]domain.Task, error) {
	return r.list(ctx, "GetAll", r.selectTasks())
}

func (r *TaskRepository) GetActive(ctx context.Context) ([]domain.Task, error) {
	return r.list(ctx, "GetActive", r.selectTasks().Where(sq.Eq{"completed": false}))
}

func (r *TaskRepository) GetCompleted(ctx context.Context) ([]domain.Task, error) {
	return r.list(ctx, "GetCompleted", r.selectTasks().Where(sq.Eq{"completed": true}))
}

func (r *TaskRepository) GetByID(ctx context.Context, id domain.ID) (domain.Task, bool, error) {
	ctx, op := tel.StartOperation(ctx, r.telemetry, "GetByID", "task", attribute.String("db.system", "sqlite"))

	query, args, err := r.selectTasks().Where(sq.Eq{"id": id.String()}).ToSql()
	if err != nil {
		return domain.Task{}, false, op.End(err)
	}

	task, err := scanTask(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Task{}, false, op.End(nil)
	}

	if err != nil {
		return domain.Task{}, false, op.End(err)
	}

	return task, true, op.End(nil)
}

func (r *TaskRepository) Create(ctx context.Context, task domain.Task) (domain.ID, error) {
	ctx, op := tel.StartOperation(ctx, r.telemetry, "Create", "task", attribute.String("db.system", "sqlite"))

	id := r.newID()

	var due any
	if value, ok := task.DueDate(); ok {
		due = formatTime(value)
	}

	query, args, err := r.db.QueryBuilder.Insert(tasksTable).
		Columns(taskColumns...).
		Values(id.String(), task.Title().String(), task.Completed(), task.Priority().String(), formatTime(task.CreatedAt()), due).
		ToSql()
	if err != nil {
		return domain.ID{}, op.End(err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return domain.ID{}, op.End(fmt.Errorf("insert task: %w", err))
	}

	return id, op.End(nil)
}

func (r *TaskRepository) Update(ctx context.Context, id domain.ID, changes port.TaskChanges) error {
	ctx, op := tel.StartOperation(ctx, r.telemetry, "Update", "task", attribute.String("db.system", "sqlite"))

	set := changeSet(changes)
	if len(set) == 0 {
		return op.End(r.ensureExists(ctx, id))
	}

	query, args, err := r.db.QueryBuilder.Update(tasksTable).SetMap(set).Where(sq.Eq{"id": id.String()}).ToSql()
	if err != nil {
		return op.End(err)
	}

	return op.End(r.execAffecting(ctx, id, query, args))
}

func (r *TaskRepository) Delete(ctx context.Context, id domain.ID) error {
	ctx, op := tel.StartOperation(ctx, r.telemetry, "Delete", "task", attribute.String("db.system", "sqlite"))

	query, args, err := r.db.QueryBuilder.Delete(tasksTable).Where(sq.Eq{"id": id.String()}).ToSql()
	if err != nil {
		return op.End(err)
	}

	return op.End(r.execAffecting(ctx, id, query, args))
}

// FindBySpecification pushes CompletedSpec and ActiveSpec down as a WHERE clause and evaluates
// every other specification in memory.
func (r *TaskRepository) FindBySpecification(ctx context.Context, spec domain.Specification) ([]domain.Task, error) {
	builder := r.selectTasks()

	switch spec.(type) {
	case domain.CompletedSpec:
		builder = builder.Where(sq.Eq{"completed": true})
	case domain.ActiveSpec:
		builder = builder.Where(sq.Eq{"completed": false})
	}

	tasks, err := r.list(ctx, "FindBySpecification", builder)
	if err != nil {
		return nil, err
	}

	return domain.Filter(tasks, spec), nil
}

func (r *TaskRepository) list(ctx context.Context, operation string, builder sq.SelectBuilder) ([]domain.Task, error) {
	ctx, op := tel.StartOperation(ctx, r.telemetry, operation, "task", attribute.String("db.system", "sqlite"))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, op.End(err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, op.End(err)
	}

	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, op.End(err)
	}

	return tasks, op.End(nil)
}

func (r *TaskRepository) execAffecting(ctx context.Context, id domain.ID, query string, args []any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return domain.NewNotFoundError("task", id.String())
	}

	return nil
}

func (r *TaskRepository) ensureExists(ctx context.Context, id domain.ID) error {
	_, found, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !found {
		return domain.NewNotFoundError("task", id.String())
	}

	return nil
}

func changeSet(changes port.TaskChanges) map[string]any {
	set := map[string]any{}

	if changes.Title != nil {
		set["title"] = changes.Title.String()
	}

	if changes.Completed != nil {
		set["completed"] = *changes.Completed
	}

	if changes.Priority != nil {
		set["priority"] = changes.Priority.String()
	}

	switch {
	case changes.ClearDueDate:
		set["due_date"] = nil
	case changes.DueDate != nil:
		set["due_date"] = formatTime(*changes.DueDate)
	}

	return set
}
