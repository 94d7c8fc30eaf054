package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/port"
	tel "taskapp/internal/core/telemetry"
	"taskapp/internal/core/util"
)

const (
	tasksTable = "tasks"
	dbSystem   = "postgresql"
)

var taskColumns = []string{"id", "title", "completed", "priority", "created_at", "due_date"}

// taskRow mirrors the tasks table for pgx.RowToStructByName.
type taskRow struct {
	ID        string     `db:"id"`
	Title     string     `db:"title"`
	Completed bool       `db:"completed"`
	Priority  string     `db:"priority"`
	CreatedAt time.Time  `db:"created_at"`
	DueDate   *time.Time `db:"due_date"`
}

func (row taskRow) toDomain() (domain.Task, error) {
	id, err := domain.ParseID(row.ID)
	if err != nil {
		return domain.Task{}, fmt.Errorf("stored task id: %w", err)
	}

	title, err := domain.NewTitle(row.Title)
	if err != nil {
		return domain.Task{}, fmt.Errorf("stored task %s: %w", row.ID, err)
	}

	priority, err := domain.ParsePriority(row.Priority)
	if err != nil {
		return domain.Task{}, fmt.Errorf("stored task %s: %w", row.ID, err)
	}

	return domain.RehydrateTask(id, domain.TaskParams{
		Title:     title,
		Completed: row.Completed,
		CreatedAt: row.CreatedAt.UTC(),
		Priority:  priority,
		DueDate:   utc(row.DueDate),
	})
}

func utc(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}

	converted := value.UTC()

	return &converted
}

type TaskRepository struct {
	db        *DB
	telemetry port.Telemetry
	newID     func() domain.ID
}

func NewTaskRepository(db *DB, telemetry port.Telemetry) *TaskRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TaskRepository{db: db, telemetry: telemetry, newID: util.NewHexID}
}

var _ port.TaskRepository = (*TaskRepository)(nil)

func (r *TaskRepository) start(ctx context.Context, operation string) (context.Context, *tel.TelemetryOperation) {
	return tel.StartOperation(ctx, r.telemetry, operation, "task",
		attribute.String("db.system", dbSystem),
		attribute.String("db.table", tasksTable))
}

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
	ctx, op := r.start(ctx, "GetByID")

	task, found, err := r.findOne(ctx, id)

	return task, found, op.End(err)
}

func (r *TaskRepository) findOne(ctx context.Context, id domain.ID) (domain.Task, bool, error) {
	query, args, err := r.selectTasks().Where(sq.Eq{"id": id.String()}).ToSql()
	if err != nil {
		return domain.Task{}, false, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return domain.Task{}, false, err
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[taskRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Task{}, false, nil
	}

	if err != nil {
		return domain.Task{}, false, err
	}

	task, err := row.toDomain()
	if err != nil {
		return domain.Task{}, false, err
	}

	return task, true, nil
}

func (r *TaskRepository) Create(ctx context.Context, task domain.Task) (domain.ID, error) {
	ctx, op := r.start(ctx, "Create")

	id := r.newID()

	var due *time.Time
	if value, ok := task.DueDate(); ok {
		due = &value
	}

	query, args, err := r.db.QueryBuilder.Insert(tasksTable).
		Columns(taskColumns...).
		Values(id.String(), task.Title().String(), task.Completed(), task.Priority().String(), task.CreatedAt(), due).
		ToSql()
	if err != nil {
		return domain.ID{}, op.End(err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return domain.ID{}, op.End(fmt.Errorf("insert task: %w", err))
	}

	return id, op.End(nil)
}

func (r *TaskRepository) Update(ctx context.Context, id domain.ID, changes port.TaskChanges) error {
	ctx, op := r.start(ctx, "Update")

	set := changeSet(changes)
	if len(set) == 0 {
		_, found, err := r.findOne(ctx, id)
		if err == nil && !found {
			err = domain.NewNotFoundError("task", id.String())
		}

		return op.End(err)
	}

	query, args, err := r.db.QueryBuilder.Update(tasksTable).SetMap(set).Where(sq.Eq{"id": id.String()}).ToSql()
	if err != nil {
		return op.End(err)
	}

	return op.End(r.execAffecting(ctx, id, query, args))
}

func (r *TaskRepository) Delete(ctx context.Context, id domain.ID) error {
	ctx, op := r.start(ctx, "Delete")

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
	ctx, op := r.start(ctx, operation)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, op.End(err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, op.End(err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[taskRow])
	if err != nil {
		return nil, op.End(err)
	}

	tasks := make([]domain.Task, 0, len(records))
	for _, record := range records {
		task, err := record.toDomain()
		if err != nil {
			return nil, op.End(err)
		}

		tasks = append(tasks, task)
	}

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("db.rows_returned", len(tasks)))

	return tasks, op.End(nil)
}

func (r *TaskRepository) execAffecting(ctx context.Context, id domain.ID, query string, args []any) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
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
		set["due_date"] = *changes.DueDate
	}

	return set
}
