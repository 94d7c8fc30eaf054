package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"taskapp/internal/core/domain"
)

var taskColumns = []string{"id", "title", "completed", "priority", "created_at", "due_date"}

const timeLayout = time.RFC3339Nano

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (domain.Task, error) {
	var (
		id, title, priority, createdAt string
		completed                      bool
		dueDate                        sql.NullString
	)

	if err := row.Scan(&id, &title, &completed, &priority, &createdAt, &dueDate); err != nil {
		return domain.Task{}, err
	}

	return rehydrate(id, title, completed, priority, createdAt, dueDate)
}

func scanTasks(rows *sql.Rows) ([]domain.Task, error) {
	defer rows.Close()

	tasks := []domain.Task{}

	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}

		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

func rehydrate(rawID, rawTitle string, completed bool, rawPriority, rawCreatedAt string, rawDue sql.NullString) (domain.Task, error) {
	id, err := domain.ParseID(rawID)
	if err != nil {
		return domain.Task{}, fmt.Errorf("stored task id: %w", err)
	}

	title, err := domain.NewTitle(rawTitle)
	if err != nil {
		return domain.Task{}, fmt.Errorf("stored task %s: %w", rawID, err)
	}

	priority, err := domain.ParsePriority(rawPriority)
	if err != nil {
		return domain.Task{}, fmt.Errorf("stored task %s: %w", rawID, err)
	}

	createdAt, err := time.Parse(timeLayout, rawCreatedAt)
	if err != nil {
		return domain.Task{}, fmt.Errorf("stored task %s created_at: %w", rawID, err)
	}

	params := domain.TaskParams{
		Title:     title,
		Completed: completed,
		CreatedAt: createdAt,
		Priority:  priority,
	}

	if rawDue.Valid {
		due, err := time.Parse(timeLayout, rawDue.String)
		if err != nil {
			return domain.Task{}, fmt.Errorf("stored task %s due_date: %w", rawID, err)
		}

		params.DueDate = &due
	}

	return domain.RehydrateTask(id, params)
}

func formatTime(value time.Time) string {
	return value.UTC().Format(timeLayout)
}
