package mapper

import (
	"fmt"
	"time"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/response"
)

const dateLayout = time.RFC3339Nano

func ToRecord(task domain.Task) response.TaskRecord {
	record := response.TaskRecord{
		Title:     task.Title().String(),
		Completed: task.Completed(),
		CreatedAt: FormatDate(task.CreatedAt()),
		Priority:  task.Priority().String(),
	}

	if id, ok := task.ID(); ok {
		record.ID = id.String()
	}

	if due, ok := task.DueDate(); ok {
		formatted := FormatDate(due)
		record.DueDate = &formatted
	}

	return record
}

func ToRecords(tasks []domain.Task) []response.TaskRecord {
	records := make([]response.TaskRecord, 0, len(tasks))

	for _, task := range tasks {
		records = append(records, ToRecord(task))
	}

	return records
}

// FromRecord rebuilds a task from its record. A record without an id yields an id-less task.
func FromRecord(record response.TaskRecord) (domain.Task, error) {
	title, err := domain.NewTitle(record.Title)
	if err != nil {
		return domain.Task{}, err
	}

	priority, err := domain.ParsePriority(record.Priority)
	if err != nil {
		return domain.Task{}, err
	}

	createdAt, err := ParseDate(record.CreatedAt)
	if err != nil {
		return domain.Task{}, fmt.Errorf("%w: created_at: %v", domain.ErrValidation, err)
	}

	params := domain.TaskParams{
		Title:     title,
		Completed: record.Completed,
		CreatedAt: createdAt,
		Priority:  priority,
	}

	if record.DueDate != nil {
		due, err := ParseDate(*record.DueDate)
		if err != nil {
			return domain.Task{}, fmt.Errorf("%w: due_date: %v", domain.ErrValidation, err)
		}

		params.DueDate = &due
	}

	if record.ID == "" {
		return domain.NewTask(params)
	}

	id, err := domain.ParseID(record.ID)
	if err != nil {
		return domain.Task{}, err
	}

	return domain.RehydrateTask(id, params)
}

func ToStats(stats domain.TaskStats) response.TaskStatsResponse {
	return response.TaskStatsResponse{
		Total:        stats.Total,
		Active:       stats.Active,
		Completed:    stats.Completed,
		Overdue:      stats.Overdue,
		HighPriority: stats.HighPriority,
	}
}

func FormatDate(value time.Time) string {
	return value.UTC().Format(dateLayout)
}

// ParseDate accepts RFC 3339 timestamps with or without fractional seconds.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}
