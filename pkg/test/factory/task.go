package factory

import (
	"time"

	fab "github.com/Goldziher/fabricator"

	"taskapp/internal/core/domain"
)

// ReferenceTime anchors CreatedAt of factory tasks so tests are independent of the wall clock.
var ReferenceTime = time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)

// TaskAttributes are the primitive inputs of a factory task. AgeDays moves CreatedAt back from
// ReferenceTime and DueInDays sets a due date relative to it (zero for none).
type TaskAttributes struct {
	Title     string
	Priority  string
	Completed bool
	AgeDays   int
	DueInDays int
}

var taskDefaults = map[string]any{
	"Title":     "Factory task",
	"Priority":  "medium",
	"Completed": false,
	"AgeDays":   0,
	"DueInDays": 0,
}

// NewTaskAttributes builds attributes over taskDefaults. Build applies a single override map,
// so customData is merged first with later maps winning.
func NewTaskAttributes(customData ...map[string]any) TaskAttributes {
	instance := fab.New(TaskAttributes{}, fab.Options[TaskAttributes]{Defaults: taskDefaults})

	overrides := map[string]any{}
	for _, data := range customData {
		for key, value := range data {
			overrides[key] = value
		}
	}

	return instance.Build(overrides)
}

// NewTask builds a valid, id-less domain task. It panics on attributes that break an invariant.
func NewTask(customData ...map[string]any) domain.Task {
	attrs := NewTaskAttributes(customData...)

	title, err := domain.NewTitle(attrs.Title)
	if err != nil {
		panic(err)
	}

	priority, err := domain.ParsePriority(attrs.Priority)
	if err != nil {
		panic(err)
	}

	createdAt := ReferenceTime.AddDate(0, 0, -attrs.AgeDays)

	var due *time.Time
	if attrs.DueInDays != 0 {
		value := createdAt.AddDate(0, 0, attrs.DueInDays)
		due = &value
	}

	task, err := domain.NewTask(domain.TaskParams{
		Title:     title,
		Completed: attrs.Completed,
		CreatedAt: createdAt,
		Priority:  priority,
		DueDate:   due,
	})
	if err != nil {
		panic(err)
	}

	return task
}
