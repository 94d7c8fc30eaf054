package command

import "time"

// CreateTask is the input of the create use case. An empty Priority means medium.
type CreateTask struct {
	Title    string
	Priority string
	DueDate  *time.Time
}

// UpdateTask carries a partial update. Nil fields are left untouched; ClearDueDate removes the due date.
type UpdateTask struct {
	ID           string
	Title        *string
	Completed    *bool
	Priority     *string
	DueDate      *time.Time
	ClearDueDate bool
}

type DeleteTask struct {
	ID string
}

type ToggleTask struct {
	ID string
}
