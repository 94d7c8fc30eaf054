package request

// Dates travel as ISO-8601 strings and are checked with the iso8601 tag.

type CreateTaskRequest struct {
	Title    string  `json:"title" validate:"required,min=2,max=255"`
	Priority string  `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	DueDate  *string `json:"due_date,omitempty" validate:"omitempty,iso8601"`
}

// UpdateTaskRequest carries only the fields the caller wants to change. ClearDueDate wins over DueDate.
type UpdateTaskRequest struct {
	ID           string  `json:"id" validate:"required"`
	Title        *string `json:"title,omitempty" validate:"omitempty,min=2,max=255"`
	Completed    *bool   `json:"completed,omitempty"`
	Priority     *string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	DueDate      *string `json:"due_date,omitempty" validate:"omitempty,iso8601"`
	ClearDueDate bool    `json:"clear_due_date,omitempty"`
}

type TaskIDRequest struct {
	ID string `json:"id" validate:"required"`
}

type ListTasksRequest struct {
	Filter    string `json:"filter" form:"filter" validate:"omitempty,oneof=all active completed"`
	SortBy    string `json:"sort_by" form:"sort_by" validate:"omitempty,oneof=priority createdAt"`
	SortOrder string `json:"sort_order" form:"sort_order" validate:"omitempty,oneof=asc desc"`
}

type SearchTasksRequest struct {
	Title    string `json:"title" form:"title" validate:"omitempty,max=255"`
	Priority string `json:"priority" form:"priority" validate:"omitempty,oneof=low medium high"`
	Overdue  bool   `json:"overdue" form:"overdue"`
	Active   bool   `json:"active" form:"active"`
}
