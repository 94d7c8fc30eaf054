package response

// TaskRecord is the primitive-typed form of a task. Dates are RFC 3339 strings with nanoseconds.
type TaskRecord struct {
	ID        string  `json:"id,omitempty"`
	Title     string  `json:"title"`
	Completed bool    `json:"completed"`
	CreatedAt string  `json:"created_at"`
	Priority  string  `json:"priority"`
	DueDate   *string `json:"due_date,omitempty"`
}

type TaskStatsResponse struct {
	Total        int `json:"total"`
	Active       int `json:"active"`
	Completed    int `json:"completed"`
	Overdue      int `json:"overdue"`
	HighPriority int `json:"high_priority"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ResponseError struct {
	Code    string            `json:"code"`
	Errors  []ValidationError `json:"errors"`
	Details any               `json:"details,omitempty"`
}

type SuccessResponse struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error ResponseError `json:"error"`
}
