package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	. "taskapp/internal/adapter/http/helper"
	"taskapp/internal/core/domain"
	"taskapp/internal/core/mapper"
	"taskapp/internal/core/model/command"
	"taskapp/internal/core/model/request"
	"taskapp/internal/core/port"
	"taskapp/internal/core/telemetry"
	"taskapp/internal/core/util"
	"taskapp/internal/core/validation"
	"taskapp/pkg/logger"
	. "taskapp/pkg/tracing"
)

type TaskHandler struct {
	svc       port.TaskService
	validator *validation.Service
	telemetry port.Telemetry
	logger    *logger.Logger
}

// NewTaskHandler reports task events and unexpected errors through reporter. Nil means no-op.
func NewTaskHandler(svc port.TaskService, validator *validation.Service, reporter port.Telemetry, log *logger.Logger) *TaskHandler {
	if log == nil {
		log = logger.NewNop()
	}

	if reporter == nil {
		reporter = telemetry.NewNoOpProbe()
	}

	return &TaskHandler{
		svc:       svc,
		validator: validator,
		telemetry: reporter,
		logger:    log,
	}
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	ctx, span := h.startSpan(c, "ListTasks")
	defer h.endSpan(c, span)

	params, err := util.QueryToMap[request.ListTasksRequest](c)
	if err != nil {
		SendBadRequestError(c, "query", "Invalid query parameters")
		return
	}

	if !h.validate(c, params) {
		return
	}

	tasks, err := h.svc.GetFiltered(ctx, command.GetFilteredTasks{
		Filter:    command.Filter(params.Filter),
		SortBy:    command.SortField(params.SortBy),
		SortOrder: command.SortOrder(params.SortOrder),
	})
	if err != nil {
		h.fail(c, ctx, span, "Failed to list tasks", err)
		return
	}

	span.SetAttributes(attribute.Int("tasks.count", len(tasks)))
	SendSuccess(c, http.StatusOK, mapper.ToRecords(tasks))
}

func (h *TaskHandler) SearchTasks(c *gin.Context) {
	ctx, span := h.startSpan(c, "SearchTasks")
	defer h.endSpan(c, span)

	params, err := util.QueryToMap[request.SearchTasksRequest](c)
	if err != nil {
		SendBadRequestError(c, "query", "Invalid query parameters")
		return
	}

	if !h.validate(c, params) {
		return
	}

	tasks, err := h.svc.Find(ctx, command.FindTasks{
		TitleContains: params.Title,
		Priority:      params.Priority,
		OverdueOnly:   params.Overdue,
		ActiveOnly:    params.Active,
	})
	if err != nil {
		h.fail(c, ctx, span, "Failed to search tasks", err)
		return
	}

	SendSuccess(c, http.StatusOK, mapper.ToRecords(tasks))
}

func (h *TaskHandler) GetStats(c *gin.Context) {
	ctx, span := h.startSpan(c, "GetStats")
	defer h.endSpan(c, span)

	stats, err := h.svc.GetStats(ctx)
	if err != nil {
		h.fail(c, ctx, span, "Failed to compute task stats", err)
		return
	}

	SendSuccess(c, http.StatusOK, mapper.ToStats(stats))
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	ctx, span := h.startSpan(c, "GetTask")
	defer h.endSpan(c, span)

	id := c.Param("id")

	task, found, err := h.svc.GetByID(ctx, command.GetTaskByID{ID: id})
	if err != nil {
		h.fail(c, ctx, span, "Failed to get task", err)
		return
	}

	if !found {
		SendNotFoundError(c, domain.NewNotFoundError("task", id).Error())
		return
	}

	SendSuccess(c, http.StatusOK, mapper.ToRecord(task))
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	ctx, span := h.startSpan(c, "CreateTask")
	defer h.endSpan(c, span)

	params, err := util.ParamsToMap[request.CreateTaskRequest](c)
	if err != nil {
		SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	if !h.validate(c, params) {
		return
	}

	cmd := command.CreateTask{Title: params.Title, Priority: params.Priority}

	if params.DueDate != nil {
		due, err := mapper.ParseDate(*params.DueDate)
		if err != nil {
			SendBadRequestError(c, "due_date", "due_date must be an ISO-8601 date")
			return
		}
		cmd.DueDate = &due
	}

	task, err := h.svc.Create(ctx, cmd)
	if err != nil {
		h.fail(c, ctx, span, "Failed to create task", err)
		return
	}

	h.recordEvent(ctx, "task_created", task, map[string]interface{}{"priority": task.Priority().String()})

	SendSuccess(c, http.StatusCreated, mapper.ToRecord(task))
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	ctx, span := h.startSpan(c, "UpdateTask")
	defer h.endSpan(c, span)

	params, err := util.ParamsToMap[request.UpdateTaskRequest](c)
	if err != nil {
		SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	params.ID = c.Param("id")

	if !h.validate(c, params) {
		return
	}

	cmd := command.UpdateTask{
		ID:           params.ID,
		Title:        params.Title,
		Completed:    params.Completed,
		Priority:     params.Priority,
		ClearDueDate: params.ClearDueDate,
	}

	if params.DueDate != nil {
		due, err := mapper.ParseDate(*params.DueDate)
		if err != nil {
			SendBadRequestError(c, "due_date", "due_date must be an ISO-8601 date")
			return
		}
		cmd.DueDate = &due
	}

	task, err := h.svc.Update(ctx, cmd)
	if err != nil {
		h.fail(c, ctx, span, "Failed to update task", err)
		return
	}

	h.recordEvent(ctx, "task_updated", task, nil)

	SendSuccess(c, http.StatusOK, mapper.ToRecord(task))
}

func (h *TaskHandler) ToggleTask(c *gin.Context) {
	ctx, span := h.startSpan(c, "ToggleTask")
	defer h.endSpan(c, span)

	task, err := h.svc.Toggle(ctx, command.ToggleTask{ID: c.Param("id")})
	if err != nil {
		h.fail(c, ctx, span, "Failed to toggle task", err)
		return
	}

	h.recordEvent(ctx, "task_toggled", task, map[string]interface{}{"completed": task.Completed()})

	SendSuccess(c, http.StatusOK, mapper.ToRecord(task))
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	ctx, span := h.startSpan(c, "DeleteTask")
	defer h.endSpan(c, span)

	id := c.Param("id")
	if err := h.svc.Delete(ctx, command.DeleteTask{ID: id}); err != nil {
		h.fail(c, ctx, span, "Failed to delete task", err)
		return
	}

	h.telemetry.RecordBusinessEvent(ctx, "task_deleted", "task", id, nil)

	SendSuccess(c, http.StatusOK, nil, "Task deleted successfully")
}

func (h *TaskHandler) startSpan(c *gin.Context, operation string) (context.Context, trace.Span) {
	return CreateChildSpan(c.Request.Context(), "handler.task."+operation, []attribute.KeyValue{
		attribute.String("handler.operation", operation),
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
	})
}

// endSpan stamps the response status on span before closing it.
func (h *TaskHandler) endSpan(c *gin.Context, span trace.Span) {
	AddHTTPAttributes(span, c.Request.Method, c.Request.URL.Path, c.Writer.Status())
	span.End()
}

func (h *TaskHandler) recordEvent(ctx context.Context, event string, task domain.Task, metadata map[string]interface{}) {
	id := ""
	if taskID, ok := task.ID(); ok {
		id = taskID.String()
	}

	h.telemetry.RecordBusinessEvent(ctx, event, "task", id, metadata)
}

func (h *TaskHandler) validate(c *gin.Context, params any) bool {
	err := h.validator.Validate(params)
	if err == nil {
		return true
	}

	SendDomainError(c, err)
	return false
}

// fail logs unexpected errors before answering. Expected categories are only answered.
func (h *TaskHandler) fail(c *gin.Context, ctx context.Context, span trace.Span, message string, err error) {
	AddSpanError(span, err)

	if !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrValidation) && !errors.Is(err, domain.ErrInvalidState) {
		_ = c.Error(err)
		h.telemetry.RecordError(ctx, c.Request.Method+" "+c.FullPath(), err, map[string]interface{}{"message": message})
		h.logger.ErrorWithTrace(ctx, message, zap.Error(err), zap.String("path", c.FullPath()))
	}

	SendDomainError(c, err)
}
