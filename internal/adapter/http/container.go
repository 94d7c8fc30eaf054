package http

import (
	"taskapp/internal/adapter/http/handler"
	"taskapp/internal/core/port"
	"taskapp/internal/core/service"
	"taskapp/internal/core/validation"
	"taskapp/pkg/logger"
)

type Container struct {
	TaskRepo    port.TaskRepository
	TaskService port.TaskService
	Validator   *validation.Service

	TaskHandler   *handler.TaskHandler
	HealthHandler *handler.HealthHandler
}

// NewContainer wires the core over repo. storage names the backend in health reports and reporter
// receives task events from the handlers.
func NewContainer(repo port.TaskRepository, storage string, pinger handler.StoragePinger, reporter port.Telemetry, log *logger.Logger, opts ...service.Option) (*Container, error) {
	validator, err := validation.NewService()
	if err != nil {
		return nil, err
	}

	taskSvc := service.NewTaskService(repo, opts...)

	return &Container{
		TaskRepo:      repo,
		TaskService:   taskSvc,
		Validator:     validator,
		TaskHandler:   handler.NewTaskHandler(taskSvc, validator, reporter, log),
		HealthHandler: handler.NewHealthHandler(storage, pinger, log),
	}, nil
}
