package service

import (
	"context"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/command"
	"taskapp/internal/core/port"
)

// TaskService groups every use case behind port.TaskService.
type TaskService struct {
	createTask  *CreateTaskUseCase
	updateTask  *UpdateTaskUseCase
	deleteTask  *DeleteTaskUseCase
	toggleTask  *ToggleTaskUseCase
	getAllTasks *GetAllTasksQuery
	getFiltered *GetFilteredTasksQuery
	getTaskByID *GetTaskByIDQuery
	getStats    *GetTaskStatsQuery
	findTasks   *FindTasksQuery
}

var _ port.TaskService = (*TaskService)(nil)

func NewTaskService(repo port.TaskRepository, opts ...Option) *TaskService {
	return &TaskService{
		createTask:  NewCreateTaskUseCase(repo, opts...),
		updateTask:  NewUpdateTaskUseCase(repo),
		deleteTask:  NewDeleteTaskUseCase(repo),
		toggleTask:  NewToggleTaskUseCase(repo),
		getAllTasks: NewGetAllTasksQuery(repo),
		getFiltered: NewGetFilteredTasksQuery(repo),
		getTaskByID: NewGetTaskByIDQuery(repo),
		getStats:    NewGetTaskStatsQuery(repo, opts...),
		findTasks:   NewFindTasksQuery(repo, opts...),
	}
}

func (s *TaskService) Create(ctx context.Context, cmd command.CreateTask) (domain.Task, error) {
	return s.createTask.Execute(ctx, cmd)
}

func (s *TaskService) Update(ctx context.Context, cmd command.UpdateTask) (domain.Task, error) {
	return s.updateTask.Execute(ctx, cmd)
}

func (s *TaskService) Delete(ctx context.Context, cmd command.DeleteTask) error {
	return s.deleteTask.Execute(ctx, cmd)
}

func (s *TaskService) Toggle(ctx context.Context, cmd command.ToggleTask) (domain.Task, error) {
	return s.toggleTask.Execute(ctx, cmd)
}

func (s *TaskService) GetAll(ctx context.Context) ([]domain.Task, error) {
	return s.getAllTasks.Execute(ctx)
}

func (s *TaskService) GetFiltered(ctx context.Context, query command.GetFilteredTasks) ([]domain.Task, error) {
	return s.getFiltered.Execute(ctx, query)
}

func (s *TaskService) GetByID(ctx context.Context, query command.GetTaskByID) (domain.Task, bool, error) {
	return s.getTaskByID.Execute(ctx, query)
}

func (s *TaskService) GetStats(ctx context.Context) (domain.TaskStats, error) {
	return s.getStats.Execute(ctx)
}

func (s *TaskService) Find(ctx context.Context, query command.FindTasks) ([]domain.Task, error) {
	return s.findTasks.Execute(ctx, query)
}
