package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"todo-agent/internal/domain"
	"todo-agent/internal/repository"
)

// TaskService coordina reglas de negocio para tareas. Implementa el
// contrato agent.TaskOperations: cada operación queda acotada al usuario
// dueño, por lo que un task id ajeno se comporta como inexistente.
type TaskService struct {
	logger *zap.Logger
	tasks  repository.TaskRepository
}

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrTaskInvalidInput = errors.New("task invalid input")
)

func NewTaskService(logger *zap.Logger, tasks repository.TaskRepository) *TaskService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskService{logger: logger, tasks: tasks}
}

func (s *TaskService) CreateTask(ctx context.Context, userID string, in domain.TaskCreate) (domain.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.Task{}, ErrTaskInvalidInput
	}

	priority := strings.TrimSpace(in.Priority)
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return domain.Task{}, ErrTaskInvalidInput
	}

	now := time.Now().UTC()
	task := domain.Task{
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Priority:    priority,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.tasks.Create(ctx, task)
	if err != nil {
		return domain.Task{}, err
	}

	s.logger.Info("task created",
		zap.Int64("task_id", created.ID),
		zap.String("user_id", userID),
	)
	return created, nil
}

func (s *TaskService) ListTasks(ctx context.Context, userID string, completed *bool) ([]domain.Task, error) {
	return s.tasks.ListByUser(ctx, userID, completed)
}

func (s *TaskService) GetTask(ctx context.Context, userID string, taskID int64) (domain.Task, error) {
	task, err := s.tasks.GetByIDForUser(ctx, taskID, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Task{}, ErrTaskNotFound
	}
	return task, err
}

func (s *TaskService) UpdateTask(ctx context.Context, userID string, taskID int64, in domain.TaskUpdate) (domain.Task, error) {
	task, err := s.GetTask(ctx, userID, taskID)
	if err != nil {
		return domain.Task{}, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return domain.Task{}, ErrTaskInvalidInput
		}
		task.Title = title
	}
	if in.Description != nil {
		task.Description = strings.TrimSpace(*in.Description)
	}
	if in.Completed != nil {
		task.Completed = *in.Completed
	}
	if in.Category != nil {
		task.Category = strings.TrimSpace(*in.Category)
	}
	if in.Priority != nil {
		priority := strings.TrimSpace(*in.Priority)
		if !domain.ValidPriority(priority) {
			return domain.Task{}, ErrTaskInvalidInput
		}
		task.Priority = priority
	}
	if in.DueDate != nil {
		task.DueDate = in.DueDate
	}
	if in.SortOrder != nil {
		task.SortOrder = *in.SortOrder
	}

	task.UpdatedAt = time.Now().UTC()
	if err := s.tasks.Update(ctx, task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, userID string, taskID int64) error {
	deleted, err := s.tasks.Delete(ctx, taskID, userID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrTaskNotFound
	}
	s.logger.Info("task deleted",
		zap.Int64("task_id", taskID),
		zap.String("user_id", userID),
	)
	return nil
}

func (s *TaskService) ToggleTask(ctx context.Context, userID string, taskID int64) (domain.Task, error) {
	task, err := s.GetTask(ctx, userID, taskID)
	if err != nil {
		return domain.Task{}, err
	}

	task.Completed = !task.Completed
	task.UpdatedAt = time.Now().UTC()
	if err := s.tasks.Update(ctx, task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}
