package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	"todo-agent/internal/domain"
)

type mockTaskRepo struct {
	tasks   map[int64]domain.Task
	nextID  int64
	updated []domain.Task
	deleted []int64
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: map[int64]domain.Task{}, nextID: 1}
}

func (m *mockTaskRepo) Create(_ context.Context, task domain.Task) (domain.Task, error) {
	task.ID = m.nextID
	m.nextID++
	m.tasks[task.ID] = task
	return task, nil
}

func (m *mockTaskRepo) GetByIDForUser(_ context.Context, taskID int64, userID string) (domain.Task, error) {
	task, ok := m.tasks[taskID]
	if !ok || task.UserID != userID {
		return domain.Task{}, pgx.ErrNoRows
	}
	return task, nil
}

func (m *mockTaskRepo) ListByUser(_ context.Context, userID string, completed *bool) ([]domain.Task, error) {
	var out []domain.Task
	for _, task := range m.tasks {
		if task.UserID != userID {
			continue
		}
		if completed != nil && task.Completed != *completed {
			continue
		}
		out = append(out, task)
	}
	return out, nil
}

func (m *mockTaskRepo) Update(_ context.Context, task domain.Task) error {
	m.updated = append(m.updated, task)
	m.tasks[task.ID] = task
	return nil
}

func (m *mockTaskRepo) Delete(_ context.Context, taskID int64, userID string) (int64, error) {
	task, ok := m.tasks[taskID]
	if !ok || task.UserID != userID {
		return 0, nil
	}
	delete(m.tasks, taskID)
	m.deleted = append(m.deleted, taskID)
	return 1, nil
}

func TestCreateTask_DefaultsPriorityToMedium(t *testing.T) {
	svc := NewTaskService(nil, newMockTaskRepo())

	task, err := svc.CreateTask(context.Background(), "u1", domain.TaskCreate{Title: "  buy milk  "})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.Title != "buy milk" {
		t.Fatalf("expected trimmed title, got %q", task.Title)
	}
	if task.Priority != domain.PriorityMedium {
		t.Fatalf("expected medium priority default, got %q", task.Priority)
	}
	if task.ID == 0 {
		t.Fatalf("expected assigned id")
	}
}

func TestCreateTask_RejectsEmptyTitle(t *testing.T) {
	svc := NewTaskService(nil, newMockTaskRepo())

	if _, err := svc.CreateTask(context.Background(), "u1", domain.TaskCreate{Title: "   "}); !errors.Is(err, ErrTaskInvalidInput) {
		t.Fatalf("expected ErrTaskInvalidInput, got %v", err)
	}
}

func TestCreateTask_RejectsUnknownPriority(t *testing.T) {
	svc := NewTaskService(nil, newMockTaskRepo())

	_, err := svc.CreateTask(context.Background(), "u1", domain.TaskCreate{Title: "x", Priority: "urgent"})
	if !errors.Is(err, ErrTaskInvalidInput) {
		t.Fatalf("expected ErrTaskInvalidInput, got %v", err)
	}
}

func TestListTasks_FiltersByCompletion(t *testing.T) {
	repo := newMockTaskRepo()
	svc := NewTaskService(nil, repo)

	done, _ := svc.CreateTask(context.Background(), "u1", domain.TaskCreate{Title: "done one"})
	if _, err := svc.ToggleTask(context.Background(), "u1", done.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := svc.CreateTask(context.Background(), "u1", domain.TaskCreate{Title: "pending one"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	pending := false
	tasks, err := svc.ListTasks(context.Background(), "u1", &pending)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "pending one" {
		t.Fatalf("expected pending filter, got %+v", tasks)
	}
}

func TestUpdateTask_PartialFields(t *testing.T) {
	repo := newMockTaskRepo()
	svc := NewTaskService(nil, repo)

	task, _ := svc.CreateTask(context.Background(), "u1", domain.TaskCreate{
		Title:       "old title",
		Description: "keep me",
		Priority:    domain.PriorityLow,
	})

	title := "new title"
	priority := domain.PriorityHigh
	updated, err := svc.UpdateTask(context.Background(), "u1", task.ID, domain.TaskUpdate{
		Title:    &title,
		Priority: &priority,
	})
	if err != nil {
		t.Fatalf("update task: %v", err)
	}
	if updated.Title != "new title" || updated.Priority != domain.PriorityHigh {
		t.Fatalf("expected updated fields, got %+v", updated)
	}
	if updated.Description != "keep me" {
		t.Fatalf("expected untouched description, got %q", updated.Description)
	}
}

func TestUpdateTask_ForeignTaskIsNotFound(t *testing.T) {
	repo := newMockTaskRepo()
	svc := NewTaskService(nil, repo)

	task, _ := svc.CreateTask(context.Background(), "u1", domain.TaskCreate{Title: "mine"})

	title := "stolen"
	_, err := svc.UpdateTask(context.Background(), "intruder", task.ID, domain.TaskUpdate{Title: &title})
	if !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound for foreign task, got %v", err)
	}
	if len(repo.updated) != 0 {
		t.Fatalf("expected no write for foreign task")
	}
}

func TestDeleteTask_UnknownIDIsNotFound(t *testing.T) {
	svc := NewTaskService(nil, newMockTaskRepo())

	if err := svc.DeleteTask(context.Background(), "u1", 9999); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestToggleTask_FlipsBothWays(t *testing.T) {
	repo := newMockTaskRepo()
	svc := NewTaskService(nil, repo)

	task, _ := svc.CreateTask(context.Background(), "u1", domain.TaskCreate{Title: "flip me"})

	toggled, err := svc.ToggleTask(context.Background(), "u1", task.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !toggled.Completed {
		t.Fatalf("expected completed after first toggle")
	}

	toggled, err = svc.ToggleTask(context.Background(), "u1", task.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if toggled.Completed {
		t.Fatalf("expected pending after second toggle")
	}
}
