package agent

import (
	"context"
	"fmt"
	"strings"

	"todo-agent/internal/domain"
)

// TaskOperations es el contrato mínimo contra el servicio de tareas.
// Cada operación está acotada al usuario dueño; un task id ajeno se
// comporta como inexistente.
type TaskOperations interface {
	CreateTask(ctx context.Context, userID string, in domain.TaskCreate) (domain.Task, error)
	ListTasks(ctx context.Context, userID string, completed *bool) ([]domain.Task, error)
	UpdateTask(ctx context.Context, userID string, taskID int64, in domain.TaskUpdate) (domain.Task, error)
	DeleteTask(ctx context.Context, userID string, taskID int64) error
	ToggleTask(ctx context.Context, userID string, taskID int64) (domain.Task, error)
}

// NewTaskRegistry construye el registro con las cinco herramientas de tareas.
func NewTaskRegistry(tasks TaskOperations) (*Registry, error) {
	return NewRegistry(
		&addTaskTool{tasks: tasks},
		&listTasksTool{tasks: tasks},
		&updateTaskTool{tasks: tasks},
		&deleteTaskTool{tasks: tasks},
		&completeTaskTool{tasks: tasks},
	)
}

var priorityEnum = []string{domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh}

type addTaskTool struct {
	tasks TaskOperations
}

func (t *addTaskTool) Descriptor() Descriptor {
	return Descriptor{
		Name:        "add_task",
		Description: "Add a new task to the todo list.",
		Params: map[string]Param{
			"title":       {Type: ParamString, Description: "Task title", Required: true},
			"description": {Type: ParamString, Description: "Longer task description"},
			"category":    {Type: ParamString, Description: "Free-form category, e.g. work or personal"},
			"priority":    {Type: ParamString, Description: "Task priority", Enum: priorityEnum},
			"due_date":    {Type: ParamString, Description: "Deadline as an RFC 3339 date"},
		},
	}
}

func (t *addTaskTool) Invoke(ctx context.Context, userID string, args Arguments) (string, error) {
	title, _, err := args.String("title")
	if err != nil {
		return "", err
	}
	description, _, err := args.String("description")
	if err != nil {
		return "", err
	}
	category, _, err := args.String("category")
	if err != nil {
		return "", err
	}
	priority, _, err := args.String("priority")
	if err != nil {
		return "", err
	}
	dueDate, _, err := args.Time("due_date")
	if err != nil {
		return "", err
	}

	task, err := t.tasks.CreateTask(ctx, userID, domain.TaskCreate{
		Title:       title,
		Description: description,
		Category:    category,
		Priority:    priority,
		DueDate:     dueDate,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Task created successfully: '%s' (ID: %d)", task.Title, task.ID), nil
}

type listTasksTool struct {
	tasks TaskOperations
}

func (t *listTasksTool) Descriptor() Descriptor {
	return Descriptor{
		Name:        "list_tasks",
		Description: "List tasks from the todo list.",
		Params: map[string]Param{
			"completed": {Type: ParamBoolean, Description: "Filter by completion status"},
		},
	}
}

func (t *listTasksTool) Invoke(ctx context.Context, userID string, args Arguments) (string, error) {
	var completed *bool
	if v, present, err := args.Bool("completed"); err != nil {
		return "", err
	} else if present {
		completed = &v
	}

	tasks, err := t.tasks.ListTasks(ctx, userID, completed)
	if err != nil {
		return "", err
	}
	if len(tasks) == 0 {
		return "You have no tasks in your list.", nil
	}

	var sb strings.Builder
	sb.WriteString("Here are your tasks:\n")
	for _, task := range tasks {
		status := "❌"
		if task.Completed {
			status = "✅"
		}
		priority := ""
		if task.Priority != "" {
			priority = fmt.Sprintf("[%s] ", strings.ToUpper(task.Priority))
		}
		sb.WriteString(fmt.Sprintf("- %s %s%s (ID: %d)\n", status, priority, task.Title, task.ID))
	}
	return sb.String(), nil
}

type updateTaskTool struct {
	tasks TaskOperations
}

func (t *updateTaskTool) Descriptor() Descriptor {
	return Descriptor{
		Name:        "update_task",
		Description: "Update an existing task.",
		Params: map[string]Param{
			"task_id":     {Type: ParamInteger, Description: "ID of the task to update", Required: true},
			"title":       {Type: ParamString, Description: "New title"},
			"description": {Type: ParamString, Description: "New description"},
			"completed":   {Type: ParamBoolean, Description: "New completion status"},
			"category":    {Type: ParamString, Description: "New category"},
			"priority":    {Type: ParamString, Description: "New priority", Enum: priorityEnum},
			"due_date":    {Type: ParamString, Description: "New deadline as an RFC 3339 date"},
		},
	}
}

func (t *updateTaskTool) Invoke(ctx context.Context, userID string, args Arguments) (string, error) {
	taskID, present, err := args.Int("task_id")
	if err != nil {
		return "", err
	}
	if !present {
		return "", fmt.Errorf("argument %q is required", "task_id")
	}

	var in domain.TaskUpdate
	if v, present, err := args.String("title"); err != nil {
		return "", err
	} else if present {
		in.Title = &v
	}
	if v, present, err := args.String("description"); err != nil {
		return "", err
	} else if present {
		in.Description = &v
	}
	if v, present, err := args.Bool("completed"); err != nil {
		return "", err
	} else if present {
		in.Completed = &v
	}
	if v, present, err := args.String("category"); err != nil {
		return "", err
	} else if present {
		in.Category = &v
	}
	if v, present, err := args.String("priority"); err != nil {
		return "", err
	} else if present {
		in.Priority = &v
	}
	if v, _, err := args.Time("due_date"); err != nil {
		return "", err
	} else if v != nil {
		in.DueDate = v
	}

	task, err := t.tasks.UpdateTask(ctx, userID, taskID, in)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Task %d updated successfully.", task.ID), nil
}

type deleteTaskTool struct {
	tasks TaskOperations
}

func (t *deleteTaskTool) Descriptor() Descriptor {
	return Descriptor{
		Name:        "delete_task",
		Description: "Delete a task from the list.",
		Params: map[string]Param{
			"task_id": {Type: ParamInteger, Description: "ID of the task to delete", Required: true},
		},
	}
}

func (t *deleteTaskTool) Invoke(ctx context.Context, userID string, args Arguments) (string, error) {
	taskID, present, err := args.Int("task_id")
	if err != nil {
		return "", err
	}
	if !present {
		return "", fmt.Errorf("argument %q is required", "task_id")
	}
	if err := t.tasks.DeleteTask(ctx, userID, taskID); err != nil {
		return "", err
	}
	return fmt.Sprintf("Task %d deleted successfully.", taskID), nil
}

type completeTaskTool struct {
	tasks TaskOperations
}

func (t *completeTaskTool) Descriptor() Descriptor {
	return Descriptor{
		Name:        "complete_task",
		Description: "Toggle the completion status of a task.",
		Params: map[string]Param{
			"task_id": {Type: ParamInteger, Description: "ID of the task to toggle", Required: true},
		},
	}
}

func (t *completeTaskTool) Invoke(ctx context.Context, userID string, args Arguments) (string, error) {
	taskID, present, err := args.Int("task_id")
	if err != nil {
		return "", err
	}
	if !present {
		return "", fmt.Errorf("argument %q is required", "task_id")
	}
	task, err := t.tasks.ToggleTask(ctx, userID, taskID)
	if err != nil {
		return "", err
	}
	status := "not completed"
	if task.Completed {
		status = "completed"
	}
	return fmt.Sprintf("Task %d marked as %s.", task.ID, status), nil
}
