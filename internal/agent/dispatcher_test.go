package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"todo-agent/internal/domain"
)

var errMockNotFound = errors.New("task not found")

// mockTaskOps simula el servicio de tareas: solo el usuario "owner"
// tiene tareas, cualquier otro id de usuario recibe not found.
type mockTaskOps struct {
	created    []domain.TaskCreate
	updated    []domain.TaskUpdate
	deletedIDs []int64
	toggledIDs []int64
	listCalls  int
	listResult []domain.Task
	calls      int
	failWith   error
}

func (m *mockTaskOps) fail(userID string, taskID int64) error {
	if m.failWith != nil {
		return m.failWith
	}
	if userID != "owner" || taskID == 9999 {
		return errMockNotFound
	}
	return nil
}

func (m *mockTaskOps) CreateTask(_ context.Context, userID string, in domain.TaskCreate) (domain.Task, error) {
	m.calls++
	if m.failWith != nil {
		return domain.Task{}, m.failWith
	}
	if strings.TrimSpace(in.Title) == "" {
		return domain.Task{}, errors.New("task invalid input")
	}
	m.created = append(m.created, in)
	return domain.Task{ID: 42, UserID: userID, Title: in.Title, Priority: in.Priority}, nil
}

func (m *mockTaskOps) ListTasks(_ context.Context, userID string, _ *bool) ([]domain.Task, error) {
	m.calls++
	m.listCalls++
	if m.failWith != nil {
		return nil, m.failWith
	}
	if userID != "owner" {
		return nil, nil
	}
	return m.listResult, nil
}

func (m *mockTaskOps) UpdateTask(_ context.Context, userID string, taskID int64, in domain.TaskUpdate) (domain.Task, error) {
	m.calls++
	if err := m.fail(userID, taskID); err != nil {
		return domain.Task{}, err
	}
	m.updated = append(m.updated, in)
	return domain.Task{ID: taskID, UserID: userID, Title: "updated"}, nil
}

func (m *mockTaskOps) DeleteTask(_ context.Context, userID string, taskID int64) error {
	m.calls++
	if err := m.fail(userID, taskID); err != nil {
		return err
	}
	m.deletedIDs = append(m.deletedIDs, taskID)
	return nil
}

func (m *mockTaskOps) ToggleTask(_ context.Context, userID string, taskID int64) (domain.Task, error) {
	m.calls++
	if err := m.fail(userID, taskID); err != nil {
		return domain.Task{}, err
	}
	m.toggledIDs = append(m.toggledIDs, taskID)
	return domain.Task{ID: taskID, UserID: userID, Completed: true}, nil
}

func newTestDispatcher(t *testing.T, ops TaskOperations) *Dispatcher {
	t.Helper()
	reg, err := NewTaskRegistry(ops)
	if err != nil {
		t.Fatalf("new task registry: %v", err)
	}
	return NewDispatcher(reg, nil)
}

func TestDispatch_EveryToolCallsServiceOnce(t *testing.T) {
	cases := []struct {
		tool string
		args Arguments
	}{
		{"add_task", Arguments{"title": "buy milk", "priority": "high"}},
		{"list_tasks", Arguments{}},
		{"update_task", Arguments{"task_id": float64(3), "title": "new title"}},
		{"delete_task", Arguments{"task_id": float64(3)}},
		{"complete_task", Arguments{"task_id": float64(3)}},
	}

	for _, tc := range cases {
		ops := &mockTaskOps{}
		d := newTestDispatcher(t, ops)

		out, err := d.Dispatch(context.Background(), tc.tool, tc.args, "owner")
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.tool, err)
		}
		if out == "" {
			t.Fatalf("%s: expected non-empty confirmation", tc.tool)
		}
		if ops.calls != 1 {
			t.Fatalf("%s: expected exactly one service call, got %d", tc.tool, ops.calls)
		}
	}
}

func TestDispatch_AddTaskConfirmationIncludesID(t *testing.T) {
	ops := &mockTaskOps{}
	d := newTestDispatcher(t, ops)

	out, err := d.Dispatch(context.Background(), "add_task", Arguments{"title": "buy milk", "priority": "high"}, "owner")
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if !strings.Contains(out, "buy milk") || !strings.Contains(out, "42") {
		t.Fatalf("expected confirmation with title and id, got %q", out)
	}
	if len(ops.created) != 1 || ops.created[0].Priority != "high" {
		t.Fatalf("expected high priority create, got %+v", ops.created)
	}
}

func TestDispatch_ListTasksFormatsEntries(t *testing.T) {
	ops := &mockTaskOps{listResult: []domain.Task{
		{ID: 1, Title: "buy milk", Priority: domain.PriorityHigh},
		{ID: 2, Title: "walk dog", Priority: domain.PriorityLow, Completed: true},
	}}
	d := newTestDispatcher(t, ops)

	out, err := d.Dispatch(context.Background(), "list_tasks", Arguments{}, "owner")
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if !strings.Contains(out, "buy milk") || !strings.Contains(out, "[HIGH]") {
		t.Fatalf("expected formatted list, got %q", out)
	}
}

func TestDispatch_ListTasksEmpty(t *testing.T) {
	d := newTestDispatcher(t, &mockTaskOps{})

	out, err := d.Dispatch(context.Background(), "list_tasks", Arguments{}, "owner")
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if !strings.Contains(out, "no tasks") {
		t.Fatalf("expected empty list message, got %q", out)
	}
}

func TestDispatch_UnknownToolFails(t *testing.T) {
	ops := &mockTaskOps{}
	d := newTestDispatcher(t, ops)

	_, err := d.Dispatch(context.Background(), "drop_database", Arguments{}, "owner")
	if !errors.Is(err, ErrToolNotFound) {
		t.Fatalf("expected ErrToolNotFound, got %v", err)
	}
	if ops.calls != 0 {
		t.Fatalf("expected no service call for unknown tool")
	}
}

func TestDispatch_ForeignTaskIsExecutionError(t *testing.T) {
	for _, tool := range []string{"update_task", "delete_task", "complete_task"} {
		ops := &mockTaskOps{}
		d := newTestDispatcher(t, ops)

		_, err := d.Dispatch(context.Background(), tool, Arguments{"task_id": float64(7)}, "intruder")
		var execErr *ToolExecutionError
		if !errors.As(err, &execErr) {
			t.Fatalf("%s: expected ToolExecutionError, got %v", tool, err)
		}
		if !errors.Is(err, errMockNotFound) {
			t.Fatalf("%s: expected wrapped not found cause, got %v", tool, err)
		}
		if len(ops.updated) != 0 || len(ops.deletedIDs) != 0 || len(ops.toggledIDs) != 0 {
			t.Fatalf("%s: expected no mutation for foreign task", tool)
		}
	}
}

func TestDispatch_MissingRequiredArgument(t *testing.T) {
	d := newTestDispatcher(t, &mockTaskOps{})

	_, err := d.Dispatch(context.Background(), "delete_task", Arguments{}, "owner")
	var execErr *ToolExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected ToolExecutionError for missing task_id, got %v", err)
	}
}

func TestDispatch_MalformedArgumentType(t *testing.T) {
	d := newTestDispatcher(t, &mockTaskOps{})

	_, err := d.Dispatch(context.Background(), "add_task", Arguments{"title": float64(12)}, "owner")
	var execErr *ToolExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected ToolExecutionError for bad title type, got %v", err)
	}
}

func TestDispatch_StringTaskIDAccepted(t *testing.T) {
	ops := &mockTaskOps{}
	d := newTestDispatcher(t, ops)

	out, err := d.Dispatch(context.Background(), "complete_task", Arguments{"task_id": "3"}, "owner")
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if !strings.Contains(out, "Task 3 marked as completed") {
		t.Fatalf("unexpected confirmation: %q", out)
	}
}

func TestArguments_DueDateParsing(t *testing.T) {
	ops := &mockTaskOps{}
	d := newTestDispatcher(t, ops)

	_, err := d.Dispatch(context.Background(), "add_task", Arguments{
		"title":    "pay rent",
		"due_date": "2026-09-01",
	}, "owner")
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(ops.created) != 1 || ops.created[0].DueDate == nil {
		t.Fatalf("expected parsed due date")
	}
	want := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	if !ops.created[0].DueDate.Equal(want) {
		t.Fatalf("expected %v, got %v", want, ops.created[0].DueDate)
	}

	_, err = d.Dispatch(context.Background(), "add_task", Arguments{
		"title":    "pay rent",
		"due_date": "next tuesday",
	}, "owner")
	var execErr *ToolExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected ToolExecutionError for bad date, got %v", err)
	}
}
