package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"todo-agent/internal/domain"
)

// TaskRepository define el contrato de persistencia para tareas.
// Toda consulta está acotada al usuario dueño.
type TaskRepository interface {
	Create(ctx context.Context, task domain.Task) (domain.Task, error)
	GetByIDForUser(ctx context.Context, taskID int64, userID string) (domain.Task, error)
	ListByUser(ctx context.Context, userID string, completed *bool) ([]domain.Task, error)
	Update(ctx context.Context, task domain.Task) error
	// Delete devuelve cuántas filas borró; 0 significa id inexistente o ajeno.
	Delete(ctx context.Context, taskID int64, userID string) (int64, error)
}

type PgTaskRepository struct {
	pool *pgxpool.Pool
}

func NewPgTaskRepository(pool *pgxpool.Pool) *PgTaskRepository {
	return &PgTaskRepository{pool: pool}
}

func (r *PgTaskRepository) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	const query = `
		INSERT INTO tasks (user_id, title, description, completed, category, priority, due_date, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query,
		task.UserID,
		task.Title,
		nullString(task.Description),
		task.Completed,
		nullString(task.Category),
		task.Priority,
		task.DueDate,
		task.SortOrder,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)
	return task, err
}

func (r *PgTaskRepository) GetByIDForUser(ctx context.Context, taskID int64, userID string) (domain.Task, error) {
	const query = `
		SELECT id, user_id, title, description, completed, category, priority, due_date, sort_order, created_at, updated_at
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`
	task, err := scanTask(r.pool.QueryRow(ctx, query, taskID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Task{}, err
	}
	return task, err
}

func (r *PgTaskRepository) ListByUser(ctx context.Context, userID string, completed *bool) ([]domain.Task, error) {
	query := `
		SELECT id, user_id, title, description, completed, category, priority, due_date, sort_order, created_at, updated_at
		FROM tasks
		WHERE user_id = $1
	`
	args := []any{userID}
	if completed != nil {
		query += ` AND completed = $2`
		args = append(args, *completed)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *PgTaskRepository) Update(ctx context.Context, task domain.Task) error {
	const query = `
		UPDATE tasks
		SET title = $3, description = $4, completed = $5, category = $6, priority = $7, due_date = $8, sort_order = $9, updated_at = $10
		WHERE id = $1 AND user_id = $2
	`
	_, err := r.pool.Exec(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		nullString(task.Description),
		task.Completed,
		nullString(task.Category),
		task.Priority,
		task.DueDate,
		task.SortOrder,
		task.UpdatedAt,
	)
	return err
}

func (r *PgTaskRepository) Delete(ctx context.Context, taskID int64, userID string) (int64, error) {
	const query = `
		DELETE FROM tasks WHERE id = $1 AND user_id = $2
	`
	tag, err := r.pool.Exec(ctx, query, taskID, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanTask(row pgx.Row) (domain.Task, error) {
	var task domain.Task
	var description, category *string

	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&description,
		&task.Completed,
		&category,
		&task.Priority,
		&task.DueDate,
		&task.SortOrder,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return domain.Task{}, err
	}
	if description != nil {
		task.Description = *description
	}
	if category != nil {
		task.Category = *category
	}
	return task, nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
