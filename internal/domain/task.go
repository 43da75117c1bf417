package domain

import "time"

// Prioridades permitidas para una tarea.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// ValidPriority indica si el valor es una prioridad conocida.
func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

type Task struct {
	ID          int64      `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	Category    string     `json:"category,omitempty"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	SortOrder   int        `json:"sort_order"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskCreate agrupa los campos para crear una tarea.
type TaskCreate struct {
	Title       string
	Description string
	Category    string
	Priority    string
	DueDate     *time.Time
}

// TaskUpdate agrupa campos opcionales para una actualización parcial.
// Un puntero nil significa "no tocar el campo".
type TaskUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
	Category    *string
	Priority    *string
	DueDate     *time.Time
	SortOrder   *int
}
