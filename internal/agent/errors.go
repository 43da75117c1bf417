package agent

import (
	"errors"
	"fmt"
)

var (
	// ErrToolNotFound indica que el modelo pidió una herramienta fuera del registro.
	ErrToolNotFound = errors.New("tool not found")
	// ErrModelUnavailable indica que la llamada al proveedor del modelo falló.
	ErrModelUnavailable = errors.New("model unavailable")
)

// ToolExecutionError envuelve un fallo de validación u ownership del
// servicio de tareas durante la ejecución de una herramienta.
type ToolExecutionError struct {
	Tool string
	Err  error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool %s failed: %v", e.Tool, e.Err)
}

func (e *ToolExecutionError) Unwrap() error {
	return e.Err
}
