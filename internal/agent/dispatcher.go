package agent

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Dispatcher resuelve un nombre de herramienta contra el registro y la
// ejecuta acotada al usuario que pidió el turno.
type Dispatcher struct {
	registry *Registry
	logger   *zap.Logger
}

func NewDispatcher(registry *Registry, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{registry: registry, logger: logger}
}

// Dispatch ejecuta exactamente una operación contra el servicio de tareas.
// Un nombre desconocido devuelve ErrToolNotFound; cualquier fallo del
// handler o del servicio se envuelve en ToolExecutionError.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args Arguments, userID string) (string, error) {
	handler, ok := d.registry.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrToolNotFound, name)
	}

	d.logger.Info("dispatching tool",
		zap.String("tool", name),
		zap.String("user_id", userID),
	)

	result, err := handler.Invoke(ctx, userID, args)
	if err != nil {
		var execErr *ToolExecutionError
		if errors.As(err, &execErr) {
			return "", err
		}
		return "", &ToolExecutionError{Tool: name, Err: err}
	}
	return result, nil
}
