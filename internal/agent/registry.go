package agent

import (
	"context"
	"fmt"
	"strings"
)

// ParamType son los tipos primitivos admitidos en un parámetro de herramienta.
type ParamType string

const (
	ParamString  ParamType = "string"
	ParamBoolean ParamType = "boolean"
	ParamInteger ParamType = "integer"
)

// Param describe un parámetro dentro del contrato de una herramienta.
type Param struct {
	Type        ParamType
	Description string
	Required    bool
	Enum        []string
}

// Descriptor es la definición neutral de una herramienta: nombre único,
// descripción y esquema de parámetros. La traducción al formato de un
// proveedor concreto vive en el adaptador, no acá.
type Descriptor struct {
	Name        string
	Description string
	Params      map[string]Param
}

// Handler es una herramienta tipada invocable por el loop.
type Handler interface {
	Descriptor() Descriptor
	Invoke(ctx context.Context, userID string, args Arguments) (string, error)
}

// Registry es el conjunto cerrado de herramientas. Inmutable después de
// construirse; un nombre desconocido es un fallo de lookup tipado.
type Registry struct {
	handlers map[string]Handler
	ordered  []Handler
}

// NewRegistry valida nombres únicos y no vacíos una sola vez, al construir.
func NewRegistry(handlers ...Handler) (*Registry, error) {
	r := &Registry{
		handlers: make(map[string]Handler, len(handlers)),
		ordered:  make([]Handler, 0, len(handlers)),
	}
	for _, h := range handlers {
		if h == nil {
			return nil, fmt.Errorf("registry: nil handler")
		}
		name := strings.TrimSpace(h.Descriptor().Name)
		if name == "" {
			return nil, fmt.Errorf("registry: handler with empty name")
		}
		if _, exists := r.handlers[name]; exists {
			return nil, fmt.Errorf("registry: duplicate tool %q", name)
		}
		r.handlers[name] = h
		r.ordered = append(r.ordered, h)
	}
	return r, nil
}

// Lookup busca una herramienta por nombre.
func (r *Registry) Lookup(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// Handlers devuelve las herramientas en orden de registro.
func (r *Registry) Handlers() []Handler {
	out := make([]Handler, len(r.ordered))
	copy(out, r.ordered)
	return out
}
