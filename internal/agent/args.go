package agent

import (
	"fmt"
	"math"
	"time"
)

// Arguments es el mapa de argumentos tal como llega del modelo, ya
// decodificado de JSON. Los getters devuelven (valor, presente, error);
// un tipo inesperado es un error, una ausencia no.
type Arguments map[string]any

func (a Arguments) String(key string) (string, bool, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", true, fmt.Errorf("argument %q must be a string", key)
	}
	return s, true, nil
}

func (a Arguments) Bool(key string) (bool, bool, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return false, false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, true, fmt.Errorf("argument %q must be a boolean", key)
	}
	return b, true, nil
}

// Int acepta números JSON (float64) enteros y strings numéricas, porque
// algunos modelos serializan los ids como texto.
func (a Arguments) Int(key string) (int64, bool, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return 0, false, nil
	}
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, true, fmt.Errorf("argument %q must be an integer", key)
		}
		return int64(n), true, nil
	case string:
		var parsed int64
		if _, err := fmt.Sscanf(n, "%d", &parsed); err != nil {
			return 0, true, fmt.Errorf("argument %q must be an integer", key)
		}
		return parsed, true, nil
	default:
		return 0, true, fmt.Errorf("argument %q must be an integer", key)
	}
}

// Time parsea una fecha RFC 3339, con fallback a fecha sin hora.
func (a Arguments) Time(key string) (*time.Time, bool, error) {
	s, present, err := a.String(key)
	if err != nil || !present || s == "" {
		return nil, present, err
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, true, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, true, fmt.Errorf("argument %q must be an RFC 3339 date", key)
	}
	return &t, true, nil
}
