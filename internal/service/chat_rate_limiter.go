package service

import (
	"strings"
	"sync"
	"time"
)

// ChatRateLimiter acota cuántos turnos de chat puede disparar un usuario
// dentro de una ventana. Protege el presupuesto del proveedor del modelo.
type ChatRateLimiter interface {
	Allow(userID string) bool
}

type memoryChatRateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	buckets map[string]*rateBucket
}

type rateBucket struct {
	count   int
	resetAt time.Time
}

// NewChatRateLimiter crea un limitador en memoria, para despliegues sin redis.
func NewChatRateLimiter(window time.Duration, max int) ChatRateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &memoryChatRateLimiter{
		window:  window,
		max:     max,
		buckets: make(map[string]*rateBucket),
	}
}

func (l *memoryChatRateLimiter) Allow(userID string) bool {
	key := strings.TrimSpace(userID)
	if key == "" {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now().UTC()
	b, ok := l.buckets[key]
	if !ok || now.After(b.resetAt) {
		l.buckets[key] = &rateBucket{count: 1, resetAt: now.Add(l.window)}
		return true
	}
	b.count++
	return b.count <= l.max
}
