package inventory

import (
	"context"
	"sync"
)

// LocalLocker es un ProductLocker en proceso: un semáforo de capacidad 1 por producto.
// Sirve cuando hay una sola instancia del servicio.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

// NewLocalLocker crea un bloqueo local vacío.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: make(map[string]chan struct{})}
}

var _ ProductLocker = (*LocalLocker)(nil)

// Lock espera el turno del producto o hasta que ctx termine.
func (l *LocalLocker) Lock(ctx context.Context, productID string) (func(), error) {
	l.mu.Lock()
	slot, ok := l.slots[productID]
	if !ok {
		slot = make(chan struct{}, 1)
		l.slots[productID] = slot
	}
	l.mu.Unlock()

	select {
	case slot <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-slot })
	}, nil
}
