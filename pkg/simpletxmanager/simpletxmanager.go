package simpletxmanager

import (
	"context"
	"sync"
)

type lockKey struct{}

// TransactionManager менеджер "транзакций" для хранилища в памяти.
// Пишущие секции выполняются строго по одной, читающие могут идти параллельно,
// но никогда не пересекаются с пишущими.
type TransactionManager struct {
	mu sync.RWMutex
}

func NewTransactionManager() *TransactionManager {
	return &TransactionManager{}
}

// Do выполняет fn под эксклюзивной блокировкой
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.DoSerializable(ctx, fn)
}

// DoSerializable выполняет fn под эксклюзивной блокировкой
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if held(ctx) {
		return fn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(context.WithValue(ctx, lockKey{}, true))
}

// DoReadOnly выполняет fn под разделяемой блокировкой
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	if held(ctx) {
		return fn(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fn(context.WithValue(ctx, lockKey{}, true))
}

func held(ctx context.Context) bool {
	v, _ := ctx.Value(lockKey{}).(bool)
	return v
}
