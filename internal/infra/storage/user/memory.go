package user

import (
	"context"
	"strings"
	"sync"

	"github.com/m04kA/AutoBooker-Service/internal/domain"
)

// MemoryRepository хранилище учетных записей в памяти процесса
type MemoryRepository struct {
	mu      sync.RWMutex
	byEmail map[string]*domain.User
	lastID  int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byEmail: make(map[string]*domain.User)}
}

// Create сохраняет пользователя и назначает ему ID.
// Email сравнивается без учета регистра.
func (r *MemoryRepository) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	key := normalizeEmail(u.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[key]; ok {
		return nil, ErrEmailTaken
	}

	r.lastID++
	stored := *u
	stored.ID = r.lastID
	stored.Email = key
	r.byEmail[key] = &stored

	out := stored
	return &out, nil
}

// GetByEmail получает пользователя по email
func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
