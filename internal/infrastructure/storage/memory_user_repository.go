package storage

import (
	"context"
	"slices"
	"sync"

	"dough-vision/internal/domain/entity"
	"dough-vision/internal/domain/port"
)

// MemoryUserRepository хранит операторов в памяти. Наружу отдаются копии,
// изменения попадают в хранилище только через Save.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[int64]entity.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[int64]entity.User),
	}
}

// Get возвращает копию оператора, создаёт нового если не найден.
func (r *MemoryUserRepository) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	r.mu.RLock()
	user, exists := r.users[userID]
	r.mu.RUnlock()
	if exists {
		return cloneUser(user), nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if user, exists = r.users[userID]; !exists {
		user = *entity.NewUser(userID, chatID)
		r.users[userID] = user
	}
	return cloneUser(user), nil
}

func (r *MemoryUserRepository) Save(ctx context.Context, user *entity.User) error {
	stored := cloneUser(*user)

	r.mu.Lock()
	r.users[user.ID] = *stored
	r.mu.Unlock()

	return nil
}

func (r *MemoryUserRepository) UpdateState(ctx context.Context, userID int64, state entity.UserState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, exists := r.users[userID]; exists {
		user.SetState(state)
		r.users[userID] = user
	}

	return nil
}

func cloneUser(u entity.User) *entity.User {
	u.PendingRegions = slices.Clone(u.PendingRegions)
	for i, region := range u.PendingRegions {
		u.PendingRegions[i].Polygon = slices.Clone(region.Polygon)
	}
	return &u
}

var _ port.UserRepository = (*MemoryUserRepository)(nil)
