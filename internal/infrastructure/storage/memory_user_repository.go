package storage

import (
	"context"
	"errors"
	"sync"

	"care-label-reader/internal/domain/entity"
	"care-label-reader/internal/domain/port"
)

// MemoryUserRepository хранит копии пользователей в памяти процесса.
// Изменения возвращённого пользователя видны только после Save
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[int64]entity.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[int64]entity.User),
	}
}

// Get возвращает копию пользователя, создаёт нового если не найден.
// ChatID обновляется, если пользователь пишет из другого чата
func (r *MemoryUserRepository) Get(_ context.Context, userID, chatID int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[userID]
	if !exists {
		user = *entity.NewUser(userID, chatID)
	}
	if user.ChatID != chatID {
		user.ChatID = chatID
		// незавершённое чтение относится к старому чату
		user.SetState(entity.StateMainMenu)
	}
	r.users[userID] = user

	return &user, nil
}

func (r *MemoryUserRepository) Save(_ context.Context, user *entity.User) error {
	if user == nil {
		return errors.New("user is nil")
	}

	r.mu.Lock()
	r.users[user.ID] = *user
	r.mu.Unlock()

	return nil
}

// UpdateState меняет состояние известного пользователя; неизвестные пропускаются
func (r *MemoryUserRepository) UpdateState(_ context.Context, userID int64, state entity.UserState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, exists := r.users[userID]; exists {
		user.SetState(state)
		r.users[userID] = user
	}

	return nil
}

var _ port.UserRepository = (*MemoryUserRepository)(nil)
