package port

import (
	"context"

	"care-label-reader/internal/domain/entity"
)

// UserRepository хранилище пользователей бота. Get отдаёт копию:
// изменения сохраняются только через Save
type UserRepository interface {
	// Get возвращает пользователя, создаёт нового в главном меню если не найден
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)

	Save(ctx context.Context, user *entity.User) error

	// UpdateState меняет состояние, не трогая ожидаемое число символов
	UpdateState(ctx context.Context, userID int64, state entity.UserState) error
}
