package port

import (
	"context"

	"care-label-reader/internal/domain/entity"
)

// ReadingCache кэш результатов по MD5 снимка
type ReadingCache interface {
	// Get возвращает nil без ошибки при промахе
	Get(ctx context.Context, key string) (*entity.Reading, error)
	Set(ctx context.Context, key string, reading *entity.Reading) error
}
