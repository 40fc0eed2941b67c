package port

import (
	"context"

	"care-label-reader/internal/domain/entity"
)

// LabelReader распознаёт символы ухода на фотографии
type LabelReader interface {
	// Read возвращает коды символов слева направо; expected > 0 требует
	// точного совпадения числа символов
	Read(ctx context.Context, photo []byte, expected int) ([]entity.Code, error)
}
