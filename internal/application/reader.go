package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"care-label-reader/internal/domain/entity"
	"care-label-reader/internal/domain/port"
)

// ErrReadingNotFound результата для снимка нет в кэше
var ErrReadingNotFound = errors.New("reading not found")

type ReaderService struct {
	users  *UserService
	reader port.LabelReader
	cache  port.ReadingCache
	log    *zap.Logger
}

// ReadOutput результат распознавания и признак попадания в кэш
type ReadOutput struct {
	Reading *entity.Reading
	Cached  bool
}

// NewReaderService создаёт сервис распознавания этикеток; cache может быть nil
func NewReaderService(users *UserService, reader port.LabelReader, cache port.ReadingCache, log *zap.Logger) *ReaderService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReaderService{
		users:  users,
		reader: reader,
		cache:  cache,
		log:    log,
	}
}

// Read распознаёт снимок. Кэшированный результат используется, если
// expected не задано или совпадает с числом найденных символов
func (s *ReaderService) Read(ctx context.Context, photo []byte, expected int) (*ReadOutput, error) {
	if s.reader == nil {
		return nil, errors.New("reader is not configured")
	}
	if len(photo) == 0 {
		return nil, errors.New("photo is empty")
	}

	hash := PhotoHash(photo)
	if cached := s.cached(ctx, hash); cached != nil {
		if expected <= 0 || expected == len(cached.Codes) {
			return &ReadOutput{Reading: cached, Cached: true}, nil
		}
	}

	codes, err := s.reader.Read(ctx, photo, expected)
	if err != nil {
		s.log.Info("label not read", zap.String("md5", hash), zap.Error(err))
		return nil, err
	}

	reading := &entity.Reading{Hash: hash, Expected: expected, Codes: codes}
	if s.cache != nil {
		if err := s.cache.Set(ctx, hash, reading); err != nil {
			s.log.Warn("failed to cache reading", zap.String("md5", hash), zap.Error(err))
		}
	}
	s.log.Info("label read", zap.String("md5", hash), zap.Int("symbols", len(codes)))
	return &ReadOutput{Reading: reading}, nil
}

// Lookup возвращает ранее сохранённый результат по MD5 снимка
func (s *ReaderService) Lookup(ctx context.Context, hash string) (*entity.Reading, error) {
	if s.cache == nil {
		return nil, ErrReadingNotFound
	}
	reading, err := s.cache.Get(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("lookup reading: %w", err)
	}
	if reading == nil {
		return nil, ErrReadingNotFound
	}
	return reading, nil
}

// ProcessUserPhoto распознаёт фото пользователя с учётом его ожидаемого
// числа символов и возвращает его в главное меню
func (s *ReaderService) ProcessUserPhoto(ctx context.Context, userID, chatID int64, photo []byte) (*ReadOutput, error) {
	user, err := s.users.SetState(ctx, userID, chatID, entity.StateProcessing)
	if err != nil {
		return nil, err
	}

	out, readErr := s.Read(ctx, photo, user.ExpectedSymbols)
	if _, err := s.users.SetState(ctx, userID, chatID, entity.StateMainMenu); err != nil {
		return nil, err
	}
	return out, readErr
}

func (s *ReaderService) cached(ctx context.Context, hash string) *entity.Reading {
	if s.cache == nil {
		return nil
	}
	reading, err := s.cache.Get(ctx, hash)
	if err != nil {
		s.log.Warn("cache lookup failed", zap.String("md5", hash), zap.Error(err))
		return nil
	}
	return reading
}
