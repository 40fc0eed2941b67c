package container

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"care-label-reader/config"
	app "care-label-reader/internal/application"
	"care-label-reader/internal/domain/entity"
	"care-label-reader/internal/domain/port"
	"care-label-reader/internal/infrastructure/raster"
	"care-label-reader/internal/infrastructure/storage"
	"care-label-reader/internal/infrastructure/vision"
	"care-label-reader/internal/pipeline"
)

type Container struct {
	UserService   *app.UserService
	ReaderService *app.ReaderService

	closers []func() error
}

func New(userRepo port.UserRepository, reader port.LabelReader, cache port.ReadingCache, log *zap.Logger) *Container {
	userService := app.NewUserService(userRepo)
	readerService := app.NewReaderService(userService, reader, cache, log)

	return &Container{
		UserService:   userService,
		ReaderService: readerService,
	}
}

// Build собирает распознаватель и сервисы по конфигурации. Ошибки
// помечены этапом init или templates
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Container, error) {
	if log == nil {
		log = zap.NewNop()
	}

	im, err := NewImager(cfg.Backend)
	if err != nil {
		return nil, entity.NewStageError(entity.StageInit, err)
	}
	log.Info("image backend selected", zap.String("backend", backendName(im)))

	if _, err := os.Stat(cfg.TemplatesDir); err != nil {
		return nil, entity.NewStageError(entity.StageInit, fmt.Errorf("templates dir: %w", err))
	}
	lib, err := pipeline.LoadTemplates(os.DirFS(cfg.TemplatesDir), im, cfg.Pipeline)
	if err != nil {
		return nil, err
	}

	cache, closeCache := newCache(ctx, cfg.Redis, log)
	reader := pipeline.NewReader(im, lib, cfg.Pipeline, log)

	c := New(storage.NewMemoryUserRepository(), reader, cache, log)
	c.closers = append(c.closers, lib.Close)
	if closeCache != nil {
		c.closers = append(c.closers, closeCache)
	}
	return c, nil
}

// Close освобождает шаблоны и соединения
func (c *Container) Close() error {
	var first error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	c.closers = nil
	return first
}

// NewImager выбирает реализацию примитивов: auto предпочитает OpenCV
func NewImager(backend string) (port.Imager, error) {
	switch backend {
	case config.BackendGoCV:
		return newVision()
	case config.BackendRaster:
		return raster.New(), nil
	case config.BackendAuto, "":
		if vision.Available {
			return newVision()
		}
		return raster.New(), nil
	}
	return nil, fmt.Errorf("unknown backend %q", backend)
}

func newVision() (port.Imager, error) {
	im, err := vision.New()
	if err != nil {
		return nil, err
	}
	return im, nil
}

func backendName(im port.Imager) string {
	if _, ok := im.(*raster.Imager); ok {
		return config.BackendRaster
	}
	return config.BackendGoCV
}

// newCache возвращает Redis, если он задан и отвечает, иначе кэш в памяти
func newCache(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) (port.ReadingCache, func() error) {
	if cfg.Addr == "" {
		return storage.NewMemoryReadingCache(cfg.TTL), nil
	}

	redisCache := storage.NewRedisReadingCache(storage.RedisOptions{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		TTL:      cfg.TTL,
	}, log)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := redisCache.Ping(pingCtx); err != nil {
		log.Warn("redis connection failed, using memory cache", zap.String("addr", cfg.Addr), zap.Error(err))
		_ = redisCache.Close()
		return storage.NewMemoryReadingCache(cfg.TTL), nil
	}

	log.Info("redis connected successfully", zap.String("addr", cfg.Addr))
	return redisCache, redisCache.Close
}
