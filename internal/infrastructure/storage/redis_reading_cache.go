package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"care-label-reader/internal/domain/entity"
	"care-label-reader/internal/domain/port"
)

const readingKeyPrefix = "reading:"

// RedisOptions параметры подключения к Redis
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisReadingCache кэш результатов распознавания в Redis
type RedisReadingCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewRedisReadingCache(opts RedisOptions, log *zap.Logger) *RedisReadingCache {
	if log == nil {
		log = zap.NewNop()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	return &RedisReadingCache{
		client: client,
		ttl:    opts.TTL,
		log:    log,
	}
}

func (c *RedisReadingCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Get возвращает результат из кэша, nil при промахе
func (c *RedisReadingCache) Get(ctx context.Context, key string) (*entity.Reading, error) {
	data, err := c.client.Get(ctx, readingKeyPrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // промах
		}
		return nil, err
	}

	var reading entity.Reading
	if err := json.Unmarshal(data, &reading); err != nil {
		c.log.Error("failed to unmarshal reading",
			zap.String("md5", key), zap.Error(err))
		return nil, err
	}

	return &reading, nil
}

// Set сохраняет результат с TTL
func (c *RedisReadingCache) Set(ctx context.Context, key string, reading *entity.Reading) error {
	data, err := json.Marshal(reading)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, readingKeyPrefix+key, data, c.ttl).Err()
}

func (c *RedisReadingCache) Close() error {
	return c.client.Close()
}

var _ port.ReadingCache = (*RedisReadingCache)(nil)
