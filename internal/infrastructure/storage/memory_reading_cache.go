package storage

import (
	"context"
	"sync"
	"time"

	"care-label-reader/internal/domain/entity"
	"care-label-reader/internal/domain/port"
)

type cachedReading struct {
	reading entity.Reading
	expires time.Time
}

// MemoryReadingCache in-memory кэш результатов распознавания
type MemoryReadingCache struct {
	mu       sync.RWMutex
	ttl      time.Duration
	readings map[string]cachedReading
	now      func() time.Time
}

// NewMemoryReadingCache создаёт кэш; ttl <= 0 означает без срока хранения
func NewMemoryReadingCache(ttl time.Duration) *MemoryReadingCache {
	return &MemoryReadingCache{
		ttl:      ttl,
		readings: make(map[string]cachedReading),
		now:      time.Now,
	}
}

// Get возвращает копию результата или nil при промахе
func (c *MemoryReadingCache) Get(ctx context.Context, key string) (*entity.Reading, error) {
	c.mu.RLock()
	item, exists := c.readings[key]
	c.mu.RUnlock()

	if !exists {
		return nil, nil
	}
	if !item.expires.IsZero() && c.now().After(item.expires) {
		c.mu.Lock()
		delete(c.readings, key)
		c.mu.Unlock()
		return nil, nil
	}

	reading := item.reading
	reading.Codes = append([]entity.Code(nil), item.reading.Codes...)
	return &reading, nil
}

// Set сохраняет копию результата
func (c *MemoryReadingCache) Set(ctx context.Context, key string, reading *entity.Reading) error {
	item := cachedReading{reading: *reading}
	item.reading.Codes = append([]entity.Code(nil), reading.Codes...)
	if c.ttl > 0 {
		item.expires = c.now().Add(c.ttl)
	}

	c.mu.Lock()
	c.readings[key] = item
	c.mu.Unlock()

	return nil
}

var _ port.ReadingCache = (*MemoryReadingCache)(nil)
