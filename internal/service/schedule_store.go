package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/noah-isme/planify-api/internal/models"
	"github.com/noah-isme/planify-api/pkg/cache"
	appErrors "github.com/noah-isme/planify-api/pkg/errors"
)

// ScheduleStore retains generated schedules for later retrieval and export.
type ScheduleStore interface {
	Save(ctx context.Context, result models.ScheduleResult) error
	Get(ctx context.Context, id string) (*models.ScheduleResult, error)
}

// NewScheduleStore prefers Redis when the cache is enabled and falls back to an in-process LRU.
func NewScheduleStore(cacheSvc *CacheService, size int, ttl time.Duration) ScheduleStore {
	if cacheSvc.Enabled() {
		return &redisScheduleStore{cache: cacheSvc, ttl: ttl}
	}
	return NewMemoryScheduleStore(size, ttl)
}

type memoryScheduleStore struct {
	items *expirable.LRU[string, models.ScheduleResult]
}

// NewMemoryScheduleStore keeps at most size schedules, each for ttl.
func NewMemoryScheduleStore(size int, ttl time.Duration) ScheduleStore {
	if size <= 0 {
		size = 512
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &memoryScheduleStore{items: expirable.NewLRU[string, models.ScheduleResult](size, nil, ttl)}
}

func (s *memoryScheduleStore) Save(_ context.Context, result models.ScheduleResult) error {
	if result.ID == "" {
		return fmt.Errorf("save schedule: missing id")
	}
	s.items.Add(result.ID, result)
	return nil
}

func (s *memoryScheduleStore) Get(_ context.Context, id string) (*models.ScheduleResult, error) {
	result, ok := s.items.Get(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found or expired")
	}
	return &result, nil
}

type redisScheduleStore struct {
	cache *CacheService
	ttl   time.Duration
}

func scheduleKey(id string) string {
	return cache.Key("schedule", id)
}

func (s *redisScheduleStore) Save(ctx context.Context, result models.ScheduleResult) error {
	if result.ID == "" {
		return fmt.Errorf("save schedule: missing id")
	}
	return s.cache.Set(ctx, scheduleKey(result.ID), result, s.ttl)
}

func (s *redisScheduleStore) Get(ctx context.Context, id string) (*models.ScheduleResult, error) {
	var result models.ScheduleResult
	hit, err := s.cache.Get(ctx, scheduleKey(id), &result)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	if !hit {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found or expired")
	}
	return &result, nil
}
