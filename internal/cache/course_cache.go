package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/course-tracker/internal/domain"
)

var encMode = mustEncMode()

func mustEncMode() cbor.EncMode {
	em, err := cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}

const (
	versionKey = "courses:version"
	listPrefix = "courses:list"
)

// CourseCache stores CBOR-encoded course listings in Redis.
// Entries are keyed by a generation counter so one INCR invalidates every listing.
type CourseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCourseCache returns nil when client is nil; a nil *CourseCache is a no-op cache.
func NewCourseCache(client *redis.Client, ttl time.Duration) *CourseCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CourseCache{client: client, ttl: ttl}
}

// GetList returns the cached listing for filter, if any, and the cache
// generation it looked in. Pass that generation to SetList so a listing read
// from storage before an Invalidate is filed under the retired generation.
func (c *CourseCache) GetList(ctx context.Context, filter domain.CourseFilter) ([]domain.Course, int64, bool, error) {
	if c == nil {
		return nil, 0, false, nil
	}
	version, err := c.Version(ctx)
	if err != nil {
		return nil, 0, false, err
	}
	raw, err := c.client.Get(ctx, listKey(version, filter)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, version, false, nil
	}
	if err != nil {
		return nil, 0, false, err
	}
	var courses []domain.Course
	if err := cbor.Unmarshal(raw, &courses); err != nil {
		return nil, 0, false, fmt.Errorf("decode cached courses: %w", err)
	}
	return courses, version, true, nil
}

// SetList caches a listing for filter under the given generation.
func (c *CourseCache) SetList(ctx context.Context, filter domain.CourseFilter, version int64, courses []domain.Course) error {
	if c == nil {
		return nil
	}
	raw, err := encMode.Marshal(courses)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, listKey(version, filter), raw, c.ttl).Err()
}

// Invalidate drops every cached listing.
func (c *CourseCache) Invalidate(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Incr(ctx, versionKey).Err()
}

// Version returns the current cache generation.
func (c *CourseCache) Version(ctx context.Context) (int64, error) {
	if c == nil {
		return 0, nil
	}
	version, err := c.client.Get(ctx, versionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, err
	}
	return version, nil
}

func listKey(version int64, filter domain.CourseFilter) string {
	return fmt.Sprintf("%s:%d:g=%d:d=%s:t=%s:w=%s", listPrefix, version,
		filter.Grade, filter.Discipline, filter.TextbookStatus, filter.WorkbookStatus)
}
