// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/bson"

	"jobportal_backend/internal/feature/jobs/domain/entity"
)

// JobRepository is the full set of job persistence operations the decorator wraps.
type JobRepository interface {
	List(ctx context.Context, filter entity.JobFilter) ([]entity.JobView, error)
	FindViewByID(ctx context.Context, id bson.ObjectID) (*entity.JobView, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*entity.Job, error)
	ListByCompany(ctx context.Context, companyID bson.ObjectID) ([]entity.Job, error)
	Create(ctx context.Context, job *entity.Job) error
	UpdateOwned(ctx context.Context, id, companyID bson.ObjectID, upd entity.JobUpdate) (*entity.Job, error)
	ToggleVisibility(ctx context.Context, id, companyID bson.ObjectID) (*entity.Job, error)
	AddApplicant(ctx context.Context, jobID bson.ObjectID, userID string) error
}

// Invalidator は求人の読み取りキャッシュを破棄します。
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// NopInvalidator はキャッシュが無効な場合に使う何もしない Invalidator です。
type NopInvalidator struct{}

// Invalidate は何もしません。
func (NopInvalidator) Invalidate(context.Context) {}

// CachingJobRepository decorates a JobRepository with Redis caching.
// Public reads (List, FindViewByID) are served read-through; every write drops the
// whole namespace so a listing never outlives the change that invalidated it.
type CachingJobRepository struct {
	inner     JobRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var (
	_ JobRepository = (*CachingJobRepository)(nil)
	_ Invalidator   = (*CachingJobRepository)(nil)
)

// NewCachingJobRepository decorates a JobRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "jobs".
func NewCachingJobRepository(rdb *redis.Client, ttl time.Duration, inner JobRepository, namespace string) *CachingJobRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "jobs"
	}
	return &CachingJobRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// List returns visible jobs matching filter, checking the cache first.
func (c *CachingJobRepository) List(ctx context.Context, filter entity.JobFilter) ([]entity.JobView, error) {
	if c.rdb == nil {
		return c.inner.List(ctx, filter)
	}

	key := c.listKey(filter)
	var out []entity.JobView
	if c.get(ctx, key, &out) {
		return out, nil
	}

	out, err := c.inner.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, out)
	return out, nil
}

// FindViewByID returns one job with its company summary, checking the cache first.
// Not-found results are not cached.
func (c *CachingJobRepository) FindViewByID(ctx context.Context, id bson.ObjectID) (*entity.JobView, error) {
	if c.rdb == nil {
		return c.inner.FindViewByID(ctx, id)
	}

	key := c.viewKey(id)
	var cached entity.JobView
	if c.get(ctx, key, &cached) {
		return &cached, nil
	}

	view, err := c.inner.FindViewByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, view)
	return view, nil
}

// FindByID is not cached; callers use it right before writing.
func (c *CachingJobRepository) FindByID(ctx context.Context, id bson.ObjectID) (*entity.Job, error) {
	return c.inner.FindByID(ctx, id)
}

// ListByCompany is not cached; the company dashboard must reflect its own writes.
func (c *CachingJobRepository) ListByCompany(ctx context.Context, companyID bson.ObjectID) ([]entity.Job, error) {
	return c.inner.ListByCompany(ctx, companyID)
}

// Create inserts a job and invalidates cached listings.
func (c *CachingJobRepository) Create(ctx context.Context, job *entity.Job) error {
	if err := c.inner.Create(ctx, job); err != nil {
		return err
	}
	c.Invalidate(ctx)
	return nil
}

// UpdateOwned updates a job and invalidates cached entries.
func (c *CachingJobRepository) UpdateOwned(ctx context.Context, id, companyID bson.ObjectID, upd entity.JobUpdate) (*entity.Job, error) {
	job, err := c.inner.UpdateOwned(ctx, id, companyID, upd)
	if err != nil {
		return nil, err
	}
	c.Invalidate(ctx)
	return job, nil
}

// ToggleVisibility flips a job's visibility and invalidates cached entries.
func (c *CachingJobRepository) ToggleVisibility(ctx context.Context, id, companyID bson.ObjectID) (*entity.Job, error) {
	job, err := c.inner.ToggleVisibility(ctx, id, companyID)
	if err != nil {
		return nil, err
	}
	c.Invalidate(ctx)
	return job, nil
}

// AddApplicant records an applicant and invalidates cached entries.
func (c *CachingJobRepository) AddApplicant(ctx context.Context, jobID bson.ObjectID, userID string) error {
	if err := c.inner.AddApplicant(ctx, jobID, userID); err != nil {
		return err
	}
	c.Invalidate(ctx)
	return nil
}

// get decodes the entry at key into dst. A corrupted entry is deleted.
func (c *CachingJobRepository) get(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// set stores v at key (best effort).
func (c *CachingJobRepository) set(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		slog.Warn("job cache write failed", "key", key, "error", err)
	}
}

// Invalidate は名前空間内のキャッシュをすべて削除します（ベストエフォート）。
// 求人一覧に埋め込まれる企業名・ロゴが変わったときにも呼び出します。
func (c *CachingJobRepository) Invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := c.deleteByPattern(ctx, c.namespace+":*"); err != nil {
		slog.Warn("job cache invalidation failed", "namespace", c.namespace, "error", err)
	}
}

// listKey generates a cache key for a listing query.
func (c *CachingJobRepository) listKey(f entity.JobFilter) string {
	return fmt.Sprintf("%s:list:%s:%s:%s:%s",
		c.namespace,
		safe(f.Category),
		safe(f.Level),
		safe(f.Location),
		safe(f.Search),
	)
}

// viewKey generates a cache key for a single job.
func (c *CachingJobRepository) viewKey(id bson.ObjectID) string {
	return fmt.Sprintf("%s:view:%s", c.namespace, id.Hex())
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingJobRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
// Values are percent-escaped so distinct filters never collide on the ':' separator.
func safe(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, " ", "%20")
	s = strings.ReplaceAll(s, ":", "%3A")
	return s
}
