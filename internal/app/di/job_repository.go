// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"

	jobadapters "jobportal_backend/internal/feature/jobs/adapters"
	"jobportal_backend/internal/platform/cache"
)

// NewJobRepository creates the job repository shared by every feature, together with
// the invalidator for its read cache.
// If Redis is available, public job reads are served through a Redis cache.
// Otherwise, it returns the MongoDB repository directly and a no-op invalidator.
func NewJobRepository(db *mongo.Database, rdb *redis.Client, ttl time.Duration) (cache.JobRepository, cache.Invalidator) {
	repo := jobadapters.NewJobMongo(db)
	if rdb != nil {
		cached := cache.NewCachingJobRepository(rdb, ttl, repo, "jobs")
		return cached, cached
	}
	return repo, cache.NopInvalidator{}
}
