package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"card-classifier-api/internal/models"
	"card-classifier-api/internal/repositories"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// DefaultTTL is used when no TTL is configured
const DefaultTTL = 5 * time.Minute

const keyPrefix = "institutions:"

// CachedInstitutionRepository is a read-through Redis cache in front of another
// InstitutionRepository. Redis failures are logged and the lookup falls
// through to the wrapped repository.
type CachedInstitutionRepository struct {
	next   repositories.InstitutionRepository
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// NewCachedInstitutionRepository wraps next with a Redis cache
func NewCachedInstitutionRepository(next repositories.InstitutionRepository, client *redis.Client, ttl time.Duration, logger *logrus.Logger) *CachedInstitutionRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &CachedInstitutionRepository{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Key returns the cache key for a source system
func Key(sourceSystem int) string {
	return fmt.Sprintf("%s%d", keyPrefix, sourceSystem)
}

// Lookup implements repositories.InstitutionRepository
func (r *CachedInstitutionRepository) Lookup(ctx context.Context, sourceSystem int) (*models.InstitutionLookup, error) {
	key := Key(sourceSystem)
	log := r.logger.WithField("key", key)

	data, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var lookup models.InstitutionLookup
		if err := json.Unmarshal(data, &lookup); err == nil {
			log.Debug("Institution cache hit")
			return &lookup, nil
		}
		log.WithError(err).Warn("Discarding undecodable cache entry")
	case errors.Is(err, redis.Nil):
		log.Debug("Institution cache miss")
	default:
		log.WithError(err).Warn("Institution cache unavailable")
	}

	lookup, err := r.next.Lookup(ctx, sourceSystem)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(lookup); err == nil {
		if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
			log.WithError(err).Warn("Failed to cache institution lookup")
		}
	}

	return lookup, nil
}

// Invalidate removes the cached lookup for a source system
func (r *CachedInstitutionRepository) Invalidate(ctx context.Context, sourceSystem int) error {
	if err := r.client.Del(ctx, Key(sourceSystem)).Err(); err != nil {
		return repositories.NewRepositoryError("invalidate", "institution_cache", Key(sourceSystem), err)
	}
	return nil
}
