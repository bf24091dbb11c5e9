package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"card-classifier-api/internal/models"
	"card-classifier-api/internal/repositories"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type countingRepository struct {
	lookup *models.InstitutionLookup
	err    error
	calls  int
}

func (r *countingRepository) Lookup(ctx context.Context, sourceSystem int) (*models.InstitutionLookup, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.lookup.Clone(), nil
}

// unreachableClient points at a port nothing listens on
func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:         "127.0.0.1:1",
		DialTimeout:  50 * time.Millisecond,
		ReadTimeout:  50 * time.Millisecond,
		WriteTimeout: 50 * time.Millisecond,
		MaxRetries:   -1,
	})
	t.Cleanup(func() { client.Close() })
	return client
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func TestCachedInstitutionRepository_FallsThroughWhenRedisIsDown(t *testing.T) {
	next := &countingRepository{lookup: repositories.SampleLookup()}
	repo := NewCachedInstitutionRepository(next, unreachableClient(t), time.Minute, quietLogger())

	lookup, err := repo.Lookup(context.Background(), 46)
	if err != nil {
		t.Fatalf("Lookup() failed: %v", err)
	}
	if lookup.Location == nil || lookup.Location.Latitude != repositories.SampleLatitude {
		t.Errorf("Unexpected lookup: %+v", lookup)
	}
	if next.calls != 1 {
		t.Errorf("Expected 1 call to the wrapped repository, got %d", next.calls)
	}
}

func TestCachedInstitutionRepository_PropagatesRepositoryErrors(t *testing.T) {
	next := &countingRepository{err: repositories.QueryError("lookup", "institution", "46", errors.New("boom"))}
	repo := NewCachedInstitutionRepository(next, unreachableClient(t), 0, quietLogger())

	if _, err := repo.Lookup(context.Background(), 46); !errors.Is(err, repositories.ErrQuery) {
		t.Errorf("Expected ErrQuery, got %v", err)
	}
	if repo.ttl != DefaultTTL {
		t.Errorf("Expected default TTL, got %v", repo.ttl)
	}
}

func TestCachedInstitutionRepository_Invalidate(t *testing.T) {
	repo := NewCachedInstitutionRepository(&countingRepository{}, unreachableClient(t), time.Minute, quietLogger())

	if err := repo.Invalidate(context.Background(), 46); err == nil {
		t.Error("Expected an error invalidating without Redis")
	}
}

func TestKey(t *testing.T) {
	if Key(46) != "institutions:46" {
		t.Errorf("Unexpected key: %s", Key(46))
	}
}
