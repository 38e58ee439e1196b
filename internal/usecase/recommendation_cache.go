package usecase

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	recommendationsKeyPrefix     = "recommendations:user:"
	recommendationsGenerationKey = "recommendations:generation"
)

// RecommendationCache stores computed recommendation lists. Entries are keyed
// by a generation counter that every skill post or profile write advances, so
// a list computed before a write is never read after it.
type RecommendationCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPattern(ctx context.Context, pattern string) error
	GetInt64(ctx context.Context, key string) (int64, error)
	Incr(ctx context.Context, key string) (int64, error)
}

func RecommendationsCacheKey(userID uuid.UUID, generation int64) string {
	return recommendationsKeyPrefix + userID.String() + ":g" + strconv.FormatInt(generation, 10)
}

func RecommendationsCachePattern() string {
	return recommendationsKeyPrefix + "*"
}

func recommendationsGeneration(ctx context.Context, cache RecommendationCache) (int64, error) {
	return cache.GetInt64(ctx, recommendationsGenerationKey)
}

// InvalidateRecommendations advances the generation, then drops the entries
// of older generations.
func InvalidateRecommendations(ctx context.Context, cache RecommendationCache, logger *log.Logger) {
	if cache == nil {
		return
	}
	if _, err := cache.Incr(ctx, recommendationsGenerationKey); err != nil && logger != nil {
		logger.Printf("[Cache] advance recommendations generation failed: %v", err)
	}
	if err := cache.DeleteByPattern(ctx, RecommendationsCachePattern()); err != nil && logger != nil {
		logger.Printf("[Cache] invalidate recommendations failed: %v", err)
	}
}
