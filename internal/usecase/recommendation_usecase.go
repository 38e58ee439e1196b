package usecase

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"skill-swap/internal/domain/matching"
	"skill-swap/internal/domain/skillpost"
	"skill-swap/internal/domain/user"
	"skill-swap/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const defaultRecommendationWorkers = 4

type RecommendationUsecase interface {
	GetRecommendations(ctx context.Context, userID uuid.UUID) ([]matching.Recommendation, error)
}

type Recommendation struct {
	posts   repository.SkillPostRepository
	users   user.Repository
	cache   RecommendationCache
	logger  *log.Logger
	workers int
	ttl     time.Duration
}

type RecommendationOptions struct {
	Workers  int
	CacheTTL time.Duration
}

func NewRecommendationUsecase(posts repository.SkillPostRepository, users user.Repository, cache RecommendationCache, logger *log.Logger, opts RecommendationOptions) *Recommendation {
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultRecommendationWorkers
	}
	return &Recommendation{posts: posts, users: users, cache: cache, logger: logger, workers: workers, ttl: opts.CacheTTL}
}

// GetRecommendations loads the caller's posts and profile, fetches the exact
// and similar candidates of every post and ranks them. Results are cached per
// user and cache generation; any post or profile write starts a new generation.
func (u *Recommendation) GetRecommendations(ctx context.Context, userID uuid.UUID) ([]matching.Recommendation, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	// The generation is read before any data is loaded; a write that lands
	// while this request computes advances it and orphans the entry below.
	key := ""
	if u.cache != nil {
		gen, err := recommendationsGeneration(ctx, u.cache)
		if err != nil {
			if u.logger != nil {
				u.logger.Printf("[Recommendations] Cache generation unavailable, bypassing: %v", err)
			}
		} else {
			key = RecommendationsCacheKey(userID, gen)
			var cached []matching.Recommendation
			hit, err := u.cache.GetJSON(ctx, key, &cached)
			if err == nil && hit {
				if u.logger != nil {
					u.logger.Printf("[Recommendations] Cache HIT: %s", key)
				}
				return cached, nil
			}
			if u.logger != nil {
				u.logger.Printf("[Recommendations] Cache MISS: %s", key)
			}
		}
	}

	var myPosts []skillpost.SkillPost
	var myProfile user.ProfileSummary

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		myPosts, err = u.posts.FindByUserID(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		myProfile, err = u.users.GetProfileSummary(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		if u.logger != nil {
			u.logger.Printf("Recommendations load failed | user_id=%s error=%v", userID, err)
		}
		return nil, ErrInternal
	}

	candidates, err := u.fetchCandidates(ctx, myPosts)
	if err != nil {
		if u.logger != nil {
			u.logger.Printf("Recommendations candidates failed | user_id=%s error=%v", userID, err)
		}
		return nil, ErrInternal
	}

	out := matching.Compute(myPosts, myProfile, candidates)

	if key != "" {
		if err := u.cache.SetJSON(ctx, key, out, u.ttl); err != nil && u.logger != nil {
			u.logger.Printf("[Recommendations] Cache SET failed: %s err=%v", key, err)
		}
	}
	return out, nil
}

// fetchCandidates runs the exact and similar lookups for every post with at
// most u.workers queries in flight.
func (u *Recommendation) fetchCandidates(ctx context.Context, myPosts []skillpost.SkillPost) (map[uuid.UUID]matching.CandidateSet, error) {
	out := make(map[uuid.UUID]matching.CandidateSet, len(myPosts))
	if len(myPosts) == 0 {
		return out, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.workers)

	for _, p := range myPosts {
		g.Go(func() error {
			exact, err := u.posts.FindExactCandidates(gctx, p)
			if err != nil {
				return err
			}
			mu.Lock()
			set := out[p.ID]
			set.Exact = exact
			out[p.ID] = set
			mu.Unlock()
			return nil
		})
		g.Go(func() error {
			similar, err := u.posts.FindSimilarCandidates(gctx, p)
			if err != nil {
				return err
			}
			mu.Lock()
			set := out[p.ID]
			set.Similar = similar
			out[p.ID] = set
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
