package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"skill-swap/internal/domain/matching"
	"skill-swap/internal/domain/skillpost"
	"skill-swap/internal/domain/user"
	"skill-swap/internal/repository"
	ucuser "skill-swap/internal/usecase/user"

	"github.com/google/uuid"
)

func strPtr(s string) *string { return &s }

type recommendationFixture struct {
	me      user.User
	myPost  skillpost.SkillPost
	exactA  matching.Candidate
	similar matching.Candidate
	users   *mockUserRepo
	posts   *mockSkillPostRepo
}

func newRecommendationFixture() recommendationFixture {
	me := user.User{ID: uuid.New(), Name: "Me", Location: strPtr("NYC"), Availability: []string{"Weekends"}}
	myPost := skillpost.SkillPost{ID: uuid.New(), UserID: me.ID, SkillName: "Python", PostType: skillpost.PostTypeOffering}

	exactA := matching.Candidate{
		Post: skillpost.SkillPost{
			ID: uuid.New(), UserID: uuid.New(), SkillName: "python",
			Description: strPtr("Need help with Flask basics please"), PostType: skillpost.PostTypeSeeking,
		},
		Owner: user.ProfileSummary{Location: "NYC", Availability: []string{"Weekends", "Evenings"}},
	}
	similar := matching.Candidate{
		Post: skillpost.SkillPost{
			ID: uuid.New(), UserID: uuid.New(), SkillName: "Python Django",
			Description: strPtr(""), PostType: skillpost.PostTypeSeeking,
		},
		Owner: user.ProfileSummary{Location: "LA", Availability: []string{"Mornings"}},
	}

	return recommendationFixture{
		me:      me,
		myPost:  myPost,
		exactA:  exactA,
		similar: similar,
		users:   newMockUserRepo(me),
		posts: &mockSkillPostRepo{
			posts:   []repository.SkillPostWithOwner{{Post: myPost, Owner: me.Summary()}},
			exact:   map[uuid.UUID][]matching.Candidate{myPost.ID: {exactA}},
			similar: map[uuid.UUID][]matching.Candidate{myPost.ID: {similar}},
		},
	}
}

func TestRecommendation_RanksCandidates(t *testing.T) {
	f := newRecommendationFixture()
	uc := NewRecommendationUsecase(f.posts, f.users, nil, nil, RecommendationOptions{Workers: 2})

	recs, err := uc.GetRecommendations(context.Background(), f.me.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(recs))
	}
	r := recs[0]
	if r.MySkill.ID != f.myPost.ID || r.TotalMatches != 2 || len(r.Matches) != 2 {
		t.Fatalf("unexpected recommendation: %+v", r)
	}
	if r.Matches[0].Post.ID != f.exactA.Post.ID || r.Matches[0].Score != 145 {
		t.Fatalf("expected A first with 145, got %+v", r.Matches[0])
	}
	if r.Matches[1].Score != 50 {
		t.Fatalf("expected B with 50, got %d", r.Matches[1].Score)
	}
}

func TestRecommendation_NoPosts(t *testing.T) {
	f := newRecommendationFixture()
	f.posts.posts = nil
	uc := NewRecommendationUsecase(f.posts, f.users, nil, nil, RecommendationOptions{})

	recs, err := uc.GetRecommendations(context.Background(), f.me.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if recs == nil || len(recs) != 0 {
		t.Fatalf("expected empty non-nil list, got %v", recs)
	}
	if f.posts.candidateCalls != 0 {
		t.Fatalf("expected no candidate lookups, got %d", f.posts.candidateCalls)
	}
}

func TestRecommendation_UnknownUser(t *testing.T) {
	f := newRecommendationFixture()
	uc := NewRecommendationUsecase(f.posts, f.users, nil, nil, RecommendationOptions{})

	_, err := uc.GetRecommendations(context.Background(), uuid.New())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := uc.GetRecommendations(context.Background(), uuid.Nil); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for nil id, got %v", err)
	}
}

func TestRecommendation_CandidateErrorIsInternal(t *testing.T) {
	f := newRecommendationFixture()
	f.posts.candidateErr = errors.New("db down")
	uc := NewRecommendationUsecase(f.posts, f.users, nil, nil, RecommendationOptions{Workers: 1})

	if _, err := uc.GetRecommendations(context.Background(), f.me.ID); !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

func TestRecommendation_CachesResult(t *testing.T) {
	f := newRecommendationFixture()
	cache := newMockCache()
	uc := NewRecommendationUsecase(f.posts, f.users, cache, nil, RecommendationOptions{})

	first, err := uc.GetRecommendations(context.Background(), f.me.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	calls := f.posts.candidateCalls
	if cache.sets != 1 {
		t.Fatalf("expected one cache write, got %d", cache.sets)
	}

	second, err := uc.GetRecommendations(context.Background(), f.me.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if f.posts.candidateCalls != calls {
		t.Fatalf("expected cache hit to skip candidate lookups")
	}
	if len(second) != 1 || second[0].Matches[0].Score != first[0].Matches[0].Score || second[0].TotalMatches != first[0].TotalMatches {
		t.Fatalf("cached result differs: %+v vs %+v", second, first)
	}
	if _, ok := cache.data[RecommendationsCacheKey(f.me.ID, 0)]; !ok {
		t.Fatalf("expected entry under per-user key")
	}
}

func TestRecommendation_ProfileUpdateDuringComputeIsNotServedStale(t *testing.T) {
	f := newRecommendationFixture()
	cache := newMockCache()
	recUC := NewRecommendationUsecase(f.posts, f.users, cache, nil, RecommendationOptions{Workers: 1})
	userUC := NewUserUsecase(f.users, cache, nil)

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	f.posts.beforeExact = func() {
		once.Do(func() {
			close(entered)
			<-release
		})
	}

	type result struct {
		recs []matching.Recommendation
		err  error
	}
	done := make(chan result, 1)
	go func() {
		recs, err := recUC.GetRecommendations(context.Background(), f.me.ID)
		done <- result{recs, err}
	}()

	<-entered
	if _, err := userUC.UpdateProfile(context.Background(), f.me.ID, ucuser.UpdateProfileInput{Location: strPtr("LA")}); err != nil {
		t.Fatalf("update profile: %v", err)
	}
	close(release)

	inFlight := <-done
	if inFlight.err != nil {
		t.Fatalf("in-flight request: %v", inFlight.err)
	}
	if got := inFlight.recs[0].Matches[0].Score; got != 145 {
		t.Fatalf("in-flight request should score the profile it loaded, got %d", got)
	}

	recs, err := recUC.GetRecommendations(context.Background(), f.me.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	// NYC bonus is gone once the caller moved to LA.
	if got := recs[0].Matches[0].Score; got != 115 {
		t.Fatalf("expected recomputed score 115 after profile update, got %d", got)
	}
	if cache.generation() != 1 {
		t.Fatalf("expected generation advanced once, got %d", cache.generation())
	}
}

func TestRecommendation_EntriesOfOlderGenerationsAreIgnored(t *testing.T) {
	f := newRecommendationFixture()
	cache := newMockCache()
	uc := NewRecommendationUsecase(f.posts, f.users, cache, nil, RecommendationOptions{})

	if _, err := uc.GetRecommendations(context.Background(), f.me.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	calls := f.posts.candidateCalls

	// A write that bumps the generation but whose pattern delete was lost.
	if _, err := cache.Incr(context.Background(), recommendationsGenerationKey); err != nil {
		t.Fatalf("incr: %v", err)
	}

	if _, err := uc.GetRecommendations(context.Background(), f.me.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if f.posts.candidateCalls == calls {
		t.Fatalf("expected recompute after generation change")
	}
	if _, ok := cache.data[RecommendationsCacheKey(f.me.ID, 1)]; !ok {
		t.Fatalf("expected entry under the new generation")
	}
}

func TestRecommendation_ManyPostsBoundedWorkers(t *testing.T) {
	f := newRecommendationFixture()
	for i := 0; i < 10; i++ {
		p := skillpost.SkillPost{ID: uuid.New(), UserID: f.me.ID, SkillName: "Skill", PostType: skillpost.PostTypeSeeking}
		f.posts.posts = append(f.posts.posts, repository.SkillPostWithOwner{Post: p})
	}
	uc := NewRecommendationUsecase(f.posts, f.users, nil, nil, RecommendationOptions{Workers: 3})

	recs, err := uc.GetRecommendations(context.Background(), f.me.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(recs) != 11 {
		t.Fatalf("expected 11 recommendations, got %d", len(recs))
	}
	if f.posts.candidateCalls != 22 {
		t.Fatalf("expected 2 lookups per post, got %d", f.posts.candidateCalls)
	}
	for i, r := range recs[1:] {
		if r.TotalMatches != 0 || r.Matches == nil {
			t.Fatalf("post %d: expected empty matches, got %+v", i, r)
		}
	}
}
