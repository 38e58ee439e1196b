package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"skill-swap/internal/domain/matching"
	"skill-swap/internal/domain/skillpost"
	"skill-swap/internal/domain/user"
	"skill-swap/internal/repository"

	"github.com/google/uuid"
)

type mockUserRepo struct {
	mu sync.Mutex

	users      map[uuid.UUID]user.User
	summaryErr error
	updateErr  error
	createErr  error
	publicErr  error

	lastSearch string
}

func newMockUserRepo(users ...user.User) *mockUserRepo {
	m := &mockUserRepo{users: map[uuid.UUID]user.User{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserRepo) CreateUser(_ context.Context, u user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return user.ErrEmailTaken
		}
	}
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetUserByEmail(ctx, email)
	return err == nil, nil
}

func (m *mockUserRepo) UpdateUser(_ context.Context, u user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.users[u.ID]; !ok {
		return user.ErrNotFound
	}
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetProfileSummary(ctx context.Context, id uuid.UUID) (user.ProfileSummary, error) {
	if m.summaryErr != nil {
		return user.ProfileSummary{}, m.summaryErr
	}
	u, err := m.GetUserByID(ctx, id)
	if err != nil {
		return user.ProfileSummary{}, err
	}
	return u.Summary(), nil
}

func (m *mockUserRepo) ListPublicUsers(_ context.Context, excludeID uuid.UUID, search string, _ int) ([]user.PublicUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastSearch = search
	if m.publicErr != nil {
		return nil, m.publicErr
	}
	out := make([]user.PublicUser, 0)
	for _, u := range m.users {
		if u.ID == excludeID || !u.IsPublic || u.IsBanned {
			continue
		}
		out = append(out, user.PublicUser{ID: u.ID, Name: u.Name, Location: u.Location, Availability: u.Availability})
	}
	return out, nil
}

type mockSkillPostRepo struct {
	mu sync.Mutex

	posts   []repository.SkillPostWithOwner
	exact   map[uuid.UUID][]matching.Candidate
	similar map[uuid.UUID][]matching.Candidate

	createErr    error
	listErr      error
	candidateErr error

	lastFilter     repository.SkillPostFilter
	candidateCalls int

	// beforeExact runs outside the lock, letting a test pause a request
	// mid-computation.
	beforeExact func()
}

func (m *mockSkillPostRepo) Create(_ context.Context, p skillpost.SkillPost) (repository.SkillPostWithOwner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return repository.SkillPostWithOwner{}, m.createErr
	}
	p.CreatedAt = time.Now().UTC()
	row := repository.SkillPostWithOwner{Post: p, Owner: user.ProfileSummary{UserID: p.UserID}}
	m.posts = append(m.posts, row)
	return row, nil
}

func (m *mockSkillPostRepo) FindByID(_ context.Context, id uuid.UUID) (repository.SkillPostWithOwner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.Post.ID == id {
			return p, nil
		}
	}
	return repository.SkillPostWithOwner{}, repository.ErrSkillPostNotFound
}

func (m *mockSkillPostRepo) List(_ context.Context, f repository.SkillPostFilter) ([]repository.SkillPostWithOwner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFilter = f
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]repository.SkillPostWithOwner, 0, len(m.posts))
	for _, p := range m.posts {
		if f.PostType != "" && p.Post.PostType != f.PostType {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *mockSkillPostRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]skillpost.SkillPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]skillpost.SkillPost, 0)
	for _, p := range m.posts {
		if p.Post.UserID == userID {
			out = append(out, p.Post)
		}
	}
	return out, nil
}

func (m *mockSkillPostRepo) Delete(_ context.Context, id uuid.UUID, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.posts {
		if p.Post.ID != id {
			continue
		}
		if p.Post.UserID != userID {
			return repository.ErrSkillPostForbidden
		}
		m.posts = append(m.posts[:i], m.posts[i+1:]...)
		return nil
	}
	return repository.ErrSkillPostNotFound
}

func (m *mockSkillPostRepo) FindExactCandidates(_ context.Context, source skillpost.SkillPost) ([]matching.Candidate, error) {
	if m.beforeExact != nil {
		m.beforeExact()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.candidateCalls++
	if m.candidateErr != nil {
		return nil, m.candidateErr
	}
	return m.exact[source.ID], nil
}

func (m *mockSkillPostRepo) FindSimilarCandidates(_ context.Context, source skillpost.SkillPost) ([]matching.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.candidateCalls++
	if m.candidateErr != nil {
		return nil, m.candidateErr
	}
	return m.similar[source.ID], nil
}

type mockCache struct {
	mu sync.Mutex

	data            map[string][]byte
	counters        map[string]int64
	deletedPatterns []string
	sets            int
}

func newMockCache() *mockCache {
	return &mockCache{data: map[string][]byte{}, counters: map[string]int64{}}
}

func (c *mockCache) GetInt64(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counters[key], nil
}

func (c *mockCache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[key]++
	return c.counters[key], nil
}

func (c *mockCache) generation() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counters[recommendationsGenerationKey]
}

func (c *mockCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *mockCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	c.sets++
	return nil
}

func (c *mockCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *mockCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletedPatterns = append(c.deletedPatterns, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

type mockNotifier struct {
	mu     sync.Mutex
	events []SkillPostEvent
}

func (n *mockNotifier) NotifySkillPost(evt SkillPostEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, evt)
}
