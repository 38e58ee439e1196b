package handler

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"

	"skill-swap/internal/delivery/http/middleware"
	"skill-swap/internal/domain/matching"
	"skill-swap/internal/domain/skillpost"
	"skill-swap/internal/domain/user"
	"skill-swap/internal/pkg/jwt"
	"skill-swap/internal/pkg/response"
	"skill-swap/internal/repository"
	"skill-swap/internal/usecase"
	ucauth "skill-swap/internal/usecase/auth"
	useruc "skill-swap/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type fakeAuthUC struct {
	registered ucauth.RegisterInput
	err        error
	refreshTok string
}

func (f *fakeAuthUC) Register(_ context.Context, in ucauth.RegisterInput) (user.User, jwt.TokenPair, error) {
	f.registered = in
	if f.err != nil {
		return user.User{}, jwt.TokenPair{}, f.err
	}
	return user.User{ID: uuid.New(), Name: in.Name, Email: in.Email, Role: user.RoleUser}, jwt.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil
}

func (f *fakeAuthUC) Login(_ context.Context, in ucauth.LoginInput) (user.User, jwt.TokenPair, error) {
	if f.err != nil {
		return user.User{}, jwt.TokenPair{}, f.err
	}
	return user.User{ID: uuid.New(), Email: in.Email}, jwt.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil
}

func (f *fakeAuthUC) Refresh(_ context.Context, tok string) (jwt.TokenPair, error) {
	f.refreshTok = tok
	if f.err != nil {
		return jwt.TokenPair{}, f.err
	}
	return jwt.TokenPair{AccessToken: "a2", RefreshToken: "r2"}, nil
}

type fakeUserUC struct {
	usr     user.User
	updated useruc.UpdateProfileInput
	search  string
	public  []user.PublicUser
	err     error
}

func (f *fakeUserUC) GetProfile(_ context.Context, _ uuid.UUID) (user.User, error) {
	return f.usr, f.err
}

func (f *fakeUserUC) UpdateProfile(_ context.Context, _ uuid.UUID, in useruc.UpdateProfileInput) (user.User, error) {
	f.updated = in
	return f.usr, f.err
}

func (f *fakeUserUC) ListPublicUsers(_ context.Context, _ uuid.UUID, search string) ([]user.PublicUser, error) {
	f.search = search
	return f.public, f.err
}

type fakeSkillPostUC struct {
	created   usecase.CreateSkillPostInput
	listed    usecase.ListSkillPostsParams
	items     []repository.SkillPostWithOwner
	mine      []skillpost.SkillPost
	deletedID uuid.UUID
	err       error
}

func (f *fakeSkillPostUC) Create(_ context.Context, userID uuid.UUID, in usecase.CreateSkillPostInput) (repository.SkillPostWithOwner, error) {
	f.created = in
	if f.err != nil {
		return repository.SkillPostWithOwner{}, f.err
	}
	pt, _ := skillpost.ParsePostType(in.PostType)
	return repository.SkillPostWithOwner{
		Post:  skillpost.SkillPost{ID: uuid.New(), UserID: userID, SkillName: in.SkillName, PostType: pt, Description: in.Description},
		Owner: user.ProfileSummary{UserID: userID, Name: "Owner"},
	}, nil
}

func (f *fakeSkillPostUC) List(_ context.Context, params usecase.ListSkillPostsParams) ([]repository.SkillPostWithOwner, error) {
	f.listed = params
	return f.items, f.err
}

func (f *fakeSkillPostUC) ListMine(_ context.Context, _ uuid.UUID) ([]skillpost.SkillPost, error) {
	return f.mine, f.err
}

func (f *fakeSkillPostUC) Delete(_ context.Context, _ uuid.UUID, postID uuid.UUID) error {
	f.deletedID = postID
	return f.err
}

type fakeRecommendationUC struct {
	recs []matching.Recommendation
	err  error
}

func (f *fakeRecommendationUC) GetRecommendations(_ context.Context, _ uuid.UUID) ([]matching.Recommendation, error) {
	return f.recs, f.err
}

// newApp mounts the error middleware and, when userID is non-nil, injects it
// the way AuthMiddleware does.
func newApp(userID uuid.UUID) *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(log.New(io.Discard, "", 0)).Middleware())
	if userID != uuid.Nil {
		app.Use(func(c fiber.Ctx) error {
			c.Locals(middleware.CtxUserIDKey, userID)
			return c.Next()
		})
	}
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string, headers map[string]string) (int, response.SemanticResponse, json.RawMessage) {
	t.Helper()

	status, payload := doRaw(t, app, method, path, body, headers)
	var raw struct {
		Status  int             `json:"status"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return status, response.SemanticResponse{Status: raw.Status, Message: raw.Message}, raw.Data
}

// doRaw returns the body as written, for endpoints that answer without the
// envelope.
func doRaw(t *testing.T, app *fiber.App, method, path, body string, headers map[string]string) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, payload
}
