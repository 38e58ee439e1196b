package v1

import (
	"log"

	"skill-swap/internal/config"
	"skill-swap/internal/database"
	"skill-swap/internal/delivery/http/handler"
	"skill-swap/internal/delivery/http/middleware"
	"skill-swap/internal/infrastructure/cache"
	"skill-swap/internal/infrastructure/persistence/postgres"
	"skill-swap/internal/pkg/jwt"
	"skill-swap/internal/repository"
	"skill-swap/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type Deps struct {
	Config   config.Config
	DB       database.DB
	Cache    *cache.Redis
	Notifier usecase.SkillPostNotifier
	Logger   *log.Logger
}

func Register(r fiber.Router, d Deps) {
	if r == nil {
		return
	}

	cfg := d.Config
	jwtSvc := jwt.NewFromConfig(cfg.JWT)
	authMw := middleware.NewAuthMiddleware(jwtSvc)
	authLimiter := middleware.NewRateLimitMiddleware(cfg.RateLimit.AuthRequestsPerSecond, cfg.RateLimit.AuthBurst)

	var recCache usecase.RecommendationCache
	if d.Cache != nil {
		recCache = d.Cache
	}

	userRepo := postgres.NewUserRepository(d.DB)
	postRepo := repository.NewPostgresSkillPostRepository(d.DB)

	authUC := usecase.NewAuthUsecase(userRepo, jwtSvc)
	userUC := usecase.NewUserUsecase(userRepo, recCache, d.Logger)
	postUC := usecase.NewSkillPostUsecase(postRepo, recCache, d.Notifier, d.Logger)
	recUC := usecase.NewRecommendationUsecase(postRepo, userRepo, recCache, d.Logger, usecase.RecommendationOptions{
		Workers:  cfg.Recommendation.Workers,
		CacheTTL: cfg.Redis.TTL,
	})

	authGroup := r.Group("/auth", authLimiter.Middleware())
	handler.NewAuthHandler(authUC).RegisterRoutes(authGroup)

	protected := r.Group("", authMw.Middleware())

	RegisterUsers(protected.Group("/users"), handler.NewUserHandler(userUC))
	RegisterSkillPosts(protected.Group("/skill-posts"), handler.NewSkillPostHandler(postUC), handler.NewRecommendationHandler(recUC))
}
