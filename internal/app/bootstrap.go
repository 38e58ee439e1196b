package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"skill-swap/internal/config"
	"skill-swap/internal/delivery/http/middleware"
	"skill-swap/internal/delivery/http/routes"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{
		AppName:      c.Config.App.AppName,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})

	registerGlobalMiddleware(f, c)
	routes.NewRegistry(c.Config, c.DB, c.Cache, c.Hub, c.Logger).Register(f)

	return &App{Fiber: f, Container: c}
}

// Bootstrap connects dependencies, migrates, optionally seeds and starts the
// websocket hub. The returned cleanup stops the hub and releases connections.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := c.Migrate(ctx); err != nil {
		_ = c.Close()
		return nil, nil, err
	}
	if cfg.Database.RunSeeders {
		if err := c.Seed(ctx); err != nil {
			_ = c.Close()
			return nil, nil, err
		}
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	go c.Hub.Run(hubCtx)

	cleanup := func() error {
		stopHub()
		return c.Close()
	}
	return New(c), cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(c.Logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(c.Logger).Middleware())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
