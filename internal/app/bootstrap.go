package app

import (
	"fmt"
	"strings"

	"skillpath/internal/config"
	"skillpath/internal/delivery/http/handler"
	"skillpath/internal/delivery/http/middleware"
	"skillpath/internal/delivery/http/routes"
	v1 "skillpath/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber *fiber.App
}

func Bootstrap(cfg config.Config) (*App, func() error, error) {
	container, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}

	f := fiber.New(fiber.Config{
		AppName: cfg.App.AppName,
	})

	f.Use(middleware.NewErrorMiddleware(container.Logger).Middleware())
	f.Use(middleware.NewAccessLogMiddleware(container.Logger).Middleware())

	health := handler.NewHealthHandler(container.DB, container.Cache)
	registry := routes.NewRegistry(health, v1.Deps{
		DB:        container.DB,
		Cache:     container.Cache,
		Completer: container.LLM,
		CacheTTL:  cfg.Redis.TTL,
		Logger:    container.Logger,
	})
	registry.Register(f)

	return &App{Fiber: f}, container.Close, nil
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
