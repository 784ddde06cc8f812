package app

import (
	"fmt"
	"log"
	"strings"

	"skill-gap/internal/config"
	"skill-gap/internal/delivery/http/middleware"
	"skill-gap/internal/delivery/http/routes"
	"skill-gap/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber *fiber.App
	Hub   *ws.Hub
}

func New(container *Container, logger *log.Logger) *App {
	if logger == nil {
		logger = log.Default()
	}

	f := fiber.New(fiber.Config{
		AppName: container.Config.App.AppName,
	})

	registerGlobalMiddleware(f, logger)

	hub := ws.NewHub(logger)
	ws.SetDefaultHub(hub)

	registry := routes.NewRegistry(container.Config, container.DB, container.Results, hub, logger)
	registry.Register(f)

	return &App{Fiber: f, Hub: hub}
}

// Bootstrap builds the container and the wired application. The returned
// cleanup closes the database pool and the cache client.
func Bootstrap(cfg config.Config, logger *log.Logger) (*App, func() error, error) {
	container, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	application := New(container, logger)
	go application.Hub.Run()

	return application, container.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *log.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewErrorMiddleware().Middleware())
	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
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
