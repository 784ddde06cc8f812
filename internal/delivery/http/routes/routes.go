package routes

import (
	"log"

	"skill-gap/internal/config"
	"skill-gap/internal/database"
	"skill-gap/internal/delivery/http/handler"
	v1 "skill-gap/internal/delivery/http/routes/v1"
	"skill-gap/internal/infrastructure/cache"
	"skill-gap/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	cfg     config.Config
	db      database.DB
	results *cache.Redis
	hub     *ws.Hub
	logger  *log.Logger
}

func NewRegistry(cfg config.Config, db database.DB, results *cache.Redis, hub *ws.Hub, logger *log.Logger) *Registry {
	return &Registry{cfg: cfg, db: db, results: results, hub: hub, logger: logger}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)
	r.registerWS(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	handler.NewHealthHandler(r.db, r.results).RegisterRoutes(app)
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	v1.Register(api.Group("/v1"), r.cfg, r.db, r.results, r.logger)
}

func (r *Registry) registerWS(app *fiber.App) {
	if r.hub == nil {
		return
	}
	wsHandler := ws.NewHandler(r.hub, r.logger)
	app.Get("/ws/events", wsHandler.HandleEventsWS)
}
