package v1

import (
	"log"

	"skill-gap/internal/config"
	"skill-gap/internal/database"
	"skill-gap/internal/delivery/http/handler"
	"skill-gap/internal/delivery/http/middleware"
	"skill-gap/internal/infrastructure/cache"
	"skill-gap/internal/infrastructure/llm"
	"skill-gap/internal/infrastructure/onet"
	"skill-gap/internal/pkg/jwt"
	"skill-gap/internal/repository"
	"skill-gap/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

func Register(r fiber.Router, cfg config.Config, db database.DB, results *cache.Redis, logger *log.Logger) {
	if r == nil {
		return
	}

	jwtSvc := jwt.NewHMACService(cfg.Auth.JWTSecret, cfg.Auth.AccessExpiresIn)
	authMw := middleware.NewAuthMiddleware(jwtSvc)

	occupationRepo := repository.NewPostgresOccupationRepository(db)
	levelRepo := repository.NewPostgresSkillLevelRepository(db)
	auditRepo := repository.NewPostgresEstimationRepository(db)

	source := onet.NewHTTPClient(cfg.Source, logger)
	generative := llm.NewHTTPClient(cfg.LLM, logger)

	resolver := usecase.NewResolver(occupationRepo, levelRepo, source, logger)

	var estimator usecase.ProficiencyEstimator
	if generative != nil {
		estimator = usecase.NewEstimator(
			generative,
			auditRepo,
			cfg.LLM.Model,
			cfg.LLM.Temperature,
			cfg.LLM.MaxTokens,
			logger,
		)
	}

	var gapCache usecase.GapCache
	if results != nil {
		gapCache = results
	}
	gapUC := usecase.NewGapService(resolver, estimator, gapCache, cfg.Cache.TTL, logger)

	authHandler := handler.NewAuthHandler(cfg.Auth.APIKey, jwtSvc, cfg.Auth.AccessExpiresIn)
	authHandler.RegisterRoutes(r.Group("/auth"))

	protected := r.Group("", authMw.Middleware())

	handler.NewOccupationHandler(resolver).RegisterRoutes(protected.Group("/occupations"))
	handler.NewGapHandler(gapUC).RegisterRoutes(protected.Group("/gaps"))
}
