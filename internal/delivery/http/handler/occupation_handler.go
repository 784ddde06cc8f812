package handler

import (
	"errors"

	"skill-gap/internal/delivery/http/dto"
	"skill-gap/internal/delivery/http/middleware"
	"skill-gap/internal/domain/occupation"
	"skill-gap/internal/pkg/response"
	"skill-gap/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type OccupationHandler struct {
	resolver usecase.ProfileResolver
}

func NewOccupationHandler(resolver usecase.ProfileResolver) *OccupationHandler {
	return &OccupationHandler{resolver: resolver}
}

func (h *OccupationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/:code/profile", h.GetProfile)
}

func (h *OccupationHandler) GetProfile(c fiber.Ctx) error {
	code, err := occupation.NormalizeCode(c.Params("code"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	}

	profile, err := h.resolver.Resolve(c.Context(), code)
	if err != nil {
		return mapPipelineError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, profileResponse(profile))
}

func profileResponse(p occupation.Profile) dto.ProfileResponse {
	out := dto.ProfileResponse{
		Code:        p.Code,
		Title:       p.Title,
		Description: p.Description,
		Source:      string(p.Source),
		Skills:      make([]dto.SkillResponse, 0, len(p.Skills)),
	}
	for _, s := range p.Skills {
		out.Skills = append(out.Skills, dto.SkillResponse{
			SkillID:   s.SkillID,
			SkillName: s.SkillName,
			Level:     s.Level,
		})
	}
	return out
}

// mapPipelineError translates the pipeline failure taxonomy to transport
// statuses. Upstream failures surface as 502 so callers can tell a broken
// dependency from a broken service.
func mapPipelineError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidIdentifier), errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrService), errors.Is(err, usecase.ErrParse), errors.Is(err, usecase.ErrSchemaMismatch):
		return middleware.NewAppError(fiber.StatusBadGateway, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrConfiguration):
		return middleware.NewAppError(fiber.StatusInternalServerError, err.Error(), nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
