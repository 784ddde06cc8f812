package handler

import (
	"skill-gap/internal/delivery/http/dto"
	"skill-gap/internal/delivery/http/middleware"
	"skill-gap/internal/domain/occupation"
	"skill-gap/internal/pkg/response"
	"skill-gap/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type GapHandler struct {
	uc usecase.GapUsecase
}

func NewGapHandler(uc usecase.GapUsecase) *GapHandler {
	return &GapHandler{uc: uc}
}

func (h *GapHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("", h.Analyze)
}

func (h *GapHandler) Analyze(c fiber.Ctx) error {
	if c.Query("from") == "" || c.Query("to") == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "from and to occupation codes are required", nil, nil)
	}

	from, err := occupation.NormalizeCode(c.Query("from"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	}
	to, err := occupation.NormalizeCode(c.Query("to"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	}
	mode := c.Query("mode")

	res, err := h.uc.Analyze(c.Context(), from, to, mode)
	if err != nil {
		return mapPipelineError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, gapResponse(res))
}

func gapResponse(res usecase.GapResult) dto.GapAnalysisResponse {
	out := dto.GapAnalysisResponse{
		From:           dto.OccupationRefResponse{Code: res.From.Code, Title: res.From.Title},
		To:             dto.OccupationRefResponse{Code: res.To.Code, Title: res.To.Title},
		Mode:           res.Mode,
		GeneratedByLLM: res.GeneratedByLLM,
		Gaps:           make([]dto.GapItemResponse, 0, len(res.Gaps)),
	}
	for _, g := range res.Gaps {
		out.Gaps = append(out.Gaps, dto.GapItemResponse{
			SkillID:     g.SkillID,
			SkillName:   g.SkillName,
			FromLevel:   g.FromLevel,
			ToLevel:     g.ToLevel,
			Description: g.Description,
		})
	}
	return out
}
