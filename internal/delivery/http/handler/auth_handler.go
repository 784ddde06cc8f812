package handler

import (
	"crypto/subtle"
	"time"

	"skill-gap/internal/delivery/http/dto"
	"skill-gap/internal/delivery/http/middleware"
	"skill-gap/internal/pkg/jwt"
	"skill-gap/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type AuthHandler struct {
	apiKey    string
	jwt       jwt.Service
	expiresIn time.Duration
}

type tokenRequest struct {
	APIKey string `json:"api_key"`
}

func NewAuthHandler(apiKey string, jwtSvc jwt.Service, expiresIn time.Duration) *AuthHandler {
	if expiresIn <= 0 {
		expiresIn = time.Hour
	}
	return &AuthHandler{apiKey: apiKey, jwt: jwtSvc, expiresIn: expiresIn}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/token", h.Token)
}

// Token exchanges the static API key for a short-lived bearer token.
func (h *AuthHandler) Token(c fiber.Ctx) error {
	var req tokenRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if subtle.ConstantTimeCompare([]byte(req.APIKey), []byte(h.apiKey)) != 1 {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid API key", nil, nil)
	}

	token, err := h.jwt.GenerateAccessToken("api")
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, "Token generation failed", nil, err)
	}

	out := dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.expiresIn.Seconds()),
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}
