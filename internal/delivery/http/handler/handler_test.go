package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"skill-gap/internal/delivery/http/middleware"
	"skill-gap/internal/domain/gap"
	"skill-gap/internal/domain/occupation"
	"skill-gap/internal/pkg/jwt"
	"skill-gap/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type semanticResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type stubResolver struct {
	profile occupation.Profile
	err     error
	codes   []string
}

func (s *stubResolver) Resolve(_ context.Context, code string) (occupation.Profile, error) {
	s.codes = append(s.codes, code)
	if s.err != nil {
		return occupation.Profile{}, s.err
	}
	return s.profile, nil
}

type stubGapUsecase struct {
	result usecase.GapResult
	err    error
}

func (s *stubGapUsecase) Analyze(_ context.Context, _, _, _ string) (usecase.GapResult, error) {
	if s.err != nil {
		return usecase.GapResult{}, s.err
	}
	return s.result, nil
}

func newTestApp(resolver usecase.ProfileResolver, gapUC usecase.GapUsecase) *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware().Middleware())

	if resolver != nil {
		NewOccupationHandler(resolver).RegisterRoutes(app.Group("/occupations"))
	}
	if gapUC != nil {
		NewGapHandler(gapUC).RegisterRoutes(app.Group("/gaps"))
	}
	return app
}

func decodeResponse(t *testing.T, body io.Reader) semanticResponse {
	t.Helper()
	var out semanticResponse
	if err := json.NewDecoder(body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestGetProfile_OK(t *testing.T) {
	lvl := 4
	resolver := &stubResolver{profile: occupation.Profile{
		Code:   "15-1252.00",
		Title:  "Software Developers",
		Source: occupation.SourceStore,
		Skills: []gap.SkillRequirement{
			{SkillID: "2.A.1.a", SkillName: "Reading Comprehension", Level: &lvl},
		},
	}}
	app := newTestApp(resolver, nil)

	req := httptest.NewRequest("GET", "/occupations/15-1252.00/profile", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	out := decodeResponse(t, resp.Body)
	var profile struct {
		Code   string `json:"code"`
		Source string `json:"source"`
		Skills []struct {
			SkillName string `json:"skill_name"`
			Level     *int   `json:"level"`
		} `json:"skills"`
	}
	if err := json.Unmarshal(out.Data, &profile); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if profile.Code != "15-1252.00" || profile.Source != "store" {
		t.Errorf("unexpected profile %+v", profile)
	}
	if len(profile.Skills) != 1 || profile.Skills[0].Level == nil || *profile.Skills[0].Level != 4 {
		t.Errorf("unexpected skills %+v", profile.Skills)
	}
}

func TestGetProfile_NormalizesLooseCode(t *testing.T) {
	resolver := &stubResolver{profile: occupation.Profile{Code: "01-1011.00"}}
	app := newTestApp(resolver, nil)

	req := httptest.NewRequest("GET", "/occupations/1-1011/profile", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(resolver.codes) != 1 || resolver.codes[0] != "01-1011.00" {
		t.Errorf("resolver got %v, want canonical code", resolver.codes)
	}
}

func TestGetProfile_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", fmt.Errorf("%w: 99-9999.99", usecase.ErrNotFound), fiber.StatusNotFound},
		{"bad identifier", fmt.Errorf("%w: nope", usecase.ErrInvalidIdentifier), fiber.StatusBadRequest},
		{"upstream down", fmt.Errorf("%w: 503", usecase.ErrService), fiber.StatusBadGateway},
		{"unparseable reply", fmt.Errorf("%w: empty", usecase.ErrParse), fiber.StatusBadGateway},
		{"no credentials", fmt.Errorf("%w: no source", usecase.ErrConfiguration), fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(&stubResolver{err: tc.err}, nil)

			req := httptest.NewRequest("GET", "/occupations/15-1252.00/profile", nil)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			if resp.StatusCode != tc.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.status)
			}

			out := decodeResponse(t, resp.Body)
			if tc.status >= 500 && out.Message == "internal server error" && tc.name == "no credentials" {
				t.Error("configuration failures must keep their message")
			}
		})
	}
}

func TestGetProfile_MalformedCode(t *testing.T) {
	app := newTestApp(&stubResolver{}, nil)

	req := httptest.NewRequest("GET", "/occupations/abc/profile", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAnalyzeGaps_OK(t *testing.T) {
	gapUC := &stubGapUsecase{result: usecase.GapResult{
		From: usecase.OccupationRef{Code: "11-1011.00", Title: "Chief Executives"},
		To:   usecase.OccupationRef{Code: "15-1252.00", Title: "Software Developers"},
		Mode: usecase.ModeLeveled,
		Gaps: []gap.SkillGap{
			{SkillID: "2.B.3.e", SkillName: "Programming", FromLevel: 1, ToLevel: 6},
		},
	}}
	app := newTestApp(nil, gapUC)

	req := httptest.NewRequest("GET", "/gaps?from=11-1011.00&to=15-1252.00&mode=leveled", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	out := decodeResponse(t, resp.Body)
	var data struct {
		Mode string `json:"mode"`
		Gaps []struct {
			SkillName string `json:"skill_name"`
			FromLevel int    `json:"from_level"`
			ToLevel   int    `json:"to_level"`
		} `json:"gaps"`
	}
	if err := json.Unmarshal(out.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Mode != "leveled" || len(data.Gaps) != 1 || data.Gaps[0].ToLevel != 6 {
		t.Errorf("unexpected payload %+v", data)
	}
}

func TestAnalyzeGaps_MissingParams(t *testing.T) {
	app := newTestApp(nil, &stubGapUsecase{})

	req := httptest.NewRequest("GET", "/gaps?from=11-1011.00", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAnalyzeGaps_UnknownMode(t *testing.T) {
	app := newTestApp(nil, &stubGapUsecase{err: fmt.Errorf("%w: unknown mode", usecase.ErrInvalidInput)})

	req := httptest.NewRequest("GET", "/gaps?from=11-1011.00&to=15-1252.00&mode=fancy", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAuthToken_Exchange(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware().Middleware())

	jwtSvc := jwt.NewHMACService("secret", 15*time.Minute)
	NewAuthHandler("top-secret-key", jwtSvc, 15*time.Minute).RegisterRoutes(app.Group("/auth"))

	body := bytes.NewBufferString(`{"api_key":"top-secret-key"}`)
	req := httptest.NewRequest("POST", "/auth/token", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	out := decodeResponse(t, resp.Body)
	var data struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(out.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.AccessToken == "" || data.TokenType != "Bearer" || data.ExpiresIn != 900 {
		t.Errorf("unexpected token payload %+v", data)
	}

	claims, err := jwtSvc.ValidateToken(data.AccessToken)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.ClientID != "api" {
		t.Errorf("client id = %q", claims.ClientID)
	}
}

func TestAuthToken_WrongKey(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware().Middleware())

	jwtSvc := jwt.NewHMACService("secret", time.Minute)
	NewAuthHandler("top-secret-key", jwtSvc, time.Minute).RegisterRoutes(app.Group("/auth"))

	body := bytes.NewBufferString(`{"api_key":"guess"}`)
	req := httptest.NewRequest("POST", "/auth/token", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}
