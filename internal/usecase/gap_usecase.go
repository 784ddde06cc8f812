package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"skill-gap/internal/domain/gap"
	"skill-gap/internal/domain/occupation"
	"skill-gap/internal/infrastructure/cache"
	"skill-gap/internal/ws"
)

// Analysis modes. Basic compares skill presence only, leveled compares known
// proficiency levels, llm additionally asks the generative service for
// per-gap narratives.
const (
	ModeBasic   = "basic"
	ModeLeveled = "leveled"
	ModeLLM     = "llm"
)

// OccupationRef identifies one side of a comparison in a result.
type OccupationRef struct {
	Code  string `json:"code"`
	Title string `json:"title"`
}

// GapResult is the outcome of one comparison.
type GapResult struct {
	From           OccupationRef  `json:"from"`
	To             OccupationRef  `json:"to"`
	Mode           string         `json:"mode"`
	Gaps           []gap.SkillGap `json:"gaps"`
	GeneratedByLLM bool           `json:"generated_by_llm"`
}

// GapCache stores computed results keyed by occupation pair and mode.
type GapCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type GapUsecase interface {
	Analyze(ctx context.Context, fromCode, toCode, mode string) (GapResult, error)
}

// GapService orchestrates a comparison: both profiles are resolved, diffed by
// the selected mode and, for llm mode, enriched with generated narratives.
type GapService struct {
	resolver  ProfileResolver
	estimator ProficiencyEstimator
	results   GapCache
	ttl       time.Duration
	logger    *log.Logger
}

func NewGapService(
	resolver ProfileResolver,
	estimator ProficiencyEstimator,
	results GapCache,
	ttl time.Duration,
	logger *log.Logger,
) *GapService {
	if logger == nil {
		logger = log.Default()
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &GapService{resolver: resolver, estimator: estimator, results: results, ttl: ttl, logger: logger}
}

func (s *GapService) Analyze(ctx context.Context, fromCode, toCode, mode string) (GapResult, error) {
	switch mode {
	case "":
		mode = ModeBasic
	case ModeBasic, ModeLeveled, ModeLLM:
	default:
		return GapResult{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, mode)
	}

	// Deterministic modes are cacheable; llm replies vary between calls and
	// are always computed fresh.
	cacheable := mode != ModeLLM
	key := cache.GapResultKey(fromCode, toCode, mode)
	if cacheable && s.results != nil {
		var cached GapResult
		if ok, err := s.results.GetJSON(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}
	}

	from, err := s.resolver.Resolve(ctx, fromCode)
	if err != nil {
		return GapResult{}, err
	}
	to, err := s.resolver.Resolve(ctx, toCode)
	if err != nil {
		return GapResult{}, err
	}

	var result GapResult
	switch mode {
	case ModeBasic:
		result = s.analyzeBasic(from, to)
	case ModeLeveled:
		result = s.analyzeLeveled(from, to)
	case ModeLLM:
		result, err = s.analyzeWithNarratives(ctx, from, to)
		if err != nil {
			return GapResult{}, err
		}
	}

	if cacheable && s.results != nil {
		if err := s.results.SetJSON(ctx, key, result, s.ttl); err != nil {
			s.logger.Printf("GapService | result cache write failed key=%s err=%v", key, err)
		}
	}
	ws.NotifyGapComputed(from.Code, to.Code, mode)
	return result, nil
}

func (s *GapService) analyzeBasic(from, to occupation.Profile) GapResult {
	gaps := gap.DiffByPresence(from.Skills, to.Skills)
	return GapResult{
		From: refOf(from),
		To:   refOf(to),
		Mode: ModeBasic,
		Gaps: gaps,
	}
}

func (s *GapService) analyzeLeveled(from, to occupation.Profile) GapResult {
	gaps := gap.DiffByLevel(withKnownLevels(from.Skills), withKnownLevels(to.Skills))
	return GapResult{
		From: refOf(from),
		To:   refOf(to),
		Mode: ModeLeveled,
		Gaps: gaps,
	}
}

// analyzeWithNarratives builds gaps from LLM proficiency estimates for both
// occupations, then asks for a narrative per gap. Every stage must succeed:
// a failed estimate or narrative call aborts the analysis unchanged.
func (s *GapService) analyzeWithNarratives(ctx context.Context, from, to occupation.Profile) (GapResult, error) {
	if s.estimator == nil {
		return GapResult{}, fmt.Errorf("%w: generative-text service is not configured", ErrConfiguration)
	}

	fromEst, err := s.estimator.EstimateProficiency(ctx, from)
	if err != nil {
		return GapResult{}, err
	}
	toEst, err := s.estimator.EstimateProficiency(ctx, to)
	if err != nil {
		return GapResult{}, err
	}

	gaps := candidateGaps(fromEst, toEst)

	narratives, err := s.estimator.EstimateGapNarratives(ctx, from, to)
	if err != nil {
		return GapResult{}, err
	}
	attachNarratives(gaps, narratives, from, to)

	return GapResult{
		From:           refOf(from),
		To:             refOf(to),
		Mode:           ModeLLM,
		Gaps:           gaps,
		GeneratedByLLM: true,
	}, nil
}

// candidateGaps pairs estimates by lowercased skill name; a skill absent from
// the source side counts as level 0.
func candidateGaps(fromEst, toEst []SkillAssessment) []gap.SkillGap {
	fromLevel := make(map[string]int, len(fromEst))
	for _, a := range fromEst {
		fromLevel[normalizeName(a.SkillName)] = a.Level
	}

	gaps := make([]gap.SkillGap, 0, len(toEst))
	seen := make(map[string]bool, len(toEst))
	for _, a := range toEst {
		k := normalizeName(a.SkillName)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		held := fromLevel[k]
		if a.Level <= held {
			continue
		}
		gaps = append(gaps, gap.SkillGap{
			SkillID:   a.SkillID,
			SkillName: a.SkillName,
			FromLevel: held,
			ToLevel:   a.Level,
		})
	}
	return gaps
}

// attachNarratives fills gap descriptions from the generated narratives,
// matched by skill name. Gaps the reply did not cover get a templated
// description so no gap ships without one.
func attachNarratives(gaps []gap.SkillGap, narratives []GapNarrative, from, to occupation.Profile) {
	byName := make(map[string]GapNarrative, len(narratives))
	for _, n := range narratives {
		k := normalizeName(n.SkillName)
		if k == "" {
			continue
		}
		if _, dup := byName[k]; !dup {
			byName[k] = n
		}
	}

	for i := range gaps {
		if n, ok := byName[normalizeName(gaps[i].SkillName)]; ok && strings.TrimSpace(n.Description) != "" {
			gaps[i].Description = n.Description
			continue
		}
		gaps[i].Description = fmt.Sprintf(
			"%s requires %s at level %d; %s currently has level %d.",
			to.Title, gaps[i].SkillName, gaps[i].ToLevel, from.Title, gaps[i].FromLevel,
		)
	}
}

// withKnownLevels keeps only requirements carrying a positive recorded level.
func withKnownLevels(skills []gap.SkillRequirement) []gap.SkillRequirement {
	out := make([]gap.SkillRequirement, 0, len(skills))
	for _, s := range skills {
		if s.Level != nil && *s.Level > 0 {
			out = append(out, s)
		}
	}
	return out
}

func refOf(p occupation.Profile) OccupationRef {
	return OccupationRef{Code: p.Code, Title: p.Title}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

var _ GapUsecase = (*GapService)(nil)
