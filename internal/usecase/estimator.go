package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"skill-gap/internal/domain/occupation"
	"skill-gap/internal/pkg/jsonrepair"
	"skill-gap/internal/repository"

	"github.com/google/uuid"
)

// GenerativeClient is the transport boundary to the generative-text service.
type GenerativeClient interface {
	Generate(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)
}

// SkillAssessment is one LLM-assigned proficiency for a skill of an
// occupation. Level is on the 1-7 scale; 0 when the reply carried no usable
// number.
type SkillAssessment struct {
	SkillID     string
	SkillName   string
	Level       int
	LevelLabel  string
	Explanation string
}

// GapNarrative is one LLM-written gap description between two occupations.
type GapNarrative struct {
	SkillName   string
	FromLevel   int
	ToLevel     int
	Description string
}

type ProficiencyEstimator interface {
	EstimateProficiency(ctx context.Context, profile occupation.Profile) ([]SkillAssessment, error)
	EstimateGapNarratives(ctx context.Context, from, to occupation.Profile) ([]GapNarrative, error)
}

// responseShape selects which reply envelope a call expects. The shape is
// fixed by the caller, never inferred from the reply.
type responseShape int

const (
	shapeAssessment responseShape = iota
	shapeGapAnalysis
)

// Estimator drives the generative-text service: it builds the prompt, sends
// it, repair-parses the reply, validates the expected envelope and keeps the
// append-only audit trail of every call.
type Estimator struct {
	client      GenerativeClient
	audits      repository.EstimationRepository
	model       string
	temperature float64
	maxTokens   int
	logger      *log.Logger

	newRequestID func() uuid.UUID
}

func NewEstimator(
	client GenerativeClient,
	audits repository.EstimationRepository,
	model string,
	temperature float64,
	maxTokens int,
	logger *log.Logger,
) *Estimator {
	if logger == nil {
		logger = log.Default()
	}
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	return &Estimator{
		client:       client,
		audits:       audits,
		model:        model,
		temperature:  temperature,
		maxTokens:    maxTokens,
		logger:       logger,
		newRequestID: uuid.New,
	}
}

const assessmentPrompt = `You are an occupational analyst. Assign a proficiency level to every skill listed below for the occupation "%s" (%s).

Skills:
%s

Use a 1-7 scale: 1-2 basic awareness, 3-4 working proficiency, 5-6 advanced, 7 expert. Give each skill a short qualitative label and a one-sentence justification.

Respond with a single JSON object of this exact structure and nothing else:
{
  "assessment": {
    "occupation_code": "%s",
    "occupation_name": "%s",
    "skills": [
      {"name": "<skill name>", "level": <1-7>, "label": "<qualitative label>", "explanation": "<justification>"}
    ]
  }
}`

const gapAnalysisPrompt = `You are an occupational analyst comparing two occupations.

Source occupation "%s" (%s) with skills:
%s

Target occupation "%s" (%s) with skills:
%s

For each skill the target occupation requires at a higher proficiency than the source occupation possesses, describe the gap: the level held, the level required (both on the 1-7 scale) and a short narrative of what closing the gap involves.

Respond with a single JSON object of this exact structure and nothing else:
{
  "gap_analysis": {
    "from_occupation": "%s",
    "to_occupation": "%s",
    "gaps": [
      {"skill": "<skill name>", "from_level": <0-7>, "to_level": <1-7>, "description": "<narrative>"}
    ]
  }
}`

func (e *Estimator) EstimateProficiency(ctx context.Context, profile occupation.Profile) ([]SkillAssessment, error) {
	if e == nil || e.client == nil {
		return nil, fmt.Errorf("%w: generative-text service is not configured", ErrConfiguration)
	}

	prompt := fmt.Sprintf(assessmentPrompt,
		profile.Title, profile.Code,
		skillListText(profile),
		profile.Code, profile.Title,
	)

	requestID := e.newRequestID()
	e.recordRequests(ctx, requestID, profile)

	env, err := e.generate(ctx, prompt, shapeAssessment)
	if err != nil {
		return nil, err
	}

	items := jsonrepair.Slice(env["skills"])
	idByName := make(map[string]string, len(profile.Skills))
	for _, s := range profile.Skills {
		idByName[strings.ToLower(strings.TrimSpace(s.SkillName))] = s.SkillID
	}

	assessments := make([]SkillAssessment, 0, len(items))
	replies := make([]repository.EstimationReplyRecord, 0, len(items))
	now := time.Now().UTC()

	for _, it := range items {
		obj := jsonrepair.Map(it)
		if obj == nil {
			continue
		}

		name := jsonrepair.Str(obj["name"])
		label := jsonrepair.Str(obj["label"])
		if label == "" {
			label = jsonrepair.Str(obj["level_label"])
		}
		explanation := jsonrepair.Str(obj["explanation"])

		var levelPtr *int
		level := 0
		if v, ok := jsonrepair.Int(obj["level"]); ok {
			level = v
			levelPtr = &v
		}

		assessments = append(assessments, SkillAssessment{
			SkillID:     idByName[strings.ToLower(name)],
			SkillName:   name,
			Level:       level,
			LevelLabel:  label,
			Explanation: explanation,
		})

		// Reply items are recorded as returned, matched or not.
		replies = append(replies, repository.EstimationReplyRecord{
			RequestID:      requestID,
			OccupationCode: profile.Code,
			OccupationName: profile.Title,
			SkillName:      name,
			LevelLabel:     label,
			Level:          levelPtr,
			Explanation:    explanation,
			CreatedAt:      now,
		})
	}

	e.recordReplies(ctx, requestID, replies)
	return assessments, nil
}

func (e *Estimator) EstimateGapNarratives(ctx context.Context, from, to occupation.Profile) ([]GapNarrative, error) {
	if e == nil || e.client == nil {
		return nil, fmt.Errorf("%w: generative-text service is not configured", ErrConfiguration)
	}

	prompt := fmt.Sprintf(gapAnalysisPrompt,
		from.Title, from.Code, skillListText(from),
		to.Title, to.Code, skillListText(to),
		from.Code, to.Code,
	)

	requestID := e.newRequestID()
	e.recordRequests(ctx, requestID, to)

	env, err := e.generate(ctx, prompt, shapeGapAnalysis)
	if err != nil {
		return nil, err
	}

	items := jsonrepair.Slice(env["gaps"])
	narratives := make([]GapNarrative, 0, len(items))
	replies := make([]repository.EstimationReplyRecord, 0, len(items))
	now := time.Now().UTC()

	for _, it := range items {
		obj := jsonrepair.Map(it)
		if obj == nil {
			continue
		}

		name := jsonrepair.Str(obj["skill"])
		description := jsonrepair.Str(obj["description"])
		fromLevel, _ := jsonrepair.Int(obj["from_level"])
		toLevel, tok := jsonrepair.Int(obj["to_level"])

		narratives = append(narratives, GapNarrative{
			SkillName:   name,
			FromLevel:   fromLevel,
			ToLevel:     toLevel,
			Description: description,
		})

		var levelPtr *int
		if tok {
			levelPtr = &toLevel
		}
		replies = append(replies, repository.EstimationReplyRecord{
			RequestID:      requestID,
			OccupationCode: to.Code,
			OccupationName: to.Title,
			SkillName:      name,
			Level:          levelPtr,
			Explanation:    description,
			CreatedAt:      now,
		})
	}

	e.recordReplies(ctx, requestID, replies)
	return narratives, nil
}

// generate performs one call and returns the validated envelope body for the
// expected shape.
func (e *Estimator) generate(ctx context.Context, prompt string, shape responseShape) (map[string]any, error) {
	raw, err := e.client.Generate(ctx, prompt, e.temperature, e.maxTokens)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrService, err)
	}

	obj := jsonrepair.Parse(raw)
	if obj == nil {
		// Raw text is retained in the log for diagnostics; it never reaches
		// the caller as data.
		e.logger.Printf("Estimator | unparseable reply len=%d raw=%q", len(raw), truncateForLog(raw, 500))
		return nil, fmt.Errorf("%w: reply of %d bytes produced no JSON object", ErrParse, len(raw))
	}

	var key string
	switch shape {
	case shapeGapAnalysis:
		key = "gap_analysis"
	default:
		key = "assessment"
	}

	env := jsonrepair.Map(obj[key])
	if env == nil {
		e.logger.Printf("Estimator | envelope mismatch want=%s raw=%q", key, truncateForLog(raw, 500))
		return nil, fmt.Errorf("%w: reply has no %q object", ErrSchemaMismatch, key)
	}
	switch shape {
	case shapeGapAnalysis:
		if _, ok := env["gaps"].([]any); !ok {
			return nil, fmt.Errorf("%w: %q object has no gaps list", ErrSchemaMismatch, key)
		}
	default:
		if _, ok := env["skills"].([]any); !ok {
			return nil, fmt.Errorf("%w: %q object has no skills list", ErrSchemaMismatch, key)
		}
	}

	return env, nil
}

// recordRequests audits one request row per input skill under a shared batch
// id. Audit persistence failures are logged, not propagated: the call itself
// can still succeed.
func (e *Estimator) recordRequests(ctx context.Context, requestID uuid.UUID, profile occupation.Profile) {
	if e.audits == nil {
		return
	}
	now := time.Now().UTC()
	records := make([]repository.EstimationRequestRecord, 0, len(profile.Skills))
	for _, s := range profile.Skills {
		records = append(records, repository.EstimationRequestRecord{
			RequestID:      requestID,
			ModelName:      e.model,
			OccupationCode: profile.Code,
			SkillID:        s.SkillID,
			SkillName:      s.SkillName,
			CreatedAt:      now,
		})
	}
	if err := e.audits.RecordRequests(ctx, records); err != nil {
		e.logger.Printf("Estimator | request audit failed request_id=%s rows=%d err=%v", requestID, len(records), err)
	}
}

func (e *Estimator) recordReplies(ctx context.Context, requestID uuid.UUID, records []repository.EstimationReplyRecord) {
	if e.audits == nil {
		return
	}
	if err := e.audits.RecordReplies(ctx, records); err != nil {
		e.logger.Printf("Estimator | reply audit failed request_id=%s rows=%d err=%v", requestID, len(records), err)
	}
}

func skillListText(profile occupation.Profile) string {
	if len(profile.Skills) == 0 {
		return "- (none recorded)"
	}
	var sb strings.Builder
	for _, s := range profile.Skills {
		sb.WriteString("- ")
		sb.WriteString(s.SkillName)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func truncateForLog(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

var _ ProficiencyEstimator = (*Estimator)(nil)
