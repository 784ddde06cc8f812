package repository

import (
	"context"
	"time"

	"skill-gap/internal/database"

	"github.com/google/uuid"
)

// EstimationRequestRecord is one audited skill of a generative-text call.
// Every skill in a batch shares one RequestID.
type EstimationRequestRecord struct {
	RequestID      uuid.UUID
	ModelName      string
	OccupationCode string
	SkillID        string
	SkillName      string
	CreatedAt      time.Time
}

// EstimationReplyRecord is one parsed assessment item of a generative-text
// reply. Items that match no requested skill are still recorded.
type EstimationReplyRecord struct {
	RequestID      uuid.UUID
	OccupationCode string
	OccupationName string
	SkillName      string
	LevelLabel     string
	Level          *int
	Explanation    string
	CreatedAt      time.Time
}

// EstimationRepository persists the append-only audit trail of generative
// proficiency calls. Rows are only ever inserted.
type EstimationRepository interface {
	RecordRequests(ctx context.Context, records []EstimationRequestRecord) error
	RecordReplies(ctx context.Context, records []EstimationReplyRecord) error
}

type PostgresEstimationRepository struct {
	db database.DB
}

func NewPostgresEstimationRepository(db database.DB) *PostgresEstimationRepository {
	return &PostgresEstimationRepository{db: db}
}

func (r *PostgresEstimationRepository) RecordRequests(ctx context.Context, records []EstimationRequestRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, rec := range records {
		created := rec.CreatedAt
		if created.IsZero() {
			created = time.Now().UTC()
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO llm_requests (request_id, model_name, occupation_code, skill_id, skill_name, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			rec.RequestID, rec.ModelName, rec.OccupationCode, rec.SkillID, rec.SkillName, created,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *PostgresEstimationRepository) RecordReplies(ctx context.Context, records []EstimationReplyRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, rec := range records {
		created := rec.CreatedAt
		if created.IsZero() {
			created = time.Now().UTC()
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO llm_replies (request_id, occupation_code, occupation_name, skill_name, level_label, level, explanation, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			rec.RequestID, rec.OccupationCode, rec.OccupationName, rec.SkillName, rec.LevelLabel, rec.Level, rec.Explanation, created,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

var _ EstimationRepository = (*PostgresEstimationRepository)(nil)
