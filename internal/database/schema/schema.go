package schema

import (
	"context"
	"fmt"

	"skill-gap/internal/database"
)

// Bootstrap creates the gap pipeline tables when they do not exist yet.
// Reference tables (occupations, occupation_skills) are normally filled by the
// bulk ingestion job; the landing and audit tables are owned by this service.
func Bootstrap(ctx context.Context, db database.DB) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS occupations (
			code        TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS occupation_skills (
			occupation_code TEXT NOT NULL,
			element_id      TEXT NOT NULL,
			skill_name      TEXT NOT NULL,
			scale_id        TEXT NOT NULL,
			data_value      DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (occupation_code, element_id, scale_id)
		)`,
		`CREATE TABLE IF NOT EXISTS landing_occupations (
			code        TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			fetched_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS landing_occupation_skills (
			occupation_code TEXT NOT NULL,
			element_id      TEXT NOT NULL,
			skill_name      TEXT NOT NULL,
			scale_id        TEXT NOT NULL,
			data_value      DOUBLE PRECISION NOT NULL,
			fetched_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (occupation_code, element_id, scale_id)
		)`,
		`CREATE TABLE IF NOT EXISTS llm_requests (
			request_id      UUID NOT NULL,
			model_name      TEXT NOT NULL,
			occupation_code TEXT NOT NULL,
			skill_id        TEXT NOT NULL,
			skill_name      TEXT NOT NULL,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS llm_replies (
			request_id      UUID NOT NULL,
			occupation_code TEXT NOT NULL,
			occupation_name TEXT NOT NULL,
			skill_name      TEXT NOT NULL,
			level_label     TEXT NOT NULL DEFAULT '',
			level           INT,
			explanation     TEXT NOT NULL DEFAULT '',
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_llm_requests_batch ON llm_requests (request_id)`,
		`CREATE INDEX IF NOT EXISTS idx_llm_replies_batch ON llm_replies (request_id)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema bootstrap: %w", err)
		}
	}
	return nil
}
