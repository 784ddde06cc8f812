package repository

import (
	"context"

	"skill-gap/internal/database"
)

// LevelScaleID is the proficiency scale this pipeline consumes. Other scales
// (importance, frequency) exist in the reference data but are never read here.
const LevelScaleID = "LV"

// SkillLevelRow is one skill rating of an occupation on a specific scale.
type SkillLevelRow struct {
	OccupationCode string
	ElementID      string
	SkillName      string
	ScaleID        string
	DataValue      float64
}

type SkillLevelRepository interface {
	// FindLevelsByOccupation returns the occupation's level-scale rows,
	// preferring the reference table and falling back to the landing area.
	FindLevelsByOccupation(ctx context.Context, code string) ([]SkillLevelRow, error)
	// UpsertLanding writes externally fetched skill rows (all scales) into
	// the landing area, replacing prior rows with the same composite key.
	UpsertLanding(ctx context.Context, rows []SkillLevelRow) error
}

type PostgresSkillLevelRepository struct {
	db database.DB
}

func NewPostgresSkillLevelRepository(db database.DB) *PostgresSkillLevelRepository {
	return &PostgresSkillLevelRepository{db: db}
}

func (r *PostgresSkillLevelRepository) FindLevelsByOccupation(ctx context.Context, code string) ([]SkillLevelRow, error) {
	rows, err := r.queryLevels(ctx,
		`SELECT occupation_code, element_id, skill_name, scale_id, data_value
		 FROM occupation_skills
		 WHERE occupation_code = $1 AND scale_id = $2
		 ORDER BY element_id ASC`,
		code,
	)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		return rows, nil
	}

	return r.queryLevels(ctx,
		`SELECT occupation_code, element_id, skill_name, scale_id, data_value
		 FROM landing_occupation_skills
		 WHERE occupation_code = $1 AND scale_id = $2
		 ORDER BY element_id ASC`,
		code,
	)
}

func (r *PostgresSkillLevelRepository) queryLevels(ctx context.Context, query string, code string) ([]SkillLevelRow, error) {
	rows, err := r.db.Query(ctx, query, code, LevelScaleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SkillLevelRow, 0)
	for rows.Next() {
		var sr SkillLevelRow
		if err := rows.Scan(&sr.OccupationCode, &sr.ElementID, &sr.SkillName, &sr.ScaleID, &sr.DataValue); err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSkillLevelRepository) UpsertLanding(ctx context.Context, rows []SkillLevelRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, sr := range rows {
		_, err := tx.Exec(ctx,
			`INSERT INTO landing_occupation_skills (occupation_code, element_id, skill_name, scale_id, data_value, fetched_at)
			 VALUES ($1, $2, $3, $4, $5, now())
			 ON CONFLICT (occupation_code, element_id, scale_id) DO UPDATE
			 SET skill_name = EXCLUDED.skill_name, data_value = EXCLUDED.data_value, fetched_at = now()`,
			sr.OccupationCode, sr.ElementID, sr.SkillName, sr.ScaleID, sr.DataValue,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

var _ SkillLevelRepository = (*PostgresSkillLevelRepository)(nil)
