package repository

import (
	"context"
	"database/sql"
	"errors"

	"skill-gap/internal/database"

	"github.com/jackc/pgx/v5"
)

var ErrOccupationNotFound = errors.New("occupation not found in store")

// OccupationRow is occupation metadata as stored, either in the reference
// table or in the landing area for externally fetched records.
type OccupationRow struct {
	Code        string
	Title       string
	Description string
}

type OccupationRepository interface {
	// FindByCode looks the occupation up in the reference table first, then
	// in the landing area. Returns ErrOccupationNotFound when neither has it.
	FindByCode(ctx context.Context, code string) (OccupationRow, error)
	// UpsertLanding writes an externally fetched occupation into the landing
	// area, replacing a prior row for the same code.
	UpsertLanding(ctx context.Context, row OccupationRow) error
}

type PostgresOccupationRepository struct {
	db database.DB
}

func NewPostgresOccupationRepository(db database.DB) *PostgresOccupationRepository {
	return &PostgresOccupationRepository{db: db}
}

func (r *PostgresOccupationRepository) FindByCode(ctx context.Context, code string) (OccupationRow, error) {
	row, err := r.scanOne(ctx,
		`SELECT code, title, COALESCE(description, '') FROM occupations WHERE code = $1`, code)
	if err == nil {
		return row, nil
	}
	if !errors.Is(err, ErrOccupationNotFound) {
		return OccupationRow{}, err
	}

	return r.scanOne(ctx,
		`SELECT code, title, COALESCE(description, '') FROM landing_occupations WHERE code = $1`, code)
}

func (r *PostgresOccupationRepository) scanOne(ctx context.Context, query string, code string) (OccupationRow, error) {
	var out OccupationRow
	row := r.db.QueryRow(ctx, query, code)
	if err := row.Scan(&out.Code, &out.Title, &out.Description); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return OccupationRow{}, ErrOccupationNotFound
		}
		return OccupationRow{}, err
	}
	return out, nil
}

func (r *PostgresOccupationRepository) UpsertLanding(ctx context.Context, row OccupationRow) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO landing_occupations (code, title, description, fetched_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (code) DO UPDATE
		 SET title = EXCLUDED.title, description = EXCLUDED.description, fetched_at = now()`,
		row.Code, row.Title, row.Description,
	)
	return err
}

var _ OccupationRepository = (*PostgresOccupationRepository)(nil)
