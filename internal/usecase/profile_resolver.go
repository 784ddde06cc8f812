package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"skill-gap/internal/domain/gap"
	"skill-gap/internal/domain/occupation"
	"skill-gap/internal/infrastructure/onet"
	"skill-gap/internal/repository"
	"skill-gap/internal/ws"
)

type ProfileResolver interface {
	Resolve(ctx context.Context, code string) (occupation.Profile, error)
}

// Resolver builds occupation profiles store-first, falling back to the
// external authoritative source and persisting fetched data back into the
// landing area so repeated calls stay local.
type Resolver struct {
	occupations repository.OccupationRepository
	levels      repository.SkillLevelRepository
	source      onet.Client
	logger      *log.Logger
}

func NewResolver(
	occupations repository.OccupationRepository,
	levels repository.SkillLevelRepository,
	source onet.Client,
	logger *log.Logger,
) *Resolver {
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{occupations: occupations, levels: levels, source: source, logger: logger}
}

func (r *Resolver) Resolve(ctx context.Context, code string) (occupation.Profile, error) {
	if !occupation.ValidCode(code) {
		return occupation.Profile{}, fmt.Errorf("%w: %q is not of the form NN-NNNN.NN", ErrInvalidIdentifier, code)
	}

	meta, external, err := r.resolveMetadata(ctx, code)
	if err != nil {
		return occupation.Profile{}, err
	}

	// Skills resolve independently of metadata; a profile with no skills is
	// a valid degenerate result, never an error.
	skills := r.resolveSkills(ctx, code)

	profile := occupation.Profile{
		Code:        meta.Code,
		Title:       meta.Title,
		Description: meta.Description,
		Skills:      skills,
		Source:      occupation.SourceStore,
	}
	if external {
		profile.Source = occupation.SourceExternal
		ws.NotifyProfileRefreshed(profile.Code)
	}
	return profile, nil
}

func (r *Resolver) resolveMetadata(ctx context.Context, code string) (repository.OccupationRow, bool, error) {
	meta, err := r.occupations.FindByCode(ctx, code)
	if err == nil {
		return meta, false, nil
	}
	if !errors.Is(err, repository.ErrOccupationNotFound) {
		return repository.OccupationRow{}, false, fmt.Errorf("%w: occupation lookup: %v", ErrInternal, err)
	}

	if r.source == nil {
		return repository.OccupationRow{}, false, fmt.Errorf("%w: occupation %s is not in the store and no source credentials are set", ErrConfiguration, code)
	}

	occ, err := r.source.FetchOccupation(ctx, code)
	if err != nil {
		return repository.OccupationRow{}, false, fmt.Errorf("%w: fetch occupation %s: %v", ErrService, code, err)
	}
	if occ == nil {
		return repository.OccupationRow{}, false, fmt.Errorf("%w: %s is unknown to both the store and the external source", ErrNotFound, code)
	}

	row := repository.OccupationRow{Code: occ.Code, Title: occ.Title, Description: occ.Description}

	// Write-back failure is recoverable: the fetched data still satisfies
	// the caller even when caching it did not complete.
	if err := r.occupations.UpsertLanding(ctx, row); err != nil {
		r.logger.Printf("Resolver | landing write-back failed code=%s err=%v", code, err)
	}

	return row, true, nil
}

func (r *Resolver) resolveSkills(ctx context.Context, code string) []gap.SkillRequirement {
	rows, err := r.levels.FindLevelsByOccupation(ctx, code)
	if err != nil {
		r.logger.Printf("Resolver | local skill lookup failed code=%s err=%v", code, err)
		rows = nil
	}
	if len(rows) > 0 {
		return requirementsFromRows(rows)
	}

	if r.source == nil {
		return []gap.SkillRequirement{}
	}

	ratings, err := r.source.FetchSkillRatings(ctx, code)
	if err != nil {
		r.logger.Printf("Resolver | external skill fetch failed code=%s err=%v", code, err)
		return []gap.SkillRequirement{}
	}

	landing := make([]repository.SkillLevelRow, 0, len(ratings))
	for _, rt := range ratings {
		landing = append(landing, repository.SkillLevelRow{
			OccupationCode: rt.OccupationCode,
			ElementID:      rt.ElementID,
			SkillName:      rt.ElementName,
			ScaleID:        rt.ScaleID,
			DataValue:      rt.DataValue,
		})
	}
	if err := r.levels.UpsertLanding(ctx, landing); err != nil {
		r.logger.Printf("Resolver | skill landing write-back failed code=%s rows=%d err=%v", code, len(landing), err)
	}

	level := make([]repository.SkillLevelRow, 0, len(landing))
	for _, row := range landing {
		if row.ScaleID == repository.LevelScaleID {
			level = append(level, row)
		}
	}
	return requirementsFromRows(level)
}

func requirementsFromRows(rows []repository.SkillLevelRow) []gap.SkillRequirement {
	out := make([]gap.SkillRequirement, 0, len(rows))
	for _, row := range rows {
		lvl := clampLevel(int(math.Round(row.DataValue)))
		out = append(out, gap.SkillRequirement{
			SkillID:   row.ElementID,
			SkillName: row.SkillName,
			Level:     &lvl,
		})
	}
	return out
}

func clampLevel(v int) int {
	if v < 0 {
		return 0
	}
	if v > 7 {
		return 7
	}
	return v
}

var _ ProfileResolver = (*Resolver)(nil)
