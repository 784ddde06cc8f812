package gap

// SkillRequirement is one skill of an occupation profile. Level is ordinal on
// the 0-7 level scale; nil means no recorded proficiency, which the diff
// treats the same as 0.
type SkillRequirement struct {
	SkillID   string
	SkillName string
	Level     *int
}

// SkillGap is a skill the target side requires strictly above the source
// side. FromLevel defaults to 0 when the source has no recorded value.
type SkillGap struct {
	SkillID     string
	SkillName   string
	FromLevel   int
	ToLevel     int
	Description string
}

// KnownLevel reports the recorded level, treating absence as 0.
func (s SkillRequirement) KnownLevel() int {
	if s.Level == nil {
		return 0
	}
	return *s.Level
}

// DiffByLevel compares two skill sets and returns every target skill whose
// required level strictly exceeds the source level. Ties and source-only
// skills produce nothing. Result order is unspecified.
func DiffByLevel(from, to []SkillRequirement) []SkillGap {
	fromByID := levelsByID(from)

	seen := make(map[string]struct{}, len(to))
	gaps := make([]SkillGap, 0)

	for _, req := range to {
		if req.SkillID == "" {
			continue
		}
		if _, dup := seen[req.SkillID]; dup {
			continue
		}
		seen[req.SkillID] = struct{}{}

		toLevel := req.KnownLevel()
		fromLevel := fromByID[req.SkillID]
		if toLevel <= fromLevel {
			continue
		}

		gaps = append(gaps, SkillGap{
			SkillID:   req.SkillID,
			SkillName: req.SkillName,
			FromLevel: fromLevel,
			ToLevel:   toLevel,
		})
	}

	return gaps
}

// DiffByPresence returns every target skill that is absent from the source
// side entirely, ignoring proficiency magnitude. Used for the coarse overview
// variant.
func DiffByPresence(from, to []SkillRequirement) []SkillGap {
	fromIDs := make(map[string]struct{}, len(from))
	for _, s := range from {
		if s.SkillID == "" {
			continue
		}
		fromIDs[s.SkillID] = struct{}{}
	}

	seen := make(map[string]struct{}, len(to))
	gaps := make([]SkillGap, 0)

	for _, req := range to {
		if req.SkillID == "" {
			continue
		}
		if _, dup := seen[req.SkillID]; dup {
			continue
		}
		seen[req.SkillID] = struct{}{}

		if _, ok := fromIDs[req.SkillID]; ok {
			continue
		}

		gaps = append(gaps, SkillGap{
			SkillID:   req.SkillID,
			SkillName: req.SkillName,
			ToLevel:   req.KnownLevel(),
		})
	}

	return gaps
}

func levelsByID(skills []SkillRequirement) map[string]int {
	out := make(map[string]int, len(skills))
	for _, s := range skills {
		if s.SkillID == "" {
			continue
		}
		lvl := s.KnownLevel()
		if existing, ok := out[s.SkillID]; ok && existing >= lvl {
			continue
		}
		out[s.SkillID] = lvl
	}
	return out
}
