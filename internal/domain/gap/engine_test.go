package gap

import "testing"

func lvl(v int) *int { return &v }

func skill(id string, level *int) SkillRequirement {
	return SkillRequirement{SkillID: id, SkillName: "skill " + id, Level: level}
}

func gapsByID(gaps []SkillGap) map[string]SkillGap {
	out := make(map[string]SkillGap, len(gaps))
	for _, g := range gaps {
		out[g.SkillID] = g
	}
	return out
}

func TestDiffByLevel_ZeroDefault(t *testing.T) {
	gaps := DiffByLevel(nil, []SkillRequirement{skill("S1", lvl(3))})
	if len(gaps) != 1 {
		t.Fatalf("expected 1 gap, got %d", len(gaps))
	}
	g := gaps[0]
	if g.SkillID != "S1" || g.FromLevel != 0 || g.ToLevel != 3 {
		t.Fatalf("unexpected gap: %+v", g)
	}
}

func TestDiffByLevel_TieExcluded(t *testing.T) {
	from := []SkillRequirement{skill("S1", lvl(3))}
	to := []SkillRequirement{skill("S1", lvl(3))}
	if gaps := DiffByLevel(from, to); len(gaps) != 0 {
		t.Fatalf("tie must not be a gap, got %+v", gaps)
	}
}

func TestDiffByLevel_SourceHigherExcluded(t *testing.T) {
	from := []SkillRequirement{skill("S1", lvl(5))}
	to := []SkillRequirement{skill("S1", lvl(2))}
	if gaps := DiffByLevel(from, to); len(gaps) != 0 {
		t.Fatalf("source above target must not be a gap, got %+v", gaps)
	}
}

func TestDiffByLevel_Upgrade(t *testing.T) {
	from := []SkillRequirement{skill("S1", lvl(2))}
	to := []SkillRequirement{skill("S1", lvl(5))}
	gaps := DiffByLevel(from, to)
	if len(gaps) != 1 {
		t.Fatalf("expected 1 gap, got %d", len(gaps))
	}
	if gaps[0].FromLevel != 2 || gaps[0].ToLevel != 5 {
		t.Fatalf("unexpected gap: %+v", gaps[0])
	}
}

func TestDiffByLevel_Asymmetry(t *testing.T) {
	a := []SkillRequirement{skill("X", lvl(5))}
	var b []SkillRequirement

	if gaps := DiffByLevel(b, a); len(gaps) != 1 || gaps[0].SkillID != "X" || gaps[0].FromLevel != 0 || gaps[0].ToLevel != 5 {
		t.Fatalf("diff(B,A) should contain X 0->5, got %+v", gaps)
	}
	if gaps := DiffByLevel(a, b); len(gaps) != 0 {
		t.Fatalf("diff(A,B) should be empty, got %+v", gaps)
	}
}

func TestDiffByLevel_EmptyTarget(t *testing.T) {
	from := []SkillRequirement{skill("S1", lvl(4)), skill("S2", lvl(1))}
	if gaps := DiffByLevel(from, nil); len(gaps) != 0 {
		t.Fatalf("empty target must yield no gaps, got %+v", gaps)
	}
}

func TestDiffByLevel_AbsentLevelEqualsZero(t *testing.T) {
	from := []SkillRequirement{skill("S1", nil)}
	to := []SkillRequirement{skill("S1", lvl(2))}
	gaps := DiffByLevel(from, to)
	if len(gaps) != 1 || gaps[0].FromLevel != 0 {
		t.Fatalf("absent source level must default to 0, got %+v", gaps)
	}

	// Target with absent level cannot exceed anything.
	if gaps := DiffByLevel(nil, []SkillRequirement{skill("S2", nil)}); len(gaps) != 0 {
		t.Fatalf("absent target level must not be a gap, got %+v", gaps)
	}
}

func TestDiffByLevel_DuplicateTargetEmittedOnce(t *testing.T) {
	to := []SkillRequirement{skill("S1", lvl(3)), skill("S1", lvl(4))}
	gaps := DiffByLevel(nil, to)
	if len(gaps) != 1 {
		t.Fatalf("duplicate target skill must be emitted once, got %+v", gaps)
	}
}

func TestDiffByPresence_IgnoresMagnitude(t *testing.T) {
	a := []SkillRequirement{skill("S1", lvl(2))}
	b := []SkillRequirement{skill("S1", lvl(5))}

	if gaps := DiffByPresence(a, b); len(gaps) != 0 {
		t.Fatalf("S1 present in source, presence diff must be empty, got %+v", gaps)
	}
	if gaps := DiffByLevel(a, b); len(gaps) != 1 || gaps[0].FromLevel != 2 || gaps[0].ToLevel != 5 {
		t.Fatalf("by-level diff must report 2->5, got %+v", gaps)
	}
}

func TestDiff_EndToEndScenario(t *testing.T) {
	from := []SkillRequirement{skill("S1", lvl(5)), skill("S2", lvl(3))}
	to := []SkillRequirement{skill("S1", lvl(5)), skill("S3", lvl(4))}

	byLevel := gapsByID(DiffByLevel(from, to))
	if len(byLevel) != 1 {
		t.Fatalf("expected exactly one by-level gap, got %+v", byLevel)
	}
	g, ok := byLevel["S3"]
	if !ok || g.FromLevel != 0 || g.ToLevel != 4 {
		t.Fatalf("expected S3 0->4, got %+v", byLevel)
	}

	presence := gapsByID(DiffByPresence(from, to))
	if len(presence) != 1 {
		t.Fatalf("expected exactly one presence gap, got %+v", presence)
	}
	if _, ok := presence["S3"]; !ok {
		t.Fatalf("expected S3 as presence gap, got %+v", presence)
	}
}
