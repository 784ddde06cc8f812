package occupation

import (
	"fmt"
	"regexp"
	"strings"

	"skill-gap/internal/domain/gap"
)

// Source records where a resolved profile came from.
type Source string

const (
	SourceStore    Source = "store"
	SourceExternal Source = "external"
)

// Profile is a resolved occupation: identifier, display name and the skill
// requirements on the level scale. Profiles are built fresh per resolution
// and never mutated in place.
type Profile struct {
	Code        string
	Title       string
	Description string
	Skills      []gap.SkillRequirement
	Source      Source
}

// codePattern is the canonical O*NET-SOC shape: NN-NNNN.NN.
var codePattern = regexp.MustCompile(`^[0-9]{2}-[0-9]{4}\.[0-9]{2}$`)

func ValidCode(code string) bool {
	return codePattern.MatchString(code)
}

// NormalizeCode zero-pads the digit groups of a free-form occupation code
// into the canonical NN-NNNN.NN shape. Callers holding loose codes normalize
// before resolving; the resolver itself only validates.
func NormalizeCode(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty occupation code")
	}

	major := raw
	detail := "00"
	if i := strings.IndexByte(raw, '.'); i >= 0 {
		major = raw[:i]
		detail = raw[i+1:]
	}

	parts := strings.SplitN(major, "-", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("occupation code %q is not of the form NN-NNNN.NN", raw)
	}

	group, err := padDigits(parts[0], 2)
	if err != nil {
		return "", fmt.Errorf("occupation code %q: %w", raw, err)
	}
	series, err := padDigits(parts[1], 4)
	if err != nil {
		return "", fmt.Errorf("occupation code %q: %w", raw, err)
	}
	suffix, err := padDigits(detail, 2)
	if err != nil {
		return "", fmt.Errorf("occupation code %q: %w", raw, err)
	}

	code := group + "-" + series + "." + suffix
	if !ValidCode(code) {
		return "", fmt.Errorf("occupation code %q is not of the form NN-NNNN.NN", raw)
	}
	return code, nil
}

func padDigits(s string, width int) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > width {
		return "", fmt.Errorf("digit group %q does not fit %d digits", s, width)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("digit group %q contains non-digits", s)
		}
	}
	return strings.Repeat("0", width-len(s)) + s, nil
}
