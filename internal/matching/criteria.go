package matching

import (
	"fmt"
	"strings"
)

// Kind names one scoring dimension.
type Kind string

const (
	KindCareerSimilarity    Kind = "career_similarity"
	KindSkillComplement     Kind = "skill_complement"
	KindGeographicProximity Kind = "geographic_proximity"
	KindMentorshipFit       Kind = "mentorship_fit"
)

// Criterion pairs a scoring dimension with its weight. Weights need not sum
// to one; the engine normalizes by their sum at aggregation time.
type Criterion struct {
	Kind   Kind
	Weight float64
}

// ParseKind validates a criterion kind coming from configuration.
func ParseKind(s string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch kind {
	case KindCareerSimilarity, KindSkillComplement, KindGeographicProximity, KindMentorshipFit:
		return kind, nil
	}

	return "", fmt.Errorf("unknown criterion kind: %q", s)
}
