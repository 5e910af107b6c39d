package matching

import (
	"fmt"
	"strings"

	"github.com/careerverse/careermatch/internal/profile"
)

// Notable thresholds: a criterion only earns a reason when its subscore
// clears these.
const (
	notableCareer     = 0.7
	notableSkills     = 0.6
	notableGeography  = 0.8
	notableMentorship = 0.7

	maxReasons = 4

	excellentScore = 0.8
	strongScore    = 0.6
)

const genericInsight = "This match shows promising professional compatibility worth exploring."

// buildReasons derives up to maxReasons human-readable justifications for a
// match, preserving derivation order, and reports which criteria were
// notable.
func buildReasons(seeker, candidate *profile.Profile, scores map[Kind]float64, final float64) ([]string, []Kind) {
	var reasons []string
	var matched []Kind

	if scores[KindCareerSimilarity] > notableCareer {
		matched = append(matched, KindCareerSimilarity)
		field := candidate.Category
		if field == "" {
			field = candidate.CurrentRole
		}
		if field == "" {
			field = "a related field"
		}
		reasons = append(reasons, fmt.Sprintf("Strong career alignment in %s", field))
	}

	if scores[KindSkillComplement] > notableSkills {
		matched = append(matched, KindSkillComplement)
		shared := sharedSkills(seeker, candidate)
		if len(shared) > 0 {
			reasons = append(reasons, fmt.Sprintf("Complementary skill set including %s", strings.Join(shared, ", ")))
		} else {
			reasons = append(reasons, "Brings skills that expand your current toolkit")
		}
	}

	if scores[KindGeographicProximity] > notableGeography {
		matched = append(matched, KindGeographicProximity)
		reasons = append(reasons, fmt.Sprintf("Located nearby in %s", candidate.Location))
	}

	if scores[KindMentorshipFit] > notableMentorship && candidate.MentorshipAvailable {
		matched = append(matched, KindMentorshipFit)
		reasons = append(reasons, "Available as a mentor with relevant experience")
	}

	if seeker.Location != "" && strings.EqualFold(strings.TrimSpace(seeker.Location), strings.TrimSpace(candidate.Location)) {
		reasons = append(reasons, fmt.Sprintf("Based in the same location: %s", candidate.Location))
	}

	switch {
	case final > excellentScore:
		reasons = append(reasons, "Excellent overall compatibility")
	case final > strongScore:
		reasons = append(reasons, "Strong professional alignment")
	}

	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}

	return reasons, matched
}

// sharedSkills returns up to three candidate skill names the seeker also
// has, for use in reason text.
func sharedSkills(seeker, candidate *profile.Profile) []string {
	var shared []string
	for _, s := range candidate.Skills {
		if matchesAnySkill(s.Name, seeker.Skills) {
			shared = append(shared, s.Name)
		}
		if len(shared) == 3 {
			break
		}
	}

	return shared
}

// buildInsight produces an optional narrative sentence for a match. It is
// explanation only and never fails the pipeline: any problem during
// generation yields a generic sentence instead.
func buildInsight(candidate *profile.Profile, final float64) (insight string) {
	defer func() {
		if r := recover(); r != nil {
			insight = genericInsight
		}
	}()

	name := strings.TrimSpace(candidate.Name)
	if name == "" {
		name = "This candidate"
	}

	role := strings.TrimSpace(candidate.CurrentRole)
	if role != "" && candidate.Company != "" {
		role = fmt.Sprintf("%s at %s", role, candidate.Company)
	}

	switch {
	case final > excellentScore && role != "":
		return fmt.Sprintf("%s (%s) is an exceptional match whose background closely mirrors your goals.", name, role)
	case final > excellentScore:
		return fmt.Sprintf("%s is an exceptional match whose background closely mirrors your goals.", name)
	case final > strongScore && role != "":
		return fmt.Sprintf("%s (%s) aligns well with your direction and could open doors in their field.", name, role)
	case final > strongScore:
		return fmt.Sprintf("%s aligns well with your direction and could open doors in their field.", name)
	default:
		return genericInsight
	}
}
