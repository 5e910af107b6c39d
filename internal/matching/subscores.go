package matching

import (
	"math"
	"strings"

	"github.com/careerverse/careermatch/internal/profile"
)

// Tunable subscore constants. Thresholds and increments come from the
// original heuristics and are kept as-is rather than re-derived.
const (
	categoryMatchBase    = 0.5
	interestHitIncrement = 0.15
	peerDecayBonus       = 0.2

	overlapWeight    = 0.4
	complementWeight = 0.6
	maxNewSkills     = 5

	mentorshipBase          = 0.5
	mentorshipSeekingBonus  = 0.3
	mentorshipGapBonus      = 0.2
	mentorshipInterestBonus = 0.2
	mentorshipGapMin        = 3
	mentorshipGapMax        = 15

	geoExact      = 1.0
	geoSameState  = 0.7
	geoSameRegion = 0.5
	geoDistant    = 0.2
)

// CareerSimilarity scores how closely the candidate's career track aligns
// with the seeker's. When peer is true the profiles are compared as peers
// and close experience levels earn a decaying bonus.
func CareerSimilarity(seeker, candidate *profile.Profile, peer bool) float64 {
	if seeker == nil || candidate == nil {
		return 0
	}

	var score float64

	if seeker.Category != "" && strings.EqualFold(seeker.Category, candidate.Category) {
		score += categoryMatchBase
	}

	careerText := strings.ToLower(candidate.CurrentRole + " " + candidate.Category)
	for _, interest := range seeker.Interests {
		interest = strings.ToLower(strings.TrimSpace(interest))
		if interest == "" {
			continue
		}
		if strings.Contains(careerText, interest) {
			score += interestHitIncrement
		}
	}

	if peer {
		gap := math.Abs(float64(candidate.ExperienceYears - seeker.ExperienceYears))
		score += peerDecayBonus / (1 + gap)
	}

	return clamp01(score)
}

// SkillComplement balances shared ground against learning opportunity:
// overlapping skills count for 40%, skills the candidate brings that the
// seeker lacks count for 60%, capped at five new skills.
func SkillComplement(seeker, candidate *profile.Profile) float64 {
	if seeker == nil || candidate == nil || len(candidate.Skills) == 0 {
		return 0
	}

	overlap := 0
	for _, s := range seeker.Skills {
		if matchesAnySkill(s.Name, candidate.Skills) {
			overlap++
		}
	}

	newSkills := 0
	for _, c := range candidate.Skills {
		if !matchesAnySkill(c.Name, seeker.Skills) {
			newSkills++
		}
	}

	denom := len(seeker.Skills)
	if denom < 1 {
		denom = 1
	}

	overlapRatio := float64(overlap) / float64(denom)
	complementRatio := math.Min(float64(newSkills)/maxNewSkills, 1)

	return overlapWeight*overlapRatio + complementWeight*complementRatio
}

// matchesAnySkill reports whether name matches any of the skills by
// case-insensitive substring in either direction.
func matchesAnySkill(name string, skills []profile.Skill) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return false
	}

	for _, s := range skills {
		other := strings.ToLower(strings.TrimSpace(s.Name))
		if other == "" {
			continue
		}
		if strings.Contains(name, other) || strings.Contains(other, name) {
			return true
		}
	}

	return false
}

// GeographicProximity scores location closeness in tiers. Distant matches
// still score 0.2 so that geography alone never fully excludes a candidate.
func GeographicProximity(seekerLocation, candidateLocation string) float64 {
	a := strings.ToLower(strings.TrimSpace(seekerLocation))
	b := strings.ToLower(strings.TrimSpace(candidateLocation))
	if a == "" || b == "" {
		return 0
	}

	if a == b {
		return geoExact
	}

	at := regionToken(a)
	bt := regionToken(b)
	if at != "" && at == bt {
		return geoSameState
	}

	if ar := regionOf(at); ar != "" && ar == regionOf(bt) {
		return geoSameRegion
	}

	return geoDistant
}

// MentorshipFit scores the candidate as a mentor for the seeker. A candidate
// who is not available for mentorship always scores 0.
func MentorshipFit(seeker, candidate *profile.Profile) float64 {
	if seeker == nil || candidate == nil || !candidate.MentorshipAvailable {
		return 0
	}

	score := mentorshipBase

	if seeker.SeekingMentorship {
		score += mentorshipSeekingBonus
	}

	gap := candidate.ExperienceYears - seeker.ExperienceYears
	if gap >= mentorshipGapMin && gap <= mentorshipGapMax {
		score += mentorshipGapBonus
	}

	if interestsOverlap(seeker.Interests, candidate.MentorshipCategories) {
		score += mentorshipInterestBonus
	}

	return clamp01(score)
}

func interestsOverlap(interests, categories []string) bool {
	for _, interest := range interests {
		interest = strings.ToLower(strings.TrimSpace(interest))
		if interest == "" {
			continue
		}
		for _, category := range categories {
			category = strings.ToLower(strings.TrimSpace(category))
			if category == "" {
				continue
			}
			if strings.Contains(interest, category) || strings.Contains(category, interest) {
				return true
			}
		}
	}

	return false
}

// subscore dispatches one criterion kind to its calculator.
func subscore(kind Kind, seeker, candidate *profile.Profile, peer bool) float64 {
	switch kind {
	case KindCareerSimilarity:
		return CareerSimilarity(seeker, candidate, peer)
	case KindSkillComplement:
		return SkillComplement(seeker, candidate)
	case KindGeographicProximity:
		return GeographicProximity(seeker.Location, candidate.Location)
	case KindMentorshipFit:
		return MentorshipFit(seeker, candidate)
	}

	return 0
}
