package profile

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

const (
	ProfileIDField       = "ID"
	ProfileCategoryField = "Category"
)

// Skill is a named skill with an optional proficiency level.
type Skill struct {
	Name  string `json:"name" yaml:"name" mapstructure:"name"`
	Level string `json:"level,omitempty" yaml:"level,omitempty" mapstructure:"level"`
}

// Profile describes a seeker or a candidate. Profiles are immutable inputs
// to the matching engine; the caller owns them.
type Profile struct {
	ID                   string   `json:"id" yaml:"id" mapstructure:"id"`
	Name                 string   `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Category             string   `json:"category,omitempty" yaml:"category,omitempty" mapstructure:"category"`
	Skills               []Skill  `json:"skills,omitempty" yaml:"skills,omitempty" mapstructure:"skills"`
	Interests            []string `json:"interests,omitempty" yaml:"interests,omitempty" mapstructure:"interests"`
	Location             string   `json:"location,omitempty" yaml:"location,omitempty" mapstructure:"location"`
	ExperienceYears      int      `json:"experience_years,omitempty" yaml:"experience_years,omitempty" mapstructure:"experience_years"`
	MentorshipAvailable  bool     `json:"mentorship_available,omitempty" yaml:"mentorship_available,omitempty" mapstructure:"mentorship_available"`
	SeekingMentorship    bool     `json:"seeking_mentorship,omitempty" yaml:"seeking_mentorship,omitempty" mapstructure:"seeking_mentorship"`
	MentorshipCategories []string `json:"mentorship_categories,omitempty" yaml:"mentorship_categories,omitempty" mapstructure:"mentorship_categories"`
	Bio                  string   `json:"bio,omitempty" yaml:"bio,omitempty" mapstructure:"bio"`
	CurrentRole          string   `json:"current_role,omitempty" yaml:"current_role,omitempty" mapstructure:"current_role"`
	Company              string   `json:"company,omitempty" yaml:"company,omitempty" mapstructure:"company"`
	UpdatedAt            string   `json:"updated_at,omitempty" yaml:"updated_at,omitempty" mapstructure:"updated_at"`
}

// Text returns the canonical text of the profile used for embedding.
func (p *Profile) Text() string {
	parts := make([]string, 0, 6)

	if p.CurrentRole != "" {
		parts = append(parts, p.CurrentRole)
	}
	if p.Category != "" {
		parts = append(parts, p.Category)
	}
	if len(p.Skills) > 0 {
		parts = append(parts, strings.Join(p.SkillNames(), ", "))
	}
	if len(p.Interests) > 0 {
		parts = append(parts, strings.Join(p.Interests, ", "))
	}
	if p.Bio != "" {
		parts = append(parts, p.Bio)
	}

	return strings.Join(parts, ". ")
}

// SkillNames returns skill names in declaration order.
func (p *Profile) SkillNames() []string {
	names := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		names = append(names, s.Name)
	}

	return names
}

// FreshnessToken identifies the revision of the profile for cache
// invalidation. An empty token means the profile was never stamped; such
// profiles still cache, they just never go stale.
func (p *Profile) FreshnessToken() string {
	return p.UpdatedAt
}

// FromMap decodes a raw profile document into a Profile.
func FromMap(raw map[string]any) (*Profile, error) {
	var p *Profile
	if err := mapstructure.Decode(raw, &p); err != nil {
		return nil, fmt.Errorf("decode profile document: %w", err)
	}

	if p == nil || strings.TrimSpace(p.ID) == "" {
		return nil, fmt.Errorf("profile document has no id")
	}

	return p, nil
}

// Profiles is a mutable working set of candidate profiles.
type Profiles struct {
	Items []*Profile
}

func (p *Profiles) Len() int {
	return len(p.Items)
}

// IDs returns the identifiers of all profiles in the set.
func (p *Profiles) IDs() []string {
	ids := make([]string, 0, len(p.Items))
	for _, item := range p.Items {
		ids = append(ids, item.ID)
	}

	return ids
}

// FindByID returns the profile with the given identifier, or nil.
func (p *Profiles) FindByID(id string) *Profile {
	for _, item := range p.Items {
		if item.ID == id {
			return item
		}
	}

	return nil
}

// Exclude removes profiles whose field value is listed in values and returns
// the IDs of the removed profiles. Supported fields are ProfileIDField and
// ProfileCategoryField.
func (p *Profiles) Exclude(field string, values []string) []string {
	if len(values) == 0 {
		return nil
	}

	drop := make(map[string]struct{}, len(values))
	for _, v := range values {
		drop[strings.ToLower(strings.TrimSpace(v))] = struct{}{}
	}

	var excluded []string
	kept := make([]*Profile, 0, len(p.Items))
	for _, item := range p.Items {
		var key string
		switch field {
		case ProfileIDField:
			key = item.ID
		case ProfileCategoryField:
			key = item.Category
		}

		if _, ok := drop[strings.ToLower(strings.TrimSpace(key))]; ok {
			excluded = append(excluded, item.ID)
			continue
		}
		kept = append(kept, item)
	}

	p.Items = kept

	return excluded
}
