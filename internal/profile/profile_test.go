package profile

import (
	"strings"
	"testing"
)

func TestText(t *testing.T) {
	p := &Profile{
		ID:          "p1",
		CurrentRole: "Backend Engineer",
		Category:    "Engineering",
		Skills:      []Skill{{Name: "Go"}, {Name: "SQL"}},
		Interests:   []string{"distributed systems"},
		Bio:         "Building data platforms.",
	}

	text := p.Text()

	for _, want := range []string{"Backend Engineer", "Engineering", "Go, SQL", "distributed systems", "Building data platforms."} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected text to contain %q, got %q", want, text)
		}
	}
}

func TestTextEmptyProfile(t *testing.T) {
	if got := (&Profile{ID: "p1"}).Text(); got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
}

func TestFromMap(t *testing.T) {
	raw := map[string]any{
		"id":       "p1",
		"name":     "Dana",
		"category": "Design",
		"skills": []map[string]any{
			{"name": "Figma", "level": "expert"},
		},
		"interests":            []string{"ux"},
		"location":             "Austin, TX",
		"experience_years":     7,
		"mentorship_available": true,
		"updated_at":           "2026-08-01T00:00:00Z",
	}

	p, err := FromMap(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.ID != "p1" || p.Name != "Dana" || p.Category != "Design" {
		t.Fatalf("unexpected profile: %+v", p)
	}
	if len(p.Skills) != 1 || p.Skills[0].Name != "Figma" || p.Skills[0].Level != "expert" {
		t.Fatalf("unexpected skills: %+v", p.Skills)
	}
	if !p.MentorshipAvailable {
		t.Fatal("expected mentorship_available to be true")
	}
	if p.FreshnessToken() != "2026-08-01T00:00:00Z" {
		t.Fatalf("unexpected freshness token: %q", p.FreshnessToken())
	}
}

func TestFromMapWithoutID(t *testing.T) {
	if _, err := FromMap(map[string]any{"name": "nobody"}); err == nil {
		t.Fatal("expected an error for a document without id")
	}
}

func TestProfilesExclude(t *testing.T) {
	pool := &Profiles{Items: []*Profile{
		{ID: "a", Category: "Engineering"},
		{ID: "b", Category: "Design"},
		{ID: "c", Category: "Engineering"},
	}}

	excluded := pool.Exclude(ProfileIDField, []string{"B"})
	if len(excluded) != 1 || excluded[0] != "b" {
		t.Fatalf("unexpected excluded ids: %v", excluded)
	}
	if pool.Len() != 2 {
		t.Fatalf("expected 2 profiles left, got %d", pool.Len())
	}

	excluded = pool.Exclude(ProfileCategoryField, []string{"engineering"})
	if len(excluded) != 2 {
		t.Fatalf("unexpected excluded ids: %v", excluded)
	}
	if pool.Len() != 0 {
		t.Fatalf("expected empty pool, got %d", pool.Len())
	}
}

func TestProfilesFindByID(t *testing.T) {
	pool := &Profiles{Items: []*Profile{{ID: "a"}, {ID: "b"}}}

	if got := pool.FindByID("b"); got == nil || got.ID != "b" {
		t.Fatalf("unexpected result: %+v", got)
	}
	if got := pool.FindByID("zzz"); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}
