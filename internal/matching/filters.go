package matching

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/careerverse/careermatch/internal/profile"
)

// Filter is a pre-ranking step that narrows the candidate pool before any
// scoring happens.
type Filter interface {
	Name() string
	Apply(ctx context.Context, candidates *profile.Profiles) (*profile.Profiles, Step, error)
}

// Step describes the result of executing a filter.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

type excludeIDsFilter struct {
	ids []string
}

// NewExcludeIDs creates a filter that removes candidates by identifier, for
// example candidates the seeker was already matched with.
func NewExcludeIDs(ids []string) Filter {
	return &excludeIDsFilter{ids: ids}
}

func (f *excludeIDsFilter) Name() string { return "exclude_ids" }

func (f *excludeIDsFilter) Apply(_ context.Context, candidates *profile.Profiles) (*profile.Profiles, Step, error) {
	initial := candidates.Len()
	excluded := candidates.Exclude(profile.ProfileIDField, f.ids)

	return candidates, Step{Initial: initial, Dropped: len(excluded), Left: candidates.Len()}, nil
}

type mentorsOnlyFilter struct{}

// NewMentorsOnly creates a filter that keeps only mentorship-available
// candidates.
func NewMentorsOnly() Filter {
	return &mentorsOnlyFilter{}
}

func (f *mentorsOnlyFilter) Name() string { return "mentors_only" }

func (f *mentorsOnlyFilter) Apply(_ context.Context, candidates *profile.Profiles) (*profile.Profiles, Step, error) {
	initial := candidates.Len()

	kept := make([]*profile.Profile, 0, initial)
	for _, c := range candidates.Items {
		if c.MentorshipAvailable {
			kept = append(kept, c)
		}
	}
	candidates.Items = kept

	return candidates, Step{Initial: initial, Dropped: initial - candidates.Len(), Left: candidates.Len()}, nil
}

// runFilters executes the filters sequentially, logging per-step stats.
func runFilters(ctx context.Context, logger *zap.Logger, filters []Filter, candidates []*profile.Profile) ([]*profile.Profile, error) {
	pool := &profile.Profiles{Items: candidates}

	for _, step := range filters {
		next, info, err := step.Apply(ctx, pool)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		pool = next
	}

	return pool.Items, nil
}
