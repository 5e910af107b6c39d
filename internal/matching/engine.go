// Package matching ranks candidate profiles against a seeker by blending
// hand-crafted subscores with semantic embedding similarity.
package matching

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/careerverse/careermatch/internal/embedding"
	"github.com/careerverse/careermatch/internal/logger"
	"github.com/careerverse/careermatch/internal/profile"
)

// textPreviewLimit bounds how much embedding text ends up in log lines.
const textPreviewLimit = 120

// Blend and admission constants carried over from the original heuristics.
// They are tunable via options, not re-derived.
const (
	defaultRuleWeight     = 0.7
	defaultSemanticWeight = 0.3
	defaultMinScore       = 0.3
	defaultLimit          = 10
	defaultConcurrency    = 4
)

// MatchResult is one ranked candidate with its explanation.
type MatchResult struct {
	CandidateID     string           `json:"candidate_id"`
	Candidate       *profile.Profile `json:"-"`
	Score           float64          `json:"score"`
	Reasons         []string         `json:"reasons"`
	MatchedCriteria []Kind           `json:"matched_criteria,omitempty"`
	Insight         string           `json:"insight,omitempty"`
}

// Request describes one ranking call.
type Request struct {
	Seeker     *profile.Profile
	Candidates []*profile.Profile
	// Criteria to blend. Empty or all-zero weights degrade the engine to
	// pure embedding similarity.
	Criteria []Criterion
	// Limit truncates the result list. Zero means defaultLimit.
	Limit int
	// Peer marks a candidate-to-candidate comparison, which lets close
	// experience levels boost career similarity.
	Peer bool
	// Filters are applied to the candidate pool before any scoring.
	Filters []Filter
}

// Engine scores and ranks candidates. Construct it with New; it has no
// process-wide state.
type Engine struct {
	cache    *embedding.Cache
	fallback *embedding.Deterministic
	logger   *zap.Logger

	ruleWeight     float64
	semanticWeight float64
	minScore       float64
	concurrency    int
}

// Option adjusts engine construction.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithMinScore overrides the admission threshold.
func WithMinScore(min float64) Option {
	return func(e *Engine) { e.minScore = min }
}

// WithBlend overrides the rule/semantic blend ratio.
func WithBlend(rule, semantic float64) Option {
	return func(e *Engine) {
		e.ruleWeight = rule
		e.semanticWeight = semantic
	}
}

// WithConcurrency bounds how many candidates are scored in parallel.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// New creates an Engine around the given embedding provider. Provider
// results are memoized per profile; provider failures degrade to a
// deterministic embedding instead of aborting a batch.
func New(provider embedding.Provider, opts ...Option) *Engine {
	e := &Engine{
		cache:          embedding.NewCache(provider),
		fallback:       embedding.NewDeterministic(provider.Dim()),
		logger:         zap.NewNop(),
		ruleWeight:     defaultRuleWeight,
		semanticWeight: defaultSemanticWeight,
		minScore:       defaultMinScore,
		concurrency:    defaultConcurrency,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Rank scores every candidate against the seeker, drops those below the
// admission threshold, and returns the survivors sorted by score descending
// with candidate id as the deterministic tie-breaker. An empty result is a
// valid outcome, not an error.
func (e *Engine) Rank(ctx context.Context, req *Request) ([]*MatchResult, error) {
	if req == nil || req.Seeker == nil {
		return nil, fmt.Errorf("seeker profile is required")
	}

	candidates := req.Candidates
	if len(req.Filters) > 0 {
		var err error
		candidates, err = runFilters(ctx, e.logger, req.Filters, candidates)
		if err != nil {
			return nil, fmt.Errorf("filtering candidates: %w", err)
		}
	}

	var totalWeight float64
	for _, c := range req.Criteria {
		if c.Weight > 0 {
			totalWeight += c.Weight
		}
	}

	if totalWeight == 0 {
		e.logger.Debug("no weighted criteria supplied, ranking by embedding similarity only")
	}

	seekerVec := e.embedProfile(ctx, req.Seeker)

	results := make([]*MatchResult, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, candidate := range candidates {
		if candidate == nil {
			continue
		}

		g.Go(func() error {
			results[i] = e.scoreCandidate(gctx, req, candidate, seekerVec, totalWeight)
			return nil
		})
	}

	// Scoring never returns an error: per-candidate failures degrade to
	// the deterministic embedding.
	_ = g.Wait()

	admitted := make([]*MatchResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			admitted = append(admitted, r)
		}
	}

	sort.Slice(admitted, func(i, j int) bool {
		if admitted[i].Score != admitted[j].Score {
			return admitted[i].Score > admitted[j].Score
		}
		return admitted[i].CandidateID < admitted[j].CandidateID
	})

	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if len(admitted) > limit {
		admitted = admitted[:limit]
	}

	e.logger.Info("ranking completed",
		zap.String("seeker_id", req.Seeker.ID),
		zap.Int("candidates", len(candidates)),
		zap.Int("admitted", len(admitted)),
		zap.Int("cached_vectors", e.cache.Len()),
	)

	return admitted, nil
}

func (e *Engine) scoreCandidate(ctx context.Context, req *Request, candidate *profile.Profile, seekerVec []float32, totalWeight float64) *MatchResult {
	scores := make(map[Kind]float64, len(req.Criteria))

	var totalScore float64
	for _, c := range req.Criteria {
		if c.Weight <= 0 {
			continue
		}
		s := subscore(c.Kind, req.Seeker, candidate, req.Peer)
		scores[c.Kind] = s
		totalScore += s * c.Weight
	}

	semantic := Cosine(seekerVec, e.embedProfile(ctx, candidate))

	var final float64
	if totalWeight > 0 {
		ruleScore := totalScore / totalWeight
		final = ruleScore*e.ruleWeight + semantic*e.semanticWeight
	} else {
		final = semantic
	}
	final = clamp01(final)

	if final < e.minScore {
		e.logger.Debug("candidate below admission threshold",
			zap.String("candidate_id", candidate.ID),
			zap.Float64("score", final),
			zap.Float64("threshold", e.minScore),
		)
		return nil
	}

	reasons, matched := buildReasons(req.Seeker, candidate, scores, final)

	return &MatchResult{
		CandidateID:     candidate.ID,
		Candidate:       candidate,
		Score:           final,
		Reasons:         reasons,
		MatchedCriteria: matched,
		Insight:         buildInsight(candidate, final),
	}
}

// embedProfile never fails: provider errors are logged and the text is
// embedded with the deterministic fallback instead.
func (e *Engine) embedProfile(ctx context.Context, p *profile.Profile) []float32 {
	text := p.Text()

	vec, err := e.cache.Embed(ctx, p.ID, p.FreshnessToken(), text)
	if err == nil {
		return vec
	}

	e.logger.Warn("embedding profile failed, using deterministic fallback",
		zap.String("profile_id", p.ID),
		zap.String("text", logger.TruncateForLog(text, textPreviewLimit)),
		zap.Error(err),
	)

	vec, _ = e.fallback.Embed(ctx, text)

	return vec
}
