// Package gemini implements the remote embedding provider on top of the
// Google GenAI API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/careerverse/careermatch/internal/embedding"
)

const (
	defaultModel      = "gemini-embedding-001"
	defaultTimeout    = 15 * time.Second
	defaultMaxRetries = 2
	retryBackoff      = 2 * time.Second
)

var sleep = time.Sleep

// contentEmbedder is the slice of the genai client the provider needs.
type contentEmbedder interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Config holds the settings for the Gemini embedding backend.
type Config struct {
	APIKey     string
	Model      string
	Dimension  int
	Timeout    time.Duration
	MaxRetries int
	// RequestsPerMinute throttles EmbedContent calls. Zero disables
	// throttling.
	RequestsPerMinute int
}

// Provider embeds text via the Gemini EmbedContent API. All failures are
// returned as errors; the caller decides whether to fall back.
type Provider struct {
	models     contentEmbedder
	modelName  string
	dim        int
	timeout    time.Duration
	maxRetries int
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// New creates a Provider configured for the Gemini API backend.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	p := newProvider(cfg)
	p.models = client.Models

	return p, nil
}

func newProvider(cfg Config) *Provider {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	dim := cfg.Dimension
	if dim <= 0 {
		dim = embedding.DefaultDimension
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60), 1)
	}

	return &Provider{
		modelName:  model,
		dim:        dim,
		timeout:    timeout,
		maxRetries: maxRetries,
		limiter:    limiter,
		logger:     zap.NewNop(),
	}
}

// Embed sends the text to Gemini and returns the embedding vector, retrying
// temporary API errors up to MaxRetries attempts.
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	if p == nil || p.models == nil {
		return nil, errors.New("gemini provider is not initialized")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("text must not be empty")
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	dim := int32(p.dim)
	config := &genai.EmbedContentConfig{
		OutputDimensionality: &dim,
	}

	var lastErr error
	for attempt := 0; attempt < p.maxRetries; attempt++ {
		if attempt > 0 {
			p.logger.Debug("retrying embed content",
				zap.Int("attempt", attempt+1),
				zap.Error(lastErr),
			)
			sleep(retryBackoff)
		}

		resp, err := p.embedOnce(ctx, config, text)
		if err != nil {
			if !isTemporary(err) {
				return nil, fmt.Errorf("embed content: %w", err)
			}
			lastErr = err
			continue
		}

		return p.extractVector(resp)
	}

	return nil, fmt.Errorf("embed content: %w", lastErr)
}

func (p *Provider) embedOnce(ctx context.Context, config *genai.EmbedContentConfig, text string) (*genai.EmbedContentResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.models.EmbedContent(ctx, p.modelName, genai.Text(text), config)
}

func (p *Provider) extractVector(resp *genai.EmbedContentResponse) ([]float32, error) {
	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, errors.New("gemini api returned no embeddings")
	}

	vec := resp.Embeddings[0].Values
	if len(vec) != p.dim {
		return nil, fmt.Errorf("gemini api returned %d values, expected %d", len(vec), p.dim)
	}

	return vec, nil
}

// isTemporary reports whether the error is worth retrying.
func isTemporary(err error) bool {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return false
	}

	switch apiErr.Code {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusServiceUnavailable:
		return true
	}

	return false
}

func (p *Provider) Dim() int {
	return p.dim
}

func (p *Provider) Model() string {
	if p == nil {
		return ""
	}
	return p.modelName
}

// WithLogger attaches a logger used for retry diagnostics.
func (p *Provider) WithLogger(logger *zap.Logger) *Provider {
	if logger != nil {
		p.logger = logger
	}
	return p
}
