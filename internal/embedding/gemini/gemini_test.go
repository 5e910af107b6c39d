package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"google.golang.org/genai"
)

type fakeEmbedder struct {
	mu    sync.Mutex
	calls int
	queue []fakeResponse
	texts []string
}

type fakeResponse struct {
	resp *genai.EmbedContentResponse
	err  error
}

func (f *fakeEmbedder) enqueue(resp *genai.EmbedContentResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, fakeResponse{resp: resp, err: err})
}

func (f *fakeEmbedder) EmbedContent(_ context.Context, _ string, contents []*genai.Content, _ *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	for _, content := range contents {
		for _, part := range content.Parts {
			f.texts = append(f.texts, part.Text)
		}
	}

	if len(f.queue) == 0 {
		return nil, errors.New("unexpected call")
	}
	res := f.queue[0]
	f.queue = f.queue[1:]

	return res.resp, res.err
}

func embeddingResponse(values []float32) *genai.EmbedContentResponse {
	return &genai.EmbedContentResponse{
		Embeddings: []*genai.ContentEmbedding{{Values: values}},
	}
}

func testProvider(dim int, fake *fakeEmbedder) *Provider {
	p := newProvider(Config{Dimension: dim})
	p.models = fake
	return p
}

func TestEmbedReturnsVector(t *testing.T) {
	fake := &fakeEmbedder{}
	fake.enqueue(embeddingResponse([]float32{0.1, 0.2, 0.3}), nil)

	p := testProvider(3, fake)

	vec, err := p.Embed(context.Background(), "site reliability engineer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 3 {
		t.Fatalf("expected 3 values, got %d", len(vec))
	}
	if len(fake.texts) == 0 || fake.texts[0] != "site reliability engineer" {
		t.Fatalf("unexpected texts sent: %v", fake.texts)
	}
}

func TestEmbedRetriesOnTemporaryError(t *testing.T) {
	originalSleep := sleep
	sleep = func(time.Duration) {}
	defer func() { sleep = originalSleep }()

	fake := &fakeEmbedder{}
	fake.enqueue(nil, genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"})
	fake.enqueue(embeddingResponse([]float32{1, 2}), nil)

	p := testProvider(2, fake)

	vec, err := p.Embed(context.Background(), "text")
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if len(vec) != 2 {
		t.Fatalf("unexpected vector: %v", vec)
	}
	if fake.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", fake.calls)
	}
}

func TestEmbedStopsAfterRetriesExhausted(t *testing.T) {
	originalSleep := sleep
	sleep = func(time.Duration) {}
	defer func() { sleep = originalSleep }()

	fake := &fakeEmbedder{}
	tempErr := genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"}
	fake.enqueue(nil, tempErr)
	fake.enqueue(nil, tempErr)

	p := testProvider(2, fake)

	if _, err := p.Embed(context.Background(), "text"); err == nil {
		t.Fatal("expected error after retries exhausted")
	}
	if fake.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", fake.calls)
	}
}

func TestEmbedDoesNotRetryPermanentError(t *testing.T) {
	fake := &fakeEmbedder{}
	fake.enqueue(nil, genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"})

	p := testProvider(2, fake)

	if _, err := p.Embed(context.Background(), "text"); err == nil {
		t.Fatal("expected error for permanent failure")
	}
	if fake.calls != 1 {
		t.Fatalf("expected single call, got %d", fake.calls)
	}
}

func TestEmbedRejectsWrongDimension(t *testing.T) {
	fake := &fakeEmbedder{}
	fake.enqueue(embeddingResponse([]float32{1, 2, 3}), nil)

	p := testProvider(8, fake)

	if _, err := p.Embed(context.Background(), "text"); err == nil {
		t.Fatal("expected error for wrong dimension")
	}
}

func TestEmbedRejectsEmptyText(t *testing.T) {
	p := testProvider(4, &fakeEmbedder{})

	if _, err := p.Embed(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty text")
	}
}

func TestProviderDefaults(t *testing.T) {
	p := newProvider(Config{})

	if p.Model() != defaultModel {
		t.Fatalf("unexpected model: %q", p.Model())
	}
	if p.Dim() <= 0 {
		t.Fatalf("expected a positive default dimension, got %d", p.Dim())
	}
	if p.maxRetries != defaultMaxRetries {
		t.Fatalf("unexpected max retries: %d", p.maxRetries)
	}
}
