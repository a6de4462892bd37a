package oracle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

type stubRequest struct {
	Subject string
	Valid   bool
}

type stubResult struct {
	Subject    string  `json:"subject"`
	Confidence float64 `json:"confidence"`
	Defaulted  bool    `json:"defaulted"`
}

type stubClient struct {
	response string
	err      error
	calls    int
}

func (c *stubClient) Generate(_ context.Context, _ string, _ []string) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}

func stubDomain() Domain[stubRequest, stubResult] {
	return Domain[stubRequest, stubResult]{
		Name: "stub",
		Validate: func(req stubRequest) error {
			if !req.Valid {
				return &ValidationError{Field: "subject", Reason: "is required"}
			}
			return nil
		},
		BuildPrompt: func(req stubRequest) string { return "analyze " + req.Subject },
		CacheKey:    func(req stubRequest) string { return "stub:" + req.Subject },
		CacheTTL:    time.Minute,
		Normalize: func(partial map[string]any, req stubRequest, _ time.Duration) stubResult {
			res := stubResult{Subject: req.Subject}
			if v, ok := Num(partial, "confidence"); ok {
				res.Confidence = Clamp(v, 0, 100)
			} else {
				res.Confidence = 50
				res.Defaulted = true
			}
			return res
		},
	}
}

// ============================================================================
// TEST SUITE 1: PIPELINE SEMANTICS
// ============================================================================

func TestPipelineRun_HappyPath(t *testing.T) {
	client := &stubClient{response: `{"confidence": 90}`}
	pipeline := NewPipeline(stubDomain(), client, nil)

	result, cached, err := pipeline.Run(context.Background(), stubRequest{Subject: "maize", Valid: true})
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 90.0, result.Confidence)
	assert.Equal(t, 1, client.calls)
}

func TestPipelineRun_ValidationFailureSkipsInference(t *testing.T) {
	client := &stubClient{response: `{"confidence": 90}`}
	pipeline := NewPipeline(stubDomain(), client, nil)

	_, _, err := pipeline.Run(context.Background(), stubRequest{Valid: false})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, 0, client.calls, "invalid requests never reach the model")
}

func TestPipelineRun_GarbageResponseServesDefaults(t *testing.T) {
	client := &stubClient{response: "I cannot analyze this."}
	pipeline := NewPipeline(stubDomain(), client, nil)

	result, cached, err := pipeline.Run(context.Background(), stubRequest{Subject: "maize", Valid: true})
	require.NoError(t, err, "unparseable model output is not an error")
	assert.False(t, cached)
	assert.True(t, result.Defaulted)
	assert.Equal(t, 50.0, result.Confidence)
}

func TestPipelineRun_SecondCallHitsCache(t *testing.T) {
	client := &stubClient{response: `{"confidence": 90}`}
	cache := NewMemoryCache(8, time.Minute)
	pipeline := NewPipeline(stubDomain(), client, cache)
	req := stubRequest{Subject: "maize", Valid: true}

	first, cached, err := pipeline.Run(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, cached)

	second, cached, err := pipeline.Run(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, client.calls, "cache hit must not call the model again")
}

func TestPipelineRun_InferenceErrorCachesNothing(t *testing.T) {
	client := &stubClient{err: &InferenceError{StatusCode: 500, Message: "upstream exploded"}}
	cache := NewMemoryCache(8, time.Minute)
	pipeline := NewPipeline(stubDomain(), client, cache)
	req := stubRequest{Subject: "maize", Valid: true}

	_, _, err := pipeline.Run(context.Background(), req)
	var infErr *InferenceError
	require.ErrorAs(t, err, &infErr)
	assert.Equal(t, 500, infErr.StatusCode)

	var dest stubResult
	found, cacheErr := cache.Get(context.Background(), "stub:maize", &dest)
	require.NoError(t, cacheErr)
	assert.False(t, found, "a failed call must leave the cache empty")
}

func TestPipelineRun_EmptyCacheKeyDisablesCaching(t *testing.T) {
	domain := stubDomain()
	domain.CacheKey = func(stubRequest) string { return "" }

	client := &stubClient{response: `{"confidence": 90}`}
	cache := NewMemoryCache(8, time.Minute)
	pipeline := NewPipeline(domain, client, cache)
	req := stubRequest{Subject: "maize", Valid: true}

	_, _, err := pipeline.Run(context.Background(), req)
	require.NoError(t, err)
	_, cached, err := pipeline.Run(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, client.calls)
}
