// Package oracle implements the pipeline behind every AI-backed feature:
// build a prompt from a typed request, call the external model, tolerantly
// parse the free-text answer, normalize it into a fully populated result, and
// cache it. The three product features (disease diagnosis, yield prediction,
// question triage) are instantiations of the same Pipeline rather than three
// drifting copies.
package oracle

import (
	"context"
	"log/slog"
	"time"
)

// InferenceClient sends one prompt (optionally with inline base64 images) to
// the external generative endpoint and returns the raw text of the top
// candidate. Failures surface as *InferenceError.
type InferenceClient interface {
	Generate(ctx context.Context, prompt string, images []string) (string, error)
}

// Domain describes one oracle instantiation. BuildPrompt must be pure and
// deterministic; Normalize must be total: it is called with whatever partial
// map the parser produced, including an empty one.
type Domain[Req any, Res any] struct {
	Name string

	// Validate rejects malformed requests before any network call.
	Validate func(req Req) error

	// BuildPrompt maps the request to the instruction text. The prompt is
	// the de facto output schema declaration, so it must spell out the exact
	// JSON shape and any closed taxonomies.
	BuildPrompt func(req Req) string

	// Images returns base64-encoded attachments, nil for text-only domains.
	Images func(req Req) []string

	// CacheKey returns "" to disable caching for this request.
	CacheKey func(req Req) string
	CacheTTL time.Duration

	// Normalize converts the parsed partial into a fully populated result,
	// clamping every numeric field and defaulting every absent one.
	Normalize func(partial map[string]any, req Req, elapsed time.Duration) Res
}

// Pipeline runs one Domain against an InferenceClient with an injected cache.
type Pipeline[Req any, Res any] struct {
	domain Domain[Req, Res]
	client InferenceClient
	cache  Cache
}

func NewPipeline[Req any, Res any](domain Domain[Req, Res], client InferenceClient, cache Cache) *Pipeline[Req, Res] {
	return &Pipeline[Req, Res]{domain: domain, client: client, cache: cache}
}

// Run executes the full pipeline for one request. The returned bool reports
// whether the result came from cache. Inference failures return the zero
// result and a typed error; nothing is cached on failure. Parse failures are
// not errors: the normalizer fills the documented defaults and the call
// still succeeds.
func (p *Pipeline[Req, Res]) Run(ctx context.Context, req Req) (Res, bool, error) {
	var zero Res

	if p.domain.Validate != nil {
		if err := p.domain.Validate(req); err != nil {
			return zero, false, err
		}
	}

	key := ""
	if p.domain.CacheKey != nil {
		key = p.domain.CacheKey(req)
	}
	if key != "" && p.cache != nil {
		var cached Res
		found, err := p.cache.Get(ctx, key, &cached)
		if err != nil {
			slog.Warn("oracle cache read failed, falling through to inference",
				"domain", p.domain.Name, "error", err)
		} else if found {
			slog.Info("oracle cache hit", "domain", p.domain.Name)
			return cached, true, nil
		}
	}

	prompt := p.domain.BuildPrompt(req)
	var images []string
	if p.domain.Images != nil {
		images = p.domain.Images(req)
	}

	start := time.Now()
	raw, err := p.client.Generate(ctx, prompt, images)
	if err != nil {
		return zero, false, err
	}

	partial := ParsePartial(raw)
	if len(partial) == 0 {
		slog.Warn("oracle response had no usable JSON, serving defaults",
			"domain", p.domain.Name, "response_length", len(raw))
	}

	result := p.domain.Normalize(partial, req, time.Since(start))

	if key != "" && p.cache != nil {
		if err := p.cache.Set(ctx, key, result, p.domain.CacheTTL); err != nil {
			slog.Warn("oracle cache write failed", "domain", p.domain.Name, "error", err)
		}
	}

	return result, false, nil
}
