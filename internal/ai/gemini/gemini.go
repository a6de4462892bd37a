package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cropgenius-api/internal/config"
	"cropgenius-api/internal/oracle"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Client wraps one Gemini API key with its generative models.
type Client struct {
	client     *genai.Client
	flashModel *genai.GenerativeModel
	proModel   *genai.GenerativeModel
}

func NewClient(ctx context.Context, apiKey, flashModelName, proModelName string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("genai client init failed: %w", err)
	}
	return &Client{
		client:     client,
		flashModel: client.GenerativeModel(flashModelName),
		proModel:   client.GenerativeModel(proModelName),
	}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// generate sends one prompt, with optional inline base64 images, and returns
// the raw text of the top candidate. Vision requests go to the pro model,
// text-only requests to flash.
func (c *Client) generate(ctx context.Context, prompt string, images []string) (string, error) {
	parts := []genai.Part{genai.Text(prompt)}
	for i, imgBase64 := range images {
		if imgBase64 == "" {
			continue
		}
		decoded, err := base64.StdEncoding.DecodeString(imgBase64)
		if err != nil {
			slog.Warn("skipping undecodable image attachment", "index", i, "error", err)
			continue
		}
		parts = append(parts, genai.Blob{
			MIMEType: detectImageMIMEType(decoded),
			Data:     decoded,
		})
	}

	model := c.flashModel
	if len(parts) > 1 {
		model = c.proModel
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", wrapUpstreamError(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &oracle.InferenceError{Message: "no content returned from model"}
	}
	textPart, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", &oracle.InferenceError{
			Message: fmt.Sprintf("response part is not text, received %T", resp.Candidates[0].Content.Parts[0]),
		}
	}
	return string(textPart), nil
}

// FailoverClient implements oracle.InferenceClient across multiple API keys.
// Each call gets the configured timeout; a failing key rotates to the next
// one before the request is given up.
type FailoverClient struct {
	selector *Selector
	timeout  time.Duration
}

func NewFailoverClient(ctx context.Context, cfg config.GeminiAPIConfig) (*FailoverClient, error) {
	clients := make([]*Client, 0, len(cfg.APIKeys))
	for _, key := range cfg.APIKeys {
		c, err := NewClient(ctx, key, cfg.FlashName, cfg.ProName)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	if len(clients) == 0 {
		return nil, fmt.Errorf("no Gemini API keys configured")
	}
	return &FailoverClient{
		selector: NewSelector(clients),
		timeout:  cfg.Timeout,
	}, nil
}

func (f *FailoverClient) Generate(ctx context.Context, prompt string, images []string) (string, error) {
	var result string
	err := f.selector.TryAll(func(client *Client, idx int) error {
		callCtx, cancel := context.WithTimeout(ctx, f.timeout)
		defer cancel()
		text, err := client.generate(callCtx, prompt, images)
		if err != nil {
			return err
		}
		result = text
		return nil
	})
	if err != nil {
		var infErr *oracle.InferenceError
		if errors.As(err, &infErr) {
			return "", infErr
		}
		return "", &oracle.InferenceError{Message: err.Error(), Err: err}
	}
	return result, nil
}

func (f *FailoverClient) Close() {
	f.selector.CloseAll()
}

func wrapUpstreamError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &oracle.InferenceError{
			StatusCode: apiErr.Code,
			Message:    apiErr.Message,
			Err:        err,
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &oracle.InferenceError{Message: "model call timed out", Err: err}
	}
	return &oracle.InferenceError{Message: err.Error(), Err: err}
}

// detectImageMIMEType identifies an image by magic bytes. Unknown formats
// fall back to JPEG, which the API accepts for most camera uploads.
func detectImageMIMEType(data []byte) string {
	if len(data) >= 4 && data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 {
		return "image/png"
	}
	if len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return "image/jpeg"
	}
	if len(data) >= 12 && data[0] == 0x52 && data[1] == 0x49 && data[2] == 0x46 && data[3] == 0x46 &&
		data[8] == 0x57 && data[9] == 0x45 && data[10] == 0x42 && data[11] == 0x50 {
		return "image/webp"
	}
	return "image/jpeg"
}
