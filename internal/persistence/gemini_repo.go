package persistence

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/felixbrock/logoassist/internal/domain"
	"github.com/felixbrock/logoassist/internal/render"
	"google.golang.org/genai"
)

const DefaultGeminiModel = "imagen-3.0-generate-002"

// GeminiRepo renders prompts with an Imagen model through the Gemini API.
type GeminiRepo struct {
	Model   string
	BaseUrl string
	Client  *http.Client
}

func (r GeminiRepo) Generate(ctx context.Context, apiKey string, prompt render.Prompt) (*domain.Image, error) {
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: r.Client,
	}
	if r.BaseUrl != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: r.BaseUrl}
	}

	// With an explicit key and HTTP client NewClient only fills in structs, so a
	// client per call keeps no user key alive past the call.
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: creating genai client: %w", domain.ErrUnavailable, err)
	}

	model := r.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	resp, err := client.Models.GenerateImages(ctx, model, prompt.Text, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    "1:1",
	})

	if err != nil {
		return nil, mapGenaiError(err)
	}

	if resp == nil || len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return nil, fmt.Errorf("%w: response carried no images", domain.ErrUnavailable)
	}

	generated := resp.GeneratedImages[0]
	if generated.RAIFilteredReason != "" {
		return nil, fmt.Errorf("%w: image filtered: %s", domain.ErrUnavailable, generated.RAIFilteredReason)
	}

	mime := generated.Image.MIMEType
	if mime == "" {
		mime = "image/png"
	}

	return &domain.Image{MimeType: mime, Data: generated.Image.ImageBytes}, nil
}

func mapGenaiError(err error) error {
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	if !errors.As(err, &apiErr) && errors.As(err, &apiErrPtr) {
		apiErr = *apiErrPtr
	}

	switch apiErr.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	case http.StatusBadRequest:
		// the Gemini API answers an invalid key with 400 API_KEY_INVALID
		if apiErr.Status == "INVALID_ARGUMENT" && isKeyError(apiErr) {
			return fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
		}
		return fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", domain.ErrRateLimited, err)
	default:
		return fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
	}
}

func isKeyError(e genai.APIError) bool {
	for _, d := range e.Details {
		if reason, ok := d["reason"].(string); ok && reason == "API_KEY_INVALID" {
			return true
		}
	}
	return false
}
