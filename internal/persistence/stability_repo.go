package persistence

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/felixbrock/logoassist/internal/domain"
	"github.com/felixbrock/logoassist/internal/render"
)

const DefaultStabilityUrl = "https://api.stability.ai"

// StabilityRepo renders prompts with the Stability AI text-to-image REST API.
type StabilityRepo struct {
	BaseUrl string
	Engine  string
	Client  *http.Client
}

type textPrompt struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
}

type textToImageReq struct {
	TextPrompts []textPrompt `json:"text_prompts"`
	CfgScale    int          `json:"cfg_scale"`
	Height      int          `json:"height"`
	Width       int          `json:"width"`
	Samples     int          `json:"samples"`
	Steps       int          `json:"steps"`
}

type artifact struct {
	Base64       string `json:"base64"`
	Seed         int64  `json:"seed"`
	FinishReason string `json:"finishReason"`
}

type textToImageResp struct {
	Artifacts []artifact `json:"artifacts"`
}

func (r StabilityRepo) Generate(ctx context.Context, apiKey string, prompt render.Prompt) (*domain.Image, error) {
	prompts := []textPrompt{{Text: prompt.Text, Weight: 1}}
	if prompt.Negative != "" {
		prompts = append(prompts, textPrompt{Text: prompt.Negative, Weight: -1})
	}

	body, err := json.Marshal(textToImageReq{
		TextPrompts: prompts,
		CfgScale:    7,
		Height:      1024,
		Width:       1024,
		Samples:     1,
		Steps:       30,
	})

	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/generation/%s/text-to-image", strings.TrimSuffix(r.BaseUrl, "/"), r.Engine)

	resp, err := request[textToImageResp](ctx, r.Client, reqConfig{
		Method: "POST",
		Url:    url,
		Headers: []string{
			"Content-Type:application/json",
			"Accept:application/json",
			fmt.Sprintf("Authorization: Bearer %s", apiKey)},
		Body: body}, 200)

	if err != nil {
		return nil, mapStatus(err)
	}

	if len(resp.Artifacts) == 0 {
		return nil, fmt.Errorf("%w: response carried no artifacts", domain.ErrUnavailable)
	}

	a := resp.Artifacts[0]
	if a.FinishReason != "" && a.FinishReason != "SUCCESS" {
		return nil, fmt.Errorf("%w: generation finished with %s", domain.ErrUnavailable, a.FinishReason)
	}

	data, err := base64.StdEncoding.DecodeString(a.Base64)

	if err != nil {
		return nil, fmt.Errorf("%w: decoding artifact: %w", domain.ErrUnavailable, err)
	}

	return &domain.Image{MimeType: "image/png", Data: data, Seed: a.Seed}, nil
}

// mapStatus folds HTTP failures into the render error taxonomy.
func mapStatus(err error) error {
	var status *StatusError
	if !errors.As(err, &status) {
		return fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
	}

	switch {
	case status.Code == http.StatusUnauthorized || status.Code == http.StatusForbidden:
		return fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	case status.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", domain.ErrRateLimited, err)
	default:
		return fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
	}
}
