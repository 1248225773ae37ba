package persistence

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

const DefaultPHUrl = "https://eu.posthog.com"

// PHRepo sends product events to PostHog.
type PHRepo struct {
	BaseUrl     string
	BaseHeaders []string
	ApiKey      string
	Client      *http.Client
}

type phEvent struct {
	ApiKey     string         `json:"api_key"`
	Event      string         `json:"event"`
	Properties map[string]any `json:"properties"`
}

func NewPHRepo(baseUrl, apiKey string) PHRepo {
	if baseUrl == "" {
		baseUrl = DefaultPHUrl
	}

	return PHRepo{
		BaseUrl:     strings.TrimSuffix(baseUrl, "/"),
		BaseHeaders: []string{"Content-Type:application/json"},
		ApiKey:      apiKey,
	}
}

func (r PHRepo) Capture(ctx context.Context, eventType string, distinctId string, props map[string]any) error {
	properties := map[string]any{"distinct_id": distinctId}
	for k, v := range props {
		properties[k] = v
	}

	body, err := json.Marshal(phEvent{ApiKey: r.ApiKey, Event: eventType, Properties: properties})

	if err != nil {
		return err
	}

	_, err = request[struct{}](ctx, r.Client, reqConfig{Method: "POST", Url: r.BaseUrl + "/capture/", Headers: r.BaseHeaders, Body: body}, 200)

	return err
}
