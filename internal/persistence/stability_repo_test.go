package persistence

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/felixbrock/logoassist/internal/domain"
	"github.com/felixbrock/logoassist/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStabilityGenerate(t *testing.T) {
	var got textToImageReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/generation/sdxl/text-to-image", r.URL.Path)
		assert.Equal(t, "Bearer key123", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(textToImageResp{Artifacts: []artifact{{
			Base64:       base64.StdEncoding.EncodeToString([]byte("png")),
			Seed:         42,
			FinishReason: "SUCCESS",
		}}})
	}))
	defer srv.Close()

	repo := StabilityRepo{BaseUrl: srv.URL + "/", Engine: "sdxl", Client: srv.Client()}
	img, err := repo.Generate(context.Background(), "key123", render.Prompt{Text: "logo", Negative: "blurry"})

	require.NoError(t, err)
	assert.Equal(t, []byte("png"), img.Data)
	assert.Equal(t, int64(42), img.Seed)
	assert.Equal(t, "image/png", img.MimeType)
	require.Len(t, got.TextPrompts, 2)
	assert.Equal(t, float64(-1), got.TextPrompts[1].Weight)
	assert.Equal(t, 1, got.Samples)
}

func TestStabilityStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, domain.ErrUnauthorized},
		{http.StatusForbidden, domain.ErrUnauthorized},
		{http.StatusTooManyRequests, domain.ErrRateLimited},
		{http.StatusInternalServerError, domain.ErrUnavailable},
		{http.StatusBadRequest, domain.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"message":"nope"}`, tt.status)
			}))
			defer srv.Close()

			repo := StabilityRepo{BaseUrl: srv.URL, Engine: "sdxl", Client: srv.Client()}
			_, err := repo.Generate(context.Background(), "key123", render.Prompt{Text: "logo"})

			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestStabilityFilteredArtifact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(textToImageResp{Artifacts: []artifact{{FinishReason: "CONTENT_FILTERED"}}})
	}))
	defer srv.Close()

	repo := StabilityRepo{BaseUrl: srv.URL, Engine: "sdxl", Client: srv.Client()}
	_, err := repo.Generate(context.Background(), "key123", render.Prompt{Text: "logo"})

	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestStabilityTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	repo := StabilityRepo{BaseUrl: url, Engine: "sdxl"}
	_, err := repo.Generate(context.Background(), "key123", render.Prompt{Text: "logo"})

	assert.ErrorIs(t, err, domain.ErrUnavailable)
}
