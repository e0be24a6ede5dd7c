package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"skytone/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newElevenLabsTestService(baseURL string) *ElevenLabsService {
	service := NewElevenLabsService(config.Config{ElevenLabsAPIKey: "xi-test-key"})
	service.baseURL = baseURL
	return service
}

func TestElevenLabsService_ComposeMusic(t *testing.T) {
	audioBody := []byte("mp3-audio-bytes")

	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/music", r.URL.Path)
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "xi-test-key", r.Header.Get("xi-api-key"))

			var req map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "ambient music prompt", req["prompt"])
			assert.Equal(t, float64(30000), req["musicLengthMs"])

			w.Header().Set("Content-Type", "audio/mpeg")
			_, _ = w.Write(audioBody)
		}),
	)
	defer server.Close()

	service := newElevenLabsTestService(server.URL)

	audio, err := service.ComposeMusic(context.Background(), "ambient music prompt", 30)
	require.NoError(t, err)
	assert.Equal(t, audioBody, audio)
}

func TestElevenLabsService_ComposeMusic_Rejected(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail": {"status": "invalid_api_key"}}`))
		}),
	)
	defer server.Close()

	service := newElevenLabsTestService(server.URL)

	_, err := service.ComposeMusic(context.Background(), "prompt", 30)
	require.Error(t, err)
}

func TestElevenLabsService_NotConfigured(t *testing.T) {
	service := NewElevenLabsService(config.Config{})

	assert.False(t, service.IsConfigured())

	_, err := service.ComposeMusic(context.Background(), "prompt", 30)
	assert.ErrorIs(t, err, ErrProviderNotConfigured)

	_, err = service.FetchSubscription(context.Background())
	assert.ErrorIs(t, err, ErrProviderNotConfigured)
}

func TestElevenLabsService_FetchSubscription(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/user/subscription", r.URL.Path)
			assert.Equal(t, "xi-test-key", r.Header.Get("xi-api-key"))
			_, _ = w.Write([]byte(`{"tier": "creator", "character_count": 100, "character_limit": 500, "status": "active"}`))
		}),
	)
	defer server.Close()

	service := newElevenLabsTestService(server.URL)

	subscription, err := service.FetchSubscription(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "creator", subscription.Tier)
	assert.Equal(t, "active", subscription.Status)
}
