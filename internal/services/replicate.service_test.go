package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"skytone/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReplicateTestService(baseURL string) *ReplicateService {
	service := NewReplicateService(config.Config{ReplicateAPIToken: "test-token"})
	service.baseURL = baseURL
	service.pollInterval = 5 * time.Millisecond
	service.maxPollAttempts = 10
	return service
}

func TestReplicateService_GenerateMusic(t *testing.T) {
	var statusChecks atomic.Int32
	audioBody := []byte("mp3-bytes")

	mux := http.NewServeMux()
	var serverURL string

	mux.HandleFunc("POST /v1/predictions", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Token test-token", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, replicateMusicGenVersion, req["version"])

		input, ok := req["input"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "stereo-large", input["model_version"])
		assert.Equal(t, "mp3", input["output_format"])
		assert.Equal(t, float64(30), input["duration"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": "pred-123", "status": "starting"}`))
	})

	mux.HandleFunc("GET /v1/predictions/pred-123", func(w http.ResponseWriter, r *http.Request) {
		if statusChecks.Add(1) < 3 {
			_, _ = w.Write([]byte(`{"id": "pred-123", "status": "processing"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id": "pred-123", "status": "succeeded", "output": "` + serverURL + `/audio/out.mp3"}`))
	})

	mux.HandleFunc("GET /audio/out.mp3", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(audioBody)
	})

	server := httptest.NewServer(mux)
	defer server.Close()
	serverURL = server.URL

	service := newReplicateTestService(server.URL)

	audio, attempts, err := service.GenerateMusic(context.Background(), "ambient music", 30)
	require.NoError(t, err)
	assert.Equal(t, audioBody, audio)
	assert.Equal(t, 3, attempts)
}

func TestReplicateService_GenerateMusic_Failed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/predictions", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": "pred-bad", "status": "starting"}`))
	})
	mux.HandleFunc("GET /v1/predictions/pred-bad", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "pred-bad", "status": "failed", "error": "NSFW prompt"}`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	service := newReplicateTestService(server.URL)

	_, attempts, err := service.GenerateMusic(context.Background(), "bad prompt", 30)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSynthesisFailed)
	assert.Contains(t, err.Error(), "NSFW prompt")
	assert.Equal(t, 1, attempts)
}

func TestReplicateService_GenerateMusic_Timeout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/predictions", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": "pred-slow", "status": "starting"}`))
	})
	mux.HandleFunc("GET /v1/predictions/pred-slow", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "pred-slow", "status": "processing"}`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	service := newReplicateTestService(server.URL)
	service.maxPollAttempts = 3

	_, attempts, err := service.GenerateMusic(context.Background(), "slow prompt", 30)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSynthesisTimeout)
	assert.Equal(t, 3, attempts)
}

func TestReplicateService_GenerateMusic_ContextCanceled(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/predictions", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": "pred-ctx", "status": "starting"}`))
	})
	mux.HandleFunc("GET /v1/predictions/pred-ctx", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "pred-ctx", "status": "processing"}`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	service := newReplicateTestService(server.URL)
	service.pollInterval = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, _, err := service.GenerateMusic(ctx, "canceled prompt", 30)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReplicateService_NotConfigured(t *testing.T) {
	service := NewReplicateService(config.Config{})

	_, _, err := service.GenerateMusic(context.Background(), "prompt", 30)
	assert.ErrorIs(t, err, ErrProviderNotConfigured)
}
