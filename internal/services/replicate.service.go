package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"skytone/config"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	replicateDefaultBaseURL = "https://api.replicate.com"

	// MusicGen stereo-large
	replicateMusicGenVersion = "b05b1dff1d8c6dc63d14b0cdb42135378dcb87f6373b0d3d341ede46e59e2b38"
)

type replicatePrediction struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Output string `json:"output"`
	Error  string `json:"error"`
}

// ReplicateService drives MusicGen through Replicate's predictions API.
// Submission returns immediately; the service then polls until the
// prediction reaches a terminal status.
type ReplicateService struct {
	apiToken        string
	baseURL         string
	httpClient      *http.Client
	pollInterval    time.Duration
	maxPollAttempts int
	log             logger.Logger
}

func NewReplicateService(cfg config.Config) *ReplicateService {
	return &ReplicateService{
		apiToken: cfg.ReplicateAPIToken,
		baseURL:  replicateDefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		pollInterval:    5 * time.Second,
		maxPollAttempts: 60,
		log:             logger.New("ReplicateService"),
	}
}

func (rs *ReplicateService) IsConfigured() bool {
	return rs.apiToken != ""
}

// GenerateMusic submits a prediction, polls it to completion, and
// downloads the resulting audio. The returned attempt count is the
// number of status checks performed.
func (rs *ReplicateService) GenerateMusic(
	ctx context.Context,
	prompt string,
	durationSeconds int,
) ([]byte, int, error) {
	log := rs.log.Function("GenerateMusic")

	if !rs.IsConfigured() {
		return nil, 0, ErrProviderNotConfigured
	}

	predictionID, err := rs.submitPrediction(ctx, prompt, durationSeconds)
	if err != nil {
		return nil, 0, err
	}

	log.Info("prediction submitted", "predictionID", predictionID)

	prediction, attempts, err := rs.pollPrediction(ctx, predictionID)
	if err != nil {
		return nil, attempts, err
	}

	if prediction.Output == "" {
		return nil, attempts, fmt.Errorf("%w: no audio URL in prediction output", ErrSynthesisFailed)
	}

	audio, err := rs.downloadAudio(ctx, prediction.Output)
	if err != nil {
		return nil, attempts, err
	}

	log.Info("music generated", "predictionID", predictionID, "bytes", len(audio), "attempts", attempts)

	return audio, attempts, nil
}

func (rs *ReplicateService) submitPrediction(
	ctx context.Context,
	prompt string,
	durationSeconds int,
) (string, error) {
	log := rs.log.Function("submitPrediction")

	body, err := json.Marshal(map[string]any{
		"version": replicateMusicGenVersion,
		"input": map[string]any{
			"prompt":                 prompt,
			"duration":               durationSeconds,
			"model_version":          "stereo-large",
			"output_format":          "mp3",
			"normalization_strategy": "loudness",
		},
	})
	if err != nil {
		return "", log.Err("failed to marshal prediction request", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		rs.baseURL+"/v1/predictions",
		bytes.NewReader(body),
	)
	if err != nil {
		return "", log.Err("failed to create prediction request", err)
	}

	req.Header.Set("Authorization", "Token "+rs.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := rs.httpClient.Do(req)
	if err != nil {
		return "", log.Err("prediction request failed", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Warn("failed to close prediction response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(resp.Body)
		return "", log.Error(
			"prediction request rejected",
			"statusCode", resp.StatusCode,
			"detail", string(detail),
		)
	}

	var prediction replicatePrediction
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return "", log.Err("failed to decode prediction response", err)
	}

	if prediction.ID == "" {
		return "", fmt.Errorf("%w: prediction response missing id", ErrSynthesisFailed)
	}

	return prediction.ID, nil
}

func (rs *ReplicateService) pollPrediction(
	ctx context.Context,
	predictionID string,
) (*replicatePrediction, int, error) {
	log := rs.log.Function("pollPrediction")

	for attempts := 1; attempts <= rs.maxPollAttempts; attempts++ {
		select {
		case <-ctx.Done():
			return nil, attempts - 1, ctx.Err()
		case <-time.After(rs.pollInterval):
		}

		prediction, err := rs.checkPrediction(ctx, predictionID)
		if err != nil {
			return nil, attempts, err
		}

		switch prediction.Status {
		case "succeeded":
			return prediction, attempts, nil
		case "failed", "canceled":
			reason := prediction.Error
			if reason == "" {
				reason = "unknown error"
			}
			return nil, attempts, fmt.Errorf("%w: %s", ErrSynthesisFailed, reason)
		}

		log.Debug("prediction still running", "predictionID", predictionID, "attempt", attempts)
	}

	return nil, rs.maxPollAttempts, ErrSynthesisTimeout
}

func (rs *ReplicateService) checkPrediction(
	ctx context.Context,
	predictionID string,
) (*replicatePrediction, error) {
	log := rs.log.Function("checkPrediction")

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		rs.baseURL+"/v1/predictions/"+predictionID,
		nil,
	)
	if err != nil {
		return nil, log.Err("failed to create status request", err)
	}

	req.Header.Set("Authorization", "Token "+rs.apiToken)

	resp, err := rs.httpClient.Do(req)
	if err != nil {
		return nil, log.Err("status request failed", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Warn("failed to close status response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, log.Error("status request rejected", "statusCode", resp.StatusCode)
	}

	var prediction replicatePrediction
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return nil, log.Err("failed to decode status response", err)
	}

	return &prediction, nil
}

func (rs *ReplicateService) downloadAudio(ctx context.Context, audioURL string) ([]byte, error) {
	log := rs.log.Function("downloadAudio")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return nil, log.Err("failed to create download request", err)
	}

	resp, err := rs.httpClient.Do(req)
	if err != nil {
		return nil, log.Err("audio download failed", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Warn("failed to close download response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, log.Error("audio download rejected", "statusCode", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, log.Err("failed to read audio body", err)
	}

	return audio, nil
}
