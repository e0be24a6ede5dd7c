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

const elevenLabsDefaultBaseURL = "https://api.elevenlabs.io"

// ElevenLabsService drives the ElevenLabs music composition endpoint.
// Composition is synchronous; the full audio body comes back in one
// response.
type ElevenLabsService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        logger.Logger
}

type ElevenLabsSubscription struct {
	Tier           string `json:"tier"`
	CharacterCount int    `json:"character_count"`
	CharacterLimit int    `json:"character_limit"`
	Status         string `json:"status"`
}

func NewElevenLabsService(cfg config.Config) *ElevenLabsService {
	return &ElevenLabsService{
		apiKey:  cfg.ElevenLabsAPIKey,
		baseURL: elevenLabsDefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
		log: logger.New("ElevenLabsService"),
	}
}

func (es *ElevenLabsService) IsConfigured() bool {
	return es.apiKey != ""
}

// ComposeMusic generates audio for the prompt and returns the raw mp3
// bytes.
func (es *ElevenLabsService) ComposeMusic(
	ctx context.Context,
	prompt string,
	durationSeconds int,
) ([]byte, error) {
	log := es.log.Function("ComposeMusic")

	if !es.IsConfigured() {
		return nil, ErrProviderNotConfigured
	}

	body, err := json.Marshal(map[string]any{
		"prompt":        prompt,
		"musicLengthMs": durationSeconds * 1000,
	})
	if err != nil {
		return nil, log.Err("failed to marshal composition request", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		es.baseURL+"/v1/music",
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, log.Err("failed to create composition request", err)
	}

	req.Header.Set("xi-api-key", es.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := es.httpClient.Do(req)
	if err != nil {
		return nil, log.Err("composition request failed", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Warn("failed to close composition response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(resp.Body)
		return nil, log.Error(
			"composition request rejected",
			"statusCode", resp.StatusCode,
			"detail", string(detail),
		)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, log.Err("failed to read audio response", err)
	}

	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: empty audio response", ErrSynthesisFailed)
	}

	log.Info("music composed", "bytes", len(audio), "durationSeconds", durationSeconds)

	return audio, nil
}

// FetchSubscription reports account standing for the status endpoint.
// Best effort; an unreachable API returns an error the caller can treat
// as "unknown".
func (es *ElevenLabsService) FetchSubscription(
	ctx context.Context,
) (*ElevenLabsSubscription, error) {
	log := es.log.Function("FetchSubscription")

	if !es.IsConfigured() {
		return nil, ErrProviderNotConfigured
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		es.baseURL+"/v1/user/subscription",
		nil,
	)
	if err != nil {
		return nil, log.Err("failed to create subscription request", err)
	}

	req.Header.Set("xi-api-key", es.apiKey)

	resp, err := es.httpClient.Do(req)
	if err != nil {
		return nil, log.Err("subscription request failed", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Warn("failed to close subscription response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, log.Error("subscription request rejected", "statusCode", resp.StatusCode)
	}

	var subscription ElevenLabsSubscription
	if err := json.NewDecoder(resp.Body).Decode(&subscription); err != nil {
		return nil, log.Err("failed to decode subscription response", err)
	}

	return &subscription, nil
}
