package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"skytone/config"
	"skytone/internal/models"
	"skytone/internal/types"
	"skytone/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
)

const conceptPromptTemplate = `You are a music curator specializing in ambient and focus music. Based on the current weather and time of day, suggest a perfect work BGM (background music) for concentration and productivity.

Current conditions:
- Weather: %s (%s)
- Temperature: %d°C
- Time of Day: %s
- Location: %s

Generate a unique, creative BGM suggestion that matches this atmosphere. The music should help with focus and work.

You MUST respond with a valid JSON object in this exact format (no additional text, just JSON):
{
  "title": "A creative, evocative title for the BGM (e.g., 'Rainy Day Focus', 'Sunrise Productivity')",
  "description": "A 2-3 sentence description of the music's feel, instruments, and atmosphere",
  "mood": "A short mood phrase (e.g., 'Calm & Focused', 'Energetic Morning', 'Cozy & Reflective')",
  "genre": "The music genre (e.g., 'Lo-Fi Hip Hop', 'Ambient Electronic', 'Jazz Piano', 'Classical Focus', 'Chill Wave')",
  "tempo": "slow OR moderate OR upbeat"
}`

type fallbackMood struct {
	mood  string
	genre string
	tempo types.Tempo
}

// fallbackMoods covers every condition and time-of-day pairing so a
// provider outage still yields a sensible concept.
var fallbackMoods = map[string]fallbackMood{
	"sunny-morning":    {"Bright & Energetic", "Uplifting Electronic", types.TempoUpbeat},
	"sunny-afternoon":  {"Focused & Productive", "Ambient House", types.TempoModerate},
	"sunny-evening":    {"Warm & Relaxing", "Sunset Chill", types.TempoSlow},
	"sunny-night":      {"Peaceful & Calm", "Night Ambient", types.TempoSlow},
	"clear-morning":    {"Fresh & Motivated", "Acoustic Focus", types.TempoModerate},
	"clear-afternoon":  {"Clear-headed & Productive", "Minimal Electronic", types.TempoModerate},
	"clear-evening":    {"Serene & Reflective", "Piano Ambient", types.TempoSlow},
	"clear-night":      {"Tranquil & Starlit", "Space Ambient", types.TempoSlow},
	"cloudy-morning":   {"Thoughtful & Focused", "Indie Focus", types.TempoModerate},
	"cloudy-afternoon": {"Deep Work Mode", "Minimal Electronic", types.TempoModerate},
	"cloudy-evening":   {"Contemplative", "Post-Rock Ambient", types.TempoSlow},
	"cloudy-night":     {"Introspective", "Dark Ambient", types.TempoSlow},
	"rainy-morning":    {"Cozy & Focused", "Lo-Fi Rain", types.TempoSlow},
	"rainy-afternoon":  {"Creative Flow", "Jazz Piano", types.TempoModerate},
	"rainy-evening":    {"Reflective", "Acoustic Ambient", types.TempoSlow},
	"rainy-night":      {"Dreamy & Calm", "Ethereal Wave", types.TempoSlow},
	"snowy-morning":    {"Crisp & Quiet", "Winter Ambient", types.TempoSlow},
	"snowy-afternoon":  {"Peaceful & Soft", "Nordic Folk", types.TempoSlow},
	"snowy-evening":    {"Warm Inside", "Cozy Acoustic", types.TempoSlow},
	"snowy-night":      {"Silent & Magical", "Ambient Soundscape", types.TempoSlow},
	"stormy-morning":   {"Intense Focus", "Cinematic Ambient", types.TempoModerate},
	"stormy-afternoon": {"Dramatic & Powerful", "Epic Ambient", types.TempoModerate},
	"stormy-evening":   {"Mysterious", "Dark Electronic", types.TempoModerate},
	"stormy-night":     {"Atmospheric", "Thunder Ambient", types.TempoSlow},
	"foggy-morning":    {"Ethereal & Quiet", "Misty Ambient", types.TempoSlow},
	"foggy-afternoon":  {"Mysterious & Calm", "Drone Ambient", types.TempoSlow},
	"foggy-evening":    {"Hazy & Dreamy", "Shoegaze Ambient", types.TempoSlow},
	"foggy-night":      {"Ghostly & Serene", "Dark Ambient", types.TempoSlow},
	"windy-morning":    {"Fresh & Dynamic", "Acoustic Folk", types.TempoModerate},
	"windy-afternoon":  {"Free & Flowing", "World Ambient", types.TempoModerate},
	"windy-evening":    {"Wild & Free", "Cinematic Strings", types.TempoModerate},
	"windy-night":      {"Restless & Deep", "Electronic Ambient", types.TempoSlow},
}

type chatCompletionRequest struct {
	Model               string           `json:"model"`
	Messages            []chatMessage    `json:"messages"`
	ResponseFormat      map[string]string `json:"response_format,omitempty"`
	MaxCompletionTokens int              `json:"max_completion_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ConceptService turns a weather snapshot into a BGM concept via an
// OpenAI-compatible chat completion endpoint. Every failure path falls
// back to the static mood table, so Generate never errors.
type ConceptService struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	log        logger.Logger
}

func NewConceptService(cfg config.Config) *ConceptService {
	return &ConceptService{
		baseURL: cfg.LLMBaseURL,
		apiKey:  cfg.LLMAPIKey,
		model:   cfg.LLMModel,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		log: logger.New("ConceptService"),
	}
}

func (cs *ConceptService) IsConfigured() bool {
	return cs.baseURL != ""
}

func (cs *ConceptService) Generate(
	ctx context.Context,
	weather types.WeatherData,
	timeOfDay types.TimeOfDay,
	preferredGenre string,
) *models.BGMConcept {
	log := cs.log.Function("Generate")

	if !cs.IsConfigured() {
		return cs.fallbackConcept(weather, timeOfDay, preferredGenre)
	}

	prompt := fmt.Sprintf(
		conceptPromptTemplate,
		weather.Condition,
		weather.Description,
		weather.Temperature,
		timeOfDay,
		weather.Location,
	)

	if preferredGenre != "" && preferredGenre != "auto" {
		prompt += fmt.Sprintf(
			"\n\nThe listener prefers %s music, so the genre should lean that direction.",
			preferredGenre,
		)
	}

	content, err := cs.complete(ctx, prompt)
	if err != nil {
		log.Warn("concept generation failed, using fallback", "error", err)
		return cs.fallbackConcept(weather, timeOfDay, preferredGenre)
	}

	if cleaned, wasCleaned := utils.CleanUTF8(content); wasCleaned {
		log.Warn("model response contained invalid UTF-8, cleaned")
		content = cleaned
	}

	var raw struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Mood        string `json:"mood"`
		Genre       string `json:"genre"`
		Tempo       string `json:"tempo"`
	}
	if err := json.Unmarshal([]byte(stripMarkdownFences(content)), &raw); err != nil {
		log.Warn("failed to parse concept response, using fallback", "content", content, "error", err)
		return cs.fallbackConcept(weather, timeOfDay, preferredGenre)
	}

	concept := &models.BGMConcept{
		Title:       strings.TrimSpace(raw.Title),
		Description: strings.TrimSpace(raw.Description),
		Mood:        strings.TrimSpace(raw.Mood),
		Genre:       strings.TrimSpace(raw.Genre),
		Tempo:       types.Tempo(raw.Tempo),
	}

	// Field-level fallbacks keep partially valid responses usable
	if concept.Title == "" {
		concept.Title = "Ambient Focus"
	}
	if concept.Description == "" {
		concept.Description = "A calming ambient track for concentration."
	}
	if concept.Mood == "" {
		concept.Mood = "Calm & Focused"
	}
	if concept.Genre == "" {
		concept.Genre = "Ambient"
	}
	if !concept.Tempo.IsValid() {
		concept.Tempo = tempoForContext(weather.Condition, timeOfDay)
	}

	return concept
}

func (cs *ConceptService) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatCompletionRequest{
		Model:               cs.model,
		Messages:            []chatMessage{{Role: "user", Content: prompt}},
		ResponseFormat:      map[string]string{"type": "json_object"},
		MaxCompletionTokens: 500,
	})
	if err != nil {
		return "", err
	}

	endpoint := strings.TrimSuffix(cs.baseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	if cs.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+cs.apiKey)
	}

	resp, err := cs.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			cs.log.Warn("failed to close completion response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion request failed with status %d", resp.StatusCode)
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", err
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("completion response contained no content")
	}

	return completion.Choices[0].Message.Content, nil
}

func (cs *ConceptService) fallbackConcept(
	weather types.WeatherData,
	timeOfDay types.TimeOfDay,
	preferredGenre string,
) *models.BGMConcept {
	key := fmt.Sprintf("%s-%s", weather.Condition, timeOfDay)
	moodData, ok := fallbackMoods[key]
	if !ok {
		moodData = fallbackMood{"Calm & Focused", "Ambient", types.TempoModerate}
	}

	genre := moodData.genre
	if preferredGenre != "" && preferredGenre != "auto" {
		genre = preferredGenre
	}

	return &models.BGMConcept{
		Title: fmt.Sprintf("%s %s Vibes", titleCase(weather.Condition.String()), titleCase(timeOfDay.String())),
		Description: fmt.Sprintf(
			"Perfect ambient music for a %s %s. Let the sounds help you focus and stay productive.",
			weather.Condition,
			timeOfDay,
		),
		Mood:  moodData.mood,
		Genre: genre,
		Tempo: moodData.tempo,
	}
}

// tempoForContext picks a plausible tempo when the model returned an
// invalid one. Subdued conditions and nighttime slow down; bright
// conditions and mornings speed up.
func tempoForContext(condition types.WeatherCondition, timeOfDay types.TimeOfDay) types.Tempo {
	if condition == types.ConditionRainy || condition == types.ConditionSnowy ||
		timeOfDay == types.TimeNight {
		return types.TempoSlow
	}
	if condition == types.ConditionSunny || condition == types.ConditionClear ||
		timeOfDay == types.TimeMorning {
		return types.TempoUpbeat
	}
	return types.TempoModerate
}

func stripMarkdownFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	}
	return strings.TrimSpace(trimmed)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
