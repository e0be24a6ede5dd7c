package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"skytone/config"
	"skytone/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWeather(condition types.WeatherCondition) types.WeatherData {
	return types.WeatherData{
		Condition:   condition,
		Temperature: 15,
		Humidity:    65,
		Description: "Test conditions",
		Location:    "Testville, Nowhere",
	}
}

func newConceptTestService(baseURL string) *ConceptService {
	return NewConceptService(config.Config{
		LLMBaseURL: baseURL,
		LLMAPIKey:  "test-key",
		LLMModel:   "gpt-5",
	})
}

func TestConceptService_Generate_FromModel(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var req chatCompletionRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "gpt-5", req.Model)
			require.Len(t, req.Messages, 1)
			assert.Contains(t, req.Messages[0].Content, "Weather: rainy")
			assert.Contains(t, req.Messages[0].Content, "Time of Day: night")

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"choices": [{"message": {"content": "{\"title\":\"Midnight Rain Study\",\"description\":\"Soft piano over steady rainfall.\",\"mood\":\"Dreamy & Calm\",\"genre\":\"Lo-Fi Piano\",\"tempo\":\"slow\"}"}}]
			}`))
		}),
	)
	defer server.Close()

	service := newConceptTestService(server.URL)

	concept := service.Generate(
		context.Background(),
		testWeather(types.ConditionRainy),
		types.TimeNight,
		"",
	)

	assert.Equal(t, "Midnight Rain Study", concept.Title)
	assert.Equal(t, "Soft piano over steady rainfall.", concept.Description)
	assert.Equal(t, "Dreamy & Calm", concept.Mood)
	assert.Equal(t, "Lo-Fi Piano", concept.Genre)
	assert.Equal(t, types.TempoSlow, concept.Tempo)
}

func TestConceptService_Generate_MarkdownFencedResponse(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			content := "```json\n{\"title\":\"Fenced\",\"description\":\"d\",\"mood\":\"m\",\"genre\":\"g\",\"tempo\":\"moderate\"}\n```"
			encoded, err := json.Marshal(content)
			require.NoError(t, err)
			_, _ = w.Write([]byte(`{"choices": [{"message": {"content": ` + string(encoded) + `}}]}`))
		}),
	)
	defer server.Close()

	service := newConceptTestService(server.URL)

	concept := service.Generate(
		context.Background(),
		testWeather(types.ConditionCloudy),
		types.TimeAfternoon,
		"",
	)

	assert.Equal(t, "Fenced", concept.Title)
	assert.Equal(t, types.TempoModerate, concept.Tempo)
}

func TestConceptService_Generate_InvalidTempoUsesHeuristic(t *testing.T) {
	tests := []struct {
		name      string
		condition types.WeatherCondition
		timeOfDay types.TimeOfDay
		expected  types.Tempo
	}{
		{"rainy slows down", types.ConditionRainy, types.TimeAfternoon, types.TempoSlow},
		{"night slows down", types.ConditionCloudy, types.TimeNight, types.TempoSlow},
		{"sunny speeds up", types.ConditionSunny, types.TimeAfternoon, types.TempoUpbeat},
		{"morning speeds up", types.ConditionCloudy, types.TimeMorning, types.TempoUpbeat},
		{"otherwise moderate", types.ConditionFoggy, types.TimeEvening, types.TempoModerate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					_, _ = w.Write([]byte(`{
						"choices": [{"message": {"content": "{\"title\":\"T\",\"description\":\"D\",\"mood\":\"M\",\"genre\":\"G\",\"tempo\":\"allegro\"}"}}]
					}`))
				}),
			)
			defer server.Close()

			service := newConceptTestService(server.URL)

			concept := service.Generate(
				context.Background(),
				testWeather(tt.condition),
				tt.timeOfDay,
				"",
			)

			assert.Equal(t, tt.expected, concept.Tempo)
		})
	}
}

func TestConceptService_Generate_FallbackOnProviderError(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}),
	)
	defer server.Close()

	service := newConceptTestService(server.URL)

	concept := service.Generate(
		context.Background(),
		testWeather(types.ConditionRainy),
		types.TimeNight,
		"",
	)

	assert.Equal(t, "Rainy Night Vibes", concept.Title)
	assert.Equal(
		t,
		"Perfect ambient music for a rainy night. Let the sounds help you focus and stay productive.",
		concept.Description,
	)
	assert.Equal(t, "Dreamy & Calm", concept.Mood)
	assert.Equal(t, "Ethereal Wave", concept.Genre)
	assert.Equal(t, types.TempoSlow, concept.Tempo)
}

func TestConceptService_Generate_FallbackOnUnparseableResponse(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{
				"choices": [{"message": {"content": "Sorry, I cannot respond in JSON today."}}]
			}`))
		}),
	)
	defer server.Close()

	service := newConceptTestService(server.URL)

	concept := service.Generate(
		context.Background(),
		testWeather(types.ConditionStormy),
		types.TimeMorning,
		"",
	)

	assert.Equal(t, "Stormy Morning Vibes", concept.Title)
	assert.Equal(t, "Intense Focus", concept.Mood)
	assert.Equal(t, "Cinematic Ambient", concept.Genre)
	assert.Equal(t, types.TempoModerate, concept.Tempo)
}

func TestConceptService_Generate_NotConfiguredUsesFallback(t *testing.T) {
	service := NewConceptService(config.Config{})

	concept := service.Generate(
		context.Background(),
		testWeather(types.ConditionSunny),
		types.TimeMorning,
		"",
	)

	assert.Equal(t, "Sunny Morning Vibes", concept.Title)
	assert.Equal(t, "Bright & Energetic", concept.Mood)
	assert.Equal(t, "Uplifting Electronic", concept.Genre)
	assert.Equal(t, types.TempoUpbeat, concept.Tempo)
}

func TestConceptService_Generate_UnknownPairingUsesGenericFallback(t *testing.T) {
	service := NewConceptService(config.Config{})

	concept := service.Generate(
		context.Background(),
		testWeather(types.WeatherCondition("hail")),
		types.TimeEvening,
		"",
	)

	assert.Equal(t, "Hail Evening Vibes", concept.Title)
	assert.Equal(t, "Calm & Focused", concept.Mood)
	assert.Equal(t, "Ambient", concept.Genre)
	assert.Equal(t, types.TempoModerate, concept.Tempo)
}

func TestConceptService_Generate_PreferredGenreSteersFallback(t *testing.T) {
	service := NewConceptService(config.Config{})

	concept := service.Generate(
		context.Background(),
		testWeather(types.ConditionRainy),
		types.TimeNight,
		"jazz",
	)

	assert.Equal(t, "jazz", concept.Genre)
	assert.Equal(t, "Dreamy & Calm", concept.Mood)

	auto := service.Generate(
		context.Background(),
		testWeather(types.ConditionRainy),
		types.TimeNight,
		"auto",
	)

	assert.Equal(t, "Ethereal Wave", auto.Genre)
}

func TestFallbackMoods_CoversEveryPairing(t *testing.T) {
	for _, condition := range types.WeatherConditions {
		for _, timeOfDay := range types.TimesOfDay {
			key := string(condition) + "-" + string(timeOfDay)
			moodData, ok := fallbackMoods[key]
			assert.True(t, ok, "missing fallback for %s", key)
			assert.NotEmpty(t, moodData.mood, key)
			assert.NotEmpty(t, moodData.genre, key)
			assert.True(t, moodData.tempo.IsValid(), key)
		}
	}
	assert.Len(t, fallbackMoods, len(types.WeatherConditions)*len(types.TimesOfDay))
}

func TestStripMarkdownFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripMarkdownFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripMarkdownFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripMarkdownFences(`{"a":1}`))
}
