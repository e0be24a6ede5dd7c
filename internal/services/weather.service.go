package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"skytone/config"
	"skytone/internal/database"
	"skytone/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

var (
	ErrUpstreamUnavailable = errors.New("weather provider unavailable")
	ErrLocationNotFound    = errors.New("location not found")
)

const (
	WEATHER_CACHE_PREFIX = "weather"
	WEATHER_CACHE_EXPIRY = 10 * time.Minute

	// Open-Meteo reports wind in km/h; above this the condition is
	// overridden to windy unless a storm is active.
	windyThresholdKmh = 30.0
)

type openMeteoResponse struct {
	CurrentWeather *struct {
		Temperature float64 `json:"temperature"`
		WeatherCode int     `json:"weathercode"`
		WindSpeed   float64 `json:"windspeed"`
	} `json:"current_weather"`
	Hourly *struct {
		RelativeHumidity2m []float64 `json:"relative_humidity_2m"`
	} `json:"hourly"`
}

type geocodingResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Country   string  `json:"country"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"results"`
}

type conditionMapping struct {
	condition   types.WeatherCondition
	description string
}

// WMO weather interpretation codes, per the Open-Meteo docs
var weatherCodeConditions = map[int]conditionMapping{
	0:  {types.ConditionClear, "Clear sky"},
	1:  {types.ConditionSunny, "Mainly clear"},
	2:  {types.ConditionCloudy, "Partly cloudy"},
	3:  {types.ConditionCloudy, "Overcast"},
	45: {types.ConditionFoggy, "Fog"},
	48: {types.ConditionFoggy, "Depositing rime fog"},
	51: {types.ConditionRainy, "Light drizzle"},
	53: {types.ConditionRainy, "Moderate drizzle"},
	55: {types.ConditionRainy, "Dense drizzle"},
	56: {types.ConditionRainy, "Light freezing drizzle"},
	57: {types.ConditionRainy, "Dense freezing drizzle"},
	61: {types.ConditionRainy, "Slight rain"},
	63: {types.ConditionRainy, "Moderate rain"},
	65: {types.ConditionRainy, "Heavy rain"},
	66: {types.ConditionRainy, "Light freezing rain"},
	67: {types.ConditionRainy, "Heavy freezing rain"},
	71: {types.ConditionSnowy, "Slight snow"},
	73: {types.ConditionSnowy, "Moderate snow"},
	75: {types.ConditionSnowy, "Heavy snow"},
	77: {types.ConditionSnowy, "Snow grains"},
	80: {types.ConditionRainy, "Slight rain showers"},
	81: {types.ConditionRainy, "Moderate rain showers"},
	82: {types.ConditionRainy, "Violent rain showers"},
	85: {types.ConditionSnowy, "Slight snow showers"},
	86: {types.ConditionSnowy, "Heavy snow showers"},
	95: {types.ConditionStormy, "Thunderstorm"},
	96: {types.ConditionStormy, "Thunderstorm with slight hail"},
	99: {types.ConditionStormy, "Thunderstorm with heavy hail"},
}

func mapWeatherCode(code int) conditionMapping {
	if mapping, ok := weatherCodeConditions[code]; ok {
		return mapping
	}
	return conditionMapping{types.ConditionCloudy, "Varied conditions"}
}

// WeatherService resolves current conditions from Open-Meteo and
// normalizes them into the closed condition set.
type WeatherService struct {
	weatherURL   string
	geocodingURL string
	cache        database.CacheClient
	httpClient   *http.Client
	log          logger.Logger
}

func NewWeatherService(cfg config.Config, cache database.CacheClient) *WeatherService {
	return &WeatherService{
		weatherURL:   cfg.WeatherAPIURL,
		geocodingURL: cfg.GeocodingAPIURL,
		cache:        cache,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: logger.New("WeatherService"),
	}
}

func (ws *WeatherService) GetByCoordinates(
	ctx context.Context,
	latitude, longitude float64,
) (*types.WeatherData, error) {
	log := ws.log.Function("GetByCoordinates")

	cacheKey := fmt.Sprintf("coords:%.2f:%.2f", latitude, longitude)
	if cached := ws.getCached(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	weather, err := ws.fetchCurrentWeather(ctx, latitude, longitude)
	if err != nil {
		return nil, err
	}

	weather.Location = ws.resolveLocationName(ctx, latitude, longitude)

	ws.setCached(ctx, cacheKey, weather)

	log.Info(
		"weather resolved",
		"condition",
		weather.Condition,
		"temperature",
		weather.Temperature,
		"location",
		weather.Location,
	)

	return weather, nil
}

func (ws *WeatherService) GetByCity(
	ctx context.Context,
	city string,
) (*types.WeatherData, error) {
	log := ws.log.Function("GetByCity")

	cacheKey := "city:" + strings.ToLower(city)
	if cached := ws.getCached(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	geoURL := fmt.Sprintf(
		"%s?name=%s&count=1&language=en&format=json",
		ws.geocodingURL,
		url.QueryEscape(city),
	)

	var geo geocodingResponse
	if err := ws.getJSON(ctx, geoURL, &geo); err != nil {
		return nil, log.Err("geocoding request failed", err, "city", city)
	}

	if len(geo.Results) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrLocationNotFound, city)
	}

	place := geo.Results[0]
	weather, err := ws.fetchCurrentWeather(ctx, place.Latitude, place.Longitude)
	if err != nil {
		return nil, err
	}

	weather.Location = fmt.Sprintf("%s, %s", place.Name, place.Country)

	ws.setCached(ctx, cacheKey, weather)

	log.Info("weather resolved", "condition", weather.Condition, "city", city)

	return weather, nil
}

func (ws *WeatherService) fetchCurrentWeather(
	ctx context.Context,
	latitude, longitude float64,
) (*types.WeatherData, error) {
	log := ws.log.Function("fetchCurrentWeather")

	weatherURL := fmt.Sprintf(
		"%s?latitude=%f&longitude=%f&current_weather=true&hourly=relative_humidity_2m&timezone=auto",
		ws.weatherURL,
		latitude,
		longitude,
	)

	var payload openMeteoResponse
	if err := ws.getJSON(ctx, weatherURL, &payload); err != nil {
		return nil, log.Err("weather request failed", err)
	}

	if payload.CurrentWeather == nil {
		return nil, fmt.Errorf("%w: no current weather data", ErrUpstreamUnavailable)
	}

	current := payload.CurrentWeather
	mapping := mapWeatherCode(current.WeatherCode)

	// First hourly value is the current hour
	humidity := 50.0
	if payload.Hourly != nil && len(payload.Hourly.RelativeHumidity2m) > 0 {
		humidity = payload.Hourly.RelativeHumidity2m[0]
	}

	condition := mapping.condition
	description := mapping.description
	if current.WindSpeed > windyThresholdKmh {
		if condition != types.ConditionStormy {
			condition = types.ConditionWindy
		}
		description = "Windy conditions"
	}

	return &types.WeatherData{
		Condition:   condition,
		Temperature: int(math.Round(current.Temperature)),
		Humidity:    int(math.Round(humidity)),
		Description: description,
	}, nil
}

// resolveLocationName is best effort; failures fall back to formatted
// coordinates rather than failing the weather lookup.
func (ws *WeatherService) resolveLocationName(
	ctx context.Context,
	latitude, longitude float64,
) string {
	log := ws.log.Function("resolveLocationName")

	geoURL := fmt.Sprintf(
		"%s?name=city&count=1&latitude=%f&longitude=%f",
		ws.geocodingURL,
		latitude,
		longitude,
	)

	var geo geocodingResponse
	if err := ws.getJSON(ctx, geoURL, &geo); err == nil && len(geo.Results) > 0 {
		return fmt.Sprintf("%s, %s", geo.Results[0].Name, geo.Results[0].Country)
	} else if err != nil {
		log.Warn("location name lookup failed", "error", err)
	}

	return fmt.Sprintf("%.2f°, %.2f°", latitude, longitude)
}

func (ws *WeatherService) getJSON(ctx context.Context, requestURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return err
	}

	resp, err := ws.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			ws.log.Warn("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (ws *WeatherService) getCached(ctx context.Context, key string) *types.WeatherData {
	if ws.cache == nil {
		return nil
	}

	var cached types.WeatherData
	found, err := database.NewCacheBuilder(ws.cache, key).
		WithContext(ctx).
		WithHash(WEATHER_CACHE_PREFIX).
		Get(&cached)
	if err != nil {
		ws.log.Warn("failed to get weather from cache", "key", key, "error", err)
		return nil
	}

	if !found {
		return nil
	}

	return &cached
}

func (ws *WeatherService) setCached(ctx context.Context, key string, weather *types.WeatherData) {
	if ws.cache == nil {
		return
	}

	err := database.NewCacheBuilder(ws.cache, key).
		WithContext(ctx).
		WithHash(WEATHER_CACHE_PREFIX).
		WithStruct(weather).
		WithTTL(WEATHER_CACHE_EXPIRY).
		Set()
	if err != nil {
		ws.log.Warn("failed to cache weather", "key", key, "error", err)
	}
}
