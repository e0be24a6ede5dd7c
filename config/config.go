package config

import (
	logger "github.com/Bparsons0904/goLogger"

	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion       string `mapstructure:"GENERAL_VERSION"`
	Environment          string `mapstructure:"ENVIRONMENT"`
	ServerPort           int    `mapstructure:"SERVER_PORT"`
	DatabaseHost         string `mapstructure:"DB_HOST"`
	DatabasePort         int    `mapstructure:"DB_PORT"`
	DatabaseName         string `mapstructure:"DB_NAME"`
	DatabaseUser         string `mapstructure:"DB_USER"`
	DatabasePassword     string `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DB_CACHE_PORT"`
	CorsAllowOrigins     string `mapstructure:"CORS_ALLOW_ORIGINS"`
	WeatherAPIURL        string `mapstructure:"WEATHER_API_URL"`
	GeocodingAPIURL      string `mapstructure:"GEOCODING_API_URL"`
	LLMBaseURL           string `mapstructure:"LLM_BASE_URL"`
	LLMAPIKey            string `mapstructure:"LLM_API_KEY"`
	LLMModel             string `mapstructure:"LLM_MODEL"`
	ElevenLabsAPIKey     string `mapstructure:"ELEVENLABS_API_KEY"`
	ReplicateAPIToken    string `mapstructure:"REPLICATE_API_TOKEN"`
	AudioDir             string `mapstructure:"AUDIO_DIR"`
	SchedulerEnabled     bool   `mapstructure:"SCHEDULER_ENABLED"`
}

var ConfigInstance Config

func InitConfig() (Config, error) {
	log := logger.New("config").Function("InitConfig")
	log.Info("Initializing config")

	viper.AutomaticEnv()

	envVars := []string{
		"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT",
		"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
		"DB_CACHE_ADDRESS", "DB_CACHE_PORT",
		"CORS_ALLOW_ORIGINS",
		"WEATHER_API_URL", "GEOCODING_API_URL",
		"LLM_BASE_URL", "LLM_API_KEY", "LLM_MODEL",
		"ELEVENLABS_API_KEY", "REPLICATE_API_TOKEN",
		"AUDIO_DIR", "SCHEDULER_ENABLED",
	}

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	setDefaults()

	// Environment variables win; files are a local-development convenience
	envVarsSet := viper.IsSet("SERVER_PORT") && viper.IsSet("DB_HOST")

	if envVarsSet {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		viper.SetConfigFile(".env")
		viper.SetConfigType("env")

		if err := viper.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		viper.SetConfigFile(".env.local")
		if err := viper.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	if err := validateConfig(config, log); err != nil {
		return Config{}, err
	}

	log.Info("Successfully initialized config", "environment", config.Environment)
	return ConfigInstance, nil
}

func GetConfig() Config {
	return ConfigInstance
}

func setDefaults() {
	viper.SetDefault("WEATHER_API_URL", "https://api.open-meteo.com/v1/forecast")
	viper.SetDefault("GEOCODING_API_URL", "https://geocoding-api.open-meteo.com/v1/search")
	viper.SetDefault("LLM_MODEL", "gpt-5")
	viper.SetDefault("AUDIO_DIR", "public/audio")
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	// The LLM is optional (the generator degrades to the fallback table),
	// but a key without a base URL is a misconfiguration worth failing on.
	if config.LLMAPIKey != "" && config.LLMBaseURL == "" {
		return log.ErrMsg("Fatal error: LLM_BASE_URL required when LLM_API_KEY is set")
	}

	if config.AudioDir == "" {
		return log.ErrMsg("Fatal error: AUDIO_DIR must not be empty")
	}

	ConfigInstance = config
	return nil
}
