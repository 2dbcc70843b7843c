package infra

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ProviderConfig holds the endpoint settings for one external inference provider.
type ProviderConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	AudioDir           string
	CORSAllowedOrigins []string
	GeoIPDBPath        string
	DefaultLocale      string
	PasswordPepper     string
	Pricing            ProviderConfig
	Market             ProviderConfig
	Vision             ProviderConfig
	Speech             ProviderConfig
	ProviderTimeout    time.Duration
	SpeechTimeout      time.Duration
	PersistQueueSize   int
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	RateLimitPerMin    int
	DebugEndpoints     bool
}

// LoadConfig loads configuration from environment variables (and the optional
// file named by SAMAKI_CONFIG) and applies defaults where needed. Provider
// credentials are optional.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if path := strings.TrimSpace(v.GetString("SAMAKI_CONFIG")); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	appEnv := v.GetString("APP_ENV")
	cfg := &Config{
		AppEnv:             appEnv,
		Port:               v.GetString("PORT"),
		DatabaseURL:        strings.TrimSpace(v.GetString("DATABASE_URL")),
		AudioDir:           v.GetString("AUDIO_DIR"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		GeoIPDBPath:        strings.TrimSpace(v.GetString("GEOIP_DB_PATH")),
		DefaultLocale:      v.GetString("DEFAULT_LOCALE"),
		PasswordPepper:     v.GetString("PASSWORD_PEPPER"),
		Pricing:            providerConfig(v, "MISTRAL"),
		Market:             providerConfig(v, "AIML"),
		Vision:             providerConfig(v, "NEBIUS"),
		Speech:             providerConfig(v, "ELEVENLABS"),
		ProviderTimeout:    time.Second * time.Duration(v.GetInt("PROVIDER_TIMEOUT_SECONDS")),
		SpeechTimeout:      time.Second * time.Duration(v.GetInt("SPEECH_TIMEOUT_SECONDS")),
		PersistQueueSize:   v.GetInt("PERSIST_QUEUE_SIZE"),
		HTTPReadTimeout:    time.Second * time.Duration(v.GetInt("HTTP_READ_TIMEOUT_SECONDS")),
		HTTPWriteTimeout:   time.Second * time.Duration(v.GetInt("HTTP_WRITE_TIMEOUT_SECONDS")),
		HTTPIdleTimeout:    time.Second * time.Duration(v.GetInt("HTTP_IDLE_TIMEOUT_SECONDS")),
		RateLimitPerMin:    v.GetInt("RATE_LIMIT_PER_MINUTE"),
		DebugEndpoints:     appEnv == "development",
	}
	if v.IsSet("DEBUG_ENDPOINTS") && v.GetString("DEBUG_ENDPOINTS") != "" {
		cfg.DebugEndpoints = v.GetBool("DEBUG_ENDPOINTS")
	}

	if cfg.ProviderTimeout <= 0 {
		return nil, fmt.Errorf("PROVIDER_TIMEOUT_SECONDS must be positive")
	}
	if cfg.SpeechTimeout <= 0 {
		return nil, fmt.Errorf("SPEECH_TIMEOUT_SECONDS must be positive")
	}
	if cfg.PersistQueueSize <= 0 {
		return nil, fmt.Errorf("PERSIST_QUEUE_SIZE must be positive")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8000")
	v.SetDefault("AUDIO_DIR", "./audio")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:8000")
	v.SetDefault("DEFAULT_LOCALE", "sw")
	v.SetDefault("PASSWORD_PEPPER", "samakicash")
	v.SetDefault("MISTRAL_BASE_URL", "https://api.mistral.ai/v1")
	v.SetDefault("MISTRAL_MODEL", "mistral-large-latest")
	v.SetDefault("AIML_BASE_URL", "https://api.aimlapi.com/v1")
	v.SetDefault("AIML_MODEL", "gpt-4")
	v.SetDefault("NEBIUS_BASE_URL", "https://api.nebius.ai/v1")
	v.SetDefault("NEBIUS_MODEL", "nebius-vision-v1")
	v.SetDefault("ELEVENLABS_BASE_URL", "https://api.elevenlabs.io/v1")
	v.SetDefault("ELEVENLABS_MODEL", "eleven_multilingual_v2")
	v.SetDefault("PROVIDER_TIMEOUT_SECONDS", 30)
	v.SetDefault("SPEECH_TIMEOUT_SECONDS", 45)
	v.SetDefault("PERSIST_QUEUE_SIZE", 128)
	v.SetDefault("HTTP_READ_TIMEOUT_SECONDS", 15)
	v.SetDefault("HTTP_WRITE_TIMEOUT_SECONDS", 120)
	v.SetDefault("HTTP_IDLE_TIMEOUT_SECONDS", 60)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 60)
}

func providerConfig(v *viper.Viper, prefix string) ProviderConfig {
	return ProviderConfig{
		APIKey:  strings.TrimSpace(v.GetString(prefix + "_API_KEY")),
		BaseURL: strings.TrimRight(v.GetString(prefix+"_BASE_URL"), "/"),
		Model:   strings.TrimSpace(v.GetString(prefix + "_MODEL")),
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
