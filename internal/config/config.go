package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is built once at start and passed down explicitly. No key is required:
// an engine without credentials is simply left out of the provider registry.
type Config struct {
	HTTPPort    string   `envconfig:"HTTP_PORT" default:"5001"`
	Environment string   `envconfig:"APP_ENV" default:"development"`
	LogLevel    string   `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty   bool     `envconfig:"LOG_PRETTY" default:"false"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`

	Database  DatabaseConfig
	Providers ProvidersConfig
	Dispatch  DispatchConfig
	SMTP      SMTPConfig
	Roadmap   RoadmapConfig
	Resources ResourcesConfig

	ReferenceDataPath string `envconfig:"REFERENCE_DATA" default:"data/reference.yaml"`
}

type DatabaseConfig struct {
	URL             string        `envconfig:"DATABASE_URL"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
}

type ProvidersConfig struct {
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	GeminiModel  string `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash"`

	GroqAPIKey  string `envconfig:"GROQ_API_KEY"`
	GroqBaseURL string `envconfig:"GROQ_BASE_URL" default:"https://api.groq.com/openai/v1"`
	GroqModel   string `envconfig:"GROQ_MODEL" default:"llama-3.1-8b-instant"`

	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	OpenAIModel   string `envconfig:"OPENAI_MODEL" default:"gpt-3.5-turbo"`

	HFAPIKey  string `envconfig:"HF_API_KEY"`
	HFBaseURL string `envconfig:"HF_BASE_URL" default:"https://api-inference.huggingface.co/models"`
	HFModel   string `envconfig:"HF_MODEL" default:"bigscience/bloom-560m"`

	HTTPTimeout time.Duration `envconfig:"PROVIDER_HTTP_TIMEOUT" default:"60s"`
}

type DispatchConfig struct {
	MaxAttempts    int           `envconfig:"DISPATCH_MAX_ATTEMPTS" default:"5"`
	InitialBackoff time.Duration `envconfig:"DISPATCH_INITIAL_BACKOFF" default:"2s"`
	MaxBackoff     time.Duration `envconfig:"DISPATCH_MAX_BACKOFF" default:"16s"`
	AttemptTimeout time.Duration `envconfig:"DISPATCH_ATTEMPT_TIMEOUT" default:"20s"`
	Budget         time.Duration `envconfig:"DISPATCH_BUDGET" default:"30s"`
}

type SMTPConfig struct {
	Host     string `envconfig:"SMTP_SERVER" default:"smtp.gmail.com"`
	Port     int    `envconfig:"SMTP_PORT" default:"587"`
	User     string `envconfig:"SMTP_USER"`
	Password string `envconfig:"SMTP_PASS"`
}

// Enabled reports whether credentials are present. Without them mail is disabled.
func (c SMTPConfig) Enabled() bool {
	return c.User != "" && c.Password != ""
}

type RoadmapConfig struct {
	ImageDir string `envconfig:"ROADMAP_IMAGE_DIR" default:"roadmap_images"`
	FontPath string `envconfig:"FONT_PATH"`
}

type ResourcesConfig struct {
	Enabled       bool          `envconfig:"RESOURCES_ENABLED" default:"true"`
	YouTubeAPIKey string        `envconfig:"YOUTUBE_API_KEY"`
	RedisURL      string        `envconfig:"REDIS_URL"`
	CacheTTL      time.Duration `envconfig:"RESOURCES_CACHE_TTL" default:"6h"`
	SearchTimeout time.Duration `envconfig:"RESOURCES_SEARCH_TIMEOUT" default:"10s"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Dispatch.MaxAttempts < 1 {
		return fmt.Errorf("DISPATCH_MAX_ATTEMPTS must be at least 1, got %d", c.Dispatch.MaxAttempts)
	}
	if c.Dispatch.Budget <= 0 || c.Dispatch.AttemptTimeout <= 0 {
		return fmt.Errorf("DISPATCH_BUDGET and DISPATCH_ATTEMPT_TIMEOUT must be positive")
	}
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		return fmt.Errorf("SMTP_PORT out of range: %d", c.SMTP.Port)
	}
	for i, origin := range c.CORSOrigins {
		c.CORSOrigins[i] = strings.TrimSpace(origin)
	}
	return nil
}
