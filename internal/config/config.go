package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	// Optional: a set DATABASE_URL selects the pgvector-backed store
	// instead of the in-memory one.
	DatabaseURL string `envconfig:"DATABASE_URL"`

	OpenAIAPIKey        string `envconfig:"OPENAI_API_KEY"`
	EmbeddingModel      string `envconfig:"EMBEDDING_MODEL"`
	EmbeddingDimensions int    `envconfig:"EMBEDDING_DIMENSIONS" default:"1536"`

	RerankURL    string `envconfig:"RERANK_URL"`
	RerankAPIKey string `envconfig:"RERANK_API_KEY"`
	RerankModel  string `envconfig:"RERANK_MODEL"`

	SerperAPIKey  string `envconfig:"SERPER_API_KEY"`
	PexelsAPIKey  string `envconfig:"PEXELS_API_KEY"`
	GiphyAPIKey   string `envconfig:"GIPHY_API_KEY"`
	PixabayAPIKey string `envconfig:"PIXABAY_API_KEY"`

	MaxQueriesPerDay    int `envconfig:"MAX_QUERIES_PER_DAY" default:"500"`
	MaxQueriesPerHour   int `envconfig:"MAX_QUERIES_PER_HOUR" default:"100"`
	MaxQueriesPerMinute int `envconfig:"MAX_QUERIES_PER_MINUTE" default:"10"`

	SearchCacheTTLSeconds int `envconfig:"SEARCH_CACHE_TTL_SECONDS" default:"300"`
	ValidationMaxSearches int `envconfig:"VALIDATION_MAX_SEARCHES" default:"5"`

	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"veritas-documents"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`

	SentryDSN string `envconfig:"SENTRY_DSN"`

	// Static bearer token; unset leaves the API open for local dev.
	APIToken string `envconfig:"API_TOKEN"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("VERITAS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

func (c *Config) HasRerank() bool {
	return c.RerankURL != "" && c.RerankAPIKey != ""
}

func (c *Config) SearchCacheTTL() time.Duration {
	return time.Duration(c.SearchCacheTTLSeconds) * time.Second
}
