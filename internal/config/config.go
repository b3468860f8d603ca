package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Supabase
	SupabaseURL           string
	SupabaseServiceKey    string
	SupabaseJWTSecret     string
	SupabaseStorageBucket string

	// Artifact storage
	ArtifactStore    string
	GCSBucket        string
	GCSPublicBaseURL string
	MaxUploadBytes   int64

	// OpenAI images
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	OpenAIImageModel string
	OpenAIImageSize  string

	// Replicate
	ReplicateAPIToken     string
	ReplicateBaseURL      string
	ReplicateModelVersion string
	ReplicatePollInterval time.Duration

	// Generation
	DefaultAIProvider   string
	GenerationTimeout   time.Duration
	StaleDesignAfter    time.Duration
	SweepInterval       time.Duration
	GenerationRateLimit int

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Database
	DatabaseURL string

	// Server
	Port               string
	Environment        string
	BaseURL            string
	CORSAllowedOrigins []string
	OtelServiceName    string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		SupabaseURL:           strings.TrimSuffix(getEnv("SUPABASE_URL", ""), "/"),
		SupabaseServiceKey:    getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseJWTSecret:     getEnv("SUPABASE_JWT_SECRET", ""),
		SupabaseStorageBucket: getEnv("SUPABASE_STORAGE_BUCKET", "room-images"),

		ArtifactStore:    strings.ToLower(getEnv("ARTIFACT_STORE", "supabase")),
		GCSBucket:        getEnv("GCS_BUCKET", ""),
		GCSPublicBaseURL: getEnv("GCS_PUBLIC_BASE_URL", "https://storage.googleapis.com"),
		MaxUploadBytes:   int64(getEnvInt("MAX_UPLOAD_BYTES", 10<<20)),

		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIImageModel: getEnv("OPENAI_IMAGE_MODEL", "dall-e-3"),
		OpenAIImageSize:  getEnv("OPENAI_IMAGE_SIZE", "1024x1024"),

		ReplicateAPIToken:     getEnv("REPLICATE_API_TOKEN", ""),
		ReplicateBaseURL:      getEnv("REPLICATE_BASE_URL", "https://api.replicate.com/v1"),
		ReplicateModelVersion: getEnv("REPLICATE_MODEL_VERSION", ""),
		ReplicatePollInterval: getEnvDuration("REPLICATE_POLL_INTERVAL", 2*time.Second),

		DefaultAIProvider:   strings.ToUpper(getEnv("DEFAULT_AI_PROVIDER", "OPENAI")),
		GenerationTimeout:   getEnvDuration("GENERATION_TIMEOUT", 5*time.Minute),
		StaleDesignAfter:    getEnvDuration("STALE_DESIGN_AFTER", 15*time.Minute),
		SweepInterval:       getEnvDuration("SWEEP_INTERVAL", time.Minute),
		GenerationRateLimit: getEnvInt("GENERATION_RATE_LIMIT", 10),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		Port:               getEnv("PORT", "8080"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		BaseURL:            getEnv("BASE_URL", "http://localhost:8080"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		OtelServiceName:    getEnv("OTEL_SERVICE_NAME", "interior-design-backend"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.SupabaseJWTSecret == "" {
		return fmt.Errorf("SUPABASE_JWT_SECRET is required")
	}

	switch c.ArtifactStore {
	case "supabase":
		if c.SupabaseURL == "" {
			return fmt.Errorf("SUPABASE_URL is required")
		}
		if c.SupabaseServiceKey == "" {
			return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
		}
	case "gcs":
		if c.GCSBucket == "" {
			return fmt.Errorf("GCS_BUCKET is required when ARTIFACT_STORE=gcs")
		}
	case "memory":
		if c.IsProduction() {
			return fmt.Errorf("ARTIFACT_STORE=memory is not allowed in production")
		}
	default:
		return fmt.Errorf("ARTIFACT_STORE must be supabase, gcs or memory, got %q", c.ArtifactStore)
	}

	if c.OpenAIAPIKey == "" && c.ReplicateAPIToken == "" {
		return fmt.Errorf("one of OPENAI_API_KEY or REPLICATE_API_TOKEN is required")
	}
	switch c.DefaultAIProvider {
	case "OPENAI":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("DEFAULT_AI_PROVIDER=OPENAI requires OPENAI_API_KEY")
		}
	case "REPLICATE":
		if c.ReplicateAPIToken == "" || c.ReplicateModelVersion == "" {
			return fmt.Errorf("DEFAULT_AI_PROVIDER=REPLICATE requires REPLICATE_API_TOKEN and REPLICATE_MODEL_VERSION")
		}
	default:
		return fmt.Errorf("DEFAULT_AI_PROVIDER must be OPENAI or REPLICATE, got %q", c.DefaultAIProvider)
	}

	if c.GenerationTimeout > 0 && c.StaleDesignAfter > 0 && c.StaleDesignAfter <= c.GenerationTimeout {
		return fmt.Errorf("STALE_DESIGN_AFTER (%s) must be longer than GENERATION_TIMEOUT (%s)", c.StaleDesignAfter, c.GenerationTimeout)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return defaultValue
	}
	return d
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
