package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"interior-design-backend/internal/config"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/interior")
	t.Setenv("SUPABASE_JWT_SECRET", "secret")
	t.Setenv("SUPABASE_URL", "https://example.supabase.co/")
	t.Setenv("SUPABASE_SERVICE_KEY", "service-key")
	t.Setenv("OPENAI_API_KEY", "sk-test")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "https://example.supabase.co", cfg.SupabaseURL)
	assert.Equal(t, "supabase", cfg.ArtifactStore)
	assert.Equal(t, "OPENAI", cfg.DefaultAIProvider)
	assert.Equal(t, 5*time.Minute, cfg.GenerationTimeout)
	assert.Equal(t, 15*time.Minute, cfg.StaleDesignAfter)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSAllowedOrigins)
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SUPABASE_JWT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "SUPABASE_JWT_SECRET")
}

func TestValidate_ReplicateDefaultNeedsVersion(t *testing.T) {
	cfg := &config.Config{
		DatabaseURL:       "postgres://localhost/interior",
		SupabaseJWTSecret: "secret",
		ArtifactStore:     "gcs",
		GCSBucket:         "designs",
		ReplicateAPIToken: "r8_test",
		DefaultAIProvider: "REPLICATE",
		MaxUploadBytes:    1024,
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "REPLICATE_MODEL_VERSION")

	cfg.ReplicateModelVersion = "abc123"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_StaleWindowMustExceedTimeout(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GENERATION_TIMEOUT", "10m")
	t.Setenv("STALE_DESIGN_AFTER", "5m")

	_, err := config.Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "STALE_DESIGN_AFTER")
}

func TestValidate_UnknownArtifactStore(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ARTIFACT_STORE", "s3")

	_, err := config.Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ARTIFACT_STORE")
}
