package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeKVs_RedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{"design_id", "abc", "api_key", "sk-123", "Authorization", "Bearer x", "dangling"})

	assert.Equal(t, []interface{}{"design_id", "abc", "api_key", "[REDACTED]", "Authorization", "[REDACTED]", "dangling"}, out)
}

func TestLogger_WithCarriesFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := &Logger{SugaredLogger: zap.New(core).Sugar()}

	log.With("component", "generation").Info("design completed", "design_id", "d1", "replicate_token", "r8")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "generation", fields["component"])
		assert.Equal(t, "d1", fields["design_id"])
		assert.Equal(t, "[REDACTED]", fields["replicate_token"])
	}
}
