package config

import (
	"testing"
	"time"

	"cropgenius-api/internal/oracle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_MissingGeminiKeyIsFatal(t *testing.T) {
	t.Setenv("GEMINI_KEYS", "")
	t.Setenv("GEMINI_KEY", "")

	cfg := New()
	err := cfg.Validate()
	var configErr *oracle.ConfigurationError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, "GEMINI_KEYS", configErr.Setting)
}

func TestNew_SplitsCommaSeparatedKeys(t *testing.T) {
	t.Setenv("GEMINI_KEYS", "key-a, key-b ,key-c,,")

	cfg := New()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"key-a", "key-b", "key-c"}, cfg.GeminiAPICfg.APIKeys)
}

func TestNew_SingleKeyFallback(t *testing.T) {
	t.Setenv("GEMINI_KEYS", "")
	t.Setenv("GEMINI_KEY", "solo-key")

	cfg := New()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"solo-key"}, cfg.GeminiAPICfg.APIKeys)
}

func TestNew_DurationAndCacheDefaults(t *testing.T) {
	t.Setenv("GEMINI_TIMEOUT_SECONDS", "")
	t.Setenv("DIAGNOSIS_CACHE_MAX_ENTRIES", "")
	t.Setenv("DIAGNOSIS_CACHE_TTL_SECONDS", "")

	cfg := New()
	assert.Equal(t, 30*time.Second, cfg.GeminiAPICfg.Timeout)
	assert.Equal(t, 512, cfg.DiagnosisCache.MaxEntries)
	assert.Equal(t, 24*time.Hour, cfg.DiagnosisCache.TTL)
}

func TestNew_DurationOverride(t *testing.T) {
	t.Setenv("GEMINI_TIMEOUT_SECONDS", "45")

	cfg := New()
	assert.Equal(t, 45*time.Second, cfg.GeminiAPICfg.Timeout)
}
