package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ProviderGroq, cfg.LLMProvider)
	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
	assert.False(t, cfg.LLMConfigured())
	assert.False(t, cfg.SearchConfigured())
}

func TestLoadAppliesFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "butterfly.yaml")
	yml := `
port: 9100
llm_provider: deepseek
search_provider: duckduckgo
http_timeout: 5s
longport_markets: [HKEX]
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	t.Setenv("BUTTERFLY_CONFIG", path)
	t.Setenv("PORT", "9200")
	t.Setenv("DEEPSEEK_API_KEY", "sk-test")
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9200, cfg.Port)
	assert.Equal(t, ProviderDeepSeek, cfg.LLMProvider)
	assert.Equal(t, "sk-test", cfg.LLMAPIKey())
	assert.True(t, cfg.LLMConfigured())
	assert.True(t, cfg.SearchConfigured())
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, []string{"HKEX"}, cfg.LongportMarkets)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORSOrigins)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("BUTTERFLY_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "llama3-70b-8192", cfg.LLMModel)
}

func TestValidateRejectsUnknownProviders(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLMProvider = "anthropic"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.SearchProvider = "bing"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Port = 0
	assert.Error(t, cfg.Validate())
}

func TestSearchConfiguredNeedsExaKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExaAPIKey = "exa-key"
	assert.True(t, cfg.SearchConfigured())
}
