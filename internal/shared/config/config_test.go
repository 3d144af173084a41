package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENV", "CORS_ALLOW_ORIGINS", "DATABASE_URL",
		"OLLAMA_URL", "OLLAMA_MODEL", "OLLAMA_TIMEOUT_SECONDS",
		"EMBEDDING_MODEL", "MAX_UPLOAD_MB",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowOrigin)
	require.Equal(t, "http://localhost:11434", cfg.OllamaURL)
	require.Equal(t, "gemma2:2b", cfg.OllamaModel)
	require.Equal(t, 600*time.Second, cfg.OllamaTimeout)
	require.Equal(t, "nomic-embed-text", cfg.EmbeddingModel)
	require.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "prod")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("OLLAMA_TIMEOUT_SECONDS", "30")
	t.Setenv("MAX_UPLOAD_MB", "2")

	cfg := Load()
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "production", cfg.Env)
	require.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowOrigin)
	require.Equal(t, 30*time.Second, cfg.OllamaTimeout)
	require.Equal(t, int64(2<<20), cfg.MaxUploadBytes)
}

func TestLoadIgnoresInvalidInts(t *testing.T) {
	t.Setenv("OLLAMA_TIMEOUT_SECONDS", "not-a-number")
	t.Setenv("MAX_UPLOAD_MB", "-5")

	cfg := Load()
	require.Equal(t, 600*time.Second, cfg.OllamaTimeout)
	require.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
}
