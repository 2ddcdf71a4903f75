package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/akolanti/GoDocQA/internal/domain/ragError"
)

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(noEnvFile(t))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ChunkSize != 500 || cfg.ChunkOverlap != 50 || cfg.RetrievalK != 3 {
		t.Errorf("chunking defaults got %d/%d k=%d", cfg.ChunkSize, cfg.ChunkOverlap, cfg.RetrievalK)
	}
	if cfg.EmbedModel != "sentence-transformers/all-MiniLM-L6-v2" {
		t.Errorf("EmbedModel got %q", cfg.EmbedModel)
	}
	if cfg.LLMModel != "HuggingFaceH4/zephyr-7b-beta" {
		t.Errorf("LLMModel got %q", cfg.LLMModel)
	}
	if cfg.UploadDir != "uploaded_docs" || cfg.VectorBackend != BackendMemory || cfg.RebuildScope != ScopeBatch {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Errorf("CORS default got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("REPO_ID", "mistralai/Mistral-7B-Instruct-v0.2")
	t.Setenv("EMBEDDING_PROVIDER", "OpenAI")
	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.local, http://b.local ,")
	t.Setenv("HF_BASE_URL", "http://hf.local/models/")

	cfg, err := Load(noEnvFile(t))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LLMModel != "mistralai/Mistral-7B-Instruct-v0.2" {
		t.Errorf("REPO_ID should set the model, got %q", cfg.LLMModel)
	}
	if cfg.EmbeddingProvider != ProviderOpenAI {
		t.Errorf("provider should be lower cased, got %q", cfg.EmbeddingProvider)
	}
	if cfg.LLMTimeout != 5*time.Second {
		t.Errorf("LLMTimeout got %v", cfg.LLMTimeout)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "http://b.local" {
		t.Errorf("origins got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.HFBaseURL != "http://hf.local/models" {
		t.Errorf("trailing slash should be trimmed, got %q", cfg.HFBaseURL)
	}

	t.Setenv("LLM_MODEL", "explicit/model")
	cfg, _ = Load(noEnvFile(t))
	if cfg.LLMModel != "explicit/model" {
		t.Errorf("LLM_MODEL should win over REPO_ID, got %q", cfg.LLMModel)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("RETRIEVAL_K=7\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("RETRIEVAL_K") })

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RetrievalK != 7 {
		t.Errorf("RetrievalK got %d, want 7 from the env file", cfg.RetrievalK)
	}
}

func validConfig() *Config {
	return &Config{
		EmbeddingProvider:  ProviderHuggingFace,
		LLMProvider:        ProviderHuggingFace,
		HuggingFaceToken:   "hf_x",
		ChunkSize:          500,
		ChunkOverlap:       50,
		RetrievalK:         3,
		EmbeddingBatchSize: 64,
		VectorBackend:      BackendMemory,
		EmbeddingCache:     CacheMemory,
		RebuildScope:       ScopeBatch,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"zero chunk size", func(c *Config) { c.ChunkSize = 0 }, true},
		{"overlap equals size", func(c *Config) { c.ChunkOverlap = 500 }, true},
		{"negative overlap", func(c *Config) { c.ChunkOverlap = -1 }, true},
		{"k zero", func(c *Config) { c.RetrievalK = 0 }, true},
		{"batch zero", func(c *Config) { c.EmbeddingBatchSize = 0 }, true},
		{"missing hf token", func(c *Config) { c.HuggingFaceToken = "" }, true},
		{"gemini without key", func(c *Config) { c.LLMProvider = ProviderGemini }, true},
		{"gemini with key", func(c *Config) { c.LLMProvider = ProviderGemini; c.GoogleAPIKey = "g" }, false},
		{"openai without key", func(c *Config) { c.EmbeddingProvider = ProviderOpenAI }, true},
		{"unknown provider", func(c *Config) { c.LLMProvider = "llama" }, true},
		{"unknown backend", func(c *Config) { c.VectorBackend = "faiss" }, true},
		{"qdrant backend", func(c *Config) { c.VectorBackend = BackendQdrant }, false},
		{"unknown cache", func(c *Config) { c.EmbeddingCache = "memcached" }, true},
		{"unknown scope", func(c *Config) { c.RebuildScope = "some" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr != (err != nil) {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ragError.ErrConfiguration) {
				t.Errorf("error should be a configuration error: %v", err)
			}
		})
	}
}
