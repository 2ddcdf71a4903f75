package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/akolanti/GoDocQA/internal/domain/ragError"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderHuggingFace = "huggingface"
	ProviderGemini      = "gemini"
	ProviderOpenAI      = "openai"

	BackendMemory = "memory"
	BackendQdrant = "qdrant"

	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheOff    = "off"

	ScopeBatch = "batch"
	ScopeAll   = "all"
)

type Config struct {
	ListenAddr string
	UploadDir  string

	EmbeddingProvider      string
	EmbedModel             string
	EmbeddingBatchSize     int
	EmbeddingMaxInputRunes int
	EmbeddingDimension     int32
	EmbeddingTimeout       time.Duration

	LLMProvider     string
	LLMModel        string
	LLMTimeout      time.Duration
	LLMTemperature  float64
	LLMMaxNewTokens int

	HuggingFaceToken string
	HFBaseURL        string
	GoogleAPIKey     string
	OpenAIAPIKey     string
	OpenAIBaseURL    string

	ChunkSize    int
	ChunkOverlap int
	RetrievalK   int
	RebuildScope string

	VectorBackend string
	QdrantHost    string
	QdrantPort    int

	EmbeddingCache string
	RedisAddr      string
	RedisPassword  string

	MaxUploadBytes     int64
	RateLimitPerSecond float64
	RateLimitBurst     int
	CORSAllowedOrigins []string

	LogLevel  string
	LogFormat string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("LISTEN_ADDR", ":8000")
	v.SetDefault("UPLOAD_DIR", "uploaded_docs")

	v.SetDefault("EMBEDDING_PROVIDER", ProviderHuggingFace)
	v.SetDefault("EMBED_MODEL", "sentence-transformers/all-MiniLM-L6-v2")
	v.SetDefault("EMBEDDING_BATCH_SIZE", 64)
	v.SetDefault("EMBEDDING_MAX_INPUT_RUNES", 2000)
	v.SetDefault("EMBEDDING_DIMENSION", 768)
	v.SetDefault("EMBEDDING_TIMEOUT", 30*time.Second)

	v.SetDefault("LLM_PROVIDER", ProviderHuggingFace)
	v.SetDefault("REPO_ID", "HuggingFaceH4/zephyr-7b-beta")
	v.SetDefault("LLM_TIMEOUT", 60*time.Second)
	v.SetDefault("LLM_TEMPERATURE", 0.3)
	v.SetDefault("LLM_MAX_NEW_TOKENS", 512)

	v.SetDefault("HF_BASE_URL", "https://router.huggingface.co/hf-inference/models")
	v.SetDefault("OPENAI_BASE_URL", "")

	v.SetDefault("CHUNK_SIZE", 500)
	v.SetDefault("CHUNK_OVERLAP", 50)
	v.SetDefault("RETRIEVAL_K", 3)
	v.SetDefault("REBUILD_SCOPE", ScopeBatch)

	v.SetDefault("VECTOR_BACKEND", BackendMemory)
	v.SetDefault("QDRANT_HOST", "localhost")
	v.SetDefault("QDRANT_PORT", 6334)

	v.SetDefault("EMBEDDING_CACHE", CacheMemory)
	v.SetDefault("REDIS_ADDR", "127.0.0.1:6379")
	v.SetDefault("REDIS_PASSWORD", "")

	v.SetDefault("MAX_UPLOAD_BYTES", 32<<20)
	v.SetDefault("RATE_LIMIT_PER_SECOND", 5.0)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	v.SetDefault("LOG_LEVEL", "debug")
	v.SetDefault("LOG_FORMAT", "text")
}

// Load reads the optional .env files and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: reading %s: %w", ragError.ErrConfiguration, f, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	llmModel := v.GetString("LLM_MODEL")
	if llmModel == "" {
		llmModel = v.GetString("REPO_ID")
	}

	var origins []string
	for _, o := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return &Config{
		ListenAddr: v.GetString("LISTEN_ADDR"),
		UploadDir:  v.GetString("UPLOAD_DIR"),

		EmbeddingProvider:      strings.ToLower(v.GetString("EMBEDDING_PROVIDER")),
		EmbedModel:             v.GetString("EMBED_MODEL"),
		EmbeddingBatchSize:     v.GetInt("EMBEDDING_BATCH_SIZE"),
		EmbeddingMaxInputRunes: v.GetInt("EMBEDDING_MAX_INPUT_RUNES"),
		EmbeddingDimension:     v.GetInt32("EMBEDDING_DIMENSION"),
		EmbeddingTimeout:       v.GetDuration("EMBEDDING_TIMEOUT"),

		LLMProvider:     strings.ToLower(v.GetString("LLM_PROVIDER")),
		LLMModel:        llmModel,
		LLMTimeout:      v.GetDuration("LLM_TIMEOUT"),
		LLMTemperature:  v.GetFloat64("LLM_TEMPERATURE"),
		LLMMaxNewTokens: v.GetInt("LLM_MAX_NEW_TOKENS"),

		HuggingFaceToken: v.GetString("HUGGINGFACE_API_TOKEN"),
		HFBaseURL:        strings.TrimRight(v.GetString("HF_BASE_URL"), "/"),
		GoogleAPIKey:     v.GetString("GOOGLE_API_KEY"),
		OpenAIAPIKey:     v.GetString("OPENAI_API_KEY"),
		OpenAIBaseURL:    v.GetString("OPENAI_BASE_URL"),

		ChunkSize:    v.GetInt("CHUNK_SIZE"),
		ChunkOverlap: v.GetInt("CHUNK_OVERLAP"),
		RetrievalK:   v.GetInt("RETRIEVAL_K"),
		RebuildScope: strings.ToLower(v.GetString("REBUILD_SCOPE")),

		VectorBackend: strings.ToLower(v.GetString("VECTOR_BACKEND")),
		QdrantHost:    v.GetString("QDRANT_HOST"),
		QdrantPort:    v.GetInt("QDRANT_PORT"),

		EmbeddingCache: strings.ToLower(v.GetString("EMBEDDING_CACHE")),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		RedisPassword:  v.GetString("REDIS_PASSWORD"),

		MaxUploadBytes:     v.GetInt64("MAX_UPLOAD_BYTES"),
		RateLimitPerSecond: v.GetFloat64("RATE_LIMIT_PER_SECOND"),
		RateLimitBurst:     v.GetInt("RATE_LIMIT_BURST"),
		CORSAllowedOrigins: origins,

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),
	}
}

// Validate fails with ragError.ErrConfiguration on the first problem found.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return configErr("CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return configErr("CHUNK_OVERLAP must be in [0, CHUNK_SIZE), got %d", c.ChunkOverlap)
	}
	if c.RetrievalK < 1 {
		return configErr("RETRIEVAL_K must be at least 1, got %d", c.RetrievalK)
	}
	if c.EmbeddingBatchSize < 1 {
		return configErr("EMBEDDING_BATCH_SIZE must be at least 1, got %d", c.EmbeddingBatchSize)
	}
	if err := c.checkCredential("EMBEDDING_PROVIDER", c.EmbeddingProvider); err != nil {
		return err
	}
	if err := c.checkCredential("LLM_PROVIDER", c.LLMProvider); err != nil {
		return err
	}
	switch c.VectorBackend {
	case BackendMemory, BackendQdrant:
	default:
		return configErr("unknown VECTOR_BACKEND %q", c.VectorBackend)
	}
	switch c.EmbeddingCache {
	case CacheMemory, CacheRedis, CacheOff:
	default:
		return configErr("unknown EMBEDDING_CACHE %q", c.EmbeddingCache)
	}
	switch c.RebuildScope {
	case ScopeBatch, ScopeAll:
	default:
		return configErr("unknown REBUILD_SCOPE %q", c.RebuildScope)
	}
	return nil
}

func (c *Config) checkCredential(setting string, provider string) error {
	switch provider {
	case ProviderHuggingFace:
		if c.HuggingFaceToken == "" {
			return configErr("%s=%s requires HUGGINGFACE_API_TOKEN", setting, provider)
		}
	case ProviderGemini:
		if c.GoogleAPIKey == "" {
			return configErr("%s=%s requires GOOGLE_API_KEY", setting, provider)
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return configErr("%s=%s requires OPENAI_API_KEY", setting, provider)
		}
	default:
		return configErr("unknown %s %q", setting, provider)
	}
	return nil
}

func configErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ragError.ErrConfiguration, fmt.Sprintf(format, args...))
}
