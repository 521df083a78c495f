package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	VectorStorePostgres = "postgres"
	VectorStoreMemory   = "memory"

	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// defaultModels is used when LLM_MODEL is not set
var defaultModels = map[string]string{
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderAnthropic: "claude-sonnet-4-5",
}

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:"127.0.0.1:8000"`

	// Vector store configuration
	VectorStore         string        `env:"VECTOR_STORE" envDefault:"postgres"`
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"1"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// External service configurations
	OpenAICfg    OpenAIConfig    `envPrefix:"OPENAI_"`
	AnthropicCfg AnthropicConfig `envPrefix:"ANTHROPIC_"`
	LLMCfg       LLMConfig       `envPrefix:"LLM_"`
	RAGCfg       RAGConfig       `envPrefix:"RAG_"`

	// Classification policy
	PriorityPolicy string `env:"PRIORITY_POLICY" envDefault:"strict"`
	ClientsFile    string `env:"CLIENTS_FILE"`

	// Upper bound for each free-text ticket field, in characters
	TicketMaxFieldLength int `env:"TICKET_MAX_FIELD_LENGTH" envDefault:"4000"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  LogFileConfig

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

type OpenAIConfig struct {
	HTTPClientConfig
	APIKey         string `env:"API_KEY"`
	BaseURL        string `env:"BASE_URL"`
	EmbeddingModel string `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
}

type AnthropicConfig struct {
	HTTPClientConfig
	APIKey  string `env:"API_KEY"`
	BaseURL string `env:"BASE_URL"`
}

type LLMConfig struct {
	Provider  string `env:"PROVIDER" envDefault:"openai"`
	Model     string `env:"MODEL"`
	MaxTokens int    `env:"MAX_TOKENS" envDefault:"2048"`
}

type RAGConfig struct {
	CollectionName     string        `env:"COLLECTION_NAME" envDefault:"ticket_history_collection"`
	KnowledgeBasePath  string        `env:"KNOWLEDGE_BASE_PATH" envDefault:"data/knowledge/Knowledge_base.json"`
	TopK               int           `env:"TOP_K" envDefault:"5"`
	RelevanceThreshold float64       `env:"RELEVANCE_THRESHOLD" envDefault:"0.5"`
	QueryHint          string        `env:"QUERY_HINT"`
	EmbeddingCacheTTL  time.Duration `env:"EMBEDDING_CACHE_TTL" envDefault:"10m"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"60s"`
}

// LogFileConfig enables rotated JSON log output next to the console
type LogFileConfig struct {
	Path       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_FILE_MAX_SIZE_MB" envDefault:"100"`
	MaxBackups int    `env:"LOG_FILE_MAX_BACKUPS" envDefault:"5"`
	MaxAgeDays int    `env:"LOG_FILE_MAX_AGE_DAYS" envDefault:"28"`
	Compress   bool   `env:"LOG_FILE_COMPRESS" envDefault:"true"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	return cfg, nil
}

// Parse reads the configuration from the process environment and validates it
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.LLMCfg.Model == "" {
		cfg.LLMCfg.Model = defaultModels[cfg.LLMCfg.Provider]
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	switch cfg.VectorStore {
	case VectorStoreMemory:
	case VectorStorePostgres:
		if cfg.DatabaseURL == "" {
			errors = append(errors, "DATABASE_URL is required when VECTOR_STORE=postgres")
		}
	default:
		errors = append(errors, fmt.Sprintf("VECTOR_STORE must be one of postgres, memory, got %q", cfg.VectorStore))
	}

	switch cfg.LLMCfg.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		errors = append(errors, fmt.Sprintf("LLM_PROVIDER must be one of openai, anthropic, got %q", cfg.LLMCfg.Provider))
	}

	switch strings.ToLower(cfg.PriorityPolicy) {
	case "strict", "weighted":
	default:
		errors = append(errors, fmt.Sprintf("PRIORITY_POLICY must be one of strict, weighted, got %q", cfg.PriorityPolicy))
	}

	if cfg.RAGCfg.TopK < 1 || cfg.RAGCfg.TopK > 20 {
		errors = append(errors, fmt.Sprintf("RAG_TOP_K must be between 1 and 20, got %d", cfg.RAGCfg.TopK))
	}

	if cfg.RAGCfg.RelevanceThreshold < 0 || cfg.RAGCfg.RelevanceThreshold > 1 {
		errors = append(errors, fmt.Sprintf("RAG_RELEVANCE_THRESHOLD must be between 0 and 1, got %g", cfg.RAGCfg.RelevanceThreshold))
	}

	if cfg.TicketMaxFieldLength < 1 {
		errors = append(errors, fmt.Sprintf("TICKET_MAX_FIELD_LENGTH must be positive, got %d", cfg.TicketMaxFieldLength))
	}

	if cfg.LLMCfg.MaxTokens < 1 {
		errors = append(errors, fmt.Sprintf("LLM_MAX_TOKENS must be positive, got %d", cfg.LLMCfg.MaxTokens))
	}

	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		errors = append(errors, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errors = append(errors, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
