// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds the ingestion pipeline configuration.
type Config struct {
	LLM      LLMConfig      `mapstructure:"llm"`
	Extract  ExtractConfig  `mapstructure:"extract"`
	Embedder EmbedderConfig `mapstructure:"embedder"`
	Qdrant   QdrantConfig   `mapstructure:"qdrant"`
	Database DatabaseConfig `mapstructure:"database"`
	LogFile  string         `mapstructure:"log_file"`
}

// LLMConfig holds model-query collaborator settings. The OpenAI key comes
// from the environment; when it is empty the local endpoint is the only
// transport.
type LLMConfig struct {
	LocalEndpoint string `mapstructure:"local_endpoint"`
	LocalModel    string `mapstructure:"local_model"`
	OpenAIModel   string `mapstructure:"openai_model"`
	Workers       int    `mapstructure:"workers"`
	ChunkRows     int    `mapstructure:"chunk_rows"`
}

// ExtractConfig selects discovery behaviour.
type ExtractConfig struct {
	OCRIfNeeded bool `mapstructure:"ocr_if_needed"`
	UseVision   bool `mapstructure:"use_vision"`
}

// EmbedderConfig selects and configures the embedding backend.
type EmbedderConfig struct {
	Type      string `mapstructure:"type"` // openai, ollama, mock
	Model     string `mapstructure:"model"`
	BaseURL   string `mapstructure:"base_url"`
	Dimension int    `mapstructure:"dimension"`
}

// QdrantConfig holds vector index connection settings.
type QdrantConfig struct {
	Address    string `mapstructure:"address"`
	Collection string `mapstructure:"collection"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// Load loads configuration from an optional YAML file and the environment.
// Environment variables use the PROPLENS_ prefix (PROPLENS_LLM_WORKERS etc).
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("llm.local_endpoint", "http://localhost:1234/v1/chat/completions")
	v.SetDefault("llm.local_model", "qwen2.5-vl-7b-instruct")
	v.SetDefault("llm.openai_model", "gpt-4o-mini")
	v.SetDefault("llm.workers", 4)
	v.SetDefault("llm.chunk_rows", 25)
	v.SetDefault("extract.ocr_if_needed", true)
	v.SetDefault("extract.use_vision", false)
	v.SetDefault("embedder.type", "mock")
	v.SetDefault("embedder.dimension", 384)
	v.SetDefault("qdrant.address", "localhost:6334")
	v.SetDefault("qdrant.collection", "project_docs")
	v.SetDefault("database.path", "./proplens.db")
	v.SetDefault("log_file", "")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix("PROPLENS")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.LLM.Workers < 1 {
		cfg.LLM.Workers = 1
	}
	if cfg.LLM.ChunkRows < 1 {
		cfg.LLM.ChunkRows = 25
	}

	return &cfg, nil
}

// OpenAIKey returns the OpenAI API key from the environment, empty when
// unset.
func OpenAIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}
