// Package config provides application-wide configuration loaded from an
// optional YAML file and environment variables. Env vars win over the file,
// and every field except the Groq API key has a safe default so the binary
// runs locally without setup.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrMissingGroqKey is returned by Validate when the groq provider is
// selected without an API key. This is the one fatal configuration path.
var ErrMissingGroqKey = errors.New("GROQ_API_KEY is required when LLM_PROVIDER is groq")

// Config holds runtime configuration for sage.
type Config struct {
	// Server
	Host string `yaml:"host"` // SAGE_HOST — default: "0.0.0.0"
	Port string `yaml:"port"` // SAGE_PORT — default: "8000"

	// LLM
	LLMProvider string `yaml:"llm_provider"` // LLM_PROVIDER — default: "groq"
	GroqAPIKey  string `yaml:"groq_api_key"` // GROQ_API_KEY — no default
	GroqModel   string `yaml:"groq_model"`   // GROQ_MODEL — default: "llama-3.3-70b-versatile"

	OllamaBaseURL   string `yaml:"ollama_base_url"`   // OLLAMA_BASE_URL — default: "http://localhost:11434"
	OllamaChatModel string `yaml:"ollama_chat_model"` // OLLAMA_CHAT_MODEL — default: "llama3.2:3b"

	// History store
	HistoryDBPath string `yaml:"history_db_path"` // SAGE_HISTORY_DB — default: "sage.db"

	// Auth. Empty secret leaves the history endpoint open.
	JWTSecret string `yaml:"jwt_secret"` // SAGE_JWT_SECRET — no default
}

const (
	envKeyHost            = "SAGE_HOST"
	envKeyPort            = "SAGE_PORT"
	envKeyLLMProvider     = "LLM_PROVIDER"
	envKeyGroqAPIKey      = "GROQ_API_KEY"
	envKeyGroqModel       = "GROQ_MODEL"
	envKeyOllamaBaseURL   = "OLLAMA_BASE_URL"
	envKeyOllamaChatModel = "OLLAMA_CHAT_MODEL"
	envKeyHistoryDB       = "SAGE_HISTORY_DB"
	envKeyJWTSecret       = "SAGE_JWT_SECRET"
	envKeyConfigFile      = "SAGE_CONFIG"
)

// Load reads configuration in three layers: defaults, then the YAML file
// named by SAGE_CONFIG (if any), then environment variables.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv(envKeyConfigFile); path != "" {
		if err := loadFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func defaults() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            "8000",
		LLMProvider:     "groq",
		GroqModel:       "llama-3.3-70b-versatile",
		OllamaBaseURL:   "http://localhost:11434",
		OllamaChatModel: "llama3.2:3b",
		HistoryDBPath:   "sage.db",
	}
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Host = envOr(envKeyHost, cfg.Host)
	cfg.Port = envOr(envKeyPort, cfg.Port)
	cfg.LLMProvider = envOr(envKeyLLMProvider, cfg.LLMProvider)
	cfg.GroqAPIKey = envOr(envKeyGroqAPIKey, cfg.GroqAPIKey)
	cfg.GroqModel = envOr(envKeyGroqModel, cfg.GroqModel)
	cfg.OllamaBaseURL = envOr(envKeyOllamaBaseURL, cfg.OllamaBaseURL)
	cfg.OllamaChatModel = envOr(envKeyOllamaChatModel, cfg.OllamaChatModel)
	cfg.HistoryDBPath = envOr(envKeyHistoryDB, cfg.HistoryDBPath)
	cfg.JWTSecret = envOr(envKeyJWTSecret, cfg.JWTSecret)
}

// Validate checks that the selected provider is usable.
func (c Config) Validate() error {
	if c.LLMProvider == "groq" && c.GroqAPIKey == "" {
		return ErrMissingGroqKey
	}
	return nil
}

// Addr returns the host:port pair the HTTP server binds to.
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

// envOr returns the value of the environment variable key, or fallback if not set.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
