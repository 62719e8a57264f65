package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DataDir       string     `json:"data_dir"`
	LogLevel      string     `json:"log_level"`
	MaxConcurrent int        `json:"max_concurrent"`
	Discord       Discord    `json:"discord"`
	Threads       Threads    `json:"threads"`
	Classifier    Classifier `json:"classifier"`
	LLM           LLM        `json:"llm"`
	HTTP          HTTP       `json:"http"`
}

type Discord struct {
	Token string `json:"token"`
}

type Threads struct {
	Enabled          bool   `json:"enabled"`
	TopicKeyword     string `json:"topic_keyword"`
	ChannelCacheSize int    `json:"channel_cache_size"`
}

type Classifier struct {
	MaxInputTokens   int `json:"max_input_tokens"`
	AttemptTimeoutMS int `json:"attempt_timeout_ms"`
}

type LLM struct {
	Provider          string  `json:"provider"`
	BaseURL           string  `json:"base_url"`
	APIKey            string  `json:"api_key"`
	Model             string  `json:"model"`
	MaxTokens         int     `json:"max_tokens"`
	Temperature       float32 `json:"temperature"`
	RequestsPerSecond float64 `json:"requests_per_second"`
}

type HTTP struct {
	Enabled bool   `json:"enabled"`
	Listen  string `json:"listen"`
}

// Default returns the configuration used when no file exists yet.
func Default() *Config {
	cfg := &Config{
		DataDir:       filepath.Join(os.Getenv("HOME"), ".autothread"),
		LogLevel:      "info",
		MaxConcurrent: 8,
	}
	cfg.Threads.Enabled = true
	cfg.Threads.TopicKeyword = "[threads]"
	cfg.Threads.ChannelCacheSize = 1024
	cfg.Classifier.MaxInputTokens = 2000
	cfg.Classifier.AttemptTimeoutMS = 500
	cfg.LLM.Provider = "openai"
	cfg.LLM.BaseURL = "https://api.openai.com/v1"
	cfg.LLM.Model = "gpt-4o-mini"
	cfg.LLM.MaxTokens = 200
	cfg.LLM.Temperature = 0
	cfg.HTTP.Listen = "127.0.0.1:8484"
	return cfg
}

// DefaultPath is ~/.autothread/config.json.
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".autothread", "config.json")
}

func Load(path string) (*Config, error) {
	cfg := Default()

	// Load from file if exists, otherwise write defaults
	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if os.IsNotExist(err) {
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
	}

	// A missing .env is fine; variables already set in the process win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	applyEnv(cfg)

	return cfg, nil
}

// applyEnv overrides file values from the environment (highest precedence).
func applyEnv(cfg *Config) {
	if token := os.Getenv("DISCORD_BOT_TOKEN"); token != "" {
		cfg.Discord.Token = token
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		cfg.LLM.APIKey = apiKey
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		cfg.LLM.BaseURL = baseURL
	}
	if keyword := os.Getenv("AUTOTHREAD_TOPIC_KEYWORD"); keyword != "" {
		cfg.Threads.TopicKeyword = keyword
	}
	if enabled := os.Getenv("AUTOTHREAD_ENABLED"); enabled != "" {
		if v, err := strconv.ParseBool(enabled); err == nil {
			cfg.Threads.Enabled = v
		}
	}
}

// Validate reports settings that make serving impossible.
func (c *Config) Validate() error {
	if c.Discord.Token == "" {
		return errors.New("discord.token is not set (config or DISCORD_BOT_TOKEN)")
	}
	if c.Threads.TopicKeyword == "" {
		return errors.New("threads.topic_keyword must not be empty")
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model is not set")
	}
	if c.Classifier.AttemptTimeoutMS < 0 {
		return errors.New("classifier.attempt_timeout_ms must not be negative")
	}
	return nil
}

// Save writes cfg to path atomically, creating the directory if needed.
func Save(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return writeAtomic(path, append(data, '\n'))
}

func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}

// ToMap converts cfg to a generic nested map via its JSON form.
func ToMap(cfg *Config) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// ListValues returns cfg as dot-keyed values, masking secrets if mask is set.
func ListValues(cfg *Config, mask bool) (map[string]any, error) {
	m, err := ToMap(cfg)
	if err != nil {
		return nil, err
	}
	flat := Flatten(m)
	if mask {
		flat = MaskSecrets(flat)
	}
	return flat, nil
}

// GetValue returns the effective value of a dot-separated key.
func GetValue(path, key string) (any, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	m, err := ToMap(cfg)
	if err != nil {
		return nil, err
	}
	flat := Flatten(m)
	// Keys set with SetValue but unknown to Config live only in the file.
	if raw, err := readRaw(path); err == nil {
		for k, v := range Flatten(raw) {
			if _, ok := flat[k]; !ok {
				flat[k] = v
			}
		}
	}
	v, ok := flat[key]
	if !ok {
		return nil, fmt.Errorf("unknown config key: %s", key)
	}
	return v, nil
}

// SetValue sets a dot-separated key in the config file. value is parsed as
// JSON when possible (numbers, booleans), otherwise stored as a string.
func SetValue(path, key, value string) error {
	raw, err := readRaw(path)
	if err != nil {
		return err
	}
	flat := Flatten(raw)

	var parsed any
	if err := json.Unmarshal([]byte(value), &parsed); err != nil {
		parsed = value
	}
	flat[key] = parsed

	data, err := json.MarshalIndent(Unflatten(flat), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return writeAtomic(path, append(data, '\n'))
}

func readRaw(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return m, nil
}
