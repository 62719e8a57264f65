package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/autothread/internal/autothread"
	"github.com/user/autothread/internal/classifier"
	"github.com/user/autothread/internal/config"
	"github.com/user/autothread/pkg/llm"
	"github.com/user/autothread/pkg/llm/openai"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "autothread",
	Short:         "Open a discussion thread for every message in keyword-tagged Discord channels",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath(), "config file path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig loads the config or exits; every command needs it.
func loadConfig() *config.Config {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func setupLogging(cfg *config.Config) {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// newClassifier builds the LLM-backed classifier from cfg.
func newClassifier(cfg *config.Config) (*classifier.Classifier, error) {
	provider := openai.New(&llm.Config{
		BaseURL:           cfg.LLM.BaseURL,
		APIKey:            cfg.LLM.APIKey,
		Model:             cfg.LLM.Model,
		MaxTokens:         cfg.LLM.MaxTokens,
		Temperature:       cfg.LLM.Temperature,
		RequestsPerSecond: cfg.LLM.RequestsPerSecond,
	})
	c, err := classifier.New(provider, cfg.LLM.Model, cfg.Classifier.MaxInputTokens)
	if err != nil {
		return nil, fmt.Errorf("create classifier: %w", err)
	}
	return c, nil
}

// retryPolicy returns the classifier retry policy with the configured
// per-attempt limit.
func retryPolicy(cfg *config.Config) *autothread.RetryPolicy {
	p := autothread.ClassifierRetryPolicy()
	p.AttemptTimeout = time.Duration(cfg.Classifier.AttemptTimeoutMS) * time.Millisecond
	return p
}
