package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/user/autothread/internal/autothread"
	"github.com/user/autothread/internal/discord"
	"github.com/user/autothread/internal/gateway"
	"github.com/user/autothread/internal/interactions"
	"github.com/user/autothread/internal/status"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connect to Discord and start opening threads",
	RunE:  runServe,
}

func writePIDFile(dataDir string) (string, error) {
	pidPath := filepath.Join(dataDir, "autothread.pid")
	pid := os.Getpid()
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(pid)+"\n"), 0644); err != nil {
		return "", fmt.Errorf("write PID file: %w", err)
	}
	return pidPath, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	pidPath, err := writePIDFile(cfg.DataDir)
	if err != nil {
		return err
	}
	defer os.Remove(pidPath)

	cls, err := newClassifier(cfg)
	if err != nil {
		return err
	}

	adapter, err := discord.New(cfg.Discord.Token, cfg.Threads.ChannelCacheSize)
	if err != nil {
		return fmt.Errorf("create discord adapter: %w", err)
	}
	rest := adapter.REST()
	directory := adapter.Directory()

	// Message pipeline
	filter := autothread.NewFilter(directory, cfg.Threads.Enabled, cfg.Threads.TopicKeyword)
	opener := autothread.NewOpener(filter, cls, rest, autothread.WithRetryPolicy(retryPolicy(cfg)))

	// Interactions
	router := interactions.NewRouter(rest)
	interactions.Register(router,
		interactions.NewTitleEditor(directory, rest, rest),
		interactions.NewArchiver(rest, rest),
	)

	gw := gateway.New(opener, router, int64(cfg.MaxConcurrent))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gw.Start(ctx)
	defer gw.Stop()

	if err := adapter.Start(gw); err != nil {
		return err
	}
	defer adapter.Close()

	slog.Info("autothread started",
		"data_dir", cfg.DataDir,
		"log_level", cfg.LogLevel,
		"enabled", cfg.Threads.Enabled,
		"topic_keyword", cfg.Threads.TopicKeyword,
		"max_concurrent", cfg.MaxConcurrent,
		"llm_model", cfg.LLM.Model,
		"pid_file", pidPath,
	)

	if cfg.HTTP.Enabled {
		statusSrv := status.NewServer(opener.Classify, gw.Queue, cfg.Threads.Enabled, cfg.Threads.TopicKeyword)
		httpServer := &http.Server{
			Addr:    cfg.HTTP.Listen,
			Handler: statusSrv,
		}
		go func() {
			slog.Info("status server started", "listen", cfg.HTTP.Listen)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("status server error", "error", err)
			}
		}()
		go func() {
			<-ctx.Done()
			httpServer.Close()
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	for {
		sig := <-sigChan
		if sig == syscall.SIGHUP {
			slog.Info("received SIGHUP, restarting")
			execPath, err := os.Executable()
			if err != nil {
				slog.Error("failed to get executable path", "error", err)
				continue
			}
			// Stop receiving events before handing the process over.
			adapter.Close()
			gw.Stop()
			os.Remove(pidPath)
			if err := syscall.Exec(execPath, os.Args, os.Environ()); err != nil {
				slog.Error("failed to re-exec", "error", err)
				return fmt.Errorf("re-exec: %w", err)
			}
		}
		// SIGINT or SIGTERM
		slog.Info("shutting down", "signal", sig)
		return nil
	}
}
