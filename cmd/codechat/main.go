// Command codechat is a terminal chat client for a locally hosted coding
// assistant.
//
// Usage:
//
//	codechat [flags]
//
// Flags:
//
//	-config string       Path to config file (default: ~/.codechat/config.toml)
//	-backend string      Backend: local, gemini (default from config)
//	-backend-url string  Local assistant server URL
//	-model string        Model to load on the local server
//	-history string      Path to the chat history file
//	-log-level string    Log level: debug, info, warn, error
//	-list-models         List models available on the local server and exit
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/mfilipek/codechat"
	bt "github.com/mfilipek/codechat/bubbletea"
	"github.com/mfilipek/codechat/chat"
	"github.com/mfilipek/codechat/config"
	"github.com/mfilipek/codechat/history"
	codechatjson "github.com/mfilipek/codechat/json"
	"github.com/mfilipek/codechat/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "codechat: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", config.DefaultPath(), "Path to config file")
		backend    = flag.String("backend", "", "Backend: local, gemini")
		backendURL = flag.String("backend-url", "", "Local assistant server URL")
		model      = flag.String("model", "", "Model to load on the local server")
		histPath   = flag.String("history", "", "Path to the chat history file")
		logLevel   = flag.String("log-level", "", "Log level: debug, info, warn, error")
		listModels = flag.Bool("list-models", false, "List models available on the local server and exit")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	applyFlag(&cfg.Backend, *backend)
	applyFlag(&cfg.BackendURL, *backendURL)
	applyFlag(&cfg.Model, *model)
	applyFlag(&cfg.HistoryPath, *histPath)
	applyFlag(&cfg.LogLevel, *logLevel)

	if *listModels {
		return printModels(ctx, cfg.BackendURL, os.Stdout)
	}

	logFile, err := openLogFile(cfg.LogPath)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := logging.New(cfg.LogLevel, logFile)

	store := codechatjson.NewFileStore(cfg.HistoryPath, logger)
	hist := history.New(store, logger)
	hist.Initialize(ctx)

	backendClient, err := resolveBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}

	notices := bt.NewNotices()
	sender := chat.New(backendClient, hist, notices, logger)

	sendFn := func(ctx context.Context, text string, onEvent func(codechat.Event)) error {
		return sender.Send(ctx, text, chat.WithEventHandler(onEvent))
	}

	m := bt.New(sendFn, hist, notices, codechat.DefaultTheme())
	if err := bt.Run(ctx, m); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}

func applyFlag(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("log file: %w", err)
	}
	return f, nil
}
