package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/mfilipek/codechat"
	"github.com/mfilipek/codechat/config"
	"github.com/mfilipek/codechat/gemini"
	"github.com/mfilipek/codechat/local"
)

// resolveBackend builds the backend named by the config.
func resolveBackend(ctx context.Context, cfg config.Config, logger *slog.Logger) (codechat.Backend, error) {
	switch cfg.Backend {
	case "", "local":
		client := local.New(
			local.WithBaseURL(cfg.BackendURL),
			local.WithLogger(logger),
		)
		probeServer(ctx, client, cfg.Model, logger)
		return client, nil

	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("gemini backend requires GEMINI_API_KEY")
		}
		var opts []gemini.Option
		if cfg.Model != "" {
			opts = append(opts, gemini.WithModel(cfg.Model))
		}
		return gemini.New(ctx, cfg.GeminiAPIKey, opts...)

	default:
		return nil, fmt.Errorf("unknown backend %q (expected local or gemini)", cfg.Backend)
	}
}

// printModels lists the models the local server can serve, marking the
// one currently loaded.
func printModels(ctx context.Context, baseURL string, w io.Writer) error {
	client := local.New(local.WithBaseURL(baseURL))

	models, err := client.Models(ctx)
	if err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	current, err := client.CurrentModel(ctx)
	if err != nil {
		current = local.CurrentModelInfo{}
	}

	for _, m := range models {
		marker := " "
		if m.Name == current.Model {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %s (%s)\n", marker, m.Name, m.Backend)
	}
	return nil
}

// probeServer checks the local server and optionally switches models.
// Failures are logged, not fatal: the server may come up later, and every
// send reports its own errors through the UI.
func probeServer(ctx context.Context, client *local.Client, model string, logger *slog.Logger) {
	status, err := client.Health(ctx)
	if err != nil {
		logger.Warn("assistant server not reachable", "error", err)
		return
	}
	logger.Info("assistant server up", "model", status.Model, "loaded", status.ModelLoaded)

	if model != "" && model != status.Model {
		if err := client.SwitchModel(ctx, model, ""); err != nil {
			logger.Warn("model switch failed", "model", model, "error", err)
			return
		}
		logger.Info("switched model", "model", model)
	}
}
