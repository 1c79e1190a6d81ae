// Command tempetl loads a monthly city land-temperature CSV, cleans and
// aggregates it, and publishes the resulting report to the configured sinks.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/land-temperature-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/land-temperature-etl/internal/adapter/httpadapter"
	"github.com/couchcryptid/land-temperature-etl/internal/adapter/jsonfile"
	kafkaadapter "github.com/couchcryptid/land-temperature-etl/internal/adapter/kafka"
	"github.com/couchcryptid/land-temperature-etl/internal/config"
	"github.com/couchcryptid/land-temperature-etl/internal/observability"
	"github.com/couchcryptid/land-temperature-etl/internal/pipeline"
	"github.com/docopt/docopt-go"
)

const usage = `Land temperature ETL.

Usage:
  tempetl run <input> [--out=<file>] [--plan=<file>]
  tempetl serve <input> [--out=<file>] [--plan=<file>]
  tempetl -h | --help

Options:
  -h --help        Show this screen.
  --out=<file>     JSON report path, overrides OUTPUT_PATH.
  --plan=<file>    YAML selection plan, overrides PLAN_PATH.

Commands:
  run     Process the dataset once and exit.
  serve   Process the dataset once, then serve the report over HTTP until interrupted.
`

func main() {
	opts, err := docopt.ParseDoc(usage)
	if err != nil {
		slog.Error("failed to parse arguments", "error", err)
		os.Exit(2)
	}
	input, _ := opts.String("<input>")
	serve, _ := opts.Bool("serve")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if out, err := opts.String("--out"); err == nil && out != "" {
		cfg.OutputPath = out
	}
	if plan, err := opts.String("--plan"); err == nil && plan != "" {
		cfg.PlanPath = plan
	}

	logger := observability.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if err := run(cfg, input, serve, logger); err != nil {
		logger.Error("tempetl failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, input string, serve bool, logger *slog.Logger) error {
	plan, err := config.LoadPlan(cfg.PlanPath)
	if err != nil {
		return err
	}
	selections, err := plan.DomainSelections()
	if err != nil {
		return err
	}

	metrics := observability.NewMetrics()

	var sinks []pipeline.Sink
	if cfg.OutputPath != "" {
		sinks = append(sinks, jsonfile.NewWriter(cfg.OutputPath, logger))
	}
	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		sinks = append(sinks, writer)
		logger.Info("kafka sink enabled", "topic", cfg.KafkaSinkTopic, "brokers", cfg.KafkaBrokers)
	}

	p := pipeline.New(csvfile.NewReader(input, logger), sinks, logger, metrics, pipeline.Options{
		TopN:       plan.EffectiveTopN(cfg.TopN),
		Selections: selections,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !serve {
		_, err := p.Run(ctx)
		writeTextfile(cfg, logger)
		return err
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, logger)
	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	if _, err := p.Run(ctx); err != nil {
		shutdown(cfg, srv, logger)
		return err
	}
	writeTextfile(cfg, logger)

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	}
	shutdown(cfg, srv, logger)
	logger.Info("shutdown complete")
	return nil
}

func shutdown(cfg *config.Config, srv *httpadapter.Server, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
}

func writeTextfile(cfg *config.Config, logger *slog.Logger) {
	if cfg.MetricsTextfile == "" {
		return
	}
	if err := observability.WriteTextfile(cfg.MetricsTextfile); err != nil {
		logger.Error("write metrics textfile", "path", cfg.MetricsTextfile, "error", err)
	}
}
