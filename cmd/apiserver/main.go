// Command apiserver runs the standalone compound evaluation HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/molsift/molsift/internal/application/pipeline"
	"github.com/molsift/molsift/internal/config"
	"github.com/molsift/molsift/internal/domain/descriptor"
	"github.com/molsift/molsift/internal/domain/rules"
	"github.com/molsift/molsift/internal/infrastructure/monitoring/logging"
	"github.com/molsift/molsift/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/molsift/molsift/internal/interfaces/http"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	logger = logger.Named("apiserver")
	logger.Info("starting evaluation API server",
		logging.String("host", cfg.Server.Host),
		logging.Int("port", cfg.Server.Port),
	)

	defs, err := rules.Subset(rules.DefaultDefinitions(), cfg.Pipeline.Rules)
	if err != nil {
		logger.Error("rule configuration invalid", logging.Err(err))
		os.Exit(1)
	}
	engine, err := rules.NewEngine(defs)
	if err != nil {
		logger.Error("rule configuration invalid", logging.Err(err))
		os.Exit(1)
	}

	metrics := prometheus.NewMetrics()
	runner := pipeline.NewRunner(descriptor.NewSMILESProvider(), engine,
		pipeline.WithLogger(logger),
		pipeline.WithMetrics(metrics),
	)

	router := httpserver.NewRouter(runner, metrics, logger, cfg.Server.Mode)
	server := httpserver.NewServer(cfg.Server, router, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", logging.Err(err))
			os.Exit(1)
		}
		return
	case <-ctx.Done():
	}

	if err := server.Shutdown(context.Background()); err != nil {
		logger.Error("shutdown failed", logging.Err(err))
		os.Exit(1)
	}
	if err := <-errCh; err != nil {
		logger.Error("server failed", logging.Err(err))
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}
