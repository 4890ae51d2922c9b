package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/molsift/molsift/internal/application/pipeline"
	"github.com/molsift/molsift/internal/domain/descriptor"
	"github.com/molsift/molsift/internal/domain/rules"
	httpiface "github.com/molsift/molsift/internal/interfaces/http"

	"github.com/molsift/molsift/internal/infrastructure/monitoring/logging"
	"github.com/molsift/molsift/internal/infrastructure/monitoring/prometheus"
)

// NewServeCmd builds `molsift serve`: the evaluation HTTP API.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the compound evaluation HTTP API",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cliCtx := GetCLIContext(cmd)
	cfg := cliCtx.Config
	logger := cliCtx.Logger.Named("http")

	defs, err := rules.Subset(rules.DefaultDefinitions(), cfg.Pipeline.Rules)
	if err != nil {
		return err
	}
	engine, err := rules.NewEngine(defs)
	if err != nil {
		return err
	}

	metrics := prometheus.NewMetrics()
	runner := pipeline.NewRunner(descriptor.NewSMILESProvider(), engine,
		pipeline.WithLogger(logger),
		pipeline.WithMetrics(metrics),
	)

	router := httpiface.NewRouter(runner, metrics, logger, cfg.Server.Mode)
	server := httpiface.NewServer(cfg.Server, router, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	if err := server.Shutdown(context.Background()); err != nil {
		logger.Error("shutdown failed", logging.Err(err))
		return err
	}
	return <-errCh
}
