package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/Hossam-Shehadeh/web-based-jupedsim/internal/config"
	"github.com/Hossam-Shehadeh/web-based-jupedsim/internal/httpapi"
	"github.com/Hossam-Shehadeh/web-based-jupedsim/internal/logging"
	"github.com/Hossam-Shehadeh/web-based-jupedsim/internal/observability"
	"github.com/Hossam-Shehadeh/web-based-jupedsim/store"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults apply when omitted)")
	addr := flag.String("addr", "", "listen address override")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.NewFromEnv().Error(ctx, "failed to load config", logging.Err(err))
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	log := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	collector, err := observability.NewSimulationCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise metrics collector", logging.Err(err))
		os.Exit(1)
	}

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.Err(err))
		os.Exit(1)
	}

	runs := store.NewRunStore(cfg.Server.MaxStoredRuns)
	server := httpapi.NewServer(cfg, log, collector, runs)
	server.Start()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	<-stopCtx.Done()

	log.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn(ctx, "http shutdown incomplete", logging.Err(err))
	}
	observability.ShutdownWithTimeout(shutdownCtx, shutdownTracing, log)
}
