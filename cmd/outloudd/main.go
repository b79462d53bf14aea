package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"outloud/internal/config"
	"outloud/internal/daemon"
	"outloud/internal/logging"
	"outloud/internal/preflight"
	"outloud/internal/queue"
	"outloud/internal/workflow"
)

func main() {
	configPath := flag.String("config", "", "configuration file path")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	for _, check := range preflight.Failed(preflight.RunAll(ctx, cfg)) {
		if check.Optional {
			logger.Warn("preflight check degraded", logging.String("check", check.Name), logging.String("detail", check.Detail))
			continue
		}
		logger.Error("preflight check failed", logging.String("check", check.Name), logging.String("detail", check.Detail))
	}

	store, err := queue.Open(cfg)
	if err != nil {
		logger.Error("open item store", logging.Error(err))
		return
	}

	manager, err := workflow.NewManager(cfg, store, logger)
	if err != nil {
		logger.Error("build workflow manager", logging.Error(err))
		store.Close()
		return
	}

	d, err := daemon.New(cfg, store, logger, manager)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		store.Close()
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("start daemon", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("outloudd shutting down")
}
