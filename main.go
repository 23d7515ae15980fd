package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/wrapforge/wrapcycler/pkg/blockchain"
	"github.com/wrapforge/wrapcycler/pkg/circuitbreaker"
	"github.com/wrapforge/wrapcycler/pkg/config"
	"github.com/wrapforge/wrapcycler/pkg/cycler"
	"github.com/wrapforge/wrapcycler/pkg/executor"
	"github.com/wrapforge/wrapcycler/pkg/health"
	"github.com/wrapforge/wrapcycler/pkg/logger"
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog := logger.NewStdLogger(cfg.LoggerConfig.Coloring, cfg.LoggerConfig.Level)

	pool, err := blockchain.NewPool(cfg.Endpoints)
	if err != nil {
		log.Fatalf("Failed to build endpoint pool: %v", err)
	}

	manager := blockchain.NewManager(pool, cfg.PrivateKey, cfg.TokenAddress, cfg.WrapperAddress, appLog)
	if err := manager.Connect(); err != nil {
		log.Fatalf("Failed to connect to %s: %v", pool.Current(), err)
	}
	defer manager.Close()

	exec := executor.New(manager, appLog, cfg.MaxAttempts)
	service := cycler.NewService(manager, exec, appLog)
	breaker := circuitbreaker.New(cfg.Breaker.Threshold, cfg.Breaker.Cooldown)

	// Set up context with cancellation on SIGINT/SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalCh
		log.Println("Received termination signal, shutting down gracefully...")
		cancel()
	}()

	var runErr error
	switch cfg.Mode {
	case config.ModeBatch:
		runner := cycler.NewBatchRunner(service, appLog)
		go health.NewServer(cfg.MetricsPort, manager, runner, breaker).Start()
		log.Println("Starting the wrapcycler service in batch mode...")
		runErr = runner.Run(ctx)
	default:
		runner := cycler.NewRunner(service, breaker, appLog)
		go health.NewServer(cfg.MetricsPort, manager, runner, breaker).Start()
		log.Println("Starting the wrapcycler service in continuous mode...")
		runErr = runner.Run(ctx)
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Fatalf("Service terminated: %v", runErr)
	}
	log.Println("Shutdown complete")
}
