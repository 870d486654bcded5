package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/linguoexchange/linguo-backend/internal/marketplace/api"
	"github.com/linguoexchange/linguo-backend/internal/marketplace/cache"
	"github.com/linguoexchange/linguo-backend/internal/marketplace/chainio"
	"github.com/linguoexchange/linguo-backend/internal/marketplace/config"
	"github.com/linguoexchange/linguo-backend/internal/marketplace/metadata"
	"github.com/linguoexchange/linguo-backend/internal/marketplace/service"
	"github.com/linguoexchange/linguo-backend/internal/marketplace/task"
	"github.com/linguoexchange/linguo-backend/pkg/logging"
)

const shutdownTimeout = 30 * time.Second

func main() {
	config.Init()

	environment := logging.Production
	if config.IsDevMode() {
		environment = logging.Development
	}
	if err := logging.InitServiceLogger(logging.LoggerConfig{
		LogDir:      logging.BaseDataDir,
		ProcessName: logging.MarketplaceProcess,
		Environment: environment,
	}); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logging.Shutdown()
	logger := logging.GetServiceLogger()

	logger.Info("Starting translation marketplace service...",
		"dev_mode", config.IsDevMode(),
		"escrow", config.GetEscrowAddress(),
		"arbitrator", config.GetArbitratorAddress(),
		"port", config.GetAPIPort(),
	)

	escrow, err := chainio.NewEscrowReader(config.GetEthRPCURL(), config.GetEscrowAddress(), logger)
	if err != nil {
		logger.Fatalf("Failed to initialize escrow reader: %v", err)
	}
	arbitrator, err := chainio.NewArbitratorReader(config.GetEthRPCURL(), config.GetArbitratorAddress(), escrow, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize arbitrator reader: %v", err)
	}

	fetcher := metadata.NewClient(config.GetIPFSGateway(), config.GetIPFSAPIURL(), logger)
	builder := task.NewBuilder(logger, config.GetTextGateway())
	store := cache.NewStore()

	refresher := service.NewRefresher(
		escrow,
		arbitrator,
		fetcher,
		builder,
		store,
		escrow.Address(),
		config.GetStartBlock(),
		config.GetPollingInterval(),
		logger,
	)

	server := api.NewServer(store, config.GetAPIPort(), logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	serverErrors := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		refresher.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.Start(); err != nil {
			serverErrors <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("Server error received", "error", err)
	case sig := <-shutdown:
		logger.Info("Received shutdown signal", "signal", sig.String())
	}

	performGracefulShutdown(server, cancel, &wg, logger)
}

func performGracefulShutdown(server *api.Server, cancel context.CancelFunc, wg *sync.WaitGroup, logger logging.Logger) {
	logger.Info("Initiating graceful shutdown...")

	cancel()

	ctx, cancelTimeout := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelTimeout()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("API server shutdown error", "error", err)
	}

	wg.Wait()
	logger.Info("Shutdown complete")
}
