package main

import (
	auction "auction-house/internal/auctionService"
	"auction-house/internal/config"
	"auction-house/internal/repository"
	"auction-house/internal/server"
	"auction-house/internal/storage"
	"auction-house/utils"
	"fmt"
	"os"
)

func main() {

	cfg := config.MustLoadConfig()
	utils.ConfigureLogger(cfg.Logger.Level, cfg.Logger.File)

	repo, err := buildRepo(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open storage: %v\n", err)
		os.Exit(1)
	}

	auctionSvc := auction.NewAuctionService(repo, auction.WithRetryLimit(cfg.Bidding.RetryLimit))

	router := server.SetupRouter(auctionSvc)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	fmt.Printf("Starting auction server on %s...\n", addr)
	if err := router.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}

// buildRepo selects the persistence backend from configuration
func buildRepo(cfg *config.Config) (repository.AuctionDB, error) {
	switch cfg.Storage.Driver {
	case "sqlite":
		return storage.NewStorage(cfg.Storage.Path)
	case "", "memory":
		return repository.NewMemoryRepo(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
