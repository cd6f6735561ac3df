package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/honeystore/gateway"
	"github.com/example/honeystore/pkg/config"
	"github.com/example/honeystore/pkg/discovery"
	"github.com/example/honeystore/pkg/logger"
	"github.com/example/honeystore/pkg/repository"
	"go.uber.org/zap"
)

// @title       Honey & Bees Storefront API
// @version     1.0
// @description Products, orders and seeding over a MongoDB document store.
// @BasePath    /
func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config file")
	flag.Parse()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Setup logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting storefront",
		zap.String("name", cfg.Server.Name),
		zap.String("address", cfg.Server.Addr()))

	// Document store: run degraded rather than refuse to boot
	var store repository.DocumentStore
	mongoRepo, err := repository.NewMongoRepository(&cfg.MongoDB)
	if err != nil {
		log.Warn("Document store not available, serving in degraded mode", zap.Error(err))
	} else {
		store = mongoRepo
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := mongoRepo.Close(ctx); err != nil {
				log.Error("Failed to disconnect from MongoDB", zap.Error(err))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := mongoRepo.Ping(ctx); err != nil {
			log.Warn("MongoDB ping failed", zap.Error(err))
		} else {
			log.Info("MongoDB connected", zap.String("database", mongoRepo.DatabaseName()))
		}
		cancel()
	}

	// Optional service registration
	instance := &discovery.ServiceInstance{
		Name: cfg.Server.Name,
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	}
	registrar, err := discovery.NewRegistrar(&cfg.Etcd, log.Named("discovery"))
	if err != nil {
		log.Warn("Failed to connect to etcd, continuing without service discovery", zap.Error(err))
	} else if registrar != nil {
		defer registrar.Close()

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Etcd.DialTimeout)
		if err := registrar.Register(ctx, instance); err != nil {
			log.Warn("Failed to register service", zap.Error(err))
		} else {
			log.Info("Service registered in etcd", zap.String("address", instance.Addr()))
		}
		cancel()
	}

	gw := gateway.NewGateway(cfg, log.Named("gateway"), store)
	gw.SetupRoutes()

	// Start gateway in goroutine
	gwErr := make(chan error, 1)
	go func() {
		if err := gw.Start(); err != nil {
			gwErr <- err
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Info("Received shutdown signal")
	case err := <-gwErr:
		log.Error("Gateway error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if registrar != nil {
		if err := registrar.Deregister(ctx, instance); err != nil {
			log.Error("Failed to deregister service", zap.Error(err))
		}
	}

	if err := gw.Shutdown(ctx); err != nil {
		log.Error("Gateway forced to shutdown", zap.Error(err))
	}

	log.Info("Storefront stopped")
}
