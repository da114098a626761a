package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	commandv1 "github.com/matheus-ft/matching-engine/internal/domain/command/v1"
	orderbookv1 "github.com/matheus-ft/matching-engine/internal/domain/orderbook/v1"
	tradepublisherv1 "github.com/matheus-ft/matching-engine/internal/domain/trade-publisher/v1"
	commandreader "github.com/matheus-ft/matching-engine/internal/usecase/command-reader"
	app "github.com/matheus-ft/matching-engine/internal/usecase/engine"
	tradepublisher "github.com/matheus-ft/matching-engine/internal/usecase/trade-publisher"
	"github.com/matheus-ft/matching-engine/pkg/config"
	"github.com/matheus-ft/matching-engine/pkg/logger"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		panic(err)
	}

	log, err = logger.NewLogger(
		logger.WithLoggingLevel(logger.Level(cfg.App.LogLevel)),
		// session output goes to stdout; keep logs out of its way
		logger.WithOutputPaths([]string{"stderr"}),
	)
	if err != nil {
		panic(err)
	}
}

func main() {
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Initialize components
	book := orderbookv1.NewOrderBook()

	var reader commandv1.Reader = commandreader.NewReader(os.Stdin, log)

	var publisher tradepublisherv1.Publisher
	if cfg.TradeKafka.Enabled() {
		kafkaPublisher := tradepublisher.NewPublisher(cfg.TradeKafka, log)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	engine := app.NewEngine(book, reader, publisher, os.Stdout, log, nil)

	// Start the engine
	if err := engine.Start(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "start_engine",
		})
		return
	}

	log.Info("matching engine started", logger.Field{
		Key:   "app",
		Value: cfg.App.Name,
	})

	// Wait for the session to end or a shutdown signal
	select {
	case <-engine.Done():
		log.Info("session source exhausted")
	case sig := <-sigChan:
		log.Info("received shutdown signal", logger.Field{
			Key:   "signal",
			Value: sig.String(),
		})
	}

	cancel()

	// Create a timeout context for graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := engine.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "stop_engine",
		})
	}

	log.Info("matching engine shutdown complete")
}
