package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/futig/ticket-classifier/internal/builder"
	"go.uber.org/zap"
)

func main() {
	indexer, err := builder.BuildIndexer()
	if err != nil {
		log.Fatal("Failed to build indexer:", err)
	}
	defer indexer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := indexer.Logger()

	result, err := indexer.Run(ctx)
	if err != nil {
		logger.Error("indexing failed", zap.Error(err))
		indexer.Close()
		os.Exit(1)
	}

	logger.Info("indexing finished",
		zap.Bool("skipped", result.Skipped),
		zap.Int("indexed", result.Indexed),
		zap.Int("dropped", result.Dropped),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("total", result.Total),
	)
}
