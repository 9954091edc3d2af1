package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"mfc-voice-agent/handler"
	"mfc-voice-agent/internal/config"
	"mfc-voice-agent/internal/repository"
)

func main() {
	ctx := context.Background()
	logger := slog.Default()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	ddb, err := repository.NewDynamoClient(ctx)
	if err != nil {
		logger.Error("failed to init dynamodb", "err", err)
		os.Exit(1)
	}

	catalog, err := repository.NewCatalog(ddb, cfg.ProductsTable, cfg.WarehousesTable, cfg.KnowledgeTable)
	if err != nil {
		logger.Error("failed to create catalog", "err", err)
		os.Exit(1)
	}

	h, err := handler.NewSearchProductsHandler(catalog, cfg.CallbackNumber, cfg.MaxResults, logger)
	if err != nil {
		logger.Error("failed to create handler", "err", err)
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}
