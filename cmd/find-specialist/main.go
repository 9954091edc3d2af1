package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"mfc-voice-agent/handler"
	"mfc-voice-agent/internal/config"
	"mfc-voice-agent/internal/repository"
	"mfc-voice-agent/internal/usecase"
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

	routing, err := repository.NewRouting(ddb, cfg.TerritoriesTable, cfg.SpecialistsTable)
	if err != nil {
		logger.Error("failed to create routing repository", "err", err)
		os.Exit(1)
	}

	resolver, err := usecase.NewResolver(routing, logger)
	if err != nil {
		logger.Error("failed to create resolver", "err", err)
		os.Exit(1)
	}

	h, err := handler.NewFindSpecialistHandler(resolver, cfg.CallbackNumber, logger)
	if err != nil {
		logger.Error("failed to create handler", "err", err)
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}
