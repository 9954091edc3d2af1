package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"

	"mfc-voice-agent/handler"
	"mfc-voice-agent/internal/config"
	"mfc-voice-agent/internal/integrations/paramstore"
	"mfc-voice-agent/internal/integrations/sendgrid"
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

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		logger.Error("failed to load AWS config", "err", err)
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
	leadsRepo, err := repository.NewLeads(ddb, cfg.LeadsTable)
	if err != nil {
		logger.Error("failed to create leads repository", "err", err)
		os.Exit(1)
	}

	resolver, err := usecase.NewResolver(routing, logger)
	if err != nil {
		logger.Error("failed to create resolver", "err", err)
		os.Exit(1)
	}

	ssmClient, err := paramstore.New(awsssm.NewFromConfig(awsCfg))
	if err != nil {
		logger.Error("failed to create SSM client", "err", err)
		os.Exit(1)
	}
	email, err := sendgrid.NewClient(ssmClient, cfg.ParamPrefix, cfg.SenderEmail)
	if err != nil {
		logger.Error("failed to create email client", "err", err)
		os.Exit(1)
	}

	leads, err := usecase.NewLeadService(leadsRepo, resolver, email, cfg.FallbackEmail, logger)
	if err != nil {
		logger.Error("failed to create lead service", "err", err)
		os.Exit(1)
	}

	h, err := handler.NewCreateLeadHandler(leads, logger)
	if err != nil {
		logger.Error("failed to create handler", "err", err)
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}
