package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"

	"mfc-voice-agent/internal/config"
	"mfc-voice-agent/internal/integrations/elevenlabs"
	"mfc-voice-agent/internal/integrations/paramstore"
	"mfc-voice-agent/internal/integrations/sendgrid"
	"mfc-voice-agent/internal/repository"
	"mfc-voice-agent/internal/server"
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
	convRepo, err := repository.NewConversations(ddb, cfg.ConversationsTable)
	if err != nil {
		logger.Error("failed to create conversations repository", "err", err)
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
	conversations, err := usecase.NewConversationService(convRepo, leads, cfg.LeadScoreCutoff, logger)
	if err != nil {
		logger.Error("failed to create conversation service", "err", err)
		os.Exit(1)
	}

	// The speak route is optional: deployments without a configured voice
	// simply never register it.
	var speaker server.Speaker
	if cfg.ElevenLabsVoice != "" {
		tts, ttsErr := elevenlabs.NewClient(ssmClient, cfg.ParamPrefix, cfg.ElevenLabsVoice)
		if ttsErr != nil {
			logger.Error("failed to create speech client", "err", ttsErr)
			os.Exit(1)
		}
		speaker = tts
	}

	srv, err := server.New(cfg, conversations, leads, resolver, speaker, map[string]server.Counter{
		"leads":         leadsRepo,
		"conversations": convRepo,
	}, logger)
	if err != nil {
		logger.Error("failed to create server", "err", err)
		os.Exit(1)
	}

	go func() {
		if serveErr := srv.Start(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("server stopped", "err", serveErr)
			os.Exit(1)
		}
	}()
	logger.Info("server listening", "addr", cfg.ListenAddr)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "err", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
