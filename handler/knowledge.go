package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"mfc-voice-agent/internal/repository"
	"mfc-voice-agent/internal/usecase"
)

// KnowledgeHandler answers curated Q&A queries, up to three rows per call.
type KnowledgeHandler struct {
	catalog repository.CatalogReader
	logger  *slog.Logger
}

// NewKnowledgeHandler creates a KnowledgeHandler.
func NewKnowledgeHandler(catalog repository.CatalogReader, logger *slog.Logger) (*KnowledgeHandler, error) {
	if catalog == nil {
		return nil, errors.New("handler: catalog reader must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &KnowledgeHandler{catalog: catalog, logger: logger}, nil
}

// Handle matches a question, category, or keyword list against the knowledge
// table.
func (h *KnowledgeHandler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if resp, done := preflight(req); done {
		return resp, nil
	}
	if req.RequestContext.HTTP.Method != http.MethodPost {
		return envelopeErr(http.StatusMethodNotAllowed, "method not allowed"), nil
	}

	params, err := requestParams(req)
	if err != nil {
		return envelopeErr(http.StatusBadRequest, "invalid request body"), nil
	}

	question := params.String("question")
	category := params.String("category")
	keywords := params.StringSlice("keywords")
	if question == "" && category == "" && len(keywords) == 0 {
		return envelopeErr(http.StatusBadRequest, "question, category, or keywords required"), nil
	}

	entries, err := h.catalog.ActiveKnowledge(ctx)
	if err != nil {
		h.logger.Error("knowledge query failed", "err", err)
		return envelopeErr(http.StatusInternalServerError, "knowledge query failed"), nil
	}

	matches := usecase.MatchKnowledge(entries, question, category, keywords)
	return envelopeOK(map[string]any{
		"entries": matches,
		"count":   len(matches),
	}, ""), nil
}
