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

// RecommendationsHandler ranks the catalog against the caller's operation.
type RecommendationsHandler struct {
	catalog    repository.CatalogReader
	maxResults int
	logger     *slog.Logger
}

// NewRecommendationsHandler creates a RecommendationsHandler.
func NewRecommendationsHandler(catalog repository.CatalogReader, maxResults int, logger *slog.Logger) (*RecommendationsHandler, error) {
	if catalog == nil {
		return nil, errors.New("handler: catalog reader must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RecommendationsHandler{catalog: catalog, maxResults: maxResults, logger: logger}, nil
}

// Handle requires livestock_type; the remaining criteria refine the ranking.
func (h *RecommendationsHandler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
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

	in := usecase.RecommendInput{
		LivestockType:   params.String("livestock_type"),
		Need:            params.String("need"),
		ProductionStage: params.String("production_stage"),
		Season:          params.String("season"),
	}
	if in.LivestockType == "" {
		return envelopeErr(http.StatusBadRequest, "livestock_type is required"), nil
	}

	// Rank over the full active catalog; the filtered scan would hide
	// cross-category matches the ranking is meant to find.
	products, err := h.catalog.SearchProducts(ctx, repository.ProductFilter{}, 0)
	if err != nil {
		h.logger.Error("recommendation candidate query failed", "err", err)
		return envelopeErr(http.StatusInternalServerError, "recommendations failed"), nil
	}

	recs := usecase.RankProducts(products, in)
	if h.maxResults > 0 && len(recs) > h.maxResults {
		recs = recs[:h.maxResults]
	}

	return envelopeOK(map[string]any{
		"recommendations": recs,
		"count":           len(recs),
	}, ""), nil
}
