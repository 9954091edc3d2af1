package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"mfc-voice-agent/internal/repository"
	"mfc-voice-agent/internal/usecase"
)

// SearchProductsHandler serves the product search endpoint.
type SearchProductsHandler struct {
	catalog        repository.CatalogReader
	callbackNumber string
	maxResults     int
	logger         *slog.Logger
}

// NewSearchProductsHandler creates a SearchProductsHandler.
func NewSearchProductsHandler(catalog repository.CatalogReader, callbackNumber string, maxResults int, logger *slog.Logger) (*SearchProductsHandler, error) {
	if catalog == nil {
		return nil, errors.New("handler: catalog reader must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchProductsHandler{
		catalog:        catalog,
		callbackNumber: callbackNumber,
		maxResults:     maxResults,
		logger:         logger,
	}, nil
}

// Handle answers GET query-parameter and POST body requests. All filters are
// optional; an unfiltered request returns the capped active catalog.
func (h *SearchProductsHandler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if resp, done := preflight(req); done {
		return resp, nil
	}
	switch req.RequestContext.HTTP.Method {
	case http.MethodGet, http.MethodPost:
	default:
		return envelopeErr(http.StatusMethodNotAllowed, "method not allowed"), nil
	}

	params, err := requestParams(req)
	if err != nil {
		return envelopeErr(http.StatusBadRequest, "invalid request body"), nil
	}

	filter := repository.ProductFilter{
		SearchTerm:    params.String("search_term", "query"),
		Category:      params.String("category"),
		LivestockType: params.String("livestock_type"),
		FeaturedOnly:  strings.EqualFold(params.String("featured_only", "featured"), "true"),
	}

	products, err := h.catalog.SearchProducts(ctx, filter, h.maxResults)
	if err != nil {
		h.logger.Error("product search failed", "err", err)
		return envelopeErr(http.StatusInternalServerError, "product search failed"), nil
	}

	return envelopeOK(map[string]any{
		"products": products,
		"count":    len(products),
	}, usecase.ProductsSentence(products, h.callbackNumber)), nil
}
