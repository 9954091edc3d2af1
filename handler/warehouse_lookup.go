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

// WarehouseLookupHandler serves pickup/distribution location lookups.
type WarehouseLookupHandler struct {
	catalog        repository.CatalogReader
	callbackNumber string
	maxResults     int
	logger         *slog.Logger
}

// NewWarehouseLookupHandler creates a WarehouseLookupHandler.
func NewWarehouseLookupHandler(catalog repository.CatalogReader, callbackNumber string, maxResults int, logger *slog.Logger) (*WarehouseLookupHandler, error) {
	if catalog == nil {
		return nil, errors.New("handler: catalog reader must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WarehouseLookupHandler{
		catalog:        catalog,
		callbackNumber: callbackNumber,
		maxResults:     maxResults,
		logger:         logger,
	}, nil
}

// Handle looks up warehouses by code, city, or region.
func (h *WarehouseLookupHandler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
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

	filter := repository.WarehouseFilter{
		Code:   params.String("warehouse_code", "code"),
		City:   params.String("city"),
		Region: params.String("region"),
	}

	warehouses, err := h.catalog.FindWarehouses(ctx, filter, h.maxResults)
	if err != nil {
		h.logger.Error("warehouse lookup failed", "err", err)
		return envelopeErr(http.StatusInternalServerError, "warehouse lookup failed"), nil
	}

	return envelopeOK(map[string]any{
		"warehouses": warehouses,
		"count":      len(warehouses),
	}, usecase.WarehousesSentence(warehouses, h.callbackNumber)), nil
}
