package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"mfc-voice-agent/internal/usecase"
	"mfc-voice-agent/internal/vapi"
)

// CreateLeadHandler persists one lead per call. The write path is the one
// thing that must always look successful to the caller: notification
// failures never surface here.
type CreateLeadHandler struct {
	leads  *usecase.LeadService
	logger *slog.Logger
}

// NewCreateLeadHandler creates a CreateLeadHandler.
func NewCreateLeadHandler(leads *usecase.LeadService, logger *slog.Logger) (*CreateLeadHandler, error) {
	if leads == nil {
		return nil, errors.New("handler: lead service must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CreateLeadHandler{leads: leads, logger: logger}, nil
}

// Handle accepts POST bodies and, for older integrations, GET query params.
func (h *CreateLeadHandler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
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

	result, err := h.leads.CreateLead(ctx, leadInput(params))
	if err != nil {
		var ucErr *usecase.Error
		if errors.As(err, &ucErr) && ucErr.Code == usecase.ErrorInvalidInput {
			return envelopeErr(http.StatusBadRequest, ucErr.Reason), nil
		}
		h.logger.Error("lead creation failed", "err", err)
		return envelopeErr(http.StatusInternalServerError, "lead creation failed"), nil
	}

	return envelopeOK(map[string]any{
		"lead_id":             result.Lead.ID,
		"first_name":          result.Lead.FirstName,
		"last_name":           result.Lead.LastName,
		"territory_code":      result.Lead.TerritoryCode,
		"specialist_assigned": result.SpecialistAssigned,
	}, result.AssignmentMessage), nil
}

// leadInput maps both historical request schemas onto the canonical input.
func leadInput(params vapi.Params) usecase.LeadInput {
	return usecase.LeadInput{
		Name:            params.String("name"),
		FirstName:       params.String("first_name"),
		LastName:        params.String("last_name"),
		Phone:           params.String("phone", "phone_number"),
		Email:           params.String("email"),
		RanchName:       params.String("ranch_name"),
		County:          params.String("county"),
		Zip:             params.String("zip", "zip_code"),
		State:           params.String("state"),
		LivestockTypes:  params.StringSlice("livestock_types"),
		HerdSize:        params.Int("herd_size"),
		PrimaryInterest: params.String("primary_interest"),
		Notes:           params.String("notes"),
		Source:          params.String("source"),
	}
}
