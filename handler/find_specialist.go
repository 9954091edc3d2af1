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

// FindSpecialistHandler is voice-facing: every outcome, including errors,
// comes back as HTTP 200 text the platform can read to the caller.
type FindSpecialistHandler struct {
	resolver       *usecase.Resolver
	callbackNumber string
	logger         *slog.Logger
}

// NewFindSpecialistHandler creates a FindSpecialistHandler.
func NewFindSpecialistHandler(resolver *usecase.Resolver, callbackNumber string, logger *slog.Logger) (*FindSpecialistHandler, error) {
	if resolver == nil {
		return nil, errors.New("handler: resolver must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FindSpecialistHandler{resolver: resolver, callbackNumber: callbackNumber, logger: logger}, nil
}

// Handle resolves county (or zip/state) to a specialist. The county is
// echoed back exactly as the caller spoke it, suffix and all.
func (h *FindSpecialistHandler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if resp, done := preflight(req); done {
		return resp, nil
	}
	switch req.RequestContext.HTTP.Method {
	case http.MethodGet, http.MethodPost:
	default:
		return voiceError("I didn't catch that request. Could you try again?", "method_not_allowed"), nil
	}

	params, err := requestParams(req)
	if err != nil {
		return voiceError("I didn't quite catch that. Could you tell me your county again?", "invalid_request"), nil
	}

	in := resolveInput(params)
	if in.County == "" && in.Zip == "" && in.State == "" {
		return voiceResult("Happy to find your local specialist! What county is your ranch in?"), nil
	}

	res := h.resolver.Resolve(ctx, in)
	return voiceResult(usecase.SpecialistSentence(res, params.String("county"), h.callbackNumber)), nil
}

func resolveInput(params vapi.Params) usecase.ResolveInput {
	return usecase.ResolveInput{
		County: params.String("county"),
		Zip:    params.String("zip", "zip_code"),
		City:   params.String("city"),
		State:  params.String("state"),
	}
}
