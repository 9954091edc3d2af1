// Package handler contains one Lambda entrypoint per endpoint. Handlers are
// stateless single-pass functions: validate a couple of fields, run one
// filtered query, shape the result, return it.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"mfc-voice-agent/internal/vapi"
)

// Two response conventions coexist. Generic endpoints use the envelope below;
// voice-facing endpoints return voiceResult/voiceError, always HTTP 200, so
// the platform can speak the error text to the caller.

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

type voiceResponse struct {
	Result    string `json:"result"`
	Error     bool   `json:"error,omitempty"`
	ErrorType string `json:"error_type,omitempty"`
}

func corsHeaders() map[string]string {
	return map[string]string{
		"content-type":                 "application/json",
		"access-control-allow-origin":  "*",
		"access-control-allow-methods": "GET, POST, OPTIONS",
		"access-control-allow-headers": "content-type, authorization",
	}
}

func jsonResp(status int, v any) events.APIGatewayV2HTTPResponse {
	b, _ := json.Marshal(v)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    corsHeaders(),
		Body:       string(b),
	}
}

func envelopeOK(data any, message string) events.APIGatewayV2HTTPResponse {
	return jsonResp(http.StatusOK, envelope{Success: true, Data: data, Message: message})
}

func envelopeErr(status int, message string) events.APIGatewayV2HTTPResponse {
	return jsonResp(status, envelope{Success: false, Error: message})
}

func voiceResult(result string) events.APIGatewayV2HTTPResponse {
	return jsonResp(http.StatusOK, voiceResponse{Result: result})
}

func voiceError(spoken, errType string) events.APIGatewayV2HTTPResponse {
	return jsonResp(http.StatusOK, voiceResponse{Result: spoken, Error: true, ErrorType: errType})
}

const systemTroubleMessage = "I'm having a little trouble with our system right now. Let me connect you with one of our team members who can help you directly."

// preflight answers CORS preflight requests. The second return reports
// whether the request was handled.
func preflight(req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, bool) {
	if req.RequestContext.HTTP.Method == http.MethodOptions {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusOK, Headers: corsHeaders()}, true
	}
	return events.APIGatewayV2HTTPResponse{}, false
}

// requestParams normalizes GET query parameters or a POST body (direct JSON
// or tool-call envelope) into one canonical parameter record.
func requestParams(req events.APIGatewayV2HTTPRequest) (vapi.Params, error) {
	if req.RequestContext.HTTP.Method == http.MethodGet {
		return vapi.FromQuery(req.QueryStringParameters), nil
	}
	return vapi.ParseBody([]byte(req.Body))
}
