package server

import (
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"mfc-voice-agent/internal/usecase"
	"mfc-voice-agent/internal/vapi"
)

const systemTroubleMessage = "I'm having a little trouble with our system right now. Let me connect you with one of our team members who can help you directly."

// voicePayload mirrors the Lambda handlers' voice convention: errors ride an
// HTTP 200 so the platform can speak them.
type voicePayload struct {
	Result    string `json:"result"`
	Error     bool   `json:"error,omitempty"`
	ErrorType string `json:"error_type,omitempty"`
}

func voiceOK(c echo.Context, result string) error {
	return c.JSON(http.StatusOK, voicePayload{Result: result})
}

func voiceErr(c echo.Context, spoken, errType string) error {
	return c.JSON(http.StatusOK, voicePayload{Result: spoken, Error: true, ErrorType: errType})
}

func params(c echo.Context) (vapi.Params, error) {
	if c.Request().Method == http.MethodGet {
		query := map[string]string{}
		for k, vs := range c.QueryParams() {
			if len(vs) > 0 {
				query[k] = vs[0]
			}
		}
		return vapi.FromQuery(query), nil
	}
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, 1<<20))
	if err != nil {
		return vapi.Params{}, err
	}
	return vapi.ParseBody(body)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleMetrics issues the configured count queries concurrently and reports
// whatever succeeded; a failed count shows up as -1 rather than failing the
// whole endpoint.
func (s *Server) handleMetrics(c echo.Context) error {
	ctx := c.Request().Context()

	var mu sync.Mutex
	var wg sync.WaitGroup
	counts := map[string]int{}

	for name, counter := range s.counters {
		name, counter := name, counter
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := counter.Count(ctx)
			if err != nil {
				s.logger.Error("metrics count failed", "entity", name, "err", err)
				n = -1
			}
			mu.Lock()
			counts[name] = n
			mu.Unlock()
		}()
	}
	wg.Wait()

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data":    counts,
	})
}

func (s *Server) handleStartConversation(c echo.Context) error {
	p, err := params(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "invalid request body"})
	}

	conv, err := s.conversations.Start(c.Request().Context(), p.String("channel"), p.String("phone_number", "phone"))
	if err != nil {
		s.logger.Error("conversation start failed", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]any{"success": false, "error": "conversation start failed"})
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": conv})
}

func (s *Server) handleConversationTurn(c echo.Context) error {
	p, err := params(c)
	if err != nil {
		return voiceErr(c, "I didn't quite catch that. Could you say it again?", "invalid_request")
	}

	message := p.String("message", "text")
	if message == "" {
		return voiceOK(c, "I didn't hear anything there. What can I help you with?")
	}

	result, err := s.conversations.Turn(c.Request().Context(), c.Param("id"), message)
	if err != nil {
		var ucErr *usecase.Error
		if errors.As(err, &ucErr) && ucErr.Code == usecase.ErrorNotFound {
			return voiceErr(c, "I seem to have lost track of our conversation. Let's start fresh: what can I help you with?", "conversation_not_found")
		}
		if errors.As(err, &ucErr) && ucErr.Code == usecase.ErrorInvalidInput {
			return voiceErr(c, "That conversation has already wrapped up. Feel free to call back any time!", "conversation_not_active")
		}
		s.logger.Error("conversation turn failed", "conversation", c.Param("id"), "err", err)
		return voiceErr(c, systemTroubleMessage, "system_error")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"result":     result.Reply,
		"intent":     result.Intent,
		"lead_score": result.LeadScore,
		"topics":     result.Topics,
	})
}

func (s *Server) handleEndConversation(c echo.Context) error {
	result, err := s.conversations.End(c.Request().Context(), c.Param("id"))
	if err != nil {
		var ucErr *usecase.Error
		if errors.As(err, &ucErr) && ucErr.Code == usecase.ErrorNotFound {
			return c.JSON(http.StatusNotFound, map[string]any{"success": false, "error": "conversation not found"})
		}
		if errors.As(err, &ucErr) && ucErr.Code == usecase.ErrorInvalidInput {
			return c.JSON(http.StatusConflict, map[string]any{"success": false, "error": "conversation already completed"})
		}
		s.logger.Error("conversation end failed", "conversation", c.Param("id"), "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]any{"success": false, "error": "conversation end failed"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"conversation_id": result.Conversation.ID,
			"status":          result.Conversation.Status,
			"lead_score":      result.Conversation.LeadScore,
			"lead_created":    result.LeadCreated,
			"lead_id":         result.LeadID,
		},
	})
}

func (s *Server) handleRanchData(c echo.Context) error {
	p, err := params(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "invalid request body"})
	}

	err = s.conversations.SaveRanchData(c.Request().Context(), c.Param("id"), usecase.RanchData{
		CallerName: p.String("caller_name", "name"),
		RanchName:  p.String("ranch_name"),
		County:     p.String("county", "location"),
		HerdSize:   p.Int("herd_size"),
	})
	if err != nil {
		var ucErr *usecase.Error
		if errors.As(err, &ucErr) && ucErr.Code == usecase.ErrorNotFound {
			return c.JSON(http.StatusNotFound, map[string]any{"success": false, "error": "conversation not found"})
		}
		s.logger.Error("ranch data save failed", "conversation", c.Param("id"), "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]any{"success": false, "error": "ranch data save failed"})
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "ranch data saved"})
}

func (s *Server) handleCallerContext(c echo.Context) error {
	p, err := params(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "invalid request body"})
	}

	context, isNew, err := s.conversations.CallerContext(c.Request().Context(), p.String("phone_number", "phone"))
	if err != nil {
		var ucErr *usecase.Error
		if errors.As(err, &ucErr) && ucErr.Code == usecase.ErrorInvalidInput {
			return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "phone_number is required"})
		}
		s.logger.Error("caller context lookup failed", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]any{"success": false, "error": "caller context lookup failed"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":       true,
		"is_new_caller": isNew,
		"context":       context,
	})
}

func (s *Server) handleCreateLead(c echo.Context) error {
	p, err := params(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "invalid request body"})
	}

	result, err := s.leads.CreateLead(c.Request().Context(), usecase.LeadInput{
		Name:            p.String("name"),
		FirstName:       p.String("first_name"),
		LastName:        p.String("last_name"),
		Phone:           p.String("phone", "phone_number"),
		Email:           p.String("email"),
		RanchName:       p.String("ranch_name"),
		County:          p.String("county"),
		Zip:             p.String("zip", "zip_code"),
		State:           p.String("state"),
		LivestockTypes:  p.StringSlice("livestock_types"),
		HerdSize:        p.Int("herd_size"),
		PrimaryInterest: p.String("primary_interest"),
		Notes:           p.String("notes"),
		Source:          p.String("source"),
	})
	if err != nil {
		var ucErr *usecase.Error
		if errors.As(err, &ucErr) && ucErr.Code == usecase.ErrorInvalidInput {
			return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": ucErr.Reason})
		}
		s.logger.Error("lead creation failed", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]any{"success": false, "error": "lead creation failed"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"lead_id":             result.Lead.ID,
			"first_name":          result.Lead.FirstName,
			"last_name":           result.Lead.LastName,
			"territory_code":      result.Lead.TerritoryCode,
			"specialist_assigned": result.SpecialistAssigned,
		},
		"message": result.AssignmentMessage,
	})
}

func (s *Server) handleFindSpecialist(c echo.Context) error {
	p, err := params(c)
	if err != nil {
		return voiceErr(c, "I didn't quite catch that. Could you tell me your county again?", "invalid_request")
	}

	county := p.String("county")
	zip := p.String("zip", "zip_code")
	state := p.String("state")
	if county == "" && zip == "" && state == "" {
		return voiceOK(c, "Happy to find your local specialist! What county is your ranch in?")
	}

	res := s.resolver.Resolve(c.Request().Context(), usecase.ResolveInput{
		County: county,
		Zip:    zip,
		City:   p.String("city"),
		State:  state,
	})
	return voiceOK(c, usecase.SpecialistSentence(res, county, s.cfg.CallbackNumber))
}

func (s *Server) handleSpeak(c echo.Context) error {
	p, err := params(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "invalid request body"})
	}
	text := p.String("text")
	if text == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "text is required"})
	}

	audio, err := s.speaker.Synthesize(c.Request().Context(), text)
	if err != nil {
		// Speech is decorative: the platform speaks with its own voice when
		// synthesis fails.
		s.logger.Error("speech synthesis failed", "err", err)
		return c.JSON(http.StatusOK, map[string]any{"success": false, "error": "synthesis unavailable"})
	}
	return c.Blob(http.StatusOK, "audio/mpeg", audio)
}
