// Package server is the long-running variant of the backend: the same lead
// and specialist operations as the Lambda handlers, plus the conversation
// lifecycle the voice platform drives turn by turn.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"mfc-voice-agent/internal/config"
	"mfc-voice-agent/internal/usecase"
)

// Speaker synthesizes a voice-script string; nil disables the speak route.
type Speaker interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Counter is one named row count for the metrics endpoint.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// Server wires the echo router to the services.
type Server struct {
	echo          *echo.Echo
	conversations *usecase.ConversationService
	leads         *usecase.LeadService
	resolver      *usecase.Resolver
	speaker       Speaker
	counters      map[string]Counter
	cfg           *config.Config
	logger        *slog.Logger
}

// New builds a Server with CORS and per-IP fixed-window rate limiting
// applied to every route.
func New(cfg *config.Config, conversations *usecase.ConversationService, leads *usecase.LeadService, resolver *usecase.Resolver, speaker Speaker, counters map[string]Counter, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server: config must not be nil")
	}
	if conversations == nil || leads == nil || resolver == nil {
		return nil, errors.New("server: services must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))
	e.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: newFixedWindowStore(time.Duration(cfg.RateLimitWindow)*time.Second, cfg.RateLimitCeiling),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, map[string]any{
				"success": false,
				"error":   "rate limit exceeded",
			})
		},
	}))

	s := &Server{
		echo:          e,
		conversations: conversations,
		leads:         leads,
		resolver:      resolver,
		speaker:       speaker,
		counters:      counters,
		cfg:           cfg,
		logger:        logger,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", s.handleMetrics)

	s.echo.POST("/conversations", s.handleStartConversation)
	s.echo.POST("/conversations/:id/messages", s.handleConversationTurn)
	s.echo.POST("/conversations/:id/end", s.handleEndConversation)
	s.echo.POST("/conversations/:id/ranch-data", s.handleRanchData)
	s.echo.POST("/caller-context", s.handleCallerContext)

	s.echo.POST("/leads", s.handleCreateLead)
	s.echo.GET("/specialists/find", s.handleFindSpecialist)
	s.echo.POST("/specialists/find", s.handleFindSpecialist)

	if s.speaker != nil {
		s.echo.POST("/speak", s.handleSpeak)
	}
}

// Start blocks serving HTTP until the listener fails or is shut down.
func (s *Server) Start() error {
	return s.echo.Start(s.cfg.ListenAddr)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Echo exposes the router for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
