// Package httpapi exposes the application over a JSON HTTP API. Responses use
// the JSend envelope; authentication is a server-side session referenced by an
// HttpOnly cookie.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"otter.camp/lingot/internal/backend"
	"otter.camp/lingot/internal/globaltime"
	"otter.camp/lingot/internal/ingest"
)

type Options struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// MediaDir is served read-only under /media for audio playback.
	MediaDir string

	SessionCookieName   string
	SessionCookieSecure bool
	SessionTTL          time.Duration

	// CORSOrigins lists allowed origins. Empty means same-origin deployments
	// only; no wildcard is ever used because the API relies on cookies.
	CORSOrigins []string
}

type Server struct {
	stores backend.Stores
	ingest *ingest.Service
	logger zerolog.Logger
	opts   Options
}

func NewServer(stores backend.Stores, ingestSvc *ingest.Service, logger zerolog.Logger, opts Options) *Server {
	if strings.TrimSpace(opts.Host) == "" {
		opts.Host = "0.0.0.0"
	}
	if opts.Port <= 0 {
		opts.Port = 8080
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 10 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 30 * time.Second
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	if strings.TrimSpace(opts.SessionCookieName) == "" {
		opts.SessionCookieName = "lingot_session"
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 168 * time.Hour
	}

	return &Server{
		stores: stores,
		ingest: ingestSvc,
		logger: logger,
		opts:   opts,
	}
}

func (s *Server) Start(ctx context.Context) error {
	if s == nil || s.ingest == nil {
		return fmt.Errorf("server is not initialized")
	}

	e := s.buildEcho()

	addr := fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
			s.logger.Error().Err(shutdownErr).Msg("server shutdown failed")
		}
	}()

	s.logger.Info().Str("addr", addr).Msg("lingot api server started")

	if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start server: %w", err)
	}
	s.logger.Info().Msg("lingot api server stopped")
	return nil
}

func (s *Server) buildEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.httpErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	if len(s.opts.CORSOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.opts.CORSOrigins,
			AllowMethods: []string{
				http.MethodGet, http.MethodPost, http.MethodPut,
				http.MethodDelete, http.MethodOptions,
			},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			AllowCredentials: true,
			MaxAge:           3600,
		}))
	}
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Err(v.Error).
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Str("remote_ip", v.RemoteIP).
					Str("request_id", v.RequestID).
					Msg("http request failed")
				return nil
			}

			s.logger.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("http request")
			return nil
		},
	}))

	if strings.TrimSpace(s.opts.MediaDir) != "" {
		e.Static("/media", s.opts.MediaDir)
	}

	api := e.Group("/api/v1")
	api.GET("/health", s.handleHealth)
	api.GET("/login-view", s.handleLoginView)
	api.POST("/auth/login", s.handleLogin)
	api.POST("/auth/logout", s.handleLogout)
	api.POST("/auth/register", s.handleRegister)

	// PUT app-settings does its own auth check: first-run configuration has
	// to work before any user or session exists.
	api.PUT("/app-settings", s.handlePutAppSettings)

	authed := api.Group("", s.requireAuth)
	authed.GET("/auth/me", s.handleMe)
	authed.GET("/app-settings", s.handleGetAppSettings)

	authed.GET("/documents", s.handleListDocuments)
	authed.POST("/documents", s.handleUploadDocument)
	authed.GET("/documents/:document_id", s.handleDocumentDetail)
	authed.DELETE("/documents/:document_id", s.handleDeleteDocument)

	authed.GET("/words", s.handleListWords)
	authed.PUT("/words/:word_id/part-of-speech", s.handleSetPartOfSpeech)
	authed.GET("/words/:word_id/conjugations", s.handleListConjugations)
	authed.POST("/words/:word_id/conjugations", s.handleCreateConjugation)
	authed.DELETE("/conjugations/:conjugation_id", s.handleDeleteConjugation)

	authed.GET("/trackers", s.handleListTrackers)
	authed.PUT("/trackers/:tracker_id/status", s.handleSetTrackerStatus)

	return e
}

func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"
	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		switch v := he.Message.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				message = v
			}
		default:
			if text := strings.TrimSpace(http.StatusText(status)); text != "" {
				message = text
			}
		}
	} else if err != nil {
		message = err.Error()
	}

	if status >= 500 {
		_ = internalError(c, "Internal server error")
		return
	}
	_ = fail(c, status, message, nil)
}

func (s *Server) handleHealth(c echo.Context) error {
	return success(c, map[string]any{
		"service": "lingot",
		"time":    globaltime.UTC(),
	})
}
