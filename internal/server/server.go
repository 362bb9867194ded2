// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the paper flows over HTTP with echo.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pdiddy/paper-intel/internal/logging"
	"github.com/pdiddy/paper-intel/pkg/types"
)

// Flows is the set of operations served over HTTP. *paper.Service
// implements it.
type Flows interface {
	ExtractInfo(ctx context.Context, ref string) (types.PaperExtraction, error)
	ScorePaper(ctx context.Context, ref, query string) (types.SimilarityResult, error)
	FindRelated(ctx context.Context, ref, query string) (types.RelatedPapersResult, error)
	Chat(ctx context.Context, ref, query string) (types.ChatResponse, error)
}

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-ID"

// Server is the HTTP surface.
type Server struct {
	echo  *echo.Echo
	flows Flows
	cfg   types.ServerConfig
	log   *slog.Logger
}

// New builds a Server with routes and middleware registered.
func New(flows Flows, cfg types.ServerConfig, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{echo: e, flows: flows, cfg: cfg, log: log}

	e.Use(middleware.Recover())
	e.Use(s.requestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ctx := c.Request().Context()
			l := logging.FromContext(ctx, s.log)
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency_ms", v.Latency.Milliseconds()}
			switch {
			case v.Error != nil:
				l.ErrorContext(ctx, "request failed", append(attrs, "error", v.Error.Error())...)
			case v.Status >= http.StatusInternalServerError:
				l.ErrorContext(ctx, "request failed", attrs...)
			default:
				l.InfoContext(ctx, "request completed", attrs...)
			}
			return nil
		},
	}))
	if len(cfg.AllowedOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, HeaderRequestID},
			AllowCredentials: true,
		}))
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/health", s.health)
	s.echo.POST("/paper/from-arxiv", s.extract)
	s.echo.POST("/paper/similarity", s.similarity)
	s.echo.POST("/paper/related", s.related)
	s.echo.POST("/paper/chat", s.chat)
}

// requestID tags each request with an id, taken from the X-Request-ID
// header or generated, and stores a logger carrying it in the request
// context.
func (s *Server) requestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := req.Header.Get(HeaderRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			ctx := logging.WithLogger(req.Context(), s.log.With("request_id", id))
			c.SetRequest(req.WithContext(ctx))
			c.Response().Header().Set(HeaderRequestID, id)
			return next(c)
		}
	}
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.echo }

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.log.Info("starting server", "addr", s.cfg.Addr)
		if err := s.echo.Start(s.cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err, ok := <-errc:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}
