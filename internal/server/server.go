// Package server exposes the detection pipeline over HTTP.
//
// Routes:
//
//	POST /detect  — classify an answer; provider selected via X-Provider,
//	                remote credential via X-API-Key
//	GET  /health  — liveness and capability report
//
// Provider failures never surface as 5xx: the pipeline degrades through
// its tiers and the response carries the tier that answered.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/truthylabs/truthy/internal/detector"
	"github.com/truthylabs/truthy/internal/model"
)

// Server wires the detector factory into a gin engine.
type Server struct {
	factory *detector.Factory
	version string
	engine  *gin.Engine
}

// New builds the server and its routes.
func New(factory *detector.Factory, version string) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		factory: factory,
		version: version,
		engine:  gin.New(),
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(otelgin.Middleware("truthy"))
	s.engine.Use(cors())
	s.engine.Use(requestLog())

	s.engine.GET("/health", s.health)
	s.engine.POST("/detect", s.detect)
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	slog.Info("http server listening", "addr", addr)
	return s.engine.Run(addr)
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"version":   s.version,
		"providers": s.factory.Providers(),
		"features":  []string{"web_search"},
	})
}

func (s *Server) detect(c *gin.Context) {
	var req model.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "question and answer are required"})
		return
	}

	provider := strings.ToLower(strings.TrimSpace(c.GetHeader("X-Provider")))
	if provider == "" {
		provider = "auto"
	}
	credential := strings.TrimSpace(c.GetHeader("X-API-Key"))

	// A forced remote tier without a key cannot work; reject up front
	// rather than silently degrading to the comparator.
	if (provider == "openai" || provider == "anthropic") && credential == "" {
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "X-API-Key header required for provider '" + provider + "'"})
		return
	}

	d, err := s.factory.ForProvider(provider)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	res, err := d.Detect(c.Request.Context(), req, detector.Options{Credential: credential})
	if err != nil {
		// Only input validation reaches here.
		if errors.Is(err, detector.ErrMissingQuestion) || errors.Is(err, detector.ErrMissingAnswer) {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, res)
}

// cors allows any origin; the API carries no cookies or server-side state.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-API-Key, X-Provider")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// requestLog emits one slog line per request. Headers are never logged:
// X-API-Key must not reach any log sink.
func requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.LogAttrs(context.Background(), slog.LevelInfo, "request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	}
}
