// Package server exposes the pipeline over HTTP: trigger runs, inspect
// the error log, health checks.
package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tendertrail/database"
	"tendertrail/pipeline"
	"tendertrail/schema"
	apperrors "tendertrail/server/errors"
	"tendertrail/server/middleware"
)

// Server hosts the pipeline API.
type Server struct {
	runner *pipeline.Runner
	db     *database.DB
	engine *gin.Engine
	logger *slog.Logger
}

// NewServer builds the gin engine and routes.
func NewServer(runner *pipeline.Runner, db *database.DB) *Server {
	s := &Server{
		runner: runner,
		db:     db,
		logger: slog.Default().With("component", "server"),
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), middleware.RequestID())

	engine.GET("/health", s.handleHealth)
	api := engine.Group("/api")
	{
		api.POST("/process", s.handleProcess)
		api.GET("/errors", s.handleErrors)
	}

	s.engine = engine
	return s
}

// Run serves the API on addr until the listener fails.
func (s *Server) Run(addr string) error {
	s.logger.Info("starting HTTP server", "addr", addr)
	return s.engine.Run(addr)
}

// Handler exposes the engine for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

type processRequest struct {
	SourceName        string `json:"source_name"`
	ProcessAllSources bool   `json:"process_all_sources"`
	Limit             int    `json:"limit"`
}

type processResponse struct {
	Results        []pipeline.Result `json:"results"`
	ProcessedCount int               `json:"processed_count"`
	ErrorCount     int               `json:"error_count"`
}

// handleProcess triggers a normalization run for one source or for all
// configured sources.
func (s *Server) handleProcess(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abort(c, apperrors.NewValidationError("invalid request body", err))
		return
	}
	if req.SourceName == "" && !req.ProcessAllSources {
		s.abort(c, apperrors.NewValidationError("source_name or process_all_sources is required", nil))
		return
	}

	var results []pipeline.Result
	if req.ProcessAllSources {
		all, err := s.runner.RunAll(c.Request.Context(), req.Limit)
		if err != nil {
			s.abort(c, apperrors.NewInternalError("run failed", err))
			return
		}
		results = all
	} else {
		result, err := s.runner.RunStored(c.Request.Context(), req.SourceName, req.Limit)
		if err != nil {
			if errors.Is(err, schema.ErrUnknownSource) {
				s.abort(c, apperrors.NewNotFoundError("unknown source", err))
				return
			}
			s.abort(c, apperrors.NewInternalError("run failed", err))
			return
		}
		results = []pipeline.Result{result}
	}

	resp := processResponse{Results: results}
	for _, r := range results {
		resp.ProcessedCount += r.Processed
		resp.ErrorCount += r.Errors
	}
	c.JSON(http.StatusOK, resp)
}

type errorEntry struct {
	RawID     string `json:"raw_id,omitempty"`
	Source    string `json:"source"`
	Stage     string `json:"stage"`
	Message   string `json:"error_message"`
	CreatedAt string `json:"created_at"`
}

// handleErrors lists tracked normalization errors, optionally filtered by
// source.
func (s *Server) handleErrors(c *gin.Context) {
	source := c.Query("source")
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			s.abort(c, apperrors.NewValidationError("limit must be a positive integer", err))
			return
		}
		limit = parsed
	}

	tracked, err := s.db.ListErrors(source, limit)
	if err != nil {
		s.abort(c, apperrors.NewInternalError("failed to list errors", err))
		return
	}

	entries := make([]errorEntry, 0, len(tracked))
	for _, e := range tracked {
		entries = append(entries, errorEntry{
			RawID:     e.RawID,
			Source:    e.Source,
			Stage:     string(e.Stage),
			Message:   e.Message,
			CreatedAt: e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	c.JSON(http.StatusOK, gin.H{"errors": entries, "count": len(entries)})
}

// handleHealth reports liveness and database reachability.
func (s *Server) handleHealth(c *gin.Context) {
	if err := s.db.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// abort logs the cause and writes the user-facing error.
func (s *Server) abort(c *gin.Context, appErr *apperrors.AppError) {
	s.logger.Error("request failed",
		"request_id", middleware.GetRequestID(c),
		"path", c.FullPath(),
		"error", appErr.Error())
	c.AbortWithStatusJSON(appErr.StatusCode(), appErr)
}
