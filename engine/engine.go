// Package engine exposes the research pipeline over HTTP and wires the
// concrete collaborators together from configuration.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thomasma/langgraph-researcher/agents"
	"github.com/thomasma/langgraph-researcher/config"
	"github.com/thomasma/langgraph-researcher/provider"
	"github.com/thomasma/langgraph-researcher/session"
	"github.com/thomasma/langgraph-researcher/telemetry"
	"github.com/thomasma/langgraph-researcher/tools"
	"github.com/thomasma/langgraph-researcher/tools/web_search"
)

// BuildPipeline constructs the pipeline from configuration: one provider
// per routed stage, the lookup tools over the configured web searcher.
func BuildPipeline(cfg *config.Config, logger *log.Logger, tele *telemetry.Telemetry) (*agents.Pipeline, error) {
	stageLLMs := make(map[string]provider.Provider, 3)
	for _, stage := range []string{"research", "format", "validate"} {
		pcfg, err := cfg.Route(stage)
		if err != nil {
			return nil, err
		}
		llm, err := provider.NewProvider(pcfg)
		if err != nil {
			return nil, fmt.Errorf("building %s provider: %w", stage, err)
		}
		stageLLMs[stage] = llm
	}

	searcher, err := web_search.NewWebSearcher(web_search.Provider(cfg.Search.Provider), cfg.Search.APIKey)
	if err != nil {
		return nil, fmt.Errorf("building web searcher: %w", err)
	}
	lookup := tools.NewLookup(searcher, cfg.Search.MaxResults)

	return agents.NewPipeline(stageLLMs["research"], stageLLMs["format"], stageLLMs["validate"], lookup, logger, tele), nil
}

// Server holds the HTTP API dependencies.
type Server struct {
	Pipeline *agents.Pipeline
	Sessions session.Store
	logger   *log.Logger
}

// Start builds everything from configuration and blocks serving HTTP.
func Start(cfg *config.Config) error {
	logger := log.New(log.Writer(), "[ENGINE] ", log.LstdFlags)

	tele := telemetry.New(nil)
	pipeline, err := BuildPipeline(cfg, logger, tele)
	if err != nil {
		return err
	}

	ctx := context.Background()
	sessions, err := session.NewStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	pipeline.AttachCheckpoints(sessions)

	server := &Server{Pipeline: pipeline, Sessions: sessions, logger: logger}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		logger.Printf("%d %s %s: %v", code, req.Method, req.URL.Path, err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]string{"error": msg})
		}
	}

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.POST("/research", server.CreateResearch)
	e.GET("/research/:id", server.GetResearch)

	return e.Start(cfg.Server.Address)
}

type researchRequest struct {
	Topic     string `json:"topic"`
	SessionID string `json:"session_id"`
}

type researchResponse struct {
	SessionID   string `json:"session_id"`
	RunID       string `json:"run_id"`
	FinalReport string `json:"final_report"`
}

// CreateResearch runs the full pipeline for a topic and returns the report.
func (s *Server) CreateResearch(c echo.Context) error {
	var req researchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.Topic == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "topic is required"})
	}
	if req.SessionID == "" {
		req.SessionID = agents.DefaultSessionID
	}

	state, err := s.Pipeline.RunSession(c.Request().Context(), req.Topic, req.SessionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, researchResponse{
		SessionID:   req.SessionID,
		RunID:       state.RunID,
		FinalReport: state.FinalReport,
	})
}

// GetResearch returns the last finished state saved under a session ID.
func (s *Server) GetResearch(c echo.Context) error {
	id := c.Param("id")
	state, err := s.Sessions.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, agents.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, state)
}
