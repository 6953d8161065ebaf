package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/growthai/guardrail-engine/docs"
	"github.com/growthai/guardrail-engine/internal/api/handler"
	"github.com/growthai/guardrail-engine/internal/api/middleware"
	"github.com/growthai/guardrail-engine/internal/core/ports"
)

// RouterDeps are the collaborators the HTTP layer is built from.
type RouterDeps struct {
	Sessions      ports.SessionService
	SessionSecret string
	Log           zerolog.Logger

	// Redis is pinged by the readiness probe; nil when running without Redis.
	Redis handler.Pinger
	// AssistantName is reported by the readiness probe.
	AssistantName string

	// Registry receives HTTP metrics. Defaults to the global Prometheus registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	promCfg := echoprometheus.MiddlewareConfig{Subsystem: "http"}
	handlerCfg := echoprometheus.HandlerConfig{}
	if deps.Registry != nil {
		promCfg.Registerer = deps.Registry
		handlerCfg.Gatherer = deps.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(promCfg))

	// --- Dependencies ---
	sessionHandler := handler.NewSessionHandler(deps.Sessions)
	decisionHandler := handler.NewDecisionHandler(deps.Sessions)
	taskHandler := handler.NewTaskHandler(deps.Sessions)
	guideHandler := handler.NewGuideHandler(deps.Sessions)
	requireSession := middleware.Session(deps.SessionSecret)

	// --- Session routes ---
	e.POST("/v1/sessions", sessionHandler.Start)

	v1 := e.Group("/v1", requireSession)
	v1.DELETE("/sessions", sessionHandler.End)

	// --- Decision lifecycle ---
	v1.POST("/onboarding", decisionHandler.CompleteOnboarding)
	v1.GET("/decision", decisionHandler.Get)
	v1.POST("/decision/release", decisionHandler.Release)
	v1.POST("/decision/redecide", decisionHandler.Redecide)

	// --- Dashboard ---
	v1.PUT("/mood", taskHandler.UpdateMood)
	v1.GET("/tasks", taskHandler.List)
	v1.POST("/tasks/rollover", taskHandler.RollOver)
	v1.POST("/tasks/:id/toggle", taskHandler.Toggle)

	// --- Guide ---
	v1.POST("/guide/messages", guideHandler.Send)
	v1.GET("/guide/messages", guideHandler.History)

	// --- Health probes, metrics and docs (no session required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Redis, deps.AssistantName)

	e.GET("/health", healthHandler.Liveness)            // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(handlerCfg))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
