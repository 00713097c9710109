package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/gradelens/gradelens/internal/config"
	"github.com/gradelens/gradelens/internal/handlers"
	"github.com/gradelens/gradelens/internal/logging"
	"github.com/gradelens/gradelens/internal/metrics"
	"github.com/gradelens/gradelens/internal/middleware"
	"github.com/gradelens/gradelens/internal/services"
)

// Setup configures all routes and middlewares. m may be nil when metrics are
// disabled.
func Setup(app *fiber.App, logger *logging.Logger, svc *services.AnalyticsService,
	m *metrics.Metrics, cfg config.Config, version string,
) *handlers.Handler {
	h := handlers.New(logger, svc, version)

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Request-ID",
	}))
	app.Use(logging.FiberMiddleware(logger))
	if m != nil {
		app.Use(m.FiberMiddleware())
	}

	// No auth required
	app.Get("/health", h.Health)
	app.Get("/version", h.Version)
	if m != nil {
		app.Get(cfg.Metrics.Path, adaptor.HTTPHandler(m.Handler()))
	}

	authMiddleware := middleware.APIKeyAuth(logger, cfg.Auth.APIKeys, cfg.Auth.Enabled)
	v1 := app.Group("/v1", authMiddleware)

	// Statistics Routes
	v1.Post("/statistics", h.Statistics)
	v1.Post("/statistics/percentile", h.Percentile)
	v1.Post("/statistics/correlation", h.Correlation)
	v1.Post("/statistics/smoothing", h.Smoothing)
	v1.Post("/statistics/outliers", h.Outliers)
	v1.Post("/statistics/histogram", h.Histogram)
	v1.Post("/trend", h.Trend)
	v1.Post("/anomalies", h.Anomalies)

	// Prediction Routes
	v1.Post("/predictions/next", h.PredictNext)
	v1.Post("/predictions/evaluate", h.EvaluatePredictions)
	v1.Post("/predictions/final", h.FinalProjection)
	v1.Post("/predictions/pass-probability", h.PassProbability)

	// Grade Routes
	v1.Post("/grades/analyze", h.AnalyzeGrades)
	v1.Post("/grades/averages", h.Averages)
	v1.Post("/grades/subjects", h.Subjects)
	v1.Post("/grades/subjects/:subject", h.SubjectSummary)
	v1.Post("/grades/pass-fail", h.PassFail)
	v1.Post("/grades/timeline", h.Timeline)
	v1.Post("/grades/validate", h.ValidateGrade)
	v1.Post("/grades/format", h.FormatGrade)
	v1.Post("/grades/parse", h.ParseGrade)

	// Scenario Routes
	v1.Post("/scenarios/whatif", h.WhatIf)
	v1.Post("/scenarios/grade-needed", h.GradeNeeded)
	v1.Post("/scenarios/impact", h.Impact)
	v1.Post("/scenarios/targets", h.Targets)
	v1.Post("/scenarios/priorities", h.Priorities)

	// 404 handler
	app.Use(h.NotFound)

	return h
}

// New creates a new Fiber app with configuration
func New(logger *logging.Logger, svc *services.AnalyticsService,
	m *metrics.Metrics, cfg config.Config, version string,
) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "GradeLens Analytics",
		DisableStartupMessage: true,
		BodyLimit:             cfg.Server.BodyLimit,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	Setup(app, logger, svc, m, cfg, version)

	return app
}
