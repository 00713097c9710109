package handlers

import "github.com/gofiber/fiber/v2"

// Statistics handles POST /v1/statistics
func (h *Handler) Statistics(c *fiber.Ctx) error {
	return serve(h, c, h.analytics.Statistics)
}

// Percentile handles POST /v1/statistics/percentile
func (h *Handler) Percentile(c *fiber.Ctx) error {
	return serve(h, c, h.analytics.Percentile)
}

// Correlation handles POST /v1/statistics/correlation
func (h *Handler) Correlation(c *fiber.Ctx) error {
	return serve(h, c, h.analytics.Correlation)
}

// Smoothing handles POST /v1/statistics/smoothing
func (h *Handler) Smoothing(c *fiber.Ctx) error {
	return serve(h, c, h.analytics.Smoothing)
}

// Outliers handles POST /v1/statistics/outliers
func (h *Handler) Outliers(c *fiber.Ctx) error {
	return serve(h, c, h.analytics.Outliers)
}

// Histogram handles POST /v1/statistics/histogram
func (h *Handler) Histogram(c *fiber.Ctx) error {
	return serve(h, c, h.analytics.Histogram)
}

// Trend handles POST /v1/trend
func (h *Handler) Trend(c *fiber.Ctx) error {
	return serve(h, c, h.analytics.Trend)
}

// Anomalies handles POST /v1/anomalies
func (h *Handler) Anomalies(c *fiber.Ctx) error {
	return serve(h, c, h.analytics.Anomalies)
}
