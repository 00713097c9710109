package handlers

import "github.com/gofiber/fiber/v2"

// PredictNext handles POST /v1/predictions/next
func (h *Handler) PredictNext(c *fiber.Ctx) error {
	return serve(h, c, h.analytics.PredictNext)
}

// EvaluatePredictions handles POST /v1/predictions/evaluate
func (h *Handler) EvaluatePredictions(c *fiber.Ctx) error {
	return serve(h, c, h.analytics.Evaluate)
}

// FinalProjection handles POST /v1/predictions/final
func (h *Handler) FinalProjection(c *fiber.Ctx) error {
	return serve(h, c, h.analytics.FinalProjection)
}

// PassProbability handles POST /v1/predictions/pass-probability
func (h *Handler) PassProbability(c *fiber.Ctx) error {
	return serve(h, c, h.analytics.PassProbability)
}
