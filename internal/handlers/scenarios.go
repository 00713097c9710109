package handlers

import "github.com/gofiber/fiber/v2"

// WhatIf handles POST /v1/scenarios/whatif
func (h *Handler) WhatIf(c *fiber.Ctx) error {
	return serve(h, c, h.analytics.WhatIf)
}

// GradeNeeded handles POST /v1/scenarios/grade-needed
func (h *Handler) GradeNeeded(c *fiber.Ctx) error {
	return serve(h, c, h.analytics.GradeNeeded)
}

// Impact handles POST /v1/scenarios/impact
func (h *Handler) Impact(c *fiber.Ctx) error {
	return serve(h, c, h.analytics.Impact)
}

// Targets handles POST /v1/scenarios/targets
func (h *Handler) Targets(c *fiber.Ctx) error {
	return serve(h, c, h.analytics.Targets)
}

// Priorities handles POST /v1/scenarios/priorities
func (h *Handler) Priorities(c *fiber.Ctx) error {
	return serve(h, c, h.analytics.Priorities)
}
