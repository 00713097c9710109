package handlers

import (
	"context"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/gradelens/gradelens/internal/grades"
	"github.com/gradelens/gradelens/internal/models"
)

// AnalyzeGrades handles POST /v1/grades/analyze
func (h *Handler) AnalyzeGrades(c *fiber.Ctx) error {
	return serve(h, c, h.analytics.Analyze)
}

// Averages handles POST /v1/grades/averages
func (h *Handler) Averages(c *fiber.Ctx) error {
	return serve(h, c, h.analytics.Averages)
}

// Subjects handles POST /v1/grades/subjects
func (h *Handler) Subjects(c *fiber.Ctx) error {
	return serve(h, c, h.analytics.Subjects)
}

// SubjectSummary handles POST /v1/grades/subjects/:subject
func (h *Handler) SubjectSummary(c *fiber.Ctx) error {
	subject, err := url.PathUnescape(c.Params("subject"))
	if err != nil {
		subject = c.Params("subject")
	}

	return serve(h, c, func(ctx context.Context, req *models.GradesRequest) (*grades.SubjectSummary, error) {
		return h.analytics.SubjectSummary(ctx, subject, req)
	})
}

// PassFail handles POST /v1/grades/pass-fail
func (h *Handler) PassFail(c *fiber.Ctx) error {
	return serve(h, c, h.analytics.PassFail)
}

// Timeline handles POST /v1/grades/timeline
func (h *Handler) Timeline(c *fiber.Ctx) error {
	return serve(h, c, h.analytics.Timeline)
}

// ValidateGrade handles POST /v1/grades/validate
func (h *Handler) ValidateGrade(c *fiber.Ctx) error {
	return serve(h, c, h.analytics.ValidateGrade)
}

// FormatGrade handles POST /v1/grades/format
func (h *Handler) FormatGrade(c *fiber.Ctx) error {
	return serve(h, c, h.analytics.FormatGrade)
}

// ParseGrade handles POST /v1/grades/parse
func (h *Handler) ParseGrade(c *fiber.Ctx) error {
	return serve(h, c, h.analytics.ParseGrade)
}
