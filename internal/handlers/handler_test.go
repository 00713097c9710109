package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradelens/gradelens/internal/grades"
	"github.com/gradelens/gradelens/internal/logging"
	"github.com/gradelens/gradelens/internal/models"
	"github.com/gradelens/gradelens/internal/services"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	svc := services.NewAnalyticsService(logging.NewNop(), nil, nil, grades.DefaultScale(), 1)
	h := New(logging.NewNop(), svc, "test")

	app := fiber.New()
	v1 := app.Group("/v1")
	v1.Post("/statistics", h.Statistics)
	v1.Post("/statistics/percentile", h.Percentile)
	v1.Post("/statistics/smoothing", h.Smoothing)
	v1.Post("/trend", h.Trend)
	v1.Post("/anomalies", h.Anomalies)
	v1.Post("/predictions/next", h.PredictNext)
	v1.Post("/grades/averages", h.Averages)
	v1.Post("/grades/subjects/:subject", h.SubjectSummary)
	v1.Post("/grades/format", h.FormatGrade)
	v1.Post("/scenarios/grade-needed", h.GradeNeeded)
	v1.Post("/scenarios/whatif", h.WhatIf)
	return app
}

func post(t *testing.T, app *fiber.App, path, body string) (int, []byte) {
	t.Helper()

	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func decodeError(t *testing.T, data []byte) models.ErrorDetail {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	return resp.Error
}

func TestStatisticsEndpoint(t *testing.T) {
	app := newTestApp(t)

	status, body := post(t, app, "/v1/statistics", `{"values": [6, 7, 8, 8]}`)
	require.Equal(t, fiber.StatusOK, status, string(body))

	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &summary))
	assert.Equal(t, 4.0, summary["count"])
	assert.Equal(t, 7.25, summary["mean"])
	assert.Equal(t, []interface{}{8.0}, summary["mode"])
}

func TestDecodeErrors(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name  string
		path  string
		body  string
		code  string
		field interface{}
	}{
		{"empty body", "/v1/statistics", "", services.CodeInvalidJSON, nil},
		{"malformed json", "/v1/statistics", `{"values": [1,`, services.CodeInvalidJSON, nil},
		{"unknown field", "/v1/statistics", `{"values": [1], "extra": true}`, services.CodeInvalidField, "extra"},
		{"null value", "/v1/statistics", `{"values": [1, null]}`, services.CodeInvalidField, "values[1]"},
		{"missing timestamp", "/v1/grades/averages", `{"grades": [{"value": 7}]}`, services.CodeInvalidField, "grades[0].timestamp"},
		{"negative weight", "/v1/grades/averages", `{"grades": [{"value": 7, "timestamp": 1, "weight": -2}]}`, services.CodeInvalidField, "grades[0].weight"},
		{"bad series pair", "/v1/trend", `{"series": [[1, 2, 3]]}`, services.CodeInvalidField, "series[0]"},
		{"out of range parameter", "/v1/statistics/percentile", `{"values": [1], "percentile": 120}`, services.CodeInvalidParameter, "percentile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := post(t, app, tt.path, tt.body)
			assert.Equal(t, fiber.StatusBadRequest, status)

			detail := decodeError(t, body)
			assert.Equal(t, tt.code, detail.Code)
			assert.Equal(t, tt.path, detail.Path)
			if tt.field != nil {
				assert.Equal(t, tt.field, detail.Details["field"])
			}
		})
	}
}

func TestTrendEndpoint_MixedSeries(t *testing.T) {
	app := newTestApp(t)

	status, body := post(t, app, "/v1/trend", `{"series": [[0, 5], {"timestamp": 1, "value": 6}, [2, 7]]}`)
	require.Equal(t, fiber.StatusOK, status, string(body))

	var model map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &model))
	assert.InDelta(t, 1.0, model["slope"], 1e-9)
	assert.Equal(t, "improving", model["direction"])
}

func TestAnomaliesEndpoint_UnknownAlgorithm(t *testing.T) {
	app := newTestApp(t)

	status, body := post(t, app, "/v1/anomalies", `{"series": [[0, 5]], "algorithm": "lstm"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	detail := decodeError(t, body)
	assert.Equal(t, services.CodeInvalidParameter, detail.Code)
	assert.Contains(t, detail.Details["available_algorithms"], "iqr")
}

func TestPredictNextEndpoint(t *testing.T) {
	app := newTestApp(t)

	status, body := post(t, app, "/v1/predictions/next",
		`{"grades": [{"value": 6, "timestamp": 1}, {"value": 7, "timestamp": 2}, {"value": 8, "timestamp": 3}]}`)
	require.Equal(t, fiber.StatusOK, status, string(body))

	var resp models.PredictionResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "ensemble", string(resp.Prediction.Method))
	assert.Len(t, resp.Estimates, 3)
}

func TestSubjectSummaryEndpoint(t *testing.T) {
	app := newTestApp(t)
	grades := `{"grades": [{"value": 8, "timestamp": 1, "subject": "Art History"}, {"value": 6, "timestamp": 2, "subject": "art history"}]}`

	status, body := post(t, app, "/v1/grades/subjects/ART%20HISTORY", grades)
	require.Equal(t, fiber.StatusOK, status, string(body))

	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &summary))
	assert.Equal(t, 2.0, summary["grade_count"])
	assert.Equal(t, 7.0, summary["average"])

	status, body = post(t, app, "/v1/grades/subjects/physics", grades)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, services.CodeSubjectNotFound, decodeError(t, body).Code)
}

func TestFormatGradeEndpoint(t *testing.T) {
	app := newTestApp(t)

	status, body := post(t, app, "/v1/grades/format", `{"value": 7.35}`)
	require.Equal(t, fiber.StatusOK, status, string(body))
	assert.JSONEq(t, `{"value": 7.35, "formatted": "7,4"}`, string(body))
}

func TestGradeNeededEndpoint(t *testing.T) {
	app := newTestApp(t)

	status, body := post(t, app, "/v1/scenarios/grade-needed",
		`{"current_average": 6, "current_weight": 3, "target_average": 7, "new_weight": 1}`)
	require.Equal(t, fiber.StatusOK, status, string(body))
	assert.JSONEq(t, `{"grade_needed": 10, "achievable": true}`, string(body))

	status, body = post(t, app, "/v1/scenarios/grade-needed",
		`{"current_average": 6, "current_weight": 3, "target_average": 7, "new_weight": 0}`)
	require.Equal(t, fiber.StatusOK, status, string(body))
	assert.JSONEq(t, `{"grade_needed": null, "achievable": false}`, string(body))
}

func TestNonFiniteResults(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name string
		path string
		body string
	}{
		{"overflowing sum", "/v1/statistics", `{"values": [1e308, 1e308, 1e308]}`},
		{"unreachable target", "/v1/scenarios/grade-needed",
			`{"current_average": 6, "current_weight": 3, "target_average": 1e308, "new_weight": 1e-300}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := post(t, app, tt.path, tt.body)
			require.Equal(t, fiber.StatusUnprocessableEntity, status, string(body))

			detail := decodeError(t, body)
			assert.Equal(t, services.CodeNonFiniteResult, detail.Code)
			assert.Equal(t, tt.path, detail.Path)
			assert.Equal(t, "+Inf", detail.Details["value"])
		})
	}
}

func TestWhatIfEndpoint(t *testing.T) {
	app := newTestApp(t)

	status, body := post(t, app, "/v1/scenarios/whatif", `{
		"grades": [{"value": 6, "timestamp": 1}, {"value": 8, "timestamp": 2}],
		"hypothetical": [{"value": 10, "timestamp": 3}]
	}`)
	require.Equal(t, fiber.StatusOK, status, string(body))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.InDelta(t, 7.0, resp["current_average"], 1e-9)
	assert.InDelta(t, 8.0, resp["new_average"], 1e-9)
	assert.Len(t, resp["grades_needed_for_target"], 6)
}

func TestRespondError_UnexpectedError(t *testing.T) {
	h := New(logging.NewNop(), nil, "test")

	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return h.respondError(c, errors.New("boom"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	detail := decodeError(t, data)
	assert.Equal(t, "INTERNAL_ERROR", detail.Code)
	assert.NotContains(t, detail.Message, "boom")
}
