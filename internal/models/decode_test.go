package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradelens/gradelens/internal/analytics"
	"github.com/gradelens/gradelens/internal/grades"
)

func requireDecodeError(t *testing.T, err error, field string) *DecodeError {
	t.Helper()
	require.Error(t, err)
	de, ok := err.(*DecodeError)
	require.True(t, ok, "expected *DecodeError, got %T", err)
	assert.Equal(t, field, de.Field)
	return de
}

func TestDecode(t *testing.T) {
	var req GradesRequest
	err := Decode([]byte(`{"grades":[{"value":7.5,"timestamp":1000}]}`), &req)
	require.NoError(t, err)
	require.Len(t, req.Grades, 1)
	assert.Equal(t, 7.5, *req.Grades[0].Value)
	assert.Nil(t, req.Grades[0].Weight)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"empty body", "  ", "body"},
		{"syntax error", `{"grades": [}`, "body"},
		{"truncated", `{"grades": [`, "body"},
		{"unknown top-level field", `{"grades": [], "extra": 1}`, "extra"},
		{"unknown nested field", `{"grades": [{"value": 1, "timestamp": 1, "color": "red"}]}`, "color"},
		{"wrong type", `{"grades": [{"value": "high", "timestamp": 1}]}`, "grades.value"},
		{"trailing data", `{"grades": []} {}`, "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req GradesRequest
			requireDecodeError(t, Decode([]byte(tt.body), &req), tt.field)
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestDecodeGrades(t *testing.T) {
	in := []GradeInput{
		{Value: ptr(8.0), Timestamp: ptr(int64(1000)), Subject: "Math"},
		{Value: ptr(5.0), Weight: ptr(2.0), Timestamp: ptr(int64(2000))},
		{Value: ptr(4.0), Timestamp: ptr(int64(3000)), IsPassing: ptr(true)},
	}

	gs, err := DecodeGrades(in, 5.5, "grades")
	require.NoError(t, err)
	require.Len(t, gs, 3)

	assert.Equal(t, analytics.NewGrade(8.0, 1.0, "Math", "", 1000), gs[0])
	assert.Equal(t, 2.0, gs[1].Weight)
	assert.False(t, gs[1].IsPassing)
	assert.True(t, gs[2].IsPassing)

	// passing grade comes from the scale, not the default threshold
	gs, err = DecodeGrades(in[:1], 8.5, "grades")
	require.NoError(t, err)
	assert.False(t, gs[0].IsPassing)
}

func TestDecodeGrades_Errors(t *testing.T) {
	_, err := DecodeGrades([]GradeInput{
		{Value: ptr(8.0), Timestamp: ptr(int64(1))},
		{Timestamp: ptr(int64(2))},
	}, 5.5, "grades")
	requireDecodeError(t, err, "grades[1].value")

	_, err = DecodeGrades([]GradeInput{{Value: ptr(8.0)}}, 5.5, "grades")
	requireDecodeError(t, err, "grades[0].timestamp")

	_, err = DecodeGrades([]GradeInput{
		{Value: ptr(8.0), Timestamp: ptr(int64(1))},
		{Value: ptr(8.0), Timestamp: ptr(int64(1))},
		{Value: ptr(8.0), Timestamp: ptr(int64(1))},
		{Value: ptr(8.0), Weight: ptr(-1.0), Timestamp: ptr(int64(1))},
	}, 5.5, "hypothetical")
	de := requireDecodeError(t, err, "hypothetical[3].weight")
	assert.Equal(t, "hypothetical[3].weight: must not be negative", de.Error())
}

func TestDecodeSeries(t *testing.T) {
	raw := []json.RawMessage{
		json.RawMessage(`[1000, 7.5]`),
		json.RawMessage(`{"timestamp": 2000, "value": 8}`),
		json.RawMessage(` [3000,6] `),
	}

	series, err := DecodeSeries(raw, "series")
	require.NoError(t, err)
	assert.Equal(t, analytics.TimeSeries{
		{Timestamp: 1000, Value: 7.5},
		{Timestamp: 2000, Value: 8},
		{Timestamp: 3000, Value: 6},
	}, series)

	empty, err := DecodeSeries(nil, "series")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDecodeSeries_Errors(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		field string
	}{
		{"scalar", `7`, "series[0]"},
		{"short pair", `[1000]`, "series[0]"},
		{"fractional timestamp", `[1000.5, 7]`, "series[0][0]"},
		{"string value", `[1000, "7"]`, "series[0][1]"},
		{"missing value", `{"timestamp": 1}`, "series[0].value"},
		{"missing timestamp", `{"value": 1}`, "series[0].timestamp"},
		{"unknown field", `{"timestamp": 1, "value": 2, "weight": 1}`, "series[0].weight"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSeries([]json.RawMessage{json.RawMessage(tt.raw)}, "series")
			requireDecodeError(t, err, tt.field)
		})
	}
}

func TestDecodeValues(t *testing.T) {
	values, err := DecodeValues([]*float64{ptr(1.0), ptr(2.5)}, "values")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2.5}, values)

	_, err = DecodeValues([]*float64{ptr(1.0), nil}, "x")
	requireDecodeError(t, err, "x[1]")
}

func TestDecodeScale(t *testing.T) {
	def := grades.DefaultScale()

	scale, err := DecodeScale(nil, def, "scale")
	require.NoError(t, err)
	assert.Equal(t, def, scale)

	scale, err = DecodeScale(&ScaleInput{GPAMax: ptr(5.0)}, def, "scale")
	require.NoError(t, err)
	assert.Equal(t, 5.0, scale.GPAMax)
	assert.Equal(t, def.MaxGrade, scale.MaxGrade)

	_, err = DecodeScale(&ScaleInput{MaxGrade: ptr(1.0)}, def, "scale")
	requireDecodeError(t, err, "scale.max_grade")

	_, err = DecodeScale(&ScaleInput{PassingGrade: ptr(11.0)}, def, "scale")
	requireDecodeError(t, err, "scale.passing_grade")

	_, err = DecodeScale(&ScaleInput{GPAMax: ptr(0.0)}, def, "scale")
	requireDecodeError(t, err, "scale.gpa_max")
}
