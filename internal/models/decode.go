package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/gradelens/gradelens/internal/analytics"
	"github.com/gradelens/gradelens/internal/grades"
	"github.com/gradelens/gradelens/internal/utils"
)

// DecodeError labels the request field that could not be decoded
type DecodeError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

func fieldError(field, format string, args ...interface{}) *DecodeError {
	return &DecodeError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Decode strictly unmarshals a JSON request body into v.
// Unknown fields and trailing data are rejected.
func Decode(body []byte, v interface{}) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return fieldError("body", "request body is empty")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return translateJSONError(err)
	}
	if dec.More() {
		return fieldError("body", "unexpected data after JSON value")
	}
	return nil
}

func translateJSONError(err error) *DecodeError {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var decodeErr *DecodeError

	switch {
	case errors.As(err, &decodeErr):
		return decodeErr
	case errors.As(err, &syntaxErr):
		return fieldError("body", "invalid JSON at offset %d: %v", syntaxErr.Offset, syntaxErr)
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return fieldError(field, "expected %s, got %s", typeErr.Type, typeErr.Value)
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return fieldError("body", "unexpected end of JSON input")
	}

	// encoding/json reports unknown fields as: json: unknown field "name"
	if name, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		return fieldError(strings.Trim(name, `"`), "unknown field")
	}
	return fieldError("body", "%v", err)
}

// GradeInput is a grade as submitted over the wire. Value and timestamp are
// required; weight defaults to 1 and is_passing to value >= passing grade.
type GradeInput struct {
	Value       *float64 `json:"value"`
	Weight      *float64 `json:"weight,omitempty"`
	Subject     string   `json:"subject,omitempty"`
	Description string   `json:"description,omitempty"`
	Timestamp   *int64   `json:"timestamp"`
	IsPassing   *bool    `json:"is_passing,omitempty"`
}

// DecodeGrades converts submitted grades into analytics grades. field names
// the request field for error labels, e.g. grades[3].weight.
func DecodeGrades(in []GradeInput, passingGrade float64, field string) (analytics.Grades, error) {
	if len(in) > utils.MaxGradesPerRequest {
		return nil, fieldError(field, "at most %d grades are accepted", utils.MaxGradesPerRequest)
	}

	out := make(analytics.Grades, 0, len(in))
	for i, g := range in {
		path := fmt.Sprintf("%s[%d]", field, i)

		if g.Value == nil {
			return nil, fieldError(path+".value", "is required")
		}
		if g.Timestamp == nil {
			return nil, fieldError(path+".timestamp", "is required")
		}

		weight := 1.0
		if g.Weight != nil {
			weight = *g.Weight
		}
		if weight < 0 {
			return nil, fieldError(path+".weight", "must not be negative")
		}

		passing := *g.Value >= passingGrade
		if g.IsPassing != nil {
			passing = *g.IsPassing
		}

		out = append(out, analytics.Grade{
			Value:       *g.Value,
			Weight:      weight,
			Subject:     g.Subject,
			Description: g.Description,
			Timestamp:   *g.Timestamp,
			IsPassing:   passing,
		})
	}
	return out, nil
}

type seriesPointInput struct {
	Timestamp *int64   `json:"timestamp"`
	Value     *float64 `json:"value"`
}

// DecodeSeries converts a time series given either as [timestamp, value]
// pairs or as {"timestamp": t, "value": v} objects. Forms may be mixed.
func DecodeSeries(in []json.RawMessage, field string) (analytics.TimeSeries, error) {
	if len(in) > utils.MaxGradesPerRequest {
		return nil, fieldError(field, "at most %d points are accepted", utils.MaxGradesPerRequest)
	}

	out := make(analytics.TimeSeries, 0, len(in))
	for i, raw := range in {
		path := fmt.Sprintf("%s[%d]", field, i)
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 {
			return nil, fieldError(path, "is empty")
		}

		var (
			p   analytics.TimeSeriesPoint
			err error
		)
		switch trimmed[0] {
		case '[':
			p, err = decodePair(trimmed, path)
		case '{':
			p, err = decodePointObject(trimmed, path)
		default:
			err = fieldError(path, "must be a [timestamp, value] pair or an object")
		}
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func decodePair(raw []byte, path string) (analytics.TimeSeriesPoint, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var pair []interface{}
	if err := dec.Decode(&pair); err != nil {
		return analytics.TimeSeriesPoint{}, fieldError(path, "invalid pair: %v", err)
	}
	if len(pair) != 2 {
		return analytics.TimeSeriesPoint{}, fieldError(path, "pair must have exactly 2 elements, got %d", len(pair))
	}

	ts, ok := utils.ToInt64(pair[0])
	if !ok {
		return analytics.TimeSeriesPoint{}, fieldError(path+"[0]", "timestamp must be an integer")
	}
	v, ok := utils.ToFloat64(pair[1])
	if !ok {
		return analytics.TimeSeriesPoint{}, fieldError(path+"[1]", "value must be a number")
	}
	return analytics.TimeSeriesPoint{Timestamp: ts, Value: v}, nil
}

func decodePointObject(raw []byte, path string) (analytics.TimeSeriesPoint, error) {
	var in seriesPointInput
	if err := Decode(raw, &in); err != nil {
		de := translateJSONError(err)
		if de.Field == "body" {
			return analytics.TimeSeriesPoint{}, fieldError(path, "%s", de.Reason)
		}
		return analytics.TimeSeriesPoint{}, fieldError(path+"."+de.Field, "%s", de.Reason)
	}
	if in.Timestamp == nil {
		return analytics.TimeSeriesPoint{}, fieldError(path+".timestamp", "is required")
	}
	if in.Value == nil {
		return analytics.TimeSeriesPoint{}, fieldError(path+".value", "is required")
	}
	return analytics.TimeSeriesPoint{Timestamp: *in.Timestamp, Value: *in.Value}, nil
}

// DecodeValues rejects null entries in a value list
func DecodeValues(in []*float64, field string) ([]float64, error) {
	if len(in) > utils.MaxGradesPerRequest {
		return nil, fieldError(field, "at most %d values are accepted", utils.MaxGradesPerRequest)
	}

	out := make([]float64, len(in))
	for i, v := range in {
		if v == nil {
			return nil, fieldError(fmt.Sprintf("%s[%d]", field, i), "must be a number")
		}
		out[i] = *v
	}
	return out, nil
}

// ScaleInput overrides parts of the configured grading scale
type ScaleInput struct {
	MaxGrade     *float64 `json:"max_grade,omitempty"`
	PassingGrade *float64 `json:"passing_grade,omitempty"`
	GPAMax       *float64 `json:"gpa_max,omitempty"`
}

// DecodeScale applies the overrides in in to def. A nil input yields def.
func DecodeScale(in *ScaleInput, def grades.Scale, field string) (grades.Scale, error) {
	scale := def
	if in == nil {
		return scale, nil
	}

	if in.MaxGrade != nil {
		scale.MaxGrade = *in.MaxGrade
	}
	if in.PassingGrade != nil {
		scale.PassingGrade = *in.PassingGrade
	}
	if in.GPAMax != nil {
		scale.GPAMax = *in.GPAMax
	}

	switch {
	case scale.MaxGrade <= utils.MinGrade || math.IsInf(scale.MaxGrade, 0):
		return def, fieldError(field+".max_grade", "must be greater than %v", utils.MinGrade)
	case scale.PassingGrade < utils.MinGrade || scale.PassingGrade > scale.MaxGrade:
		return def, fieldError(field+".passing_grade", "must be between %v and max_grade", utils.MinGrade)
	case scale.GPAMax <= 0 || math.IsInf(scale.GPAMax, 0):
		return def, fieldError(field+".gpa_max", "must be positive")
	}
	return scale, nil
}
