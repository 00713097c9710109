package services

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/gradelens/gradelens/internal/models"
)

func TestServiceError_Error(t *testing.T) {
	err := &ServiceError{
		Code:    "TEST_ERROR",
		Message: "Test error message",
	}

	if err.Error() != "Test error message" {
		t.Errorf("Expected 'Test error message', got '%s'", err.Error())
	}
}

func TestNewServiceError(t *testing.T) {
	err := NewServiceError(CodeInvalidParameter, "window must be positive")

	if err.Code != CodeInvalidParameter {
		t.Errorf("Expected code '%s', got '%s'", CodeInvalidParameter, err.Code)
	}
	if err.Details != nil {
		t.Errorf("Expected nil details, got %v", err.Details)
	}
}

func TestServiceError_JSON(t *testing.T) {
	err := NewServiceErrorWithDetails(CodeInvalidField, "grades[0].value: is required", map[string]interface{}{
		"field": "grades[0].value",
	})

	data, jerr := json.Marshal(err)
	if jerr != nil {
		t.Fatalf("Failed to marshal: %v", jerr)
	}
	if !strings.Contains(string(data), `"field":"grades[0].value"`) {
		t.Errorf("Expected field in details, got %s", data)
	}

	bare, _ := json.Marshal(NewServiceError("X", "y"))
	if strings.Contains(string(bare), "details") {
		t.Errorf("Expected details to be omitted, got %s", bare)
	}
}

func TestFromDecodeError(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		code  string
		field interface{}
	}{
		{"body error", &models.DecodeError{Field: "body", Reason: "invalid JSON"}, CodeInvalidJSON, nil},
		{"field error", &models.DecodeError{Field: "grades[3].weight", Reason: "must not be negative"}, CodeInvalidField, "grades[3].weight"},
		{"plain error", errors.New("boom"), CodeInvalidJSON, nil},
		{"service error passes through", invalidParameter("window", "must be positive"), CodeInvalidParameter, "window"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromDecodeError(tt.err)
			if got.Code != tt.code {
				t.Errorf("Expected code %s, got %s", tt.code, got.Code)
			}
			if tt.field != nil && got.Details["field"] != tt.field {
				t.Errorf("Expected field %v, got %v", tt.field, got.Details["field"])
			}
		})
	}
}
