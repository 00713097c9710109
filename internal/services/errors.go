// Package services provides the business logic layer between handlers and the
// analytics core. Services validate decoded requests, run the computation and
// report every operation to logs, metrics and the analytics event stream.
package services

import (
	"errors"

	"github.com/gradelens/gradelens/internal/models"
)

// Error codes returned by the service layer
const (
	CodeInvalidJSON      = "INVALID_JSON"
	CodeInvalidField     = "INVALID_FIELD"
	CodeInvalidParameter = "INVALID_PARAMETER"
	CodeSubjectNotFound  = "SUBJECT_NOT_FOUND"
	CodeNonFiniteResult  = "NON_FINITE_RESULT"
)

// ServiceError represents a service layer error
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// NewServiceError creates a new ServiceError
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
	}
}

// NewServiceErrorWithDetails creates a new ServiceError with details
func NewServiceErrorWithDetails(code, message string, details map[string]interface{}) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// FromDecodeError converts a decode failure into a ServiceError. Failures of
// the body as a whole are INVALID_JSON; failures of one field are
// INVALID_FIELD with the field path in the details.
func FromDecodeError(err error) *ServiceError {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}

	var de *models.DecodeError
	if !errors.As(err, &de) {
		return NewServiceError(CodeInvalidJSON, err.Error())
	}
	if de.Field == "body" {
		return NewServiceErrorWithDetails(CodeInvalidJSON, "Failed to parse JSON body", map[string]interface{}{
			"error": de.Reason,
		})
	}
	return NewServiceErrorWithDetails(CodeInvalidField, de.Error(), map[string]interface{}{
		"field":  de.Field,
		"reason": de.Reason,
	})
}

// invalidParameter reports a parameter that decoded fine but is out of range
func invalidParameter(field, message string) *ServiceError {
	return NewServiceErrorWithDetails(CodeInvalidParameter, field+": "+message, map[string]interface{}{
		"field": field,
	})
}
