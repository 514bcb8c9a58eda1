package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies a class of application error.
type Kind string

const (
	KindTemplateNotFound     Kind = "TEMPLATE_NOT_FOUND"
	KindMissingVariable      Kind = "MISSING_VARIABLE"
	KindTransportFailure     Kind = "TRANSPORT_FAILURE"
	KindRateLimited          Kind = "RATE_LIMITED"
	KindSchemaValidation     Kind = "SCHEMA_VALIDATION"
	KindConfigurationMissing Kind = "CONFIGURATION_MISSING"
	KindValidationFailed     Kind = "VALIDATION_FAILED"
	KindNotFound             Kind = "NOT_FOUND"
	KindInternal             Kind = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       Kind
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code Kind, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewTemplateNotFound reports a missing prompt template.
func NewTemplateNotFound(name string) error {
	return NewDomainError(KindTemplateNotFound, fmt.Sprintf("prompt template %q not found", name), http.StatusInternalServerError, map[string]any{"template": name})
}

// NewMissingVariable reports a template placeholder with no supplied value.
func NewMissingVariable(template, variable string) error {
	return NewDomainError(KindMissingVariable, fmt.Sprintf("missing variable %q for template %q", variable, template), http.StatusInternalServerError, map[string]any{"template": template, "variable": variable})
}

// NewTransportFailure reports a network or non-success response from the model provider.
func NewTransportFailure(message string, err error) error {
	return &DomainError{
		Code:       KindTransportFailure,
		Message:    message,
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewRateLimited reports the provider rejecting the call with a rate limit.
func NewRateLimited(message string) error {
	return NewDomainError(KindRateLimited, message, http.StatusTooManyRequests, nil)
}

// NewSchemaValidation reports a model response that does not conform to the classification schema.
func NewSchemaValidation(message string, details map[string]any) error {
	return NewDomainError(KindSchemaValidation, message, http.StatusUnprocessableEntity, details)
}

// NewConfigurationMissing reports an absent required configuration value.
func NewConfigurationMissing(key string) error {
	return NewDomainError(KindConfigurationMissing, fmt.Sprintf("required configuration %s is not set", key), http.StatusServiceUnavailable, map[string]any{"key": key})
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(KindValidationFailed, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       KindNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       KindInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       KindInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// KindOf extracts the error kind, defaulting to KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return ToDomainError(err).Code
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == kind
	}
	return false
}
