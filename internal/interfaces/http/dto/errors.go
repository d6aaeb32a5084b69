package dto

import (
	"net/http"
	"strings"
)

// General error codes
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
)

// Resource error codes
const (
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeAlreadyExists       = "ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState         = "INVALID_STATE"
	ErrCodeInsufficientStock    = "INSUFFICIENT_STOCK"
	ErrCodeInsufficientPayment  = "INSUFFICIENT_PAYMENT"
	ErrCodeConfirmationRequired = "CONFIRMATION_REQUIRED"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed here fall back to the INVALID_ prefix rule, then 500.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	"SECTION_NOT_FOUND":        http.StatusNotFound,
	"BOM_NOT_FOUND":            http.StatusNotFound,
	"NO_PACKET":                http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	"PACKET_EXISTS":            http.StatusConflict,
	"SECTION_ALREADY_PACKED":   http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:         http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock:    http.StatusUnprocessableEntity,
	ErrCodeInsufficientPayment:  http.StatusUnprocessableEntity,
	"MISSING_APPROVAL_ARTIFACT": http.StatusUnprocessableEntity,
	"NO_SECTIONS":               http.StatusUnprocessableEntity,
	"EMPTY_BOM":                 http.StatusUnprocessableEntity,
	"EMPTY_PACKET":              http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	"VALIDATION_ERROR":          http.StatusBadRequest,
	ErrCodeConfirmationRequired: http.StatusBadRequest,
	"REASON_REQUIRED":           http.StatusBadRequest,
	"INVALID_INPUT":             http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for a domain error code.
// Validation codes follow the INVALID_<FIELD> convention and map to 400;
// anything unknown is treated as an internal error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
