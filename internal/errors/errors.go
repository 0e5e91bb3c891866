package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Common error types that can be used across the application
// TODO: move to errors.New from cockroachdb/errors
var (
	ErrNotFound         = New(ErrCodeNotFound, "resource not found")
	ErrAlreadyExists    = New(ErrCodeAlreadyExists, "resource already exists")
	ErrVersionConflict  = New(ErrCodeVersionConflict, "version conflict")
	ErrValidation       = New(ErrCodeValidation, "validation error")
	ErrInvalidOperation = New(ErrCodeInvalidOperation, "invalid operation")
	ErrPermissionDenied = New(ErrCodePermissionDenied, "permission denied")
	ErrHTTPClient       = New(ErrCodeHTTPClient, "http client error")
	ErrDatabase         = New(ErrCodeDatabase, "database error")
	ErrSystem           = New(ErrCodeSystemError, "system error")

	// billing lifecycle errors
	ErrInvalidStatus        = New(ErrCodeInvalidStatus, "invoice status does not allow this operation")
	ErrInvalidPaymentMethod = New(ErrCodeInvalidPaymentMethod, "payment method not configured or not allowed")
	ErrInvalidAmount        = New(ErrCodeInvalidAmount, "amount does not match the invoice final amount")
	ErrNegativeSplitAmount  = New(ErrCodeNegativeSplitAmount, "split allocation produced a non-positive share")
	ErrStartDateRule        = New(ErrCodeStartDateRule, "invoice payment window has not opened yet")
	ErrGroupFull            = New(ErrCodeGroupFull, "group has reached its recurrence capacity")
	ErrNotEmpty             = New(ErrCodeNotEmpty, "resource still has dependents")
	ErrOpenBoleto           = New(ErrCodeOpenBoleto, "an unexpired boleto already exists for this invoice")
	ErrChargeClosed         = New(ErrCodeChargeClosed, "charge is closed")
	ErrPaymentError         = New(ErrCodePaymentError, "payment provider reported a failure")

	// maps errors to http status codes
	statusCodeMap = map[error]int{
		ErrHTTPClient:       http.StatusInternalServerError,
		ErrDatabase:         http.StatusInternalServerError,
		ErrNotFound:         http.StatusNotFound,
		ErrAlreadyExists:    http.StatusConflict,
		ErrVersionConflict:  http.StatusConflict,
		ErrValidation:       http.StatusBadRequest,
		ErrInvalidOperation: http.StatusBadRequest,
		ErrPermissionDenied: http.StatusForbidden,
		ErrSystem:           http.StatusInternalServerError,

		ErrInvalidStatus:        http.StatusConflict,
		ErrInvalidPaymentMethod: http.StatusBadRequest,
		ErrInvalidAmount:        http.StatusBadRequest,
		ErrNegativeSplitAmount:  http.StatusUnprocessableEntity,
		ErrStartDateRule:        http.StatusConflict,
		ErrGroupFull:            http.StatusConflict,
		ErrNotEmpty:             http.StatusConflict,
		ErrOpenBoleto:           http.StatusConflict,
		ErrChargeClosed:         http.StatusConflict,
		ErrPaymentError:         http.StatusBadGateway,
	}
)

const (
	ErrCodeHTTPClient       = "http_client_error"
	ErrCodeSystemError      = "system_error"
	ErrCodeNotFound         = "not_found"
	ErrCodeAlreadyExists    = "already_exists"
	ErrCodeVersionConflict  = "version_conflict"
	ErrCodeValidation       = "validation_error"
	ErrCodeInvalidOperation = "invalid_operation"
	ErrCodePermissionDenied = "permission_denied"
	ErrCodeDatabase         = "database_error"

	ErrCodeInvalidStatus        = "invalid_status"
	ErrCodeInvalidPaymentMethod = "invalid_payment_method"
	ErrCodeInvalidAmount        = "invalid_amount"
	ErrCodeNegativeSplitAmount  = "negative_split_amount"
	ErrCodeStartDateRule        = "start_date_rule"
	ErrCodeGroupFull            = "group_full"
	ErrCodeNotEmpty             = "not_empty"
	ErrCodeOpenBoleto           = "open_boleto"
	ErrCodeChargeClosed         = "charge_closed"
	ErrCodePaymentError         = "payment_error"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Op      string // Logical operation name
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

// New creates a new InternalError
func New(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// Is reports whether err matches the given sentinel, following marks
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsVersionConflict checks if an error is a version conflict error
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrVersionConflict)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsInvalidOperation checks if an error is an invalid operation error
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

// IsPermissionDenied checks if an error is a permission denied error
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// IsHTTPClient checks if an error is an http client error
func IsHTTPClient(err error) bool {
	return errors.Is(err, ErrHTTPClient)
}

// IsNegativeSplitAmount checks if an error is a negative split allocation error
func IsNegativeSplitAmount(err error) bool {
	return errors.Is(err, ErrNegativeSplitAmount)
}

// IsInvalidStatus checks if an error is an invoice status conflict error
func IsInvalidStatus(err error) bool {
	return errors.Is(err, ErrInvalidStatus)
}

func HTTPStatusFromErr(err error) int {
	for e, status := range statusCodeMap {
		if errors.Is(err, e) {
			return status
		}
	}
	return http.StatusInternalServerError
}
