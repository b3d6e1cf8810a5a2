package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation      ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound        ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized    ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden       ErrorType = "FORBIDDEN"
	ErrorTypeConflict        ErrorType = "CONFLICT"
	ErrorTypeState           ErrorType = "STATE_ERROR"
	ErrorTypeLimitExceeded   ErrorType = "LIMIT_EXCEEDED"
	ErrorTypeApproverMissing ErrorType = "APPROVER_MISSING"
	ErrorTypeInternal        ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidDateRange ErrorCode = "INVALID_DATE_RANGE"
	ErrCodeInvalidCategory  ErrorCode = "INVALID_CATEGORY"
	ErrCodeInvalidAction    ErrorCode = "INVALID_ACTION"
	ErrCodeInvalidRole      ErrorCode = "INVALID_ROLE"
	ErrCodeInvalidHierarchy ErrorCode = "INVALID_HIERARCHY"

	ErrCodeEmployeeNotFound ErrorCode = "EMPLOYEE_NOT_FOUND"
	ErrCodeRequestNotFound  ErrorCode = "LEAVE_REQUEST_NOT_FOUND"
	ErrCodeCategoryNotFound ErrorCode = "CATEGORY_NOT_FOUND"
	ErrCodeBalanceNotFound  ErrorCode = "BALANCE_NOT_FOUND"
	ErrCodeHolidayNotFound  ErrorCode = "HOLIDAY_NOT_FOUND"

	ErrCodeNotificationNotFound ErrorCode = "NOTIFICATION_NOT_FOUND"

	ErrCodeNotRequestOwner    ErrorCode = "NOT_REQUEST_OWNER"
	ErrCodeNotRequestApprover ErrorCode = "NOT_REQUEST_APPROVER"
	ErrCodeUnauthorizedAccess ErrorCode = "UNAUTHORIZED_ACCESS"

	ErrCodeRequestNotPending      ErrorCode = "REQUEST_NOT_PENDING"
	ErrCodeCancellationWindow     ErrorCode = "CANCELLATION_WINDOW_CLOSED"
	ErrCodeBalanceWouldGoNegative ErrorCode = "BALANCE_WOULD_GO_NEGATIVE"
	ErrCodeAllocationExceeded     ErrorCode = "BALANCE_ALLOCATION_EXCEEDED"

	ErrCodeLOPLimitExceeded  ErrorCode = "LOP_LIMIT_EXCEEDED"
	ErrCodeApproverNotFound  ErrorCode = "APPROVER_NOT_FOUND"
	ErrCodeAdminCannotSubmit ErrorCode = "ADMIN_CANNOT_REQUEST_LEAVE"

	ErrCodeDuplicateEmployee ErrorCode = "DUPLICATE_EMPLOYEE"
	ErrCodeDuplicateHoliday  ErrorCode = "DUPLICATE_HOLIDAY"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
		messages := make([]string, len(validationErrors.Errors))
		for i, err := range validationErrors.Errors {
			messages[i] = err.Message
		}
		return strings.Join(messages, "; ")
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on type and code so sentinel errors work with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// WithCause returns a copy carrying cause; sentinels are never mutated.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

func (e *AppError) WithMessage(message string) *AppError {
	cp := *e
	cp.Message = message
	return &cp
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// LimitDetails is attached to LIMIT_EXCEEDED errors so callers can show the shortfall.
type LimitDetails struct {
	TotalUsed int `json:"total_used"`
	Requested int `json:"requested"`
	Remaining int `json:"remaining"`
	ExceedsBy int `json:"exceeds_by"`
	Max       int `json:"max"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewStateError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeState,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewLimitExceededError(message string, details LimitDetails) *AppError {
	return &AppError{
		Type:       ErrorTypeLimitExceeded,
		Code:       ErrCodeLOPLimitExceeded,
		Message:    message,
		Details:    details,
		StatusCode: http.StatusUnprocessableEntity,
	}
}

func NewApproverMissingError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeApproverMissing,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrEmployeeNotFound = NewNotFoundError("Employee not found", ErrCodeEmployeeNotFound)
	ErrRequestNotFound  = NewNotFoundError("Leave request not found", ErrCodeRequestNotFound)
	ErrCategoryNotFound = NewNotFoundError("Leave category not found", ErrCodeCategoryNotFound)
	ErrBalanceNotFound  = NewNotFoundError("Leave balance not found", ErrCodeBalanceNotFound)
	ErrHolidayNotFound  = NewNotFoundError("Holiday not found", ErrCodeHolidayNotFound)

	ErrNotificationNotFound = NewNotFoundError("Notification not found", ErrCodeNotificationNotFound)

	ErrNotRequestOwner    = NewForbiddenError("Only the employee who applied can perform this action", ErrCodeNotRequestOwner)
	ErrNotRequestApprover = NewForbiddenError("You are not authorized to decide on this request", ErrCodeNotRequestApprover)
	ErrUnauthorizedAccess = NewForbiddenError("You are not allowed to access this resource", ErrCodeUnauthorizedAccess)

	ErrRequestNotPending      = NewStateError("Leave request is no longer pending", ErrCodeRequestNotPending)
	ErrCancellationWindow     = NewStateError("Leave can only be cancelled before its start date", ErrCodeCancellationWindow)
	ErrBalanceWouldGoNegative = NewStateError("Leave balance would become negative", ErrCodeBalanceWouldGoNegative)
	ErrAllocationExceeded     = NewStateError("Leave balance allocation exceeded, please retry", ErrCodeAllocationExceeded)

	ErrApproverNotFound  = NewApproverMissingError("No approver found", ErrCodeApproverNotFound)
	ErrAdminCannotSubmit = NewApproverMissingError("Admins cannot request leave through this endpoint", ErrCodeAdminCannotSubmit)

	ErrInvalidCredentials = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
