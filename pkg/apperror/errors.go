package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced to callers.
const (
	CodeInvalidAccessKey = "SEC_001"
	CodeInvalidSignature = "SEC_002"
	CodeTimestampExpired = "SEC_003"
	CodeNonceUsed        = "SEC_004"

	CodeInsufficientFunds       = "PAY_001"
	CodeInvalidAmount           = "PAY_002"
	CodeNotFound                = "PAY_004"
	CodeVerificationRequired    = "PAY_008"
	CodeBankAccountRequired     = "PAY_009"
	CodeTransfersNotEnabled     = "PAY_010"
	CodeExternalProcessor       = "PAY_011"
	CodeProcessorOutcomeUnknown = "PAY_012"
	CodeWithdrawalInProgress    = "PAY_013"

	CodeInvalidToken = "AUTH_003"

	CodeRateLimitExceeded = "RATE_001"

	CodeInternal = "SYS_001"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string                 `json:"error_code"`
	Message    string                 `json:"message"`
	HTTPStatus int                    `json:"-"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Err        error                  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithCause attaches err as the internal cause of e.
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// CodeOf returns the AppError code in err's chain, or "" if there is none.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// Is reports whether err carries an AppError with the given code.
func Is(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}

// ---- Security & Authentication (SEC) ----

func ErrInvalidAccessKey() *AppError {
	return New(CodeInvalidAccessKey, "Invalid access key", http.StatusUnauthorized)
}

func ErrInvalidSignature() *AppError {
	return New(CodeInvalidSignature, "Invalid signature", http.StatusUnauthorized)
}

func ErrTimestampExpired() *AppError {
	return New(CodeTimestampExpired, "Request timestamp expired", http.StatusForbidden)
}

func ErrNonceUsed() *AppError {
	return New(CodeNonceUsed, "Nonce has already been used", http.StatusForbidden)
}

// ---- Ledger & Payout Logic (PAY) ----

// ErrInsufficientFunds reports a balance that would drop below zero.
// shortfall is the amount, in minor units, the account is missing.
func ErrInsufficientFunds(shortfall int64) *AppError {
	e := New(CodeInsufficientFunds, "Insufficient balance", http.StatusPaymentRequired)
	e.Details = map[string]interface{}{"shortfall": shortfall}
	return e
}

// Shortfall extracts the shortfall carried by an InsufficientFunds error.
func Shortfall(err error) (int64, bool) {
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Code != CodeInsufficientFunds {
		return 0, false
	}
	v, ok := appErr.Details["shortfall"].(int64)
	return v, ok
}

func ErrInvalidAmount() *AppError {
	return New(CodeInvalidAmount, "Invalid amount", http.StatusBadRequest)
}

func ErrBelowMinimumWithdrawal(minimum int64) *AppError {
	e := New(CodeInvalidAmount, fmt.Sprintf("Withdrawal amount must be at least %d", minimum), http.StatusBadRequest)
	e.Details = map[string]interface{}{"minimum": minimum}
	return e
}

func ErrNotFound(entity string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrVerificationRequired() *AppError {
	return New(CodeVerificationRequired,
		"Identity verification must be completed before instant withdrawals",
		http.StatusUnprocessableEntity)
}

func ErrBankAccountRequired() *AppError {
	return New(CodeBankAccountRequired,
		"Link a bank account to withdraw by standard transfer",
		http.StatusUnprocessableEntity)
}

func ErrTransfersNotEnabled() *AppError {
	return New(CodeTransfersNotEnabled,
		"Payout account setup is incomplete: transfers are not enabled yet",
		http.StatusUnprocessableEntity)
}

func ErrWithdrawalInProgress() *AppError {
	return New(CodeWithdrawalInProgress, "Another withdrawal is already being processed", http.StatusConflict)
}

// ErrExternalProcessor wraps a definitive rejection from the payment processor.
func ErrExternalProcessor(err error) *AppError {
	return Wrap(CodeExternalProcessor, "Payment processor rejected the request", http.StatusBadGateway, err)
}

// ErrProcessorRejected is ErrExternalProcessor carrying the processor's own
// error code in details.processor_code.
func ErrProcessorRejected(processorCode string, err error) *AppError {
	e := ErrExternalProcessor(err)
	if processorCode != "" {
		e.Details = map[string]interface{}{"processor_code": processorCode}
	}
	return e
}

// ProcessorCode extracts the processor error code of a PAY_011 rejection.
func ProcessorCode(err error) string {
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Code != CodeExternalProcessor {
		return ""
	}
	code, _ := appErr.Details["processor_code"].(string)
	return code
}

// ErrProcessorOutcomeUnknown wraps a processor call whose result is unknown
// (timeout, dropped connection). The money may or may not have moved.
func ErrProcessorOutcomeUnknown(err error) *AppError {
	return Wrap(CodeProcessorOutcomeUnknown, "Payment processor did not confirm the request", http.StatusGatewayTimeout, err)
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New(CodeInvalidToken, "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New(CodeRateLimitExceeded, "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap(CodeInternal, "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap(CodeInternal, "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a PAY_002-style validation error.
func Validation(message string) *AppError {
	return New(CodeInvalidAmount, message, http.StatusBadRequest)
}
