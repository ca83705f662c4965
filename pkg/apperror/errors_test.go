package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("PAY_001", "Insufficient balance", http.StatusPaymentRequired),
			expected: "[PAY_001] Insufficient balance",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[SYS_001] DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
	assert.Nil(t, New("PAY_001", "test", http.StatusBadRequest).Unwrap())
}

func TestLedgerErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"InsufficientFunds", ErrInsufficientFunds(10), "PAY_001", 402},
		{"InvalidAmount", ErrInvalidAmount(), "PAY_002", 400},
		{"BelowMinimum", ErrBelowMinimumWithdrawal(100), "PAY_002", 400},
		{"NotFound", ErrNotFound("account"), "PAY_004", 404},
		{"VerificationRequired", ErrVerificationRequired(), "PAY_008", 422},
		{"BankAccountRequired", ErrBankAccountRequired(), "PAY_009", 422},
		{"TransfersNotEnabled", ErrTransfersNotEnabled(), "PAY_010", 422},
		{"ExternalProcessor", ErrExternalProcessor(errors.New("declined")), "PAY_011", 502},
		{"OutcomeUnknown", ErrProcessorOutcomeUnknown(errors.New("timeout")), "PAY_012", 504},
		{"WithdrawalInProgress", ErrWithdrawalInProgress(), "PAY_013", 409},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestShortfall(t *testing.T) {
	err := fmt.Errorf("settle: %w", ErrInsufficientFunds(15))

	shortfall, ok := Shortfall(err)
	require.True(t, ok)
	assert.Equal(t, int64(15), shortfall)

	_, ok = Shortfall(ErrInvalidAmount())
	assert.False(t, ok)

	_, ok = Shortfall(errors.New("plain"))
	assert.False(t, ok)
}

func TestProcessorCode(t *testing.T) {
	rejected := fmt.Errorf("transfer: %w", ErrProcessorRejected("transfers_not_enabled", errors.New("raw")))
	assert.Equal(t, "transfers_not_enabled", ProcessorCode(rejected))
	assert.Equal(t, CodeExternalProcessor, CodeOf(rejected))

	assert.Nil(t, ErrProcessorRejected("", errors.New("raw")).Details)
	assert.Equal(t, "", ProcessorCode(ErrExternalProcessor(errors.New("raw"))))
	assert.Equal(t, "", ProcessorCode(ErrProcessorOutcomeUnknown(errors.New("raw"))))
}

func TestWithCause(t *testing.T) {
	cause := ErrProcessorRejected("verification_required", errors.New("documents pending"))
	err := ErrVerificationRequired().WithCause(cause)

	assert.Equal(t, CodeVerificationRequired, CodeOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "[PAY_008]")
	assert.Contains(t, err.Error(), "documents pending")
}

func TestCodeOfAndIs(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", ErrTransfersNotEnabled())

	assert.Equal(t, CodeTransfersNotEnabled, CodeOf(wrapped))
	assert.True(t, Is(wrapped, CodeTransfersNotEnabled))
	assert.False(t, Is(wrapped, CodeNotFound))
	assert.False(t, Is(nil, CodeNotFound))
	assert.Equal(t, "", CodeOf(errors.New("plain")))
}

func TestSecurityErrors(t *testing.T) {
	assert.Equal(t, 401, ErrInvalidAccessKey().HTTPStatus)
	assert.Equal(t, 401, ErrInvalidSignature().HTTPStatus)
	assert.Equal(t, 403, ErrTimestampExpired().HTTPStatus)
	assert.Equal(t, 403, ErrNonceUsed().HTTPStatus)
	assert.Equal(t, "AUTH_003", ErrInvalidToken().Code)
	assert.Equal(t, 429, ErrRateLimitExceeded().HTTPStatus)
}

func TestSystemErrors(t *testing.T) {
	inner := fmt.Errorf("pg: connection closed")
	dbErr := ErrDatabaseError(inner)
	assert.Equal(t, "SYS_001", dbErr.Code)
	assert.Equal(t, 500, dbErr.HTTPStatus)
	assert.True(t, errors.Is(dbErr, inner))
}
