package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"creator-payout-ledger/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newContext(requestID string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	if requestID != "" {
		c.Set("request_id", requestID)
	}
	return c, w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSuccessEnvelopes(t *testing.T) {
	balance := map[string]interface{}{"creator_id": "creator-1", "balance": 4250, "currency": "usd"}

	tests := []struct {
		name   string
		send   func(c *gin.Context)
		status int
	}{
		{"balance read", func(c *gin.Context) { OK(c, balance) }, http.StatusOK},
		{"new settlement", func(c *gin.Context) { Created(c, balance) }, http.StatusCreated},
		{"duplicate settlement", func(c *gin.Context) { JSON(c, http.StatusOK, balance) }, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newContext("req-ledger-1")
			tt.send(c)

			assert.Equal(t, tt.status, w.Code)
			var resp SuccessResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "req-ledger-1", resp.RequestID)
			assert.NotEmpty(t, resp.Timestamp)

			data, ok := resp.Data.(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, "creator-1", data["creator_id"])
			assert.Equal(t, float64(4250), data["balance"])
		})
	}
}

func TestSuccessEnvelope_GeneratesRequestID(t *testing.T) {
	c, w := newContext("")
	OK(c, nil)

	var resp SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.RequestID, 36)
}

func TestError_InsufficientFundsCarriesShortfall(t *testing.T) {
	c, w := newContext("req-ledger-2")
	Error(c, apperror.ErrInsufficientFunds(1750))

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, apperror.CodeInsufficientFunds, resp.ErrorCode)
	assert.Equal(t, "Insufficient balance", resp.Message)
	assert.Equal(t, float64(1750), resp.Details["shortfall"])
	assert.Equal(t, "req-ledger-2", resp.RequestID)
}

func TestError_Mapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"below minimum withdrawal", apperror.ErrBelowMinimumWithdrawal(100), http.StatusBadRequest, apperror.CodeInvalidAmount},
		{"unknown account", apperror.ErrNotFound("Account"), http.StatusNotFound, apperror.CodeNotFound},
		{"verification required", apperror.ErrVerificationRequired(), http.StatusUnprocessableEntity, apperror.CodeVerificationRequired},
		{"withdrawal in progress", apperror.ErrWithdrawalInProgress(), http.StatusConflict, apperror.CodeWithdrawalInProgress},
		{"processor rejection", apperror.ErrExternalProcessor(errors.New("declined")), http.StatusBadGateway, apperror.CodeExternalProcessor},
		{"processor timeout", apperror.ErrProcessorOutcomeUnknown(errors.New("deadline")), http.StatusGatewayTimeout, apperror.CodeProcessorOutcomeUnknown},
		{"wrapped in a service error", fmt.Errorf("settle sub-1: %w", apperror.ErrTransfersNotEnabled()), http.StatusUnprocessableEntity, apperror.CodeTransfersNotEnabled},
		{"plain error", errors.New("connection reset"), http.StatusInternalServerError, "SYS_000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newContext("req-ledger-3")
			Error(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, tt.code, resp.ErrorCode)
			assert.NotEmpty(t, resp.Message)
			assert.NotContains(t, w.Body.String(), "declined", "internal causes stay out of the body")
		})
	}
}

func TestError_BelowMinimumDetails(t *testing.T) {
	c, w := newContext("")
	Error(c, apperror.ErrBelowMinimumWithdrawal(100))

	resp := decodeError(t, w)
	assert.Equal(t, float64(100), resp.Details["minimum"])
	assert.Equal(t, "Withdrawal amount must be at least 100", resp.Message)
}
