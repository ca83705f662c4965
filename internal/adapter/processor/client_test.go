package processor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"creator-payout-ledger/internal/core/domain"
	"creator-payout-ledger/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "sk_test", 2*time.Second, zerolog.Nop())
}

func TestClient_CreateOutboundTransfer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/transfers", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		assert.Equal(t, "payment-p-1", r.Header.Get("Idempotency-Key"))

		var req transferRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "acct_1", req.Destination)
		assert.Equal(t, int64(85), req.Amount)
		assert.Equal(t, "sub-1", req.Metadata[domain.MetaSubmissionID])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"tr_123"}`))
	})

	ref, err := c.CreateOutboundTransfer(context.Background(), "acct_1", 85, map[string]string{
		domain.MetaPaymentID:    "p-1",
		domain.MetaSubmissionID: "sub-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "tr_123", ref)
}

func TestClient_CreatePayout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payouts", r.URL.Path)
		assert.Equal(t, "acct_1", r.Header.Get("Processor-Account"))
		assert.Empty(t, r.Header.Get("Idempotency-Key"))

		var req payoutRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "instant", req.Method)
		assert.Empty(t, req.Destination)

		_, _ = w.Write([]byte(`{"id":"po_9"}`))
	})

	ref, err := c.CreatePayout(context.Background(), "acct_1", 500, domain.PayoutSpeedInstant, "")
	require.NoError(t, err)
	assert.Equal(t, "po_9", ref)
}

func TestClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   string
	}{
		{"card declined style rejection", http.StatusPaymentRequired, `{"error":{"type":"invalid_request","code":"balance_insufficient","message":"Insufficient funds"}}`, apperror.CodeExternalProcessor},
		{"bad request without body", http.StatusBadRequest, ``, apperror.CodeExternalProcessor},
		{"server error", http.StatusInternalServerError, `{"error":{"message":"boom"}}`, apperror.CodeProcessorOutcomeUnknown},
		{"gateway timeout", http.StatusGatewayTimeout, ``, apperror.CodeProcessorOutcomeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.CreateOutboundTransfer(context.Background(), "acct_1", 10, nil)
			assert.Equal(t, tt.code, apperror.CodeOf(err))

			var errResp *ErrorResponse
			require.ErrorAs(t, err, &errResp)
			assert.Equal(t, tt.status, errResp.StatusCode)
		})
	}
}

func TestClient_RejectionCarriesProcessorCode(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"transfers not enabled", `{"error":{"type":"invalid_request","code":"transfers_not_enabled","message":"Account cannot receive transfers"}}`, domain.ProcessorCodeTransfersNotEnabled},
		{"verification required", `{"error":{"code":"verification_required","message":"Identity documents pending"}}`, domain.ProcessorCodeVerificationRequired},
		{"no code", `{"error":{"message":"nope"}}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.CreateOutboundTransfer(context.Background(), "acct_1", 10, nil)
			assert.Equal(t, apperror.CodeExternalProcessor, apperror.CodeOf(err))
			assert.Equal(t, tt.want, apperror.ProcessorCode(err))
		})
	}
}

func TestClient_TimeoutIsOutcomeUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"id":"tr_late"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk_test", 50*time.Millisecond, zerolog.Nop())

	_, err := c.CreateOutboundTransfer(context.Background(), "acct_1", 10, nil)
	assert.True(t, apperror.Is(err, apperror.CodeProcessorOutcomeUnknown))
}

func TestClient_UnreadableSuccessIsOutcomeUnknown(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := c.CreateOutboundTransfer(context.Background(), "acct_1", 10, nil)
	assert.True(t, apperror.Is(err, apperror.CodeProcessorOutcomeUnknown))
}

func TestClient_GetConnectedAccountStatus(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		state domain.CapabilityState
	}{
		{"active", `{"id":"acct_1","details_submitted":true,"capabilities":{"transfers":"active"}}`, domain.CapabilityActive},
		{"pending", `{"id":"acct_1","details_submitted":true,"capabilities":{"transfers":"pending"}}`, domain.CapabilityPending},
		{"missing capability", `{"id":"acct_1","details_submitted":false}`, domain.CapabilityInactive},
		{"unknown value", `{"id":"acct_1","capabilities":{"transfers":"restricted"}}`, domain.CapabilityInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/v1/accounts/acct_1", r.URL.Path)
				_, _ = w.Write([]byte(tt.body))
			})

			status, err := c.GetConnectedAccountStatus(context.Background(), "acct_1")
			require.NoError(t, err)
			assert.Equal(t, tt.state, status.TransferCapabilityState)
		})
	}
}

func TestClient_RequestCapability(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/accounts/acct_1/capabilities/transfers", r.URL.Path)

		var body map[string]bool
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.True(t, body["requested"])
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.RequestCapability(context.Background(), "acct_1", domain.CapabilityTransfers))
	assert.True(t, called)
}

func TestClient_GetIdentityVerificationStatus(t *testing.T) {
	tests := []struct {
		body string
		want domain.VerificationStatus
	}{
		{`{"status":"verified"}`, domain.VerificationVerified},
		{`{"status":"pending"}`, domain.VerificationPending},
		{`{"status":"requires_input"}`, domain.VerificationUnverified},
	}

	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/accounts/acct_1/identity_verification", r.URL.Path)
				_, _ = w.Write([]byte(tt.body))
			})

			status, err := c.GetIdentityVerificationStatus(context.Background(), "acct_1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, status)
		})
	}
}
