// Package processor is the HTTP client for the external payment processor
// that holds creators' connected accounts.
package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"creator-payout-ledger/internal/core/domain"
	"creator-payout-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

const defaultCurrency = "usd"

// Client implements ports.PaymentProcessor over the processor's REST API.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a new processor client.
func NewClient(baseURL, apiKey string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		log: log.With().Str("component", "processor_client").Logger(),
	}
}

// ErrorResponse is the processor's error envelope.
type ErrorResponse struct {
	StatusCode int `json:"-"`
	Err        struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (e *ErrorResponse) Error() string {
	if e.Err.Message != "" {
		return fmt.Sprintf("processor error (status %d): %s: %s", e.StatusCode, e.Err.Code, e.Err.Message)
	}
	return fmt.Sprintf("processor error (status %d)", e.StatusCode)
}

type transferRequest struct {
	Destination string            `json:"destination"`
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type payoutRequest struct {
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Method      string `json:"method"`
	Destination string `json:"destination,omitempty"`
}

type objectResponse struct {
	ID string `json:"id"`
}

type accountResponse struct {
	ID               string            `json:"id"`
	DetailsSubmitted bool              `json:"details_submitted"`
	Capabilities     map[string]string `json:"capabilities"`
}

type verificationResponse struct {
	Status string `json:"status"`
}

// CreateOutboundTransfer moves amount from the platform to a connected account.
func (c *Client) CreateOutboundTransfer(ctx context.Context, destinationAccountRef string, amount int64, metadata map[string]string) (string, error) {
	payload := transferRequest{
		Destination: destinationAccountRef,
		Amount:      amount,
		Currency:    defaultCurrency,
		Metadata:    metadata,
	}

	var resp objectResponse
	if err := c.do(ctx, http.MethodPost, "/v1/transfers", "", idempotencyKey(metadata), payload, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// CreatePayout sends funds from a connected account to its external account.
// An empty destination lets the processor use the account's default.
func (c *Client) CreatePayout(ctx context.Context, connectedAccountRef string, amount int64, speed domain.PayoutSpeed, destination string) (string, error) {
	payload := payoutRequest{
		Amount:      amount,
		Currency:    defaultCurrency,
		Method:      string(speed),
		Destination: destination,
	}

	var resp objectResponse
	if err := c.do(ctx, http.MethodPost, "/v1/payouts", connectedAccountRef, "", payload, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// GetConnectedAccountStatus reads onboarding and transfer capability state.
func (c *Client) GetConnectedAccountStatus(ctx context.Context, accountRef string) (*domain.ConnectedAccountStatus, error) {
	var resp accountResponse
	if err := c.do(ctx, http.MethodGet, "/v1/accounts/"+url.PathEscape(accountRef), "", "", nil, &resp); err != nil {
		return nil, err
	}
	return &domain.ConnectedAccountStatus{
		DetailsSubmitted:        resp.DetailsSubmitted,
		TransferCapabilityState: capabilityState(resp.Capabilities[domain.CapabilityTransfers]),
	}, nil
}

// RequestCapability asks the processor to enable a capability on the account.
func (c *Client) RequestCapability(ctx context.Context, accountRef string, capability string) error {
	path := fmt.Sprintf("/v1/accounts/%s/capabilities/%s", url.PathEscape(accountRef), url.PathEscape(capability))
	return c.do(ctx, http.MethodPost, path, "", "", map[string]bool{"requested": true}, nil)
}

// GetIdentityVerificationStatus reads the account holder's verification state.
func (c *Client) GetIdentityVerificationStatus(ctx context.Context, accountRef string) (domain.VerificationStatus, error) {
	var resp verificationResponse
	path := "/v1/accounts/" + url.PathEscape(accountRef) + "/identity_verification"
	if err := c.do(ctx, http.MethodGet, path, "", "", nil, &resp); err != nil {
		return "", err
	}
	switch domain.VerificationStatus(resp.Status) {
	case domain.VerificationVerified, domain.VerificationPending:
		return domain.VerificationStatus(resp.Status), nil
	default:
		return domain.VerificationUnverified, nil
	}
}

// do executes one API call. Failures where the processor never answered, or
// answered 5xx, are reported as PAY_012 (outcome unknown); 4xx answers are
// definitive rejections (PAY_011) tagged with the processor's error code.
func (c *Client) do(ctx context.Context, method, path, connectedAccount, idemKey string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("marshal processor request: %w", err))
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("create processor request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if connectedAccount != "" {
		req.Header.Set("Processor-Account", connectedAccount)
	}
	if idemKey != "" {
		req.Header.Set("Idempotency-Key", idemKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("processor request failed")
		return apperror.ErrProcessorOutcomeUnknown(fmt.Errorf("%s %s: %w", method, path, err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperror.ErrProcessorOutcomeUnknown(fmt.Errorf("read processor response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errResp := &ErrorResponse{StatusCode: resp.StatusCode}
		if jsonErr := json.Unmarshal(respBody, errResp); jsonErr != nil {
			c.log.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("non-2xx response with unparsable body")
		} else {
			c.log.Warn().Int("status", resp.StatusCode).Str("path", path).
				Str("code", errResp.Err.Code).Str("detail", errResp.Err.Message).
				Msg("processor returned an error")
		}
		if resp.StatusCode >= 500 {
			return apperror.ErrProcessorOutcomeUnknown(errResp)
		}
		return apperror.ErrProcessorRejected(errResp.Err.Code, errResp)
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		// the call succeeded but we cannot read the reference
		return apperror.ErrProcessorOutcomeUnknown(fmt.Errorf("decode processor response: %w", err))
	}
	return nil
}

func capabilityState(s string) domain.CapabilityState {
	switch domain.CapabilityState(s) {
	case domain.CapabilityActive, domain.CapabilityPending:
		return domain.CapabilityState(s)
	default:
		return domain.CapabilityInactive
	}
}

// idempotencyKey is keyed on the payment or withdrawal the transfer belongs to.
func idempotencyKey(metadata map[string]string) string {
	if id := metadata[domain.MetaPaymentID]; id != "" {
		return "payment-" + id
	}
	if id := metadata[domain.MetaWithdrawalID]; id != "" {
		return "withdrawal-" + id
	}
	return ""
}
