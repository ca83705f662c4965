package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"creator-payout-ledger/internal/core/ports"
	"creator-payout-ledger/internal/core/ports/mocks"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testCreds = ServiceCredentials{AccessKey: "ak_marketplace", SecretKey: "raw_secret"}

func hmacRouter(sigSvc ports.SignatureService, nonceStore ports.NonceStore) *gin.Engine {
	router := gin.New()
	router.POST("/test", HMACAuth(testCreds, sigSvc, nonceStore, zerolog.Nop()), func(c *gin.Context) {
		c.JSON(200, gin.H{"client": c.GetString(CtxClientID)})
	})
	return router
}

func signedRequest(accessKey string, ts int64, nonce, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBufferString(body))
	req.Header.Set(HeaderAccessKey, accessKey)
	req.Header.Set(HeaderSignature, "valid_sig")
	req.Header.Set(HeaderTimestamp, strconv.FormatInt(ts, 10))
	req.Header.Set(HeaderNonce, nonce)
	return req
}

func TestHMACAuth_MissingHeaders(t *testing.T) {
	ctrl := gomock.NewController(t)

	router := hmacRouter(mocks.NewMockSignatureService(ctrl), mocks.NewMockNonceStore(ctrl))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/test", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHMACAuth_ExpiredTimestamp(t *testing.T) {
	ctrl := gomock.NewController(t)

	router := hmacRouter(mocks.NewMockSignatureService(ctrl), mocks.NewMockNonceStore(ctrl))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, signedRequest(testCreds.AccessKey, time.Now().Add(-120*time.Second).Unix(), "n-1", ""))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHMACAuth_WrongAccessKey(t *testing.T) {
	ctrl := gomock.NewController(t)

	router := hmacRouter(mocks.NewMockSignatureService(ctrl), mocks.NewMockNonceStore(ctrl))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, signedRequest("ak_other", time.Now().Unix(), "n-1", ""))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "SEC_001")
}

func TestHMACAuth_ReplayedNonce(t *testing.T) {
	ctrl := gomock.NewController(t)
	nonceStore := mocks.NewMockNonceStore(ctrl)
	nonceStore.EXPECT().CheckAndSet(gomock.Any(), testCreds.AccessKey, "n-1", nonceTTL).Return(false, nil)

	router := hmacRouter(mocks.NewMockSignatureService(ctrl), nonceStore)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, signedRequest(testCreds.AccessKey, time.Now().Unix(), "n-1", ""))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "SEC_004")
}

func TestHMACAuth_BadSignature(t *testing.T) {
	ctrl := gomock.NewController(t)
	sigSvc := mocks.NewMockSignatureService(ctrl)
	nonceStore := mocks.NewMockNonceStore(ctrl)

	nonceStore.EXPECT().CheckAndSet(gomock.Any(), testCreds.AccessKey, "n-1", nonceTTL).Return(true, nil)
	sigSvc.EXPECT().BuildCanonicalString("POST", "/test", gomock.Any(), "n-1", "").Return("canonical")
	sigSvc.EXPECT().Verify("raw_secret", "canonical", "valid_sig").Return(false)

	router := hmacRouter(sigSvc, nonceStore)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, signedRequest(testCreds.AccessKey, time.Now().Unix(), "n-1", ""))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "SEC_002")
}

func TestHMACAuth_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	sigSvc := mocks.NewMockSignatureService(ctrl)
	nonceStore := mocks.NewMockNonceStore(ctrl)

	nowTs := time.Now().Unix()
	body := `{"submission":{"id":"sub-1"}}`

	nonceStore.EXPECT().CheckAndSet(gomock.Any(), testCreds.AccessKey, "nonce-ok", nonceTTL).Return(true, nil)
	sigSvc.EXPECT().BuildCanonicalString("POST", "/test", nowTs, "nonce-ok", body).Return("canonical")
	sigSvc.EXPECT().Verify("raw_secret", "canonical", "valid_sig").Return(true)

	var seenBody string
	router := gin.New()
	router.POST("/test", HMACAuth(testCreds, sigSvc, nonceStore, zerolog.Nop()), func(c *gin.Context) {
		b, _ := io.ReadAll(c.Request.Body)
		seenBody = string(b)
		c.JSON(200, gin.H{"client": c.GetString(CtxClientID)})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, signedRequest(testCreds.AccessKey, nowTs, "nonce-ok", body))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, body, seenBody)
	assert.Contains(t, w.Body.String(), testCreds.AccessKey)
}

func TestHMACAuth_NonceStoreDownAllowsRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	sigSvc := mocks.NewMockSignatureService(ctrl)
	nonceStore := mocks.NewMockNonceStore(ctrl)

	nonceStore.EXPECT().CheckAndSet(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, assert.AnError)
	sigSvc.EXPECT().BuildCanonicalString(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("canonical")
	sigSvc.EXPECT().Verify(gomock.Any(), gomock.Any(), gomock.Any()).Return(true)

	w := httptest.NewRecorder()
	hmacRouter(sigSvc, nonceStore).ServeHTTP(w, signedRequest(testCreds.AccessKey, time.Now().Unix(), "n-2", ""))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	ctrl := gomock.NewController(t)
	tokenSvc := mocks.NewMockTokenService(ctrl)

	router := gin.New()
	router.GET("/test", JWTAuth(tokenSvc, zerolog.Nop()), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	tokenSvc := mocks.NewMockTokenService(ctrl)
	tokenSvc.EXPECT().Validate("bad_token").Return(nil, assert.AnError)

	router := gin.New()
	router.GET("/test", JWTAuth(tokenSvc, zerolog.Nop()), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer bad_token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	tokenSvc := mocks.NewMockTokenService(ctrl)
	tokenSvc.EXPECT().Validate("good_token").Return(&ports.TokenClaims{CreatorID: "creator-1"}, nil)

	var captured string
	router := gin.New()
	router.GET("/test", JWTAuth(tokenSvc, zerolog.Nop()), func(c *gin.Context) {
		captured = c.GetString(CtxCreatorID)
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer good_token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "creator-1", captured)
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxRequestID))
	})

	t.Run("propagates incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(HeaderRequestID, "req-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "req-123", w.Body.String())
		assert.Equal(t, "req-123", w.Header().Get(HeaderRequestID))
	})

	t.Run("generates when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Len(t, w.Body.String(), 36)
		assert.Equal(t, w.Body.String(), w.Header().Get(HeaderRequestID))
	})
}

func TestRecovery_PanicRecovered(t *testing.T) {
	router := gin.New()
	router.Use(Recovery(zerolog.Nop()))
	router.GET("/panic", func(c *gin.Context) {
		panic("something went wrong")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "SYS_001", resp["error_code"])
}

func TestMaxBodySize(t *testing.T) {
	tests := []struct {
		name   string
		limit  int64
		body   string
		status int
	}{
		{"under limit", 1024, "hello world", http.StatusOK},
		{"exact limit", 5, "12345", http.StatusOK},
		{"over limit", 16, strings.Repeat("A", 100), http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(MaxBodySize(tt.limit))
			r.POST("/test", func(c *gin.Context) {
				b, err := io.ReadAll(c.Request.Body)
				if err != nil {
					c.String(http.StatusRequestEntityTooLarge, "too large")
					return
				}
				c.String(http.StatusOK, string(b))
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(tt.body)))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
