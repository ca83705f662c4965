package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHMACSignatureService_SignAndVerify(t *testing.T) {
	svc := NewHMACSignatureService()
	secretKey := "marketplace-secret"
	payload := svc.BuildCanonicalString("POST", "/api/v1/settlements", 1708092000, "abc123nonce", `{"submission":{"id":"sub-1"}}`)

	signature := svc.Sign(secretKey, payload)

	assert.Regexp(t, `^[0-9a-f]{64}$`, signature)
	assert.True(t, svc.Verify(secretKey, payload, signature))
	assert.True(t, svc.Verify(secretKey, payload, strings.ToUpper(signature)), "hex case is not significant")
}

func TestHMACSignatureService_VerifyFails_WrongKey(t *testing.T) {
	svc := NewHMACSignatureService()
	payload := "test payload"

	signature := svc.Sign("correct-key", payload)
	assert.False(t, svc.Verify("wrong-key", payload, signature))
}

func TestHMACSignatureService_VerifyFails_TamperedBody(t *testing.T) {
	svc := NewHMACSignatureService()
	secret := "k"

	signed := svc.BuildCanonicalString("POST", "/api/v1/settlements", 1, "n", `{"bonus_amount":0}`)
	tampered := svc.BuildCanonicalString("POST", "/api/v1/settlements", 1, "n", `{"bonus_amount":9999}`)

	assert.False(t, svc.Verify(secret, tampered, svc.Sign(secret, signed)))
}

func TestHMACSignatureService_BuildCanonicalString(t *testing.T) {
	svc := NewHMACSignatureService()

	got := svc.BuildCanonicalString("get", "/api/v1/accounts/brand-1/transactions", 1708092000, "nonce-1", "")

	// sha256("")
	assert.Equal(t,
		"GET\n/api/v1/accounts/brand-1/transactions\n1708092000\nnonce-1\n"+
			"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		got)
}
