package mercadopago

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signManifest(secret, dataID, requestID, ts string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "id:%s;request-id:%s;ts:%s;", dataID, requestID, ts)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	secret := "whsec-test"
	v1 := signManifest(secret, "mp-123", "req-1", "1700000000")
	header := "ts=1700000000,v1=" + v1

	assert.True(t, VerifyWebhookSignature(secret, header, "req-1", "mp-123"))

	// qualquer componente divergente invalida
	assert.False(t, VerifyWebhookSignature(secret, header, "req-1", "mp-999"))
	assert.False(t, VerifyWebhookSignature(secret, header, "req-2", "mp-123"))
	assert.False(t, VerifyWebhookSignature("outra-chave", header, "req-1", "mp-123"))
}

func TestVerifyWebhookSignatureMalformedHeader(t *testing.T) {
	assert.False(t, VerifyWebhookSignature("whsec-test", "", "req-1", "mp-123"))
	assert.False(t, VerifyWebhookSignature("whsec-test", "ts=1700000000", "req-1", "mp-123"))
	assert.False(t, VerifyWebhookSignature("whsec-test", "v1=deadbeef", "req-1", "mp-123"))
}
