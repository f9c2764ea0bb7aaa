package paymentControllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testSecret = "whsec_test_secret"

func TestVerifyWebhookSignatureValid(t *testing.T) {
	payload := []byte(`{"type":"checkout.session.completed"}`)
	now := time.Now()
	header := SignPayload(payload, testSecret, now)

	assert.NoError(t, VerifyWebhookSignature(payload, header, testSecret, now))
}

func TestVerifyWebhookSignatureTamperedPayload(t *testing.T) {
	payload := []byte(`{"amount_total":18000}`)
	now := time.Now()
	header := SignPayload(payload, testSecret, now)

	tampered := []byte(`{"amount_total":1}`)
	assert.ErrorIs(t, VerifyWebhookSignature(tampered, header, testSecret, now), ErrInvalidSignature)
}

func TestVerifyWebhookSignatureWrongSecret(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Now()
	header := SignPayload(payload, "whsec_other", now)

	assert.ErrorIs(t, VerifyWebhookSignature(payload, header, testSecret, now), ErrInvalidSignature)
}

func TestVerifyWebhookSignatureMissingHeader(t *testing.T) {
	assert.ErrorIs(t, VerifyWebhookSignature([]byte(`{}`), "", testSecret, time.Now()), ErrMissingSignature)
}

func TestVerifyWebhookSignatureGarbageHeader(t *testing.T) {
	assert.ErrorIs(t, VerifyWebhookSignature([]byte(`{}`), "not-a-signature", testSecret, time.Now()), ErrInvalidSignature)
}

func TestVerifyWebhookSignatureStaleTimestamp(t *testing.T) {
	payload := []byte(`{}`)
	signedAt := time.Now().Add(-SignatureTolerance - time.Minute)
	header := SignPayload(payload, testSecret, signedAt)

	assert.ErrorIs(t, VerifyWebhookSignature(payload, header, testSecret, time.Now()), ErrStaleSignature)
}

func TestVerifyWebhookSignatureAcceptsExtraV1Candidates(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Now()
	header := SignPayload(payload, testSecret, now)

	// A secret rotation can put several v1 candidates in one header; any
	// matching candidate must be accepted.
	assert.NoError(t, VerifyWebhookSignature(payload, header+",v1=deadbeef", testSecret, now))
	assert.NoError(t, VerifyWebhookSignature(payload, "v1=deadbeef,"+header, testSecret, now))
}
