package gatewayService

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"betcore/models"
)

func TestNewExternalReferenceFormat(t *testing.T) {
	ref := NewExternalReference(42, "ab12cd34")
	assert.Regexp(t, regexp.MustCompile(`^PIX_\d+_42_ab12cd34$`), ref)
}

func TestWebhookPayloadPaidTime(t *testing.T) {
	paidAt := time.Now().UTC().Truncate(time.Second)
	payload := WebhookPayload{
		Event:  "PAYMENT_CONFIRMED",
		PaidAt: paidAt.Format(time.RFC3339),
	}
	got := payload.PaidTime()
	require.NotNil(t, got)
	assert.True(t, got.Equal(paidAt))

	assert.Nil(t, WebhookPayload{Event: "PAYMENT_CONFIRMED"}.PaidTime())
	assert.Nil(t, WebhookPayload{Event: "PAYMENT_CONFIRMED", PaidAt: "not-a-time"}.PaidTime())
}

func TestWebhookPayloadIsPaymentConfirmed(t *testing.T) {
	assert.True(t, WebhookPayload{Event: "PAYMENT_CONFIRMED"}.IsPaymentConfirmed())
	assert.True(t, WebhookPayload{Event: "payment.confirmed"}.IsPaymentConfirmed())
	assert.False(t, WebhookPayload{Event: "PAYMENT_EXPIRED"}.IsPaymentConfirmed())
	assert.False(t, WebhookPayload{}.IsPaymentConfirmed())
}

func TestPixKeyForPassesKeyThroughVerbatim(t *testing.T) {
	chosen := &models.PixDetails{Key: "user@example.com", KeyType: "EMAIL"}
	got := PixKeyFor(chosen, "12345678901")
	assert.Equal(t, "user@example.com", got.Key)
	assert.Equal(t, "EMAIL", got.KeyType)

	fallback := PixKeyFor(nil, "12345678901")
	assert.Equal(t, "12345678901", fallback.Key)
	assert.Equal(t, "CPF", fallback.KeyType)
}
