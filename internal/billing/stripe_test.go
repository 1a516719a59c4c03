package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76/webhook"
)

const testWebhookSecret = "whsec_test"

func signed(t *testing.T, payload string) string {
	t.Helper()
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    testWebhookSecret,
		Timestamp: time.Now(),
	}).Header
}

func TestParseWebhook_CheckoutCompleted(t *testing.T) {
	payload := `{
		"id": "evt_1",
		"object": "event",
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_1",
			"object": "checkout.session",
			"customer": "cus_123",
			"subscription": "sub_456",
			"metadata": {"userId": "user-1", "plan": "Growth"}
		}}
	}`

	gw := NewStripeGateway("", testWebhookSecret)
	event, err := gw.ParseWebhook([]byte(payload), signed(t, payload))
	require.NoError(t, err)
	assert.Equal(t, EventCheckoutCompleted, event.Type)
	assert.Equal(t, "cus_123", event.CustomerID)
	assert.Equal(t, "sub_456", event.SubscriptionID)
	assert.Equal(t, "Growth", event.Metadata["plan"])
	assert.Equal(t, "user-1", event.Metadata["userId"])
}

func TestParseWebhook_SubscriptionDeleted(t *testing.T) {
	payload := `{
		"id": "evt_2",
		"object": "event",
		"type": "customer.subscription.deleted",
		"data": {"object": {
			"id": "sub_456",
			"object": "subscription",
			"customer": "cus_123",
			"status": "canceled"
		}}
	}`

	gw := NewStripeGateway("", testWebhookSecret)
	event, err := gw.ParseWebhook([]byte(payload), signed(t, payload))
	require.NoError(t, err)
	assert.Equal(t, "cus_123", event.CustomerID)
	assert.Equal(t, "canceled", event.Status)
}

func TestParseWebhook_BadSignature(t *testing.T) {
	payload := `{"id": "evt_3", "object": "event", "type": "checkout.session.completed", "data": {"object": {}}}`

	gw := NewStripeGateway("", "whsec_other")
	_, err := gw.ParseWebhook([]byte(payload), signed(t, payload))
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = gw.ParseWebhook([]byte(payload), "")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}
