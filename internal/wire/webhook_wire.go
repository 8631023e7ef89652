package wire

import (
	"pizza-ordering/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// The webhook authenticates with its shared secret, not a user token.
func wireWebhook(r chi.Router, webhookHandler *adaptor.WebhookHandler) {
	r.Post("/api/webhook/delivery-update", webhookHandler.DeliveryUpdate)
}
