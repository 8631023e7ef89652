package adaptor

import (
	"io"
	"net/http"

	"pizza-ordering/internal/usecase"
	"pizza-ordering/pkg/utils"

	"go.uber.org/zap"
)

const maxWebhookBody = 64 << 10

type WebhookHandler struct {
	service usecase.WebhookService
	log     *zap.Logger
}

func NewWebhookHandler(service usecase.WebhookService, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		log:     log.With(zap.String("handler", "webhook")),
	}
}

// DeliveryUpdate handles POST /api/webhook/delivery-update
func (h *WebhookHandler) DeliveryUpdate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.HandleDeliveryUpdate(r.Context(), r.Header.Get("X-Webhook-Secret"), body)
	if err != nil {
		handleServiceError(w, h.log, err, "handle delivery update")
		return
	}

	message := "Delivery update applied"
	if result.Duplicate {
		message = "Duplicate delivery update ignored"
	}
	utils.ResponseSuccess(w, message, result)
}
