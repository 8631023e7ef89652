package request

// DeliveryWebhookRequest accepts the nested {event, data:{...}} shape as well
// as the flat {orderId, status} shape.
type DeliveryWebhookRequest struct {
	Event string               `json:"event"`
	Data  *DeliveryWebhookData `json:"data,omitempty"`

	DeliveryWebhookData
}

type DeliveryWebhookData struct {
	OrderID   string `json:"orderId"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Payload returns the nested data when present, otherwise the flat fields.
func (r *DeliveryWebhookRequest) Payload() DeliveryWebhookData {
	if r.Data != nil && (r.Data.OrderID != "" || r.Data.Status != "") {
		return *r.Data
	}
	return r.DeliveryWebhookData
}
