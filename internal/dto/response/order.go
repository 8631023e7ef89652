package response

import (
	"time"

	"pizza-ordering/internal/data/entity"
)

type OrderItemResponse struct {
	PizzaID      string         `json:"pizza_id"`
	Name         string         `json:"name"`
	Quantity     int            `json:"quantity"`
	PriceAtOrder float64        `json:"price_at_order"`
	Subtotal     float64        `json:"subtotal"`
	Pizza        *PizzaResponse `json:"pizza,omitempty"`
}

type StatusChangeResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	UpdatedBy *string   `json:"updated_by,omitempty"`
}

type OrderUserResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type OrderResponse struct {
	ID                    string                 `json:"id"`
	OrderNumber           string                 `json:"order_number"`
	UserID                string                 `json:"user_id"`
	User                  *OrderUserResponse     `json:"user,omitempty"`
	Items                 []OrderItemResponse    `json:"items"`
	Status                string                 `json:"status"`
	StatusHistory         []StatusChangeResponse `json:"status_history"`
	EstimatedDeliveryTime *time.Time             `json:"estimated_delivery_time,omitempty"`
	DeliveryAddress       entity.DeliveryAddress `json:"delivery_address"`
	Pricing               entity.Pricing         `json:"pricing"`
	PaymentStatus         string                 `json:"payment_status"`
	SpecialInstructions   *string                `json:"special_instructions,omitempty"`
	DeliveryNotes         *string                `json:"delivery_notes,omitempty"`
	TotalAmount           float64                `json:"total_amount"`
	CanBeModified         bool                   `json:"can_be_modified"`
	CreatedAt             time.Time              `json:"created_at"`
	UpdatedAt             time.Time              `json:"updated_at"`
}

type WebhookResponse struct {
	OrderID   string   `json:"order_id"`
	Status    string   `json:"status"`
	Applied   []string `json:"applied"`
	Duplicate bool     `json:"duplicate"`
}

type DeliveryEventResponse struct {
	ID         string    `json:"id"`
	Event      string    `json:"event"`
	Status     string    `json:"status"`
	ReportedAt string    `json:"reported_at,omitempty"`
	Outcome    string    `json:"outcome"`
	ReceivedAt time.Time `json:"received_at"`
}
