package request

import (
	"time"

	"pizza-ordering/internal/data/entity"
)

type OrderItemRequest struct {
	PizzaID  string `json:"pizza_id" validate:"required,uuid"`
	Name     string `json:"name,omitempty" validate:"max=100"`
	Quantity int    `json:"quantity"`
	// Price is the unit price the client saw; checked against the catalog.
	Price    *float64 `json:"price,omitempty"`
	Subtotal *float64 `json:"subtotal,omitempty"`
}

type PricingRequest struct {
	Subtotal    float64 `json:"subtotal"`
	Tax         float64 `json:"tax"`
	DeliveryFee float64 `json:"delivery_fee"`
	Total       float64 `json:"total"`
}

type CreateOrderRequest struct {
	Items               []OrderItemRequest     `json:"items" validate:"required,min=1,max=50,dive"`
	DeliveryAddress     entity.DeliveryAddress `json:"delivery_address"`
	SpecialInstructions *string                `json:"special_instructions,omitempty" validate:"omitempty,max=500"`
	DeliveryNotes       *string                `json:"delivery_notes,omitempty" validate:"omitempty,max=200"`
	Pricing             *PricingRequest        `json:"pricing,omitempty"`
	TotalAmount         *float64               `json:"total_amount,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed preparing out_for_delivery delivered cancelled"`
}

type DeliveryNotesRequest struct {
	DeliveryNotes *string `json:"delivery_notes" validate:"omitempty,max=200"`
}

// OrderQuery carries the listing filters of the order endpoints.
type OrderQuery struct {
	PaginatedRequest
	Status string     `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed preparing out_for_delivery delivered cancelled"`
	From   *time.Time `json:"from,omitempty"`
	To     *time.Time `json:"to,omitempty"`
}
