package response

import "time"

type PizzaResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Ingredients []string  `json:"ingredients"`
	Price       float64   `json:"price"`
	Veg         bool      `json:"veg"`
	Available   bool      `json:"available"`
	Image       *string   `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
