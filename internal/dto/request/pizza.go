package request

type PizzaRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=100"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=500"`
	Ingredients []string `json:"ingredients,omitempty" validate:"omitempty,max=30,dive,min=1,max=50"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Veg         *bool    `json:"veg,omitempty"`
	Available   *bool    `json:"available,omitempty"`
	Image       *string  `json:"image,omitempty" validate:"omitempty,max=500"`
}

type PizzaUpdateRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=500"`
	Ingredients []string `json:"ingredients,omitempty" validate:"omitempty,max=30,dive,min=1,max=50"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	Veg         *bool    `json:"veg,omitempty"`
	Available   *bool    `json:"available,omitempty"`
	Image       *string  `json:"image,omitempty" validate:"omitempty,max=500"`
}

// PizzaQuery carries the listing filters of GET /api/pizzas.
type PizzaQuery struct {
	PaginatedRequest
	Veg       *bool    `json:"veg,omitempty"`
	Available *bool    `json:"available,omitempty"`
	Search    string   `json:"search,omitempty" validate:"max=100"`
	MinPrice  *float64 `json:"min_price,omitempty" validate:"omitempty,gte=0"`
	MaxPrice  *float64 `json:"max_price,omitempty" validate:"omitempty,gte=0"`
	Sort      string   `json:"sort,omitempty" validate:"omitempty,oneof=name price -price newest"`
}
