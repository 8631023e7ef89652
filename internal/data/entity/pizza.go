package entity

type Pizza struct {
	BaseNoDelete
	Name        string   `db:"name"`
	Description *string  `db:"description"`
	Ingredients []string `db:"ingredients"`
	Price       float64  `db:"price"`
	Veg         bool     `db:"veg"`
	Available   bool     `db:"available"`
	Image       *string  `db:"image"`
}
