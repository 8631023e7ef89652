package response

// AdminOrdersResponse keeps the {orders, pagination} shape of the admin dashboard.
type AdminOrdersResponse struct {
	Orders     []OrderResponse `json:"orders"`
	Pagination PaginationMeta  `json:"pagination"`
}

type StatusSummary struct {
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
}

type SummaryResponse struct {
	TotalOrders int64                    `json:"total_orders"`
	TotalUsers  int64                    `json:"total_users"`
	TotalPizzas int64                    `json:"total_pizzas"`
	Revenue     float64                  `json:"revenue"`
	ByStatus    map[string]StatusSummary `json:"by_status"`
}
