package entity

import "time"

// DeliveryEvent is the archived raw body of one delivery webhook call.
type DeliveryEvent struct {
	ID         string    `bson:"_id"`
	Event      string    `bson:"event"`
	OrderID    string    `bson:"order_id"`
	Status     string    `bson:"status"`
	ReportedAt string    `bson:"reported_at,omitempty"`
	Outcome    string    `bson:"outcome"`
	Raw        string    `bson:"raw"`
	ReceivedAt time.Time `bson:"received_at"`
}

const (
	DeliveryOutcomeApplied   = "applied"
	DeliveryOutcomeDuplicate = "duplicate"
	DeliveryOutcomeRejected  = "rejected"
)
