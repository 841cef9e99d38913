package domain

import (
	"encoding/json"
	"time"
)

// Result holds the outcome of a completed order. It is created once,
// after the order, by a bacteriologist (never by the order's creator).
type Result struct {
	ID               string          `json:"id"`
	OrderID          string          `json:"orderId"`
	BacteriologistID string          `json:"bacteriologistId"`
	Payload          json.RawMessage `json:"payload"`
	CreatedAt        time.Time       `json:"createdAt"`
}
