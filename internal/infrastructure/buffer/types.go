package buffer

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Item is a patient message waiting to be replayed into the primary
// store once it is reachable again.
type Item struct {
	ID        string          `json:"id"`
	PatientID string          `json:"patient_id"`
	Data      json.RawMessage `json:"data"`
	Retries   int             `json:"retries"`
	Timestamp time.Time       `json:"timestamp"`

	bucketKey []byte
}

func (i *Item) normalize() {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Timestamp.IsZero() {
		i.Timestamp = time.Now()
	}
}
