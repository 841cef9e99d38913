package domain

import "time"

// Message is a notification shown in a patient's feed, e.g. when a test
// has been scheduled for them.
type Message struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patientId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
