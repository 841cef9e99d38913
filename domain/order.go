package domain

import "time"

// Order is a lab test requested by a doctor for a patient. An order is
// written once and mutated exactly once, when a result is attached:
// that mutation sets ResultID and flips IsComplete. ResultID is set if
// and only if IsComplete is true.
type Order struct {
	ID         string    `json:"id"`
	PatientID  string    `json:"patientId"`
	DoctorID   string    `json:"doctorId"`
	ExamTypeID string    `json:"examTypeId"`
	IsComplete bool      `json:"isComplete"`
	ResultID   *string   `json:"resultId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
