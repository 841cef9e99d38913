package domain

import "time"

// DoctorSummary is the subset of user fields exposed for practitioners
// (doctors and bacteriologists) in order views.
type DoctorSummary struct {
	DocumentID string `json:"documentID"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
}

// PatientSummary is the subset of user fields exposed for patients.
type PatientSummary struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// OrderDetail is the fully enriched view of a single order. The
// Bacteriologist, ResultDate and ResultID fields are present if and
// only if the source order is complete; for pending orders they are
// omitted from the serialized form entirely.
type OrderDetail struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	ShortName       string         `json:"shortName"`
	IsComplete      bool           `json:"isComplete"`
	Doctor          DoctorSummary  `json:"doctor"`
	Patient         PatientSummary `json:"patient"`
	AppointmentDate time.Time      `json:"appointmentDate"`
	CreatedAt       time.Time      `json:"createdAt"`

	Bacteriologist *DoctorSummary `json:"bacteriologist,omitempty"`
	ResultDate     *time.Time     `json:"resultDate,omitempty"`
	ResultID       *string        `json:"resultId,omitempty"`
}

// OrderSummary is the per-item view for order listings. It carries no
// participant summaries; the conditional result fields follow the same
// presence rule as OrderDetail.
type OrderSummary struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	ShortName       string    `json:"shortName"`
	IsComplete      bool      `json:"isComplete"`
	AppointmentDate time.Time `json:"appointmentDate"`
	CreatedAt       time.Time `json:"createdAt"`

	ResultDate *time.Time `json:"resultDate,omitempty"`
	ResultID   *string    `json:"resultId,omitempty"`
}

// AppointmentDate derives the absolute appointment timestamp for an
// order: creation time plus the exam's scheduled turnaround in days.
func AppointmentDate(order *Order, exam *Exam) time.Time {
	return order.CreatedAt.Add(time.Duration(exam.ScheduledDays) * 24 * time.Hour)
}
