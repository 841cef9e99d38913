package transport

import (
	"encoding/json"

	"github.com/halahlab/backend/usecase/provisioning"
)

// UserUpdateRequest carries a partial user update; absent fields stay untouched.
type UserUpdateRequest struct {
	FirstName  *string `json:"firstName"`
	LastName   *string `json:"lastName"`
	DocumentID *string `json:"documentID"`
	Email      *string `json:"email"`
	Role       *string `json:"role"`
	IsActive   *bool   `json:"isActive"`
}

type OrderCreateRequest struct {
	PatientID  string `json:"patientId"`
	DoctorID   string `json:"doctorId"`
	ExamTypeID string `json:"examTypeId"`
}

type ResultAttachRequest struct {
	BacteriologistID string          `json:"bacteriologistId"`
	Payload          json.RawMessage `json:"payload"`
}

// BulkUserItem is the wire form of one bulk-creation outcome. Successes
// carry id and username; failures echo the rejected input, its index
// and the reason. Error discriminates the two shapes.
type BulkUserItem struct {
	ID       string                    `json:"id,omitempty"`
	Username string                    `json:"username,omitempty"`
	User     *provisioning.CreateInput `json:"user,omitempty"`
	Index    *int                      `json:"index,omitempty"`
	Reason   string                    `json:"reason,omitempty"`
	Error    bool                      `json:"error"`
}

// NewBulkUserItems maps service-level bulk results to their wire form,
// preserving order.
func NewBulkUserItems(results []provisioning.BulkResult) []BulkUserItem {
	items := make([]BulkUserItem, len(results))
	for i, r := range results {
		if r.Failed() {
			failure := r.Failure
			items[i] = BulkUserItem{
				User:   &failure.Input,
				Index:  &failure.Index,
				Reason: failure.Reason,
				Error:  true,
			}
			continue
		}
		items[i] = BulkUserItem{
			ID:       r.Created.ID,
			Username: r.Created.Username,
		}
	}
	return items
}
