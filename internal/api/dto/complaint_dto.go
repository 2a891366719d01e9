package dto

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	Category    string `json:"category"`
	Description string `json:"description"`
}

// UpdateComplaintRequest payload for admin status updates.
type UpdateComplaintRequest struct {
	Status            string `json:"status"`
	ResolutionMessage string `json:"resolutionMessage"`
}

// ComplaintResponse serializes a complaint. List queries join the owning
// user, so FullName carries the owner's name.
type ComplaintResponse struct {
	ID                string    `json:"id"`
	UserID            string    `json:"userId"`
	Category          string    `json:"category"`
	Description       string    `json:"description"`
	SubmissionDate    time.Time `json:"submissionDate"`
	Status            string    `json:"status"`
	ResolutionMessage *string   `json:"resolutionMessage"`
	FullName          string    `json:"fullName,omitempty"`
}

// FromComplaint maps the domain model to its response form.
func FromComplaint(complaint *domain.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:                complaint.ID,
		UserID:            complaint.UserID,
		Category:          complaint.Category,
		Description:       complaint.Description,
		SubmissionDate:    complaint.SubmissionDate,
		Status:            string(complaint.Status),
		ResolutionMessage: complaint.ResolutionMessage,
		FullName:          complaint.OwnerName,
	}
}

// FromComplaints maps a slice, always yielding a non-nil array.
func FromComplaints(complaints []domain.Complaint) []ComplaintResponse {
	items := make([]ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		items = append(items, FromComplaint(&complaints[i]))
	}
	return items
}
