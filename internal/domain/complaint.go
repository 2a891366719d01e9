package domain

import (
	"fmt"
	"strings"
	"time"
)

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	StatusSubmitted ComplaintStatus = "Submitted"
	StatusInReview  ComplaintStatus = "In Review"
	StatusResolved  ComplaintStatus = "Resolved"
)

// ParseComplaintStatus validates a status string. Leading/trailing
// whitespace is tolerated because legacy rows carried padded values.
func ParseComplaintStatus(s string) (ComplaintStatus, error) {
	switch ComplaintStatus(strings.TrimSpace(s)) {
	case StatusSubmitted:
		return StatusSubmitted, nil
	case StatusInReview:
		return StatusInReview, nil
	case StatusResolved:
		return StatusResolved, nil
	default:
		return "", fmt.Errorf("unknown complaint status %q", s)
	}
}

// rank orders statuses along the lifecycle.
var statusRank = map[ComplaintStatus]int{
	StatusSubmitted: 0,
	StatusInReview:  1,
	StatusResolved:  2,
}

// CanTransition reports whether moving from one status to another is legal.
// The lifecycle is forward-only; skipping a stage is allowed, and staying
// on the same status is allowed so the resolution message can be amended.
func CanTransition(from, to ComplaintStatus) bool {
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank >= fromRank
}

// ActiveStatuses are the statuses shown on the admin triage view.
func ActiveStatuses() []ComplaintStatus {
	return []ComplaintStatus{StatusSubmitted, StatusInReview}
}

// Complaint is the aggregate for a single submitted complaint. UserID and
// SubmissionDate never change after creation.
type Complaint struct {
	ID                string
	UserID            string
	Category          string
	Description       string
	SubmissionDate    time.Time
	Status            ComplaintStatus
	ResolutionMessage *string

	// OwnerName is populated by list queries that join the owning user;
	// it is not a stored column of the complaint itself.
	OwnerName string
}
