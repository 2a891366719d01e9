package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// ComplaintService implements the complaint lifecycle. Role gating happens
// at the router; services receive an already-authorized identity.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	dispatcher events.Dispatcher
}

// NewComplaintService builds the service.
func NewComplaintService(complaints repository.ComplaintRepository, dispatcher events.Dispatcher) *ComplaintService {
	return &ComplaintService{complaints: complaints, dispatcher: dispatcher}
}

// Create submits a new complaint owned by the caller.
func (s *ComplaintService) Create(ctx context.Context, userID string, role domain.Role, category, description string) (*domain.Complaint, error) {
	category = strings.TrimSpace(category)
	description = strings.TrimSpace(description)
	if category == "" || description == "" {
		return nil, apperrors.NewValidationError("category and description are required", nil)
	}

	complaint := &domain.Complaint{
		ID:             uuid.NewString(),
		UserID:         userID,
		Category:       category,
		Description:    description,
		SubmissionDate: time.Now(),
		Status:         domain.StatusSubmitted,
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		ID:          uuid.NewString(),
		Type:        events.EventComplaintCreated,
		ComplaintID: complaint.ID,
		Actor:       events.Actor{UserID: userID, Role: role},
		Timestamp:   time.Now(),
		Payload: events.ComplaintCreatedPayload{
			Category:    complaint.Category,
			Description: complaint.Description,
		},
	})
	return complaint, nil
}

// ListActive returns complaints still awaiting triage or review.
func (s *ComplaintService) ListActive(ctx context.Context, order repository.SortOrder) ([]domain.Complaint, error) {
	complaints, err := s.complaints.ListByStatuses(ctx, domain.ActiveStatuses(), order)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return complaints, nil
}

// ListHistory returns resolved complaints.
func (s *ComplaintService) ListHistory(ctx context.Context, order repository.SortOrder) ([]domain.Complaint, error) {
	complaints, err := s.complaints.ListByStatuses(ctx, []domain.ComplaintStatus{domain.StatusResolved}, order)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return complaints, nil
}

// ListMine returns the caller's own complaints, newest first.
func (s *ComplaintService) ListMine(ctx context.Context, userID string) ([]domain.Complaint, error) {
	complaints, err := s.complaints.ListByOwner(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return complaints, nil
}

// UpdateStatus moves a complaint along its lifecycle. The lifecycle is
// forward-only; attempts to move backwards are rejected. Re-applying the
// current status is allowed so the resolution message can be amended.
func (s *ComplaintService) UpdateStatus(ctx context.Context, actorID string, complaintID, newStatusRaw, resolutionMessage string) (*domain.Complaint, error) {
	newStatus, err := domain.ParseComplaintStatus(newStatusRaw)
	if err != nil {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": newStatusRaw})
	}

	complaint, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"id": complaintID})
		}
		return nil, apperrors.MapError(err)
	}

	oldStatus := complaint.Status
	// Rows predating transition enforcement may carry values outside the
	// enum; those are allowed to move anywhere rather than being wedged.
	if current, parseErr := domain.ParseComplaintStatus(string(complaint.Status)); parseErr == nil {
		if !domain.CanTransition(current, newStatus) {
			return nil, apperrors.NewValidationError("illegal status transition", map[string]any{
				"from": string(current),
				"to":   string(newStatus),
			})
		}
	}

	var resolution *string
	if trimmed := strings.TrimSpace(resolutionMessage); trimmed != "" {
		resolution = &trimmed
	}

	if err := s.complaints.UpdateStatus(ctx, complaintID, newStatus, resolution); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"id": complaintID})
		}
		return nil, apperrors.MapError(err)
	}

	complaint.Status = newStatus
	complaint.ResolutionMessage = resolution

	s.publish(ctx, events.Event{
		ID:          uuid.NewString(),
		Type:        events.EventComplaintStatusChanged,
		ComplaintID: complaint.ID,
		Actor:       events.Actor{UserID: actorID, Role: domain.RoleAdmin},
		Timestamp:   time.Now(),
		Payload: events.ComplaintStatusChangedPayload{
			OldStatus:         oldStatus,
			NewStatus:         newStatus,
			ResolutionMessage: resolutionMessage,
		},
	})
	if newStatus == domain.StatusResolved {
		s.publish(ctx, events.Event{
			ID:          uuid.NewString(),
			Type:        events.EventComplaintResolved,
			ComplaintID: complaint.ID,
			Actor:       events.Actor{UserID: actorID, Role: domain.RoleAdmin},
			Timestamp:   time.Now(),
			Payload: events.ComplaintResolvedPayload{
				ResolutionMessage: resolutionMessage,
			},
		})
	}
	return complaint, nil
}

func (s *ComplaintService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
