package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// ComplaintsHandler manages complaint endpoints for users and admins.
type ComplaintsHandler struct {
	service *service.ComplaintService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{service: complaintService}
}

// Create POST /api/complaints.
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("please sign in")
	}
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	complaint, err := h.service.Create(c.UserContext(), principal.UserID, principal.Role, req.Category, req.Description)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Complaint submitted successfully!",
		"data":    dto.FromComplaint(complaint),
	})
}

// ListActive GET /api/complaints/active.
func (h *ComplaintsHandler) ListActive(c *fiber.Ctx) error {
	complaints, err := h.service.ListActive(c.UserContext(), parseSortOrder(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromComplaints(complaints))
}

// ListHistory GET /api/complaints/history.
func (h *ComplaintsHandler) ListHistory(c *fiber.Ctx) error {
	complaints, err := h.service.ListHistory(c.UserContext(), parseSortOrder(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromComplaints(complaints))
}

// ListMine GET /api/user/complaints.
func (h *ComplaintsHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("please sign in")
	}
	complaints, err := h.service.ListMine(c.UserContext(), principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromComplaints(complaints))
}

// UpdateStatus PUT /api/complaints/:id.
func (h *ComplaintsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("please sign in")
	}
	var req dto.UpdateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	complaint, err := h.service.UpdateStatus(c.UserContext(), principal.UserID, c.Params("id"), req.Status, req.ResolutionMessage)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Status updated successfully!",
		"data":    dto.FromComplaint(complaint),
	})
}

// sort=old lists oldest first; anything else is newest first.
func parseSortOrder(c *fiber.Ctx) repository.SortOrder {
	if c.Query("sort") == "old" {
		return repository.SortOldestFirst
	}
	return repository.SortNewestFirst
}
