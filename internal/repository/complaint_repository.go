package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// SortOrder controls list ordering by submission date.
type SortOrder int

const (
	SortNewestFirst SortOrder = iota
	SortOldestFirst
)

func (o SortOrder) direction() string {
	if o == SortOldestFirst {
		return "ASC"
	}
	return "DESC"
}

// ComplaintRepository encapsulates complaint persistence.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus, resolutionMessage *string) error
	ListByOwner(ctx context.Context, userID string) ([]domain.Complaint, error)
	ListByStatuses(ctx context.Context, statuses []domain.ComplaintStatus, order SortOrder) ([]domain.Complaint, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (id, user_id, category, description, submission_date, status, resolution_message)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := r.pool.Exec(ctx, query,
		complaint.ID,
		complaint.UserID,
		complaint.Category,
		complaint.Description,
		complaint.SubmissionDate,
		complaint.Status,
		complaint.ResolutionMessage,
	)
	return err
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	const query = `
        SELECT id, user_id, category, description, submission_date, status, resolution_message
        FROM complaints WHERE id=$1`

	var complaint domain.Complaint
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&complaint.ID,
		&complaint.UserID,
		&complaint.Category,
		&complaint.Description,
		&complaint.SubmissionDate,
		&complaint.Status,
		&complaint.ResolutionMessage,
	); err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus, resolutionMessage *string) error {
	const query = `
        UPDATE complaints SET status=$1, resolution_message=$2 WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, status, resolutionMessage, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *complaintRepository) ListByOwner(ctx context.Context, userID string) ([]domain.Complaint, error) {
	const query = `
        SELECT c.id, c.user_id, c.category, c.description, c.submission_date, c.status, c.resolution_message, u.full_name
        FROM complaints c
        JOIN users u ON c.user_id = u.id
        WHERE c.user_id=$1
        ORDER BY c.submission_date DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func (r *complaintRepository) ListByStatuses(ctx context.Context, statuses []domain.ComplaintStatus, order SortOrder) ([]domain.Complaint, error) {
	// Legacy rows carry padded status values, hence the TRIM.
	base := `
        SELECT c.id, c.user_id, c.category, c.description, c.submission_date, c.status, c.resolution_message, u.full_name
        FROM complaints c
        JOIN users u ON c.user_id = u.id
        WHERE TRIM(c.status) = ANY($1)`

	values := make([]string, 0, len(statuses))
	for _, status := range statuses {
		values = append(values, string(status))
	}

	query := fmt.Sprintf("%s ORDER BY c.submission_date %s", base, order.direction())
	rows, err := r.pool.Query(ctx, query, values)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func scanComplaints(rows pgx.Rows) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for rows.Next() {
		var complaint domain.Complaint
		if err := rows.Scan(
			&complaint.ID,
			&complaint.UserID,
			&complaint.Category,
			&complaint.Description,
			&complaint.SubmissionDate,
			&complaint.Status,
			&complaint.ResolutionMessage,
			&complaint.OwnerName,
		); err != nil {
			return nil, err
		}
		result = append(result, complaint)
	}
	return result, rows.Err()
}
