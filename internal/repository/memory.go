package repository

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// In-memory implementations back the service when no POSTGRES_DSN is
// configured, and double as test fixtures. Not-found is reported as
// pgx.ErrNoRows so callers handle both backends identically.

type memoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]domain.User
	byEmail map[string]string
}

// NewMemoryUserRepository returns a map-backed UserRepository.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

// ErrDuplicateEmail reports a unique-email violation from the store.
var ErrDuplicateEmail = errors.New("email already registered")

func (r *memoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := r.byEmail[key]; exists {
		return ErrDuplicateEmail
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	r.byID[user.ID] = *user
	r.byEmail[key] = user.ID
	return nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *memoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	user := r.byID[id]
	return &user, nil
}

type memoryComplaintRepository struct {
	mu    sync.RWMutex
	byID  map[string]domain.Complaint
	users UserRepository
}

// NewMemoryComplaintRepository returns a map-backed ComplaintRepository.
// The user repository is consulted to fill OwnerName on list queries,
// mirroring the SQL join.
func NewMemoryComplaintRepository(users UserRepository) ComplaintRepository {
	return &memoryComplaintRepository{
		byID:  make(map[string]domain.Complaint),
		users: users,
	}
}

func (r *memoryComplaintRepository) Create(_ context.Context, complaint *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[complaint.ID] = *complaint
	return nil
}

func (r *memoryComplaintRepository) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	complaint, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &complaint, nil
}

func (r *memoryComplaintRepository) UpdateStatus(_ context.Context, id string, status domain.ComplaintStatus, resolutionMessage *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	complaint, ok := r.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	complaint.Status = status
	complaint.ResolutionMessage = resolutionMessage
	r.byID[id] = complaint
	return nil
}

func (r *memoryComplaintRepository) ListByOwner(ctx context.Context, userID string) ([]domain.Complaint, error) {
	r.mu.RLock()
	var result []domain.Complaint
	for _, complaint := range r.byID {
		if complaint.UserID == userID {
			result = append(result, complaint)
		}
	}
	r.mu.RUnlock()

	r.fillOwnerNames(ctx, result)
	sortBySubmissionDate(result, SortNewestFirst)
	return result, nil
}

func (r *memoryComplaintRepository) ListByStatuses(ctx context.Context, statuses []domain.ComplaintStatus, order SortOrder) ([]domain.Complaint, error) {
	wanted := make(map[domain.ComplaintStatus]struct{}, len(statuses))
	for _, status := range statuses {
		wanted[status] = struct{}{}
	}

	r.mu.RLock()
	var result []domain.Complaint
	for _, complaint := range r.byID {
		trimmed := domain.ComplaintStatus(strings.TrimSpace(string(complaint.Status)))
		if _, ok := wanted[trimmed]; ok {
			result = append(result, complaint)
		}
	}
	r.mu.RUnlock()

	r.fillOwnerNames(ctx, result)
	sortBySubmissionDate(result, order)
	return result, nil
}

func (r *memoryComplaintRepository) fillOwnerNames(ctx context.Context, complaints []domain.Complaint) {
	for i := range complaints {
		if user, err := r.users.GetByID(ctx, complaints[i].UserID); err == nil {
			complaints[i].OwnerName = user.FullName
		}
	}
}

func sortBySubmissionDate(complaints []domain.Complaint, order SortOrder) {
	sort.SliceStable(complaints, func(i, j int) bool {
		if order == SortOldestFirst {
			return complaints[i].SubmissionDate.Before(complaints[j].SubmissionDate)
		}
		return complaints[i].SubmissionDate.After(complaints[j].SubmissionDate)
	})
}
