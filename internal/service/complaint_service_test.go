package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

type complaintFixture struct {
	svc        *ComplaintService
	users      repository.UserRepository
	complaints repository.ComplaintRepository
	dispatcher events.Dispatcher
}

func newComplaintFixture(t *testing.T) *complaintFixture {
	t.Helper()
	users := repository.NewMemoryUserRepository()
	complaints := repository.NewMemoryComplaintRepository(users)
	dispatcher := events.NewInMemoryDispatcher()
	return &complaintFixture{
		svc:        NewComplaintService(complaints, dispatcher),
		users:      users,
		complaints: complaints,
		dispatcher: dispatcher,
	}
}

func (f *complaintFixture) addUser(t *testing.T, name, email string) *domain.User {
	t.Helper()
	user := &domain.User{FullName: name, Email: email, PasswordHash: "x", Role: domain.RoleUser}
	if err := f.users.Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestCreateComplaintValidation(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()
	user := f.addUser(t, "Alice", "alice@x.com")

	cases := []struct {
		name                  string
		category, description string
	}{
		{"missing category", "", "wrong charge"},
		{"missing description", "Billing", ""},
		{"whitespace only", "  ", "  "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, user.ID, user.Role, tc.category, tc.description)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if got := apperrors.ToDomainError(err).HTTPStatus; got != 400 {
				t.Fatalf("expected 400, got %d", got)
			}
		})
	}
}

func TestCreateComplaintDefaults(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()
	user := f.addUser(t, "Alice", "alice@x.com")

	var created []events.Event
	f.dispatcher.Subscribe(events.EventComplaintCreated, func(_ context.Context, e events.Event) error {
		created = append(created, e)
		return nil
	})

	complaint, err := f.svc.Create(ctx, user.ID, user.Role, "Billing", "wrong charge")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if complaint.ID == "" {
		t.Fatal("expected generated id")
	}
	if complaint.Status != domain.StatusSubmitted {
		t.Fatalf("expected Submitted, got %q", complaint.Status)
	}
	if complaint.UserID != user.ID {
		t.Fatalf("owner mismatch: %q", complaint.UserID)
	}
	if complaint.SubmissionDate.IsZero() {
		t.Fatal("submission date not set")
	}
	if len(created) != 1 || created[0].ComplaintID != complaint.ID {
		t.Fatalf("expected one created event for %s, got %+v", complaint.ID, created)
	}
}

func TestListMineIsolation(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "Alice", "alice@x.com")
	bob := f.addUser(t, "Bob", "bob@x.com")

	complaint, err := f.svc.Create(ctx, alice.ID, alice.Role, "Billing", "wrong charge")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	mine, err := f.svc.ListMine(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != complaint.ID {
		t.Fatalf("alice should see exactly her complaint, got %+v", mine)
	}

	others, err := f.svc.ListMine(ctx, bob.ID)
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(others) != 0 {
		t.Fatalf("bob should see nothing, got %+v", others)
	}
}

func TestListActiveAndHistoryPartition(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()
	user := f.addUser(t, "Alice", "alice@x.com")

	open, err := f.svc.Create(ctx, user.ID, user.Role, "Billing", "wrong charge")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	reviewing, err := f.svc.Create(ctx, user.ID, user.Role, "Service", "late delivery")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	done, err := f.svc.Create(ctx, user.ID, user.Role, "Account", "cannot log in")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := f.svc.UpdateStatus(ctx, "admin-1", reviewing.ID, "In Review", ""); err != nil {
		t.Fatalf("move to review: %v", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, "admin-1", done.ID, "Resolved", "fixed"); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	active, err := f.svc.ListActive(ctx, repository.SortNewestFirst)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	activeIDs := idSet(active)
	if len(active) != 2 || !activeIDs[open.ID] || !activeIDs[reviewing.ID] {
		t.Fatalf("active should hold the submitted and in-review complaints, got %+v", activeIDs)
	}
	for _, c := range active {
		if c.Status == domain.StatusResolved {
			t.Fatalf("active list leaked a resolved complaint: %+v", c)
		}
		if c.OwnerName != "Alice" {
			t.Fatalf("expected joined owner name, got %q", c.OwnerName)
		}
	}

	history, err := f.svc.ListHistory(ctx, repository.SortNewestFirst)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(history) != 1 || history[0].ID != done.ID {
		t.Fatalf("history should hold only the resolved complaint, got %+v", history)
	}
	if history[0].ResolutionMessage == nil || *history[0].ResolutionMessage != "fixed" {
		t.Fatalf("resolution message lost: %+v", history[0].ResolutionMessage)
	}
}

func TestListActiveSortOrder(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()
	user := f.addUser(t, "Alice", "alice@x.com")

	older := &domain.Complaint{
		ID: "c-old", UserID: user.ID, Category: "Billing", Description: "first",
		SubmissionDate: time.Now().Add(-2 * time.Hour), Status: domain.StatusSubmitted,
	}
	newer := &domain.Complaint{
		ID: "c-new", UserID: user.ID, Category: "Billing", Description: "second",
		SubmissionDate: time.Now().Add(-time.Hour), Status: domain.StatusSubmitted,
	}
	for _, c := range []*domain.Complaint{older, newer} {
		if err := f.complaints.Create(ctx, c); err != nil {
			t.Fatalf("seed complaint: %v", err)
		}
	}

	newest, err := f.svc.ListActive(ctx, repository.SortNewestFirst)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if newest[0].ID != "c-new" || newest[1].ID != "c-old" {
		t.Fatalf("newest-first order wrong: %s, %s", newest[0].ID, newest[1].ID)
	}

	oldest, err := f.svc.ListActive(ctx, repository.SortOldestFirst)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if oldest[0].ID != "c-old" || oldest[1].ID != "c-new" {
		t.Fatalf("oldest-first order wrong: %s, %s", oldest[0].ID, oldest[1].ID)
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()

	_, err := f.svc.UpdateStatus(ctx, "admin-1", "missing-id", "Resolved", "refunded")
	if err == nil {
		t.Fatal("expected not found")
	}
	if got := apperrors.ToDomainError(err).HTTPStatus; got != 404 {
		t.Fatalf("expected 404, got %d", got)
	}
	if _, err := f.complaints.GetByID(ctx, "missing-id"); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("nothing should have been created, got err=%v", err)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()
	user := f.addUser(t, "Alice", "alice@x.com")

	complaint, err := f.svc.Create(ctx, user.ID, user.Role, "Billing", "wrong charge")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, "admin-1", complaint.ID, "Resolved", "refunded"); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	// backward moves are rejected and mutate nothing
	_, err = f.svc.UpdateStatus(ctx, "admin-1", complaint.ID, "Submitted", "")
	if err == nil {
		t.Fatal("backward transition accepted")
	}
	if got := apperrors.ToDomainError(err).HTTPStatus; got != 400 {
		t.Fatalf("expected 400, got %d", got)
	}
	stored, err := f.complaints.GetByID(ctx, complaint.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != domain.StatusResolved {
		t.Fatalf("status mutated by rejected transition: %q", stored.Status)
	}

	// unknown status strings are rejected
	_, err = f.svc.UpdateStatus(ctx, "admin-1", complaint.ID, "Escalated", "")
	if err == nil {
		t.Fatal("unknown status accepted")
	}
	if got := apperrors.ToDomainError(err).HTTPStatus; got != 400 {
		t.Fatalf("expected 400 for unknown status, got %d", got)
	}

	// re-applying the current status amends the resolution message
	updated, err := f.svc.UpdateStatus(ctx, "admin-1", complaint.ID, "Resolved", "refunded in full")
	if err != nil {
		t.Fatalf("amend resolution: %v", err)
	}
	if updated.ResolutionMessage == nil || *updated.ResolutionMessage != "refunded in full" {
		t.Fatalf("resolution not amended: %+v", updated.ResolutionMessage)
	}
}

func TestUpdateStatusPublishesEvent(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()
	user := f.addUser(t, "Alice", "alice@x.com")

	var changes []events.ComplaintStatusChangedPayload
	f.dispatcher.Subscribe(events.EventComplaintStatusChanged, func(_ context.Context, e events.Event) error {
		if payload, ok := e.Payload.(events.ComplaintStatusChangedPayload); ok {
			changes = append(changes, payload)
		}
		return nil
	})

	complaint, err := f.svc.Create(ctx, user.ID, user.Role, "Billing", "wrong charge")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, "admin-1", complaint.ID, "Resolved", "refunded"); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if len(changes) != 1 {
		t.Fatalf("expected one status-changed event, got %d", len(changes))
	}
	if changes[0].OldStatus != domain.StatusSubmitted || changes[0].NewStatus != domain.StatusResolved {
		t.Fatalf("unexpected payload: %+v", changes[0])
	}
}

func TestResolutionPublishesResolvedEvent(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()
	user := f.addUser(t, "Alice", "alice@x.com")

	var seen []events.EventType
	var resolved []events.ComplaintResolvedPayload
	record := func(_ context.Context, e events.Event) error {
		seen = append(seen, e.Type)
		if payload, ok := e.Payload.(events.ComplaintResolvedPayload); ok {
			resolved = append(resolved, payload)
		}
		return nil
	}
	for _, eventType := range []events.EventType{
		events.EventComplaintCreated,
		events.EventComplaintStatusChanged,
		events.EventComplaintResolved,
	} {
		f.dispatcher.Subscribe(eventType, record)
	}

	complaint, err := f.svc.Create(ctx, user.ID, user.Role, "Billing", "wrong charge")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// moving into review is not a resolution
	if _, err := f.svc.UpdateStatus(ctx, "admin-1", complaint.ID, "In Review", ""); err != nil {
		t.Fatalf("move to review: %v", err)
	}
	if len(resolved) != 0 {
		t.Fatalf("resolved event published before resolution: %+v", resolved)
	}

	if _, err := f.svc.UpdateStatus(ctx, "admin-1", complaint.ID, "Resolved", "refunded"); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	want := []events.EventType{
		events.EventComplaintCreated,
		events.EventComplaintStatusChanged,
		events.EventComplaintStatusChanged,
		events.EventComplaintResolved,
	}
	if len(seen) != len(want) {
		t.Fatalf("events seen: %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("events seen: %v, want %v", seen, want)
		}
	}
	if len(resolved) != 1 || resolved[0].ResolutionMessage != "refunded" {
		t.Fatalf("unexpected resolved payload: %+v", resolved)
	}
}

func idSet(complaints []domain.Complaint) map[string]bool {
	set := make(map[string]bool, len(complaints))
	for _, c := range complaints {
		set[c.ID] = true
	}
	return set
}
