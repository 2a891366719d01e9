package util

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestToDomainError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"domain error passthrough", NewConflict("email already registered", nil), "CONFLICT", 409},
		{"no rows", pgx.ErrNoRows, "NOT_FOUND", 404},
		{"unique violation", &pgconn.PgError{Code: "23505"}, "CONFLICT", 409},
		{"other pg error", &pgconn.PgError{Code: "23503"}, "INTERNAL_ERROR", 500},
		{"generic", errors.New("boom"), "INTERNAL_ERROR", 500},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ToDomainError(tc.err)
			if got.Code != tc.wantCode || got.HTTPStatus != tc.wantStatus {
				t.Fatalf("got %s/%d, want %s/%d", got.Code, got.HTTPStatus, tc.wantCode, tc.wantStatus)
			}
		})
	}

	if ToDomainError(nil) != nil {
		t.Fatal("nil error should map to nil")
	}
}
