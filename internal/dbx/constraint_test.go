package dbx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestUniqueViolation(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantConstraint string
		wantOK         bool
	}{
		{
			name:           "unique violation",
			err:            &pgconn.PgError{Code: "23505", ConstraintName: "uq_accounts_email"},
			wantConstraint: "uq_accounts_email",
			wantOK:         true,
		},
		{
			name:           "wrapped unique violation",
			err:            fmt.Errorf("db error: %w", &pgconn.PgError{Code: "23505", ConstraintName: "uq_accounts_referral_code"}),
			wantConstraint: "uq_accounts_referral_code",
			wantOK:         true,
		},
		{
			name: "other pg error",
			err:  &pgconn.PgError{Code: "23503", ConstraintName: "fk_something"},
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
		},
		{
			name: "nil",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := UniqueViolation(tt.err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantConstraint, c)
		})
	}
}
