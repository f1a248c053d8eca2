package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/siteblog/internal/model"
)

func TestTranslateConstraintError(t *testing.T) {
	tests := []struct {
		name       string
		err        *pgconn.PgError
		wantField  string
		translated bool
	}{
		{
			name:       "duplicate email",
			err:        &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "users_email_key"},
			wantField:  "email",
			translated: true,
		},
		{
			name:       "duplicate username",
			err:        &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "users_username_key"},
			wantField:  "username",
			translated: true,
		},
		{
			name:       "dangling site reference",
			err:        &pgconn.PgError{Code: codeForeignKeyViolation, ConstraintName: "users_site_id_fkey"},
			wantField:  "site",
			translated: true,
		},
		{
			name:       "duplicate local passport",
			err:        &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "passports_protocol_user_id_key"},
			wantField:  "user",
			translated: true,
		},
		{
			name:       "unrelated postgres error",
			err:        &pgconn.PgError{Code: "57014"},
			translated: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateConstraintError(tt.err)
			if !tt.translated {
				assert.Equal(t, error(tt.err), got)
				return
			}

			ve, ok := model.AsValidationError(got)
			require.True(t, ok)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestTranslateConstraintError_NonPgError(t *testing.T) {
	assert.Equal(t, assert.AnError, translateConstraintError(assert.AnError))
}
