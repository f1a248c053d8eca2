package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/avolkov/siteblog/internal/model"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeNotNullViolation    = "23502"
)

// translateConstraintError maps postgres constraint violations to
// model.ValidationError so the auth layer can dispatch on the offending
// field. The field is inferred from the constraint name, which by
// convention starts with the table name followed by the column. Errors
// that are not constraint violations are returned unchanged.
func translateConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeUniqueViolation, codeForeignKeyViolation, codeNotNullViolation:
		return model.NewValidationError(constraintField(pgErr), err)
	default:
		return err
	}
}

func constraintField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return strings.TrimSuffix(pgErr.ColumnName, "_id")
	}

	name := pgErr.ConstraintName
	for _, field := range []string{"email", "username", "site", "user", "protocol", "author"} {
		if strings.Contains(name, field) {
			return field
		}
	}
	return ""
}
