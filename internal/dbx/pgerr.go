package dbx

import (
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repositories react to.
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"

	classIntegrityConstraint = "23"
)

// PgError unwraps err to a *pgconn.PgError, if there is one in the chain.
func PgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsUniqueViolation reports whether err is a unique constraint violation and
// returns the name of the constraint that fired.
func IsUniqueViolation(err error) (string, bool) {
	pgErr, ok := PgError(err)
	if !ok || pgErr.Code != CodeUniqueViolation {
		return "", false
	}
	return constraintOf(pgErr), true
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	pgErr, ok := PgError(err)
	return ok && pgErr.Code == CodeForeignKeyViolation
}

// IsIntegrityViolation reports whether err belongs to SQLSTATE class 23.
func IsIntegrityViolation(err error) bool {
	pgErr, ok := PgError(err)
	return ok && strings.HasPrefix(pgErr.Code, classIntegrityConstraint)
}

// detailKey captures the column list of "Key (email)=(a@x.com) already exists."
var detailKey = regexp.MustCompile(`^Key \(([^)]+)\)=`)

// constraintOf falls back to the key columns named in the detail text when
// the server did not report a constraint name. The rejected value itself is
// never returned.
func constraintOf(pgErr *pgconn.PgError) string {
	if pgErr.ConstraintName != "" {
		return pgErr.ConstraintName
	}
	if m := detailKey.FindStringSubmatch(pgErr.Detail); m != nil {
		return m[1]
	}
	return ""
}
