package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrEmailMissing is returned by Register when no email was supplied.
	ErrEmailMissing = errors.New("no email was entered")
	// ErrPasswordMissing is returned by Register when no password was supplied.
	ErrPasswordMissing = errors.New("no password was entered")
	// ErrSiteMissing is returned by Register when no site id was supplied.
	ErrSiteMissing = errors.New("no site id was supplied")
	// ErrSiteMismatch is returned by Register when the site does not match
	// the email's domain.
	ErrSiteMismatch = errors.New("site does not match email domain")
	// ErrNoPrincipal is returned by Connect when the request carries no
	// authenticated user.
	ErrNoPrincipal = errors.New("no authenticated user on request")
)

// CompensationError reports that the rollback of a partially completed
// registration failed: the passport could not be created AND the
// just-created user could not be deleted. Both causes are preserved, with
// the delete failure taking precedence so it is never silently swallowed.
type CompensationError struct {
	Cause     error // the passport creation failure that triggered the rollback
	DeleteErr error // the failure of the compensating user delete
}

func (e *CompensationError) Error() string {
	return fmt.Sprintf("failed to delete user after passport failure: %s (passport failure: %s)",
		e.DeleteErr.Error(), e.Cause.Error())
}

func (e *CompensationError) Unwrap() error {
	return e.DeleteErr
}
