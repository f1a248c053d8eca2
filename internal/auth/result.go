package auth

import "github.com/avolkov/siteblog/internal/model"

// RejectReason classifies a soft authentication failure. Soft failures tell
// the caller to show the login form again; they are never reported as
// errors, which are reserved for lookup-layer breakage.
type RejectReason string

const (
	// RejectedUnknownIdentifier means no user matched the identifier.
	RejectedUnknownIdentifier RejectReason = "unknown_identifier"
	// RejectedPasswordNotSet means the user exists but has no local passport.
	RejectedPasswordNotSet RejectReason = "password_not_set"
	// RejectedWrongPassword means the password did not match.
	RejectedWrongPassword RejectReason = "wrong_password"
)

// LoginResult is the outcome of a login attempt. Exactly one of User and
// Reason is meaningful: an empty Reason means the attempt succeeded and
// User holds the authenticated user.
type LoginResult struct {
	User   model.User
	Reason RejectReason
}

// Authenticated reports whether the attempt succeeded.
func (r LoginResult) Authenticated() bool {
	return r.Reason == ""
}

func rejected(reason RejectReason) LoginResult {
	return LoginResult{Reason: reason}
}
