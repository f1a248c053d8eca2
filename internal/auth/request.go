package auth

import (
	"github.com/google/uuid"

	"github.com/avolkov/siteblog/internal/model"
)

// Request carries the request-scoped inputs of one protocol operation:
// the submitted form parameters, a write-only flash sink, and the
// authenticated principal when one exists. It replaces any reliance on a
// global request object.
type Request struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	SiteID    uuid.UUID

	// User is the authenticated principal, set by the host framework for
	// operations that require an existing session (Connect).
	User *model.User

	// Flash receives user-visible diagnostics. Nil is allowed; messages
	// are then dropped.
	Flash FlashWriter
}

func (r *Request) flash(severity, key string) {
	if r.Flash != nil {
		r.Flash.Flash(severity, key)
	}
}
