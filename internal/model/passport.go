package model

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ProtocolLocal is the protocol discriminator for password-based passports.
// Third-party identity protocols use their provider name instead.
const ProtocolLocal = "local"

// MinPasswordLength is the weakest password accepted for a local passport.
const MinPasswordLength = 8

// PassportStore defines persistence operations for passports.
type PassportStore interface {
	GetByUserAndProtocol(ctx context.Context, userID uuid.UUID, protocol string) (Passport, error)
	Create(ctx context.Context, passport Passport) (Passport, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Passport binds one authentication method to one user. A user holds at
// most one passport per protocol.
type Passport struct {
	ID           uuid.UUID
	Protocol     string
	PasswordHash []byte
	UserID       uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewLocalPassport builds a local passport for userID from a plaintext
// password. The password policy is enforced here, before any hashing, so a
// rejected password never reaches the store. Policy violations are reported
// as a ValidationError on the "password" field.
func NewLocalPassport(userID uuid.UUID, password string) (Passport, error) {
	if len(password) < MinPasswordLength {
		return Passport{}, NewValidationError("password", errors.New("password is too short"))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Passport{}, err
	}

	return Passport{
		ID:           uuid.New(),
		Protocol:     ProtocolLocal,
		PasswordHash: hash,
		UserID:       userID,
	}, nil
}

// ValidatePassword checks a plaintext password against the stored hash.
// A mismatch is reported as (false, nil); only hash-level failures (e.g. a
// corrupted stored hash) produce an error.
func (p Passport) ValidatePassword(password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(p.PasswordHash, []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
