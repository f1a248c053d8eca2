// Package auth implements the local authentication protocol: registering
// new users with a password, assigning passwords to users who registered
// through a third-party identity provider, and validating login requests.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/google/uuid"

	"github.com/avolkov/siteblog/internal/logger"
	"github.com/avolkov/siteblog/internal/model"
)

// Local coordinates users, passports, and sites to implement
// username/email + password authentication.
type Local struct {
	userStore     model.UserStore
	passportStore model.PassportStore
	siteStore     model.SiteStore
	logger        *logger.Logger
}

func NewLocal(
	userStore model.UserStore,
	passportStore model.PassportStore,
	siteStore model.SiteStore,
	logger *logger.Logger,
) *Local {
	return &Local{
		userStore:     userStore,
		passportStore: passportStore,
		siteStore:     siteStore,
		logger:        logger,
	}
}

// Register creates a new user from the submitted email, name, and site,
// and pairs it with a local passport holding the password.
//
// User and passport creation are two separate writes. When the passport
// write fails, the just-created user is deleted again so a user never
// outlives a failed registration. The rollback covers validation failures
// only; a crash between the two writes still leaves an orphan.
func (l *Local) Register(ctx context.Context, req *Request) (model.User, error) {
	if req.Email == "" {
		req.flash(SeverityError, MsgEmailMissing)
		return model.User{}, ErrEmailMissing
	}

	if req.Password == "" {
		req.flash(SeverityError, MsgPasswordMissing)
		return model.User{}, ErrPasswordMissing
	}

	if req.SiteID == uuid.Nil {
		l.logger.Error("registration without site id", "email", req.Email)
		req.flash(SeverityError, MsgSiteMissing)
		return model.User{}, ErrSiteMissing
	}

	site, err := l.siteStore.MatchEmailDomain(ctx, req.Email, req.SiteID)
	if errors.Is(err, model.ErrNotFound) {
		req.flash(SeverityError, MsgSiteNotFound)
		return model.User{}, ErrSiteMismatch
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to match site against email domain: %w", err)
	}

	user, err := l.userStore.Create(ctx, model.User{
		ID:        uuid.New(),
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		SiteID:    site.ID,
	})
	if err != nil {
		if ve, ok := model.AsValidationError(err); ok {
			switch ve.Field {
			case "site":
				req.flash(SeverityError, MsgSiteMissing)
			case "email":
				req.flash(SeverityError, MsgEmailExists)
			default:
				req.flash(SeverityError, MsgUserExists)
			}
		}
		return model.User{}, err
	}

	if err := l.createLocalPassport(ctx, user.ID, req.Password); err != nil {
		if _, ok := model.AsValidationError(err); ok {
			req.flash(SeverityError, MsgPasswordInvalid)
		}

		// Roll back the user so a failed registration leaves nothing
		// behind. A failing delete takes precedence over the passport
		// error; both are kept in the chain.
		if deleteErr := l.userStore.Delete(ctx, user.ID); deleteErr != nil {
			l.logger.Error("failed to roll back user after passport failure",
				"user_id", user.ID,
				"delete_error", deleteErr.Error(),
				"passport_error", err.Error())
			return model.User{}, &CompensationError{Cause: err, DeleteErr: deleteErr}
		}

		return model.User{}, err
	}

	l.logger.Info("user registered", "user_id", user.ID, "site_id", site.ID)

	return user, nil
}

// Connect assigns a local passport to an already-authenticated user who
// does not have one, e.g. a user who registered through a third-party
// identity provider. When a local passport already exists the call is a
// no-op; an existing password is never overwritten.
func (l *Local) Connect(ctx context.Context, req *Request) (model.User, error) {
	if req.User == nil {
		return model.User{}, ErrNoPrincipal
	}
	user := *req.User

	_, err := l.passportStore.GetByUserAndProtocol(ctx, user.ID, model.ProtocolLocal)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.User{}, fmt.Errorf("failed to look up local passport: %w", err)
	}

	if err := l.createLocalPassport(ctx, user.ID, req.Password); err != nil {
		return model.User{}, err
	}

	l.logger.Info("local passport connected", "user_id", user.ID)

	return user, nil
}

// Login validates a login request. The identifier is matched against
// emails when it parses as an address and against usernames otherwise.
//
// A missing user, missing passport, or wrong password is a soft rejection
// carried in the LoginResult; only lookup-layer failures are errors. The
// caller relies on that split to tell "try again" from "system broken".
func (l *Local) Login(ctx context.Context, req *Request, identifier, password string) (LoginResult, error) {
	isEmail := isEmailAddress(identifier)

	var user model.User
	var err error
	if isEmail {
		user, err = l.userStore.GetByEmail(ctx, identifier)
	} else {
		user, err = l.userStore.GetByUsername(ctx, identifier)
	}
	if errors.Is(err, model.ErrNotFound) {
		if isEmail {
			req.flash(SeverityError, MsgEmailNotFound)
		} else {
			req.flash(SeverityError, MsgUsernameNotFound)
		}
		return rejected(RejectedUnknownIdentifier), nil
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to look up user: %w", err)
	}

	passport, err := l.passportStore.GetByUserAndProtocol(ctx, user.ID, model.ProtocolLocal)
	if errors.Is(err, model.ErrNotFound) {
		req.flash(SeverityError, MsgPasswordNotSet)
		return rejected(RejectedPasswordNotSet), nil
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to look up local passport: %w", err)
	}

	ok, err := passport.ValidatePassword(password)
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to validate password: %w", err)
	}
	if !ok {
		req.flash(SeverityError, MsgPasswordWrong)
		return rejected(RejectedWrongPassword), nil
	}

	return LoginResult{User: user}, nil
}

func (l *Local) createLocalPassport(ctx context.Context, userID uuid.UUID, password string) error {
	passport, err := model.NewLocalPassport(userID, password)
	if err != nil {
		return err
	}

	if _, err := l.passportStore.Create(ctx, passport); err != nil {
		return fmt.Errorf("failed to create local passport: %w", err)
	}

	return nil
}

func isEmailAddress(identifier string) bool {
	addr, err := mail.ParseAddress(identifier)
	return err == nil && addr.Address == identifier
}
