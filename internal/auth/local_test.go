package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/siteblog/internal/mocks"
	"github.com/avolkov/siteblog/internal/model"
	"github.com/avolkov/siteblog/internal/testutil"
)

func newLocalWithMocks() (*Local, *mocks.UserStore, *mocks.PassportStore, *mocks.SiteStore) {
	userStore := &mocks.UserStore{}
	passportStore := &mocks.PassportStore{}
	siteStore := &mocks.SiteStore{}
	l := NewLocal(userStore, passportStore, siteStore, testutil.MakeNoopLogger())
	return l, userStore, passportStore, siteStore
}

func registerRequest() (*Request, *Recorder) {
	rec := &Recorder{}
	return &Request{
		Email:     "alice@example.com",
		Password:  "correct horse",
		FirstName: "Alice",
		LastName:  "Doe",
		SiteID:    uuid.New(),
		Flash:     rec,
	}, rec
}

func TestLocal_Register_MissingEmail(t *testing.T) {
	l, userStore, passportStore, _ := newLocalWithMocks()

	req, rec := registerRequest()
	req.Email = ""

	_, err := l.Register(context.Background(), req)
	require.ErrorIs(t, err, ErrEmailMissing)
	assert.Equal(t, []string{MsgEmailMissing}, rec.Keys())
	userStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	passportStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLocal_Register_MissingPassword(t *testing.T) {
	l, userStore, passportStore, _ := newLocalWithMocks()

	req, rec := registerRequest()
	req.Password = ""

	_, err := l.Register(context.Background(), req)
	require.ErrorIs(t, err, ErrPasswordMissing)
	assert.Equal(t, []string{MsgPasswordMissing}, rec.Keys())
	userStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	passportStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLocal_Register_MissingSite(t *testing.T) {
	l, userStore, _, siteStore := newLocalWithMocks()

	req, rec := registerRequest()
	req.SiteID = uuid.Nil

	_, err := l.Register(context.Background(), req)
	require.ErrorIs(t, err, ErrSiteMissing)
	assert.Equal(t, []string{MsgSiteMissing}, rec.Keys())
	siteStore.AssertNotCalled(t, "MatchEmailDomain", mock.Anything, mock.Anything, mock.Anything)
	userStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLocal_Register_SiteMismatch(t *testing.T) {
	l, userStore, _, siteStore := newLocalWithMocks()

	req, rec := registerRequest()
	siteStore.On("MatchEmailDomain", mock.Anything, req.Email, req.SiteID).
		Return(model.Site{}, model.ErrNotFound)

	_, err := l.Register(context.Background(), req)
	require.ErrorIs(t, err, ErrSiteMismatch)
	assert.Equal(t, []string{MsgSiteNotFound}, rec.Keys())
	userStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLocal_Register_SiteLookupError(t *testing.T) {
	l, userStore, _, siteStore := newLocalWithMocks()

	req, rec := registerRequest()
	siteStore.On("MatchEmailDomain", mock.Anything, req.Email, req.SiteID).
		Return(model.Site{}, assert.AnError)

	_, err := l.Register(context.Background(), req)
	require.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, rec.Keys())
	userStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLocal_Register_Success(t *testing.T) {
	l, userStore, passportStore, siteStore := newLocalWithMocks()

	req, rec := registerRequest()
	site := model.Site{ID: req.SiteID, Domain: "example.com"}
	created := model.User{ID: uuid.New(), Email: req.Email, FirstName: "Alice", SiteID: site.ID}
	siteStore.On("MatchEmailDomain", mock.Anything, req.Email, req.SiteID).Return(site, nil)
	userStore.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return u.Email == req.Email && u.SiteID == site.ID && u.FirstName == "Alice"
	})).Return(created, nil)
	passportStore.On("Create", mock.Anything, mock.MatchedBy(func(p model.Passport) bool {
		return p.Protocol == model.ProtocolLocal && len(p.PasswordHash) > 0
	})).Return(model.Passport{}, nil)

	user, err := l.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, req.Email, user.Email)
	assert.Empty(t, rec.Keys())
	userStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestLocal_Register_UserValidationFlashes(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		wantKey string
	}{
		{name: "invalid site reference", field: "site", wantKey: MsgSiteMissing},
		{name: "duplicate email", field: "email", wantKey: MsgEmailExists},
		{name: "other validation failure", field: "username", wantKey: MsgUserExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, userStore, passportStore, siteStore := newLocalWithMocks()

			req, rec := registerRequest()
			siteStore.On("MatchEmailDomain", mock.Anything, req.Email, req.SiteID).
				Return(model.Site{ID: req.SiteID}, nil)
			userStore.On("Create", mock.Anything, mock.Anything).
				Return(model.User{}, model.NewValidationError(tt.field, assert.AnError))

			_, err := l.Register(context.Background(), req)
			require.Error(t, err)
			_, ok := model.AsValidationError(err)
			assert.True(t, ok)
			assert.Equal(t, []string{tt.wantKey}, rec.Keys())
			passportStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestLocal_Register_WeakPasswordRollsBackUser(t *testing.T) {
	l, userStore, passportStore, siteStore := newLocalWithMocks()

	req, rec := registerRequest()
	req.Password = "short"
	created := model.User{ID: uuid.New(), Email: req.Email, SiteID: req.SiteID}
	siteStore.On("MatchEmailDomain", mock.Anything, req.Email, req.SiteID).
		Return(model.Site{ID: req.SiteID}, nil)
	userStore.On("Create", mock.Anything, mock.Anything).Return(created, nil)
	userStore.On("Delete", mock.Anything, created.ID).Return(nil)

	_, err := l.Register(context.Background(), req)
	require.Error(t, err)
	ve, ok := model.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "password", ve.Field)
	assert.Equal(t, []string{MsgPasswordInvalid}, rec.Keys())
	userStore.AssertCalled(t, "Delete", mock.Anything, mock.Anything)
	passportStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLocal_Register_PassportCreateFailureRollsBackUser(t *testing.T) {
	l, userStore, passportStore, siteStore := newLocalWithMocks()

	req, rec := registerRequest()
	created := model.User{ID: uuid.New(), Email: req.Email, SiteID: req.SiteID}
	siteStore.On("MatchEmailDomain", mock.Anything, req.Email, req.SiteID).
		Return(model.Site{ID: req.SiteID}, nil)
	userStore.On("Create", mock.Anything, mock.Anything).Return(created, nil)
	passportStore.On("Create", mock.Anything, mock.Anything).
		Return(model.Passport{}, model.NewValidationError("password", assert.AnError))
	userStore.On("Delete", mock.Anything, created.ID).Return(nil)

	_, err := l.Register(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, []string{MsgPasswordInvalid}, rec.Keys())
	userStore.AssertCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestLocal_Register_CompensationFailureSurfacesDeleteError(t *testing.T) {
	l, userStore, passportStore, siteStore := newLocalWithMocks()

	req, _ := registerRequest()
	siteStore.On("MatchEmailDomain", mock.Anything, req.Email, req.SiteID).
		Return(model.Site{ID: req.SiteID}, nil)
	userStore.On("Create", mock.Anything, mock.Anything).
		Return(model.User{ID: uuid.New(), Email: req.Email}, nil)
	passportCreateErr := model.NewValidationError("password", nil)
	passportStore.On("Create", mock.Anything, mock.Anything).
		Return(model.Passport{}, passportCreateErr)
	userStore.On("Delete", mock.Anything, mock.Anything).Return(assert.AnError)

	_, err := l.Register(context.Background(), req)
	require.Error(t, err)

	var compErr *CompensationError
	require.ErrorAs(t, err, &compErr)
	assert.ErrorIs(t, err, assert.AnError)
	assert.ErrorIs(t, compErr.Cause, passportCreateErr)
}

func TestLocal_Connect_NoPrincipal(t *testing.T) {
	l, _, _, _ := newLocalWithMocks()

	_, err := l.Connect(context.Background(), &Request{Password: "whatever12"})
	require.ErrorIs(t, err, ErrNoPrincipal)
}

func TestLocal_Connect_CreatesPassportWhenMissing(t *testing.T) {
	l, _, passportStore, _ := newLocalWithMocks()

	user := model.User{ID: uuid.New(), Email: "bob@example.com"}
	passportStore.On("GetByUserAndProtocol", mock.Anything, user.ID, model.ProtocolLocal).
		Return(model.Passport{}, model.ErrNotFound)
	passportStore.On("Create", mock.Anything, mock.MatchedBy(func(p model.Passport) bool {
		return p.UserID == user.ID && p.Protocol == model.ProtocolLocal
	})).Return(model.Passport{}, nil)

	got, err := l.Connect(context.Background(), &Request{Password: "correct horse", User: &user})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestLocal_Connect_ExistingPassportIsNoOp(t *testing.T) {
	l, _, passportStore, _ := newLocalWithMocks()

	user := model.User{ID: uuid.New()}
	passportStore.On("GetByUserAndProtocol", mock.Anything, user.ID, model.ProtocolLocal).
		Return(model.Passport{ID: uuid.New(), UserID: user.ID, Protocol: model.ProtocolLocal}, nil)

	// A second connect with a different password must never touch the
	// stored credential.
	got, err := l.Connect(context.Background(), &Request{Password: "another password", User: &user})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	passportStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLocal_Connect_LookupErrorPropagates(t *testing.T) {
	l, _, passportStore, _ := newLocalWithMocks()

	user := model.User{ID: uuid.New()}
	passportStore.On("GetByUserAndProtocol", mock.Anything, user.ID, model.ProtocolLocal).
		Return(model.Passport{}, assert.AnError)

	_, err := l.Connect(context.Background(), &Request{Password: "correct horse", User: &user})
	require.ErrorIs(t, err, assert.AnError)
}

func loginFixtures(t *testing.T, password string) (model.User, model.Passport) {
	t.Helper()
	user := model.User{ID: uuid.New(), Email: "carol@example.com", Username: "carol"}
	passport, err := model.NewLocalPassport(user.ID, password)
	require.NoError(t, err)
	return user, passport
}

func TestLocal_Login_SuccessByEmail(t *testing.T) {
	l, userStore, passportStore, _ := newLocalWithMocks()

	user, passport := loginFixtures(t, "right-password")
	userStore.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)
	passportStore.On("GetByUserAndProtocol", mock.Anything, user.ID, model.ProtocolLocal).
		Return(passport, nil)

	rec := &Recorder{}
	result, err := l.Login(context.Background(), &Request{Flash: rec}, user.Email, "right-password")
	require.NoError(t, err)
	assert.True(t, result.Authenticated())
	assert.Equal(t, user.ID, result.User.ID)
	assert.Empty(t, rec.Keys())
	userStore.AssertNotCalled(t, "GetByUsername", mock.Anything, mock.Anything)
}

func TestLocal_Login_SuccessByUsername(t *testing.T) {
	l, userStore, passportStore, _ := newLocalWithMocks()

	user, passport := loginFixtures(t, "right-password")
	userStore.On("GetByUsername", mock.Anything, user.Username).Return(user, nil)
	passportStore.On("GetByUserAndProtocol", mock.Anything, user.ID, model.ProtocolLocal).
		Return(passport, nil)

	result, err := l.Login(context.Background(), &Request{Flash: &Recorder{}}, user.Username, "right-password")
	require.NoError(t, err)
	assert.True(t, result.Authenticated())
	userStore.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestLocal_Login_UnknownEmail(t *testing.T) {
	l, userStore, _, _ := newLocalWithMocks()

	userStore.On("GetByEmail", mock.Anything, "unknown@example.com").
		Return(model.User{}, model.ErrNotFound)

	rec := &Recorder{}
	result, err := l.Login(context.Background(), &Request{Flash: rec}, "unknown@example.com", "anything")
	require.NoError(t, err)
	assert.False(t, result.Authenticated())
	assert.Equal(t, RejectedUnknownIdentifier, result.Reason)
	assert.Equal(t, []string{MsgEmailNotFound}, rec.Keys())
}

func TestLocal_Login_UnknownUsername(t *testing.T) {
	l, userStore, _, _ := newLocalWithMocks()

	userStore.On("GetByUsername", mock.Anything, "ghost").
		Return(model.User{}, model.ErrNotFound)

	rec := &Recorder{}
	result, err := l.Login(context.Background(), &Request{Flash: rec}, "ghost", "anything")
	require.NoError(t, err)
	assert.Equal(t, RejectedUnknownIdentifier, result.Reason)
	assert.Equal(t, []string{MsgUsernameNotFound}, rec.Keys())
}

func TestLocal_Login_PasswordNotSet(t *testing.T) {
	l, userStore, passportStore, _ := newLocalWithMocks()

	user := model.User{ID: uuid.New(), Email: "dave@example.com"}
	userStore.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)
	passportStore.On("GetByUserAndProtocol", mock.Anything, user.ID, model.ProtocolLocal).
		Return(model.Passport{}, model.ErrNotFound)

	rec := &Recorder{}
	result, err := l.Login(context.Background(), &Request{Flash: rec}, user.Email, "anything")
	require.NoError(t, err)
	assert.Equal(t, RejectedPasswordNotSet, result.Reason)
	assert.Equal(t, []string{MsgPasswordNotSet}, rec.Keys())
}

func TestLocal_Login_WrongPassword(t *testing.T) {
	l, userStore, passportStore, _ := newLocalWithMocks()

	user, passport := loginFixtures(t, "right-password")
	userStore.On("GetByUsername", mock.Anything, user.Username).Return(user, nil)
	passportStore.On("GetByUserAndProtocol", mock.Anything, user.ID, model.ProtocolLocal).
		Return(passport, nil)

	rec := &Recorder{}
	result, err := l.Login(context.Background(), &Request{Flash: rec}, user.Username, "wrong-password")
	require.NoError(t, err)
	assert.Equal(t, RejectedWrongPassword, result.Reason)
	assert.Equal(t, []string{MsgPasswordWrong}, rec.Keys())
}

func TestLocal_Login_LookupErrorIsHard(t *testing.T) {
	l, userStore, _, _ := newLocalWithMocks()

	userStore.On("GetByEmail", mock.Anything, "erin@example.com").
		Return(model.User{}, assert.AnError)

	rec := &Recorder{}
	_, err := l.Login(context.Background(), &Request{Flash: rec}, "erin@example.com", "anything")
	require.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, rec.Keys())
}

func TestIsEmailAddress(t *testing.T) {
	assert.True(t, isEmailAddress("user@example.com"))
	assert.False(t, isEmailAddress("someuser"))
	assert.False(t, isEmailAddress("Some User <user@example.com>"))
}
