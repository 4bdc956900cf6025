package userauth

import (
	"context"

	"github.com/goliatone/go-errors"
)

// UserStore is the lookup contract the provider needs. The wider Users
// repository satisfies it; so does any external user service.
type UserStore interface {
	GetByIdentifier(ctx context.Context, identifier string) (*User, error)
}

// UserProvider resolves identifiers to identities and verifies credentials
// against the stored hash. It treats the store as read only.
type UserProvider struct {
	store  UserStore
	logger Logger
}

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserStore) *UserProvider {
	return &UserProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// VerifyIdentity will find the user, compare the password, and return the
// identity. Unknown identifiers and wrong passwords collapse into the same
// error so the login surface cannot be used to enumerate usernames.
func (u *UserProvider) VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error) {
	user, err := u.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if err := ensureAuthenticatableUser(user); err != nil {
		return nil, err
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, ErrMismatchedHashAndPassword
	}

	return identityFromUser(user), nil
}

// FindIdentityByIdentifier resolves without a credential check. The gate and
// the validate endpoint use it; status is still enforced here, which is the
// only point after issuance where a locked account is noticed.
func (u *UserProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error) {
	user, err := u.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}

	if err := ensureAuthenticatableUser(user); err != nil {
		return nil, err
	}

	return identityFromUser(user), nil
}

var _ IdentityProvider = (*UserProvider)(nil)

type authIdentity struct {
	id       string
	username string
	email    string
	fullName string
	role     string
	avatar   string
	status   UserStatus
}

func (a authIdentity) ID() string       { return a.id }
func (a authIdentity) Username() string { return a.username }
func (a authIdentity) Email() string    { return a.email }
func (a authIdentity) FullName() string { return a.fullName }
func (a authIdentity) Avatar() string   { return a.avatar }

func (a authIdentity) Role() string {
	if a.role == "" {
		return DefaultRole
	}
	return a.role
}

func (a authIdentity) Status() UserStatus {
	if a.status == "" {
		return UserStatusActive
	}
	return a.status
}

var _ Identity = authIdentity{}

func identityFromUser(user *User) authIdentity {
	return authIdentity{
		id:       user.ID.String(),
		username: user.Username,
		email:    user.Email,
		fullName: user.DisplayName(),
		role:     user.Role,
		avatar:   user.ProfilePicture,
		status:   user.Status,
	}
}

func ensureAuthenticatableUser(user *User) error {
	if user == nil {
		return ErrIdentityNotFound
	}

	user.EnsureStatus()
	return statusAuthError(user.Status)
}
