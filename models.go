package userauth

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
	"github.com/uptrace/bun"
)

// UserStatus is the lifecycle status of a user account
type UserStatus = string

const (
	// UserStatusActive may log in and resolve
	UserStatusActive UserStatus = "active"
	// UserStatusInactive exists but may not authenticate
	UserStatusInactive UserStatus = "inactive"
	// UserStatusLocked was locked out, e.g. by an operator
	UserStatusLocked UserStatus = "locked"
)

// DefaultRole is applied when an identity carries no role label. The system
// runs a single flat role; the label exists for the wire contract.
const DefaultRole = "USER"

// User is the user model backing the identity store
type User struct {
	bun.BaseModel  `bun:"table:users,alias:usr"`
	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role           string     `bun:"user_role,notnull" json:"user_role,omitempty"`
	FirstName      string     `bun:"first_name" json:"first_name,omitempty"`
	LastName       string     `bun:"last_name" json:"last_name,omitempty"`
	Username       string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email          string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Phone          string     `bun:"phone_number" json:"phone_number,omitempty"`
	ProfilePicture string     `bun:"profile_picture" json:"profile_picture,omitempty"`
	PasswordHash   string     `bun:"password_hash" json:"-"`
	Status         UserStatus `bun:"status,notnull,default:'active'" json:"status,omitempty"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt      *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// EnsureStatus normalizes the zero value to active so legacy rows without a
// status column keep authenticating.
func (u *User) EnsureStatus() {
	if u.Status == "" {
		u.Status = UserStatusActive
	}
}

// EnsureRole applies the default role label
func (u *User) EnsureRole() {
	if u.Role == "" {
		u.Role = DefaultRole
	}
}

// DisplayName joins first and last name, falling back to the username
func (u *User) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		return u.Username
	}
	return name
}

// Validate checks the model before it is written by the seeder or a
// registration flow. The identity core itself only ever reads users.
func (u *User) Validate() error {
	return validation.ValidateStruct(u,
		validation.Field(&u.Username, validation.Required, validation.Length(2, 64)),
		validation.Field(&u.Email, validation.Required, is.Email),
		validation.Field(&u.Phone, validation.By(optionalPhone)),
		validation.Field(&u.Status, validation.In(
			UserStatusActive,
			UserStatusInactive,
			UserStatusLocked,
		)),
	)
}

func optionalPhone(value any) error {
	raw, _ := value.(string)
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	num, err := phonenumbers.Parse(raw, "US")
	if err != nil {
		return err
	}

	if !phonenumbers.IsValidNumber(num) {
		return errors.New("must be a valid phone number")
	}

	return nil
}

// statusAuthError maps an account status to the login time refusal for it.
// Status is checked at login and on explicit identity resolution; already
// issued tokens are not revoked when a user is locked or deactivated.
func statusAuthError(status UserStatus) error {
	switch status {
	case "", UserStatusActive:
		return nil
	case UserStatusLocked:
		return ErrUserLocked
	default:
		return ErrUserNotActive
	}
}
