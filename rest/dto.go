package rest

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/goliatone/go-userauth"
)

// LoginRequest payload
type LoginRequest struct {
	UsernameOrEmail string `form:"usernameOrEmail" json:"usernameOrEmail"`
	Password        string `form:"password" json:"password"`
}

// GetIdentifier returns the identifier
func (r LoginRequest) GetIdentifier() string {
	return r.UsernameOrEmail
}

// GetPassword will return the password
func (r LoginRequest) GetPassword() string {
	return r.Password
}

// Validate will run validation rules. The identifier is deliberately NOT
// checked as an email address: anything containing "@" is routed to the
// email lookup downstream, and anything else to the username lookup.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.UsernameOrEmail,
			validation.Required,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// UserPayload is the identity projection returned on login and validate
type UserPayload struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	Avatar   string `json:"avatar,omitempty"`
}

// LoginResponse is the login success payload
type LoginResponse struct {
	Token     string      `json:"token"`
	TokenType string      `json:"tokenType"`
	User      UserPayload `json:"user"`
}

func userPayloadFromIdentity(identity userauth.Identity) UserPayload {
	return UserPayload{
		ID:       identity.ID(),
		Username: identity.Username(),
		Email:    identity.Email(),
		FullName: identity.FullName(),
		Role:     identity.Role(),
		Avatar:   identity.Avatar(),
	}
}
