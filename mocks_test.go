package userauth_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/goliatone/go-userauth"
)

// MockIdentity implements userauth.Identity
type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Username() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Email() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) FullName() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Role() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Avatar() string {
	args := m.Called()
	return args.String(0)
}

// MockLogger implements userauth.Logger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// MockIdentityProvider implements userauth.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, identifier, password string) (userauth.Identity, error) {
	args := m.Called(ctx, identifier, password)
	identity, _ := args.Get(0).(userauth.Identity)
	return identity, args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (userauth.Identity, error) {
	args := m.Called(ctx, identifier)
	identity, _ := args.Get(0).(userauth.Identity)
	return identity, args.Error(1)
}

// MockUserStore implements userauth.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByIdentifier(ctx context.Context, identifier string) (*userauth.User, error) {
	args := m.Called(ctx, identifier)
	user, _ := args.Get(0).(*userauth.User)
	return user, args.Error(1)
}

// testConfig implements userauth.Config
type testConfig struct {
	signingKey  string
	tokenTTL    int
	contextKey  string
	tokenLookup string
	authScheme  string
	issuer      string
}

func (c testConfig) GetSigningKey() string    { return c.signingKey }
func (c testConfig) GetSigningMethod() string { return "HS256" }

func (c testConfig) GetContextKey() string {
	if c.contextKey == "" {
		return "user"
	}
	return c.contextKey
}

func (c testConfig) GetTokenTTL() int {
	if c.tokenTTL == 0 {
		return 3600
	}
	return c.tokenTTL
}

func (c testConfig) GetTokenLookup() string {
	if c.tokenLookup == "" {
		return "header:Authorization"
	}
	return c.tokenLookup
}

func (c testConfig) GetAuthScheme() string {
	if c.authScheme == "" {
		return "Bearer"
	}
	return c.authScheme
}

func (c testConfig) GetIssuer() string { return c.issuer }
