package userauth

import (
	"context"
	"reflect"

	"github.com/goliatone/go-errors"
)

// Auther orchestrates the login flow: resolve, verify credentials, check
// status, issue a token. It holds no per request state; one instance serves
// arbitrarily many concurrent requests.
type Auther struct {
	provider     IdentityProvider
	tokenService TokenService
	logger       Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, cfg Config) *Auther {
	return &Auther{
		provider: provider,
		tokenService: NewTokenService(
			[]byte(cfg.GetSigningKey()),
			cfg.GetTokenTTL(),
			cfg.GetIssuer(),
			defLogger{},
		),
		logger: defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithTokenService overrides the token service, e.g. to pin the clock in tests
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies the credentials behind identifier and returns a signed
// bearer token plus the resolved identity. Every failure before issuance is
// logged with its concrete reason but surfaces as a generic bad credentials
// outcome for the caller.
func (s *Auther) Login(ctx context.Context, identifier, password string) (string, Identity, error) {
	identity, err := s.provider.VerifyIdentity(ctx, identifier, password)
	if err != nil {
		s.logger.Error("Login verify identity error", "identifier", identifier, "error", err)
		LoginsTotal.WithLabelValues(loginOutcome(err)).Inc()
		return "", nil, err
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		s.logger.Error("Login identity is nil or zero value")
		LoginsTotal.WithLabelValues("error").Inc()
		return "", nil, ErrIdentityNotFound
	}

	token, err := s.tokenService.Generate(identity)
	if err != nil {
		s.logger.Error("Login token generation error", "error", err)
		LoginsTotal.WithLabelValues("error").Inc()
		return "", nil, errors.Wrap(err, errors.CategoryInternal, "failed to issue token")
	}

	LoginsTotal.WithLabelValues("success").Inc()

	return token, identity, nil
}

// IdentityFromSubject resolves the identity referenced by a validated
// token's subject. A vanished subject is an authentication failure, not a
// server error.
func (s *Auther) IdentityFromSubject(ctx context.Context, subject string) (Identity, error) {
	identity, err := s.provider.FindIdentityByIdentifier(ctx, subject)
	if err != nil {
		s.logger.Error("IdentityFromSubject resolve error", "subject", subject, "error", err)
		return nil, err
	}

	return identity, nil
}

// ClaimsFromToken validates a raw bearer token and returns its claims
func (s *Auther) ClaimsFromToken(raw string) (AuthClaims, error) {
	claims, err := s.tokenService.Validate(raw)
	if err != nil {
		s.logger.Error("ClaimsFromToken validation failed", "error", err)
		return nil, err
	}

	return claims, nil
}

var _ Authenticator = (*Auther)(nil)

func loginOutcome(err error) string {
	if IsBadCredentialsError(err) {
		return "bad_credentials"
	}
	return "error"
}
