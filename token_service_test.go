package userauth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/goliatone/go-userauth"
)

func TestNewTokenService(t *testing.T) {
	signingKey := []byte("test-signing-key")

	t.Run("creates token service with logger", func(t *testing.T) {
		logger := &MockLogger{}

		service := userauth.NewTokenService(signingKey, 3600, "test-issuer", logger)

		assert.NotNil(t, service)
	})

	t.Run("creates token service with nil logger", func(t *testing.T) {
		service := userauth.NewTokenService(signingKey, 3600, "test-issuer", nil)

		assert.NotNil(t, service)
	})
}

func TestTokenService_Generate(t *testing.T) {
	signingKey := []byte("test-signing-key")
	issuer := "test-issuer"
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	service := userauth.NewTokenService(signingKey, 3600, issuer, &MockLogger{}).
		WithTimeFunc(func() time.Time { return now })

	t.Run("generates valid JWT token", func(t *testing.T) {
		identity := &MockIdentity{}
		identity.On("ID").Return("user-123")
		identity.On("Role").Return("ADMIN")

		tokenString, err := service.Generate(identity)

		assert.NoError(t, err)
		assert.NotEmpty(t, tokenString)

		token, err := jwt.ParseWithClaims(tokenString, &userauth.JWTClaims{}, func(token *jwt.Token) (any, error) {
			return signingKey, nil
		}, jwt.WithTimeFunc(func() time.Time { return now }))

		assert.NoError(t, err)
		assert.True(t, token.Valid)

		claims, ok := token.Claims.(*userauth.JWTClaims)
		assert.True(t, ok)
		assert.Equal(t, "user-123", claims.Subject())
		assert.Equal(t, "user-123", claims.UserID())
		assert.Equal(t, "ADMIN", claims.Role())
		assert.Equal(t, issuer, claims.Issuer)
		assert.Equal(t, now, claims.IssuedAt())
		assert.Equal(t, now.Add(time.Hour), claims.Expires())

		identity.AssertExpectations(t)
	})

	t.Run("rejects nil identity", func(t *testing.T) {
		tokenString, err := service.Generate(nil)

		assert.Error(t, err)
		assert.Empty(t, tokenString)
	})
}

func TestTokenService_Validate(t *testing.T) {
	signingKey := []byte("test-signing-key")
	issuer := "test-issuer"
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	newService := func(clock func() time.Time) *userauth.TokenServiceImpl {
		return userauth.NewTokenService(signingKey, 60, issuer, &MockLogger{}).
			WithTimeFunc(clock)
	}

	identity := &MockIdentity{}
	identity.On("ID").Return("user-123")
	identity.On("Role").Return("USER")

	tokenString, err := newService(func() time.Time { return now }).Generate(identity)
	assert.NoError(t, err)

	t.Run("accepts token within its lifetime", func(t *testing.T) {
		service := newService(func() time.Time { return now.Add(59 * time.Second) })

		claims, err := service.Validate(tokenString)

		assert.NoError(t, err)
		assert.Equal(t, "user-123", claims.Subject())
		assert.Equal(t, "user-123", claims.UserID())
		assert.Equal(t, "USER", claims.Role())
	})

	t.Run("rejects token at the exact expiry instant", func(t *testing.T) {
		// expiry is strict: now == exp is already expired
		service := newService(func() time.Time { return now.Add(60 * time.Second) })

		claims, err := service.Validate(tokenString)

		assert.Error(t, err)
		assert.Nil(t, claims)
		assert.True(t, userauth.IsTokenExpiredError(err))
	})

	t.Run("rejects token past its expiry", func(t *testing.T) {
		service := newService(func() time.Time { return now.Add(time.Hour) })

		claims, err := service.Validate(tokenString)

		assert.Error(t, err)
		assert.Nil(t, claims)
		assert.True(t, userauth.IsTokenExpiredError(err))
	})

	t.Run("rejects token signed with a different key", func(t *testing.T) {
		other := userauth.NewTokenService([]byte("other-key"), 60, issuer, &MockLogger{}).
			WithTimeFunc(func() time.Time { return now })

		forged, err := other.Generate(identity)
		assert.NoError(t, err)

		service := newService(func() time.Time { return now })
		claims, err := service.Validate(forged)

		assert.Error(t, err)
		assert.Nil(t, claims)
		assert.False(t, userauth.IsTokenExpiredError(err))
	})

	t.Run("rejects tampered payload", func(t *testing.T) {
		// flip a character in the payload segment, signature no longer verifies
		tampered := []byte(tokenString)
		mid := len(tampered) / 2
		if tampered[mid] == 'a' {
			tampered[mid] = 'b'
		} else {
			tampered[mid] = 'a'
		}

		service := newService(func() time.Time { return now })
		claims, err := service.Validate(string(tampered))

		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("rejects malformed token", func(t *testing.T) {
		service := newService(func() time.Time { return now })

		claims, err := service.Validate("not-a-token")

		assert.Error(t, err)
		assert.Nil(t, claims)
		assert.True(t, userauth.IsMalformedError(err))
	})

	t.Run("rejects empty token", func(t *testing.T) {
		service := newService(func() time.Time { return now })

		claims, err := service.Validate("")

		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("rejects unsigned token", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"sub": "user-123",
			"exp": now.Add(time.Hour).Unix(),
		})
		raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		assert.NoError(t, err)

		service := newService(func() time.Time { return now })
		claims, err := service.Validate(raw)

		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("rejects token with wrong issuer", func(t *testing.T) {
		other := userauth.NewTokenService(signingKey, 60, "someone-else", &MockLogger{}).
			WithTimeFunc(func() time.Time { return now })

		foreign, err := other.Generate(identity)
		assert.NoError(t, err)

		service := newService(func() time.Time { return now })
		claims, err := service.Validate(foreign)

		assert.Error(t, err)
		assert.Nil(t, claims)
	})
}

func TestTokenService_RoundTrip(t *testing.T) {
	identity := &MockIdentity{}
	identity.On("ID").Return("a4c2f3d8-1111-2222-3333-444455556666")
	identity.On("Role").Return("ADMIN")

	service := userauth.NewTokenService([]byte("round-trip-key"), 3600, "", &MockLogger{})

	tokenString, err := service.Generate(identity)
	assert.NoError(t, err)

	claims, err := service.Validate(tokenString)
	assert.NoError(t, err)
	assert.Equal(t, "a4c2f3d8-1111-2222-3333-444455556666", claims.UserID())
	assert.Equal(t, "ADMIN", claims.Role())
	assert.True(t, claims.Expires().After(claims.IssuedAt()))
}
