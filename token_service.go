package userauth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey []byte
	tokenTTL   int
	issuer     string
	logger     Logger
	timeFunc   func() time.Time
}

// NewTokenService creates a new TokenService instance. The signing key is
// injected once here and kept private; it never appears in claims, logs, or
// responses. TTL is expressed in seconds.
func NewTokenService(signingKey []byte, tokenTTL int, issuer string, logger Logger) *TokenServiceImpl {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenServiceImpl{
		signingKey: signingKey,
		tokenTTL:   tokenTTL,
		issuer:     issuer,
		logger:     logger,
		timeFunc:   time.Now,
	}
}

// WithTimeFunc overrides the clock used for both issuance and validation.
// The same instant drives iat, exp, and the expiry comparison.
func (ts *TokenServiceImpl) WithTimeFunc(fn func() time.Time) *TokenServiceImpl {
	if fn != nil {
		ts.timeFunc = fn
	}
	return ts
}

// Generate creates a signed bearer token for the given identity
func (ts *TokenServiceImpl) Generate(identity Identity) (string, error) {
	if identity == nil {
		return "", errors.New("identity must not be nil", errors.CategoryInternal)
	}

	now := ts.timeFunc()
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   identity.ID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ts.tokenTTL) * time.Second)),
		},
		UID:      identity.ID(),
		UserRole: identity.Role(),
	}

	return ts.SignClaims(claims)
}

// SignClaims signs arbitrary JWT claims using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses and validates a token string, returning structured claims.
// Failures keep their reason distinct so the caller can log it, even though
// the wire response collapses them into a single unauthenticated outcome:
// expired, bad signature, and malformed all come back as separate errors.
// Note exp is strict, a token validated exactly at its expiry instant is
// already expired. No leeway window is granted.
func (ts *TokenServiceImpl) Validate(tokenString string) (AuthClaims, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithTimeFunc(ts.timeFunc),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		var verr error
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			verr = ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			verr = ErrTokenSignatureInvalid
		default:
			verr = errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
				WithTextCode(ErrTokenMalformed.TextCode)
		}
		TokenValidationsTotal.WithLabelValues(validationOutcome(verr)).Inc()
		return nil, verr
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		TokenValidationsTotal.WithLabelValues("ok").Inc()
		return claims, nil
	}

	ts.logger.Error("TokenService validate could not decode or validate claims")
	TokenValidationsTotal.WithLabelValues(validationOutcome(ErrUnableToMapClaims)).Inc()
	return nil, ErrUnableToMapClaims
}

func validationOutcome(err error) string {
	switch {
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrTokenSignatureInvalid):
		return "bad_signature"
	default:
		return "malformed"
	}
}
