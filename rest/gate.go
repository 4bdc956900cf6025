package rest

import (
	"context"

	"github.com/goliatone/go-router"

	"github.com/goliatone/go-userauth"
	"github.com/goliatone/go-userauth/middleware/jwtware"
)

// validatorAdapter bridges the package level TokenService into the
// middleware's narrower mirror interface.
type validatorAdapter struct {
	ts userauth.TokenService
}

func (v validatorAdapter) Validate(token string) (jwtware.AuthClaims, error) {
	claims, err := v.ts.Validate(token)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// Protected builds the access gate middleware for every route outside the
// policy's public class. Rejections render the uniform envelope before any
// handler runs; the internal reason only reaches the logs and metrics.
func Protected(cfg userauth.Config, ts userauth.TokenService, policy *jwtware.RoutePolicy, logger userauth.Logger) router.MiddlewareFunc {
	return jwtware.New(jwtware.Config{
		Filter: policy.Filter,
		SigningKey: jwtware.SigningKey{
			Key:    []byte(cfg.GetSigningKey()),
			JWTAlg: cfg.GetSigningMethod(),
		},
		AuthScheme:     cfg.GetAuthScheme(),
		ContextKey:     cfg.GetContextKey(),
		TokenLookup:    cfg.GetTokenLookup(),
		TokenValidator: validatorAdapter{ts: ts},
		RejectionListener: func(ctx router.Context, reason string, err error) {
			userauth.RequestsRejectedTotal.WithLabelValues(reason).Inc()
			if logger != nil {
				logger.Info("request rejected", "reason", reason, "path", ctx.Path(), "error", err)
			}
		},
		ErrorHandler: GateErrorHandler(),
		ContextEnricher: func(c context.Context, claims jwtware.AuthClaims) context.Context {
			if ac, ok := claims.(userauth.AuthClaims); ok {
				c = userauth.WithClaimsContext(c, ac)
				return userauth.WithPrincipal(c, userauth.PrincipalFromClaims(ac))
			}
			return c
		},
	})
}

// GateErrorHandler renders every gate rejection as the same unauthenticated
// envelope. Which check failed (missing token, bad signature, expiry,
// unknown subject) is never leaked to the caller.
func GateErrorHandler() router.ErrorHandler {
	return func(ctx router.Context, err error) error {
		return SendFail(ctx, router.StatusUnauthorized, msgUnauthorized)
	}
}
