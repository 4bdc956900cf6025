package rest

import (
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"

	"github.com/goliatone/go-userauth"
)

const (
	msgBadCredentials = "用户名/邮箱或密码错误"
	msgUnauthorized   = "未认证"
	msgForbidden      = "没有权限访问该资源"
	msgNotFound       = "请求的资源不存在"
	msgInternal       = "系统内部错误"
	msgValidation     = "参数验证失败: "
)

// AuthController serves the authentication endpoints. It is stateless; one
// instance handles all concurrent requests.
type AuthController struct {
	Logger     userauth.Logger
	Auth       userauth.Authenticator
	ContextKey string
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(auth userauth.Authenticator, opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Auth:       auth,
		Logger:     nil,
		ContextKey: "user",
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auth == nil {
		panic("Missing Authenticator in auth controller...")
	}

	return c
}

func WithLogger(logger userauth.Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

func WithContextKey(key string) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if key != "" {
			c.ContextKey = key
		}
		return c
	}
}

// RegisterAuthRoutes mounts the authentication endpoints. /auth/login must
// be in the public route class of the gate policy; /auth/validate must not.
func RegisterAuthRoutes[T any](app router.Router[T], controller *AuthController) {
	app.Post("/auth/login", controller.LoginPost).SetName("auth.login.post")
	app.Get("/auth/validate", controller.ValidateGet).SetName("auth.validate.get")
}

// LoginPost handles POST /auth/login. Credential failures of any kind render
// the same envelope so the endpoint cannot be used to enumerate usernames;
// the concrete reason is only logged.
func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.logError("login bind error", err)
		return SendFail(ctx, router.StatusBadRequest, msgValidation+err.Error())
	}

	if err := payload.Validate(); err != nil {
		return SendFail(ctx, router.StatusBadRequest, msgValidation+err.Error())
	}

	token, identity, err := a.Auth.Login(ctx.Context(), payload.GetIdentifier(), payload.GetPassword())
	if err != nil {
		if userauth.IsBadCredentialsError(err) {
			return SendFail(ctx, router.StatusBadRequest, msgBadCredentials)
		}
		a.logError("login error", err)
		return SendFail(ctx, router.StatusInternalServerError, msgInternal)
	}

	return SendOK(ctx, LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		User:      userPayloadFromIdentity(identity),
	})
}

// ValidateGet handles GET /auth/validate. It runs behind the access gate, so
// claims are already validated; here the subject is additionally resolved
// against the store, which refuses vanished, locked, or deactivated users.
func (a *AuthController) ValidateGet(ctx router.Context) error {
	claims, ok := userauth.GetRouterClaims(ctx, a.ContextKey)
	if !ok {
		return SendFail(ctx, router.StatusUnauthorized, msgUnauthorized)
	}

	identity, err := a.Auth.IdentityFromSubject(ctx.Context(), claims.UserID())
	if err != nil {
		// a valid token whose subject no longer resolves is an
		// authentication failure, not a server error
		a.logError("validate resolve error", err)
		return SendFail(ctx, router.StatusUnauthorized, msgUnauthorized)
	}

	return SendOK(ctx, userPayloadFromIdentity(identity))
}

// NotFound is a terminal middleware rendering the 404 envelope. Mount it
// after every route.
func NotFound() router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			return SendFail(ctx, router.StatusNotFound, msgNotFound)
		}
	}
}

func (a *AuthController) logError(msg string, err error) {
	if a.Logger == nil {
		return
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) {
		a.Logger.Error(msg, "error", richErr.Message, "text_code", richErr.TextCode, "category", richErr.Category)
		return
	}

	a.Logger.Error(msg, "error", err)
}
