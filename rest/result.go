// Package rest exposes the wire-level authentication surface: the uniform
// response envelope, the login and validate controllers, and the protected
// route middleware wiring.
package rest

import "github.com/goliatone/go-router"

// Result is the uniform response envelope every endpoint answers with,
// success and failure alike: {code, message, data, success}.
type Result struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Success bool   `json:"success"`
}

const successMessage = "操作成功"

// OK wraps data into a success envelope
func OK(data any) Result {
	return Result{
		Code:    router.StatusOK,
		Message: successMessage,
		Data:    data,
		Success: true,
	}
}

// Fail builds a failure envelope. Data is always null on failure.
func Fail(code int, message string) Result {
	return Result{
		Code:    code,
		Message: message,
		Data:    nil,
		Success: false,
	}
}

// SendOK renders a success envelope with HTTP 200
func SendOK(ctx router.Context, data any) error {
	return ctx.JSON(router.StatusOK, OK(data))
}

// SendFail renders a failure envelope; the HTTP status mirrors the envelope code
func SendFail(ctx router.Context, code int, message string) error {
	return ctx.JSON(code, Fail(code, message))
}
