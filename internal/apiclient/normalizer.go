package apiclient

import (
	"context"
	"edu_portal/internal/util"
	"errors"
	"net/http"
	"strings"
)

const (
	LoginRoute       = "/login"
	MsgPleaseLogIn   = "Please log in to continue"
	MsgGenericFailed = "Something went wrong. Please try again."
)

// ErrorNormalizer 把分发层的错误转换成可展示的文字，并在会话失效时跳转登录
type ErrorNormalizer struct {
	redirect func(route string)
}

// NewErrorNormalizer redirect 可为 nil
func NewErrorNormalizer(redirect func(route string)) *ErrorNormalizer {
	return &ErrorNormalizer{redirect: redirect}
}

func (n *ErrorNormalizer) Message(err error) string {
	if err == nil {
		return ""
	}
	if IsAuthRequired(err) {
		if n != nil && n.redirect != nil {
			n.redirect(LoginRoute)
		}
		return MsgPleaseLogIn
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return MsgGenericFailed
}

// IsAuthRequired 哨兵错误或消息中包含 "authentication required"
func IsAuthRequired(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, util.ErrAuthenticationRequired) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), util.ErrAuthenticationRequired.Error())
}

// StatusCode 门户响应使用的 HTTP 状态码
func StatusCode(err error) int {
	var failed *RequestFailedError
	switch {
	case err == nil:
		return http.StatusOK
	case IsAuthRequired(err):
		return http.StatusUnauthorized
	case errors.Is(err, util.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case util.IsValidation(err), errors.Is(err, util.ErrUnsupportedRoster), errors.Is(err, util.ErrEmptyRoster):
		return http.StatusBadRequest
	case errors.Is(err, util.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &failed):
		if failed.Status >= 400 {
			return failed.Status
		}
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
