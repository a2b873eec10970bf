package apiclient

import (
	"edu_portal/internal/util"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ErrAuthenticationRequired 远端返回 401，本地凭证已全部清除
var ErrAuthenticationRequired = util.ErrAuthenticationRequired

// RequestFailedError 非 2xx（401 除外）响应
type RequestFailedError struct {
	Status     int
	StatusText string
	Message    string
	Body       []byte
}

func (e *RequestFailedError) Error() string {
	return e.Message
}

func newRequestFailed(resp *http.Response, body []byte) *RequestFailedError {
	statusText := strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprint(resp.StatusCode)))
	if statusText == "" {
		statusText = http.StatusText(resp.StatusCode)
	}
	msg, ok := serverMessage(body)
	if !ok {
		msg = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, statusText)
	}
	return &RequestFailedError{
		Status:     resp.StatusCode,
		StatusText: statusText,
		Message:    msg,
		Body:       body,
	}
}

// serverMessage 依次尝试 detail、message、error 字段
func serverMessage(body []byte) (string, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return "", false
	}
	for _, key := range []string{"detail", "message", "error"} {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		if msg := messageFrom(raw); msg != "" {
			return msg, true
		}
	}
	return "", false
}

func messageFrom(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	// {"error": {"message": "..."}}
	var nested map[string]json.RawMessage
	if err := json.Unmarshal(raw, &nested); err == nil {
		for _, key := range []string{"message", "detail", "msg"} {
			if v, ok := nested[key]; ok {
				if msg := messageFrom(v); msg != "" {
					return msg
				}
			}
		}
		return ""
	}

	// 校验错误列表：[{"loc": [...], "msg": "..."}]
	var list []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			if v, ok := item["msg"]; ok {
				if msg := messageFrom(v); msg != "" {
					parts = append(parts, msg)
				}
			}
		}
		return strings.Join(parts, "; ")
	}
	return ""
}
