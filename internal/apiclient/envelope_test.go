package apiclient

import (
	"edu_portal/internal/util"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEnvelope(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantSuccess bool
		wantData    string
		wantMessage string
	}{
		{"bare object", `{"id": 1, "name": "Algebra"}`, true, `{"id": 1, "name": "Algebra"}`, ""},
		{"bare array", `[1,2]`, true, `[1,2]`, ""},
		{"success data", `{"success": true, "data": {"id": 2}}`, true, `{"id": 2}`, ""},
		{"success false", `{"success": false, "message": "nope"}`, false, `{"success": false, "message": "nope"}`, "nope"},
		{"data list", `{"data": [{"id": 3}], "total": 1}`, true, `[{"id": 3}]`, ""},
		{"code envelope", `{"code": 200, "message": "success", "data": {"id": 4}}`, true, `{"id": 4}`, "success"},
		{"code failure", `{"code": 500, "message": "db down", "data": null}`, false, `null`, "db down"},
		{"status error", `{"status": "error", "message": "quota exceeded", "data": null}`, false, `null`, "quota exceeded"},
		{"status fail without data", `{"status": "fail", "message": "bad grade"}`, false, `{"status": "fail", "message": "bad grade"}`, "bad grade"},
		{"status ok", `{"status": "ok", "data": {"id": 6}}`, true, `{"id": 6}`, ""},
		{"record with failed status", `{"id": 7, "status": "failed"}`, true, `{"id": 7, "status": "failed"}`, ""},
		{"record with data field", `{"id": 5, "data": {"x": 1}}`, true, `{"id": 5, "data": {"x": 1}}`, ""},
		{"empty", ``, true, ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := NormalizeEnvelope([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.wantSuccess, env.Success)
			assert.Equal(t, tt.wantMessage, env.Message)
			if tt.wantData == "" {
				assert.Empty(t, env.Data)
			} else {
				assert.JSONEq(t, tt.wantData, string(env.Data))
			}
		})
	}

	_, err := NormalizeEnvelope([]byte("not json"))
	assert.Error(t, err)
}

func TestUnwrapList(t *testing.T) {
	assert.JSONEq(t, `[1]`, string(UnwrapList([]byte(`{"items": [1], "total": 1}`), "results", "items")))
	assert.JSONEq(t, `[2]`, string(UnwrapList([]byte(`[2]`), "items")))
	assert.JSONEq(t, `{"items": 3}`, string(UnwrapList([]byte(`{"items": 3}`), "items")))
}

func TestErrorNormalizer(t *testing.T) {
	var redirected []string
	n := NewErrorNormalizer(func(route string) { redirected = append(redirected, route) })

	assert.Equal(t, MsgPleaseLogIn, n.Message(ErrAuthenticationRequired))
	assert.Equal(t, MsgPleaseLogIn, n.Message(fmt.Errorf("profile: %w", ErrAuthenticationRequired)))
	assert.Equal(t, MsgPleaseLogIn, n.Message(errors.New("Authentication required")))
	assert.Equal(t, []string{LoginRoute, LoginRoute, LoginRoute}, redirected)

	assert.Equal(t, "boom", n.Message(&RequestFailedError{Status: 500, Message: "boom"}))
	assert.Equal(t, MsgGenericFailed, n.Message(errors.New("  ")))
	assert.Equal(t, "", n.Message(nil))
	assert.Len(t, redirected, 3)

	var nilNormalizer *ErrorNormalizer
	assert.Equal(t, MsgPleaseLogIn, nilNormalizer.Message(ErrAuthenticationRequired))
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, StatusCode(ErrAuthenticationRequired))
	assert.Equal(t, http.StatusBadRequest, StatusCode(util.Required("subject")))
	assert.Equal(t, http.StatusNotFound, StatusCode(&RequestFailedError{Status: 404}))
	assert.Equal(t, http.StatusBadGateway, StatusCode(&RequestFailedError{Status: 200}))
	assert.Equal(t, http.StatusBadGateway, StatusCode(errors.New("dial tcp")))
	assert.Equal(t, http.StatusUnauthorized, StatusCode(util.ErrInvalidCredentials))
	assert.Equal(t, http.StatusRequestEntityTooLarge, StatusCode(util.ErrFileTooLarge))
	assert.Equal(t, http.StatusBadRequest, StatusCode(util.ErrEmptyRoster))
}
