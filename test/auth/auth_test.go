package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"unibase/internal/errmsg"
	"unibase/test/helpers"
)

func TestAuthPing(t *testing.T) {
	body, statusCode := helpers.RequestRunner(t, app, "GET", "/auth/ping", nil, nil)
	require.Equal(t, http.StatusOK, statusCode)
	require.Equal(t, "PONG", string(body))
}

func TestRegisterReturnsUserWithoutPassword(t *testing.T) {
	suffix := uuid.NewString()[:8]
	username := "user-" + suffix

	body, statusCode := helpers.API_Register(t, app,
		username, username+"@example.com", "secret-"+suffix)
	require.Equal(t, http.StatusCreated, statusCode, string(body))

	var user map[string]any
	require.NoError(t, json.Unmarshal(body, &user))
	require.Equal(t, username, user["username"])
	require.Equal(t, true, user["is_active"])
	require.NotEmpty(t, user["id"])
	require.NotEmpty(t, user["tenant_id"])
	require.NotContains(t, user, "password")
}

func TestRegisterDuplicateUsername(t *testing.T) {
	suffix := uuid.NewString()[:8]
	username := "user-" + suffix

	_, statusCode := helpers.API_Register(t, app,
		username, username+"@example.com", "secret")
	require.Equal(t, http.StatusCreated, statusCode)

	body, statusCode := helpers.API_Register(t, app,
		username, fmt.Sprintf("other-%s@example.com", suffix), "secret")
	helpers.ResponseErrorCheck(t, errmsg.UserAlreadyExists, body, statusCode)
}

func TestRegisterMissingFields(t *testing.T) {
	body, statusCode := helpers.API_Register(t, app, "", "", "")
	helpers.ResponseErrorCheck(t, errmsg.UserInvalidPayload, body, statusCode)
}

func TestLoginWrongPassword(t *testing.T) {
	suffix := uuid.NewString()[:8]
	username := "user-" + suffix

	_, statusCode := helpers.API_Register(t, app,
		username, username+"@example.com", "right-password")
	require.Equal(t, http.StatusCreated, statusCode)

	body, statusCode := helpers.API_Login(t, app, username, "wrong-password")
	helpers.ResponseErrorCheck(t, errmsg.UserWrongPassword, body, statusCode)
}

func TestLoginUnknownUser(t *testing.T) {
	body, statusCode := helpers.API_Login(t, app, "ghost-"+uuid.NewString(), "whatever")
	helpers.ResponseErrorCheck(t, errmsg.UserWrongPassword, body, statusCode)
}

func TestMeReturnsPrincipal(t *testing.T) {
	token, user := helpers.RegisterAndLogin(t, app)

	body, statusCode := helpers.RequestRunner(t, app, "GET", "/auth/me", nil, &token)
	require.Equal(t, http.StatusOK, statusCode, string(body))

	var principal struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		TenantID string `json:"tenant_id"`
		IsActive bool   `json:"is_active"`
	}
	require.NoError(t, json.Unmarshal(body, &principal))
	require.Equal(t, user.ID, principal.ID)
	require.Equal(t, user.Username, principal.Username)
	require.True(t, principal.IsActive)
}

func TestMeWithoutToken(t *testing.T) {
	body, statusCode := helpers.RequestRunner(t, app, "GET", "/auth/me", nil, nil)
	helpers.ResponseErrorCheck(t, errmsg.UserNoToken, body, statusCode)
}

func TestMeWithGarbageToken(t *testing.T) {
	garbage := "not-a-real-token"
	body, statusCode := helpers.RequestRunner(t, app, "GET", "/auth/me", nil, &garbage)
	helpers.ResponseErrorCheck(t, errmsg.UserInvalidToken, body, statusCode)
}
