package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type TestUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
	TenantID string `json:"tenant_id"`
}

func API_Register(
	t *testing.T,
	app *fiber.App,
	username string,
	email string,
	password string,
) (bodyBytes []byte, statusCode int) {
	payload := struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}{username, email, password}

	sendBytes, err := json.Marshal(payload)
	require.NoError(t, err)

	return RequestRunner(t, app, "POST", "/auth/register", sendBytes, nil)
}

func API_Login(
	t *testing.T,
	app *fiber.App,
	username string,
	password string,
) (bodyBytes []byte, statusCode int) {
	payload := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{username, password}

	sendBytes, err := json.Marshal(payload)
	require.NoError(t, err)

	return RequestRunner(t, app, "POST", "/auth/login", sendBytes, nil)
}

// RegisterAndLogin creates a fresh user and returns a usable bearer token.
func RegisterAndLogin(t *testing.T, app *fiber.App) (token string, user TestUser) {
	suffix := uuid.NewString()[:8]
	username := "user-" + suffix
	password := "pass-" + suffix

	body, status := API_Register(t, app,
		username, fmt.Sprintf("%s@example.com", username), password)
	require.Equal(t, http.StatusCreated, status, string(body))

	body, status = API_Login(t, app, username, password)
	require.Equal(t, http.StatusOK, status, string(body))

	var payload struct {
		Token string   `json:"token"`
		User  TestUser `json:"user"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NotEmpty(t, payload.Token)

	return payload.Token, payload.User
}
