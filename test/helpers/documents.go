package helpers

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"
)

type TestDocument struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Data      map[string]any `json:"data"`
	UserID    string         `json:"user_id"`
	TenantID  string         `json:"tenant_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt *time.Time     `json:"updated_at"`
}

func API_CreateDocument(
	t *testing.T,
	app *fiber.App,
	token string,
	collection string,
	name string,
	data map[string]any,
) (bodyBytes []byte, statusCode int) {
	payload := struct {
		Name string         `json:"name"`
		Data map[string]any `json:"data"`
	}{name, data}

	sendBytes, err := json.Marshal(payload)
	require.NoError(t, err)

	return RequestRunner(t, app, "POST", "/db/"+collection, sendBytes, &token)
}

func API_ListDocuments(
	t *testing.T,
	app *fiber.App,
	token string,
	collection string,
) (docs []TestDocument, statusCode int) {
	bodyBytes, statusCode := RequestRunner(t, app, "GET", "/db/"+collection, nil, &token)
	if statusCode == fiber.StatusOK {
		require.NoError(t, json.Unmarshal(bodyBytes, &docs))
	}
	return
}

func API_UpdateDocument(
	t *testing.T,
	app *fiber.App,
	token string,
	collection string,
	id int64,
	body []byte,
) (bodyBytes []byte, statusCode int) {
	return RequestRunner(t, app, "PUT",
		fmt.Sprintf("/db/%s/%d", collection, id), body, &token)
}

func API_DeleteDocument(
	t *testing.T,
	app *fiber.App,
	token string,
	collection string,
	id int64,
) (bodyBytes []byte, statusCode int) {
	return RequestRunner(t, app, "DELETE",
		fmt.Sprintf("/db/%s/%d", collection, id), nil, &token)
}
