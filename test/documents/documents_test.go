package documents

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"unibase/internal"
	"unibase/internal/errmsg"
	"unibase/internal/realtime"
	"unibase/test/helpers"
)

// freshCollection isolates every test run from previously persisted data.
func freshCollection() string {
	return "todos-" + uuid.NewString()[:8]
}

func TestCreateAndList(t *testing.T) {
	token, user := helpers.RegisterAndLogin(t, app)
	collection := freshCollection()

	body, statusCode := helpers.API_CreateDocument(t, app, token,
		collection, collection, map[string]any{"title": "milk"})
	require.Equal(t, http.StatusCreated, statusCode, string(body))

	var doc helpers.TestDocument
	require.NoError(t, json.Unmarshal(body, &doc))
	require.Positive(t, doc.ID)
	require.Equal(t, collection, doc.Name)
	require.Equal(t, "milk", doc.Data["title"])
	require.Equal(t, user.ID, doc.UserID)
	require.Equal(t, user.TenantID, doc.TenantID)
	require.False(t, doc.CreatedAt.IsZero())
	require.Nil(t, doc.UpdatedAt)

	docs, statusCode := helpers.API_ListDocuments(t, app, token, collection)
	require.Equal(t, http.StatusOK, statusCode)
	require.Len(t, docs, 1)
	require.Equal(t, doc.ID, docs[0].ID)
}

func TestCreateNameMismatchPersistsNothing(t *testing.T) {
	token, _ := helpers.RegisterAndLogin(t, app)
	collection := freshCollection()

	body, statusCode := helpers.API_CreateDocument(t, app, token,
		collection, "something-else", map[string]any{"title": "milk"})
	helpers.ResponseErrorCheck(t, errmsg.DocumentNameMismatch, body, statusCode)

	docs, statusCode := helpers.API_ListDocuments(t, app, token, collection)
	require.Equal(t, http.StatusOK, statusCode)
	require.Empty(t, docs)
}

func TestListIsOwnerScoped(t *testing.T) {
	tokenA, _ := helpers.RegisterAndLogin(t, app)
	tokenB, _ := helpers.RegisterAndLogin(t, app)
	collection := freshCollection()

	_, statusCode := helpers.API_CreateDocument(t, app, tokenA,
		collection, collection, map[string]any{"title": "milk"})
	require.Equal(t, http.StatusCreated, statusCode)

	docs, statusCode := helpers.API_ListDocuments(t, app, tokenB, collection)
	require.Equal(t, http.StatusOK, statusCode)
	require.Empty(t, docs)
}

func TestListPreservesInsertionOrder(t *testing.T) {
	token, _ := helpers.RegisterAndLogin(t, app)
	collection := freshCollection()

	titles := []string{"first", "second", "third"}
	for _, title := range titles {
		_, statusCode := helpers.API_CreateDocument(t, app, token,
			collection, collection, map[string]any{"title": title})
		require.Equal(t, http.StatusCreated, statusCode)
	}

	docs, statusCode := helpers.API_ListDocuments(t, app, token, collection)
	require.Equal(t, http.StatusOK, statusCode)
	require.Len(t, docs, len(titles))
	for i, title := range titles {
		require.Equal(t, title, docs[i].Data["title"])
	}
}

func TestUpdateReplacesPayloadAndStampsTimestamp(t *testing.T) {
	token, _ := helpers.RegisterAndLogin(t, app)
	collection := freshCollection()

	body, _ := helpers.API_CreateDocument(t, app, token,
		collection, collection, map[string]any{"title": "milk"})
	var created helpers.TestDocument
	require.NoError(t, json.Unmarshal(body, &created))

	body, statusCode := helpers.API_UpdateDocument(t, app, token,
		collection, created.ID, []byte(`{"data":{"title":"bread"}}`))
	require.Equal(t, http.StatusOK, statusCode, string(body))

	var updated helpers.TestDocument
	require.NoError(t, json.Unmarshal(body, &updated))
	require.Equal(t, "bread", updated.Data["title"])
	require.NotNil(t, updated.UpdatedAt)
	require.True(t, updated.UpdatedAt.After(updated.CreatedAt))
}

func TestUpdateWithoutPayloadIsHarmless(t *testing.T) {
	token, _ := helpers.RegisterAndLogin(t, app)
	collection := freshCollection()

	body, _ := helpers.API_CreateDocument(t, app, token,
		collection, collection, map[string]any{"title": "milk"})
	var created helpers.TestDocument
	require.NoError(t, json.Unmarshal(body, &created))

	body, statusCode := helpers.API_UpdateDocument(t, app, token,
		collection, created.ID, []byte(`{}`))
	require.Equal(t, http.StatusOK, statusCode, string(body))

	var unchanged helpers.TestDocument
	require.NoError(t, json.Unmarshal(body, &unchanged))
	require.Equal(t, "milk", unchanged.Data["title"])
	require.Nil(t, unchanged.UpdatedAt)
}

func TestUpdateForeignDocumentNotFound(t *testing.T) {
	tokenA, _ := helpers.RegisterAndLogin(t, app)
	tokenB, _ := helpers.RegisterAndLogin(t, app)
	collection := freshCollection()

	body, _ := helpers.API_CreateDocument(t, app, tokenA,
		collection, collection, map[string]any{"title": "milk"})
	var created helpers.TestDocument
	require.NoError(t, json.Unmarshal(body, &created))

	body, statusCode := helpers.API_UpdateDocument(t, app, tokenB,
		collection, created.ID, []byte(`{"data":{"title":"stolen"}}`))
	helpers.ResponseErrorCheck(t, errmsg.DocumentNotFound, body, statusCode)

	// The owner still sees the original payload.
	docs, _ := helpers.API_ListDocuments(t, app, tokenA, collection)
	require.Len(t, docs, 1)
	require.Equal(t, "milk", docs[0].Data["title"])
}

func TestDeleteForeignDocumentNotFound(t *testing.T) {
	tokenA, _ := helpers.RegisterAndLogin(t, app)
	tokenB, _ := helpers.RegisterAndLogin(t, app)
	collection := freshCollection()

	body, _ := helpers.API_CreateDocument(t, app, tokenA,
		collection, collection, map[string]any{"title": "milk"})
	var created helpers.TestDocument
	require.NoError(t, json.Unmarshal(body, &created))

	body, statusCode := helpers.API_DeleteDocument(t, app, tokenB, collection, created.ID)
	helpers.ResponseErrorCheck(t, errmsg.DocumentNotFound, body, statusCode)

	docs, _ := helpers.API_ListDocuments(t, app, tokenA, collection)
	require.Len(t, docs, 1)
}

func TestDeleteRemovesDocument(t *testing.T) {
	token, _ := helpers.RegisterAndLogin(t, app)
	collection := freshCollection()

	body, _ := helpers.API_CreateDocument(t, app, token,
		collection, collection, map[string]any{"title": "milk"})
	var created helpers.TestDocument
	require.NoError(t, json.Unmarshal(body, &created))

	body, statusCode := helpers.API_DeleteDocument(t, app, token, collection, created.ID)
	require.Equal(t, http.StatusOK, statusCode)

	var detail struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(body, &detail))
	require.Equal(t, "Deleted", detail.Detail)

	docs, _ := helpers.API_ListDocuments(t, app, token, collection)
	require.Empty(t, docs)

	body, statusCode = helpers.API_DeleteDocument(t, app, token, collection, created.ID)
	helpers.ResponseErrorCheck(t, errmsg.DocumentNotFound, body, statusCode)
}

func TestDeletedIDIsNeverReused(t *testing.T) {
	token, _ := helpers.RegisterAndLogin(t, app)
	collection := freshCollection()

	body, _ := helpers.API_CreateDocument(t, app, token,
		collection, collection, map[string]any{"title": "milk"})
	var first helpers.TestDocument
	require.NoError(t, json.Unmarshal(body, &first))

	_, statusCode := helpers.API_DeleteDocument(t, app, token, collection, first.ID)
	require.Equal(t, http.StatusOK, statusCode)

	body, _ = helpers.API_CreateDocument(t, app, token,
		collection, collection, map[string]any{"title": "bread"})
	var second helpers.TestDocument
	require.NoError(t, json.Unmarshal(body, &second))

	require.Greater(t, second.ID, first.ID)
}

type changeFrame struct {
	Collection string         `json:"collection"`
	Action     string         `json:"action"`
	ID         int64          `json:"id"`
	Data       map[string]any `json:"data"`
}

func nextFrame(t *testing.T, sub *realtime.Subscriber) changeFrame {
	t.Helper()

	select {
	case raw, ok := <-sub.Send:
		require.True(t, ok, "subscription closed before the event arrived")
		var frame changeFrame
		require.NoError(t, json.Unmarshal(raw, &frame))
		return frame
	case <-time.After(time.Second):
		t.Fatal("no change event arrived")
		return changeFrame{}
	}
}

func requireNoFrame(t *testing.T, sub *realtime.Subscriber) {
	t.Helper()

	select {
	case raw := <-sub.Send:
		t.Fatalf("unexpected change event: %s", raw)
	default:
	}
}

func TestMutationsPublishChangeEvents(t *testing.T) {
	token, user := helpers.RegisterAndLogin(t, app)
	collection := freshCollection()

	// Handlers publish before the HTTP reply is written, so once a request
	// returns its event is already buffered on the subscription.
	sub := internal.LiveHub.Subscribe(user.ID)
	defer internal.LiveHub.Unsubscribe(sub)

	body, statusCode := helpers.API_CreateDocument(t, app, token,
		collection, collection, map[string]any{"title": "milk"})
	require.Equal(t, http.StatusCreated, statusCode, string(body))
	var created helpers.TestDocument
	require.NoError(t, json.Unmarshal(body, &created))

	frame := nextFrame(t, sub)
	require.Equal(t, collection, frame.Collection)
	require.Equal(t, "create", frame.Action)
	require.Equal(t, created.ID, frame.ID)
	require.Equal(t, "milk", frame.Data["title"])
	requireNoFrame(t, sub)

	_, statusCode = helpers.API_UpdateDocument(t, app, token,
		collection, created.ID, []byte(`{"data":{"title":"bread"}}`))
	require.Equal(t, http.StatusOK, statusCode)

	frame = nextFrame(t, sub)
	require.Equal(t, "update", frame.Action)
	require.Equal(t, created.ID, frame.ID)
	require.Equal(t, "bread", frame.Data["title"])
	requireNoFrame(t, sub)

	// A payload-less update still commits an operation, so it still emits.
	_, statusCode = helpers.API_UpdateDocument(t, app, token,
		collection, created.ID, []byte(`{}`))
	require.Equal(t, http.StatusOK, statusCode)

	frame = nextFrame(t, sub)
	require.Equal(t, "update", frame.Action)
	require.Equal(t, "bread", frame.Data["title"])
	requireNoFrame(t, sub)

	_, statusCode = helpers.API_DeleteDocument(t, app, token, collection, created.ID)
	require.Equal(t, http.StatusOK, statusCode)

	frame = nextFrame(t, sub)
	require.Equal(t, "delete", frame.Action)
	require.Equal(t, created.ID, frame.ID)
	require.Nil(t, frame.Data)
	requireNoFrame(t, sub)
}

func TestFailedMutationsPublishNothing(t *testing.T) {
	token, user := helpers.RegisterAndLogin(t, app)
	collection := freshCollection()

	sub := internal.LiveHub.Subscribe(user.ID)
	defer internal.LiveHub.Unsubscribe(sub)

	body, statusCode := helpers.API_UpdateDocument(t, app, token,
		collection, 999999999, []byte(`{"data":{"title":"ghost"}}`))
	helpers.ResponseErrorCheck(t, errmsg.DocumentNotFound, body, statusCode)
	requireNoFrame(t, sub)

	body, statusCode = helpers.API_DeleteDocument(t, app, token, collection, 999999999)
	helpers.ResponseErrorCheck(t, errmsg.DocumentNotFound, body, statusCode)
	requireNoFrame(t, sub)
}

func TestUnauthenticatedAccess(t *testing.T) {
	body, statusCode := helpers.RequestRunner(t, app, "GET", "/db/todos", nil, nil)
	helpers.ResponseErrorCheck(t, errmsg.UserNoToken, body, statusCode)
}
