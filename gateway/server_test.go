package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vinoteca/stockbot/bot"
)

func botEvent(userID, text string) bot.Event {
	return bot.Event{UserID: userID, Text: text}
}

func newTestServer(secret string) (*Server, *Queue) {
	q := NewQueue(quietLogger())
	return NewServer(q, nil, secret, quietLogger()), q
}

func postWebhook(t *testing.T, srv *Server, secret, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set("X-Gateway-Secret", secret)
	}
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestWebhook_EnqueuesMessage(t *testing.T) {
	srv, q := newTestServer("")

	rec := postWebhook(t, srv, "", `{
		"update_id": 7,
		"message": {"from": {"id": 123, "username": "maria"}, "text": "Stoc"}
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, q.Depth())

	ev, ok := q.pop()
	require.True(t, ok)
	assert.Equal(t, "123", ev.UserID)
	assert.Equal(t, "@maria", ev.Handle)
	assert.Equal(t, "Stoc", ev.Text)
	assert.Empty(t, ev.Action)
}

func TestWebhook_EnqueuesCallback(t *testing.T) {
	srv, q := newTestServer("")

	rec := postWebhook(t, srv, "", `{
		"update_id": 8,
		"callback_query": {"id": "cb1", "from": {"id": 456, "first_name": "Ion"}, "data": "sellpick:3:p1"}
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	ev, ok := q.pop()
	require.True(t, ok)
	assert.Equal(t, "456", ev.UserID)
	assert.Equal(t, "Ion", ev.Handle, "first name stands in when there is no username")
	assert.Equal(t, "sellpick:3:p1", ev.Action)
	assert.Empty(t, ev.Text)
}

func TestWebhook_RejectsBadSecret(t *testing.T) {
	srv, q := newTestServer("hunter2")

	rec := postWebhook(t, srv, "wrong", `{"update_id": 1, "message": {"from": {"id": 1}, "text": "x"}}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, q.Depth())
}

func TestWebhook_RejectsMalformedPayload(t *testing.T) {
	srv, q := newTestServer("")

	rec := postWebhook(t, srv, "", `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, q.Depth())
}

func TestWebhook_IgnoresEmptyUpdate(t *testing.T) {
	srv, q := newTestServer("")

	rec := postWebhook(t, srv, "", `{"update_id": 2}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, q.Depth())
}

func TestWebhook_RefusesAfterIntakeClose(t *testing.T) {
	srv, q := newTestServer("")
	q.CloseIntake()

	rec := postWebhook(t, srv, "", `{"update_id": 3, "message": {"from": {"id": 1}, "text": "x"}}`)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthz_ReportsQueueCounters(t *testing.T) {
	srv, q := newTestServer("")
	q.Enqueue(botEvent("1", "hello"))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(1), body["enqueued"])
	assert.Equal(t, float64(1), body["depth"])
}
