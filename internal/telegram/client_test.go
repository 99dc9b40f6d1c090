package telegram

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := &Client{
		Token:      "test-token",
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	}
	return client, server
}

func TestGetUpdatesPassesCursorParams(t *testing.T) {
	var gotQuery map[string][]string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/getUpdates", r.URL.Path)
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"ok":true,"result":[{"update_id":7,"message":{"message_id":1,"from":{"id":42,"username":"bob"},"chat":{"id":42,"type":"private"},"text":"/start"}}]}`))
	})
	defer server.Close()

	updates, err := client.GetUpdates(4, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"4"}, gotQuery["offset"])
	require.Equal(t, []string{"10"}, gotQuery["limit"])

	require.Len(t, updates, 1)
	require.Equal(t, 7, updates[0].UpdateID)
	require.NotNil(t, updates[0].Message)
	require.Equal(t, "bob", updates[0].Message.From.Username)
	require.Equal(t, int64(42), updates[0].Message.From.ID)
	require.Equal(t, "/start", updates[0].Message.Text)
}

func TestGetUpdatesOmitsZeroOffset(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		// Без курсора запрашиваются все доступные обновления
		require.False(t, r.URL.Query().Has("offset"))
		w.Write([]byte(`{"ok":true,"result":[]}`))
	})
	defer server.Close()

	updates, err := client.GetUpdates(0, 10)
	require.NoError(t, err)
	require.Empty(t, updates)
}

func TestGetUpdatesAPIError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"description":"Unauthorized"}`))
	})
	defer server.Close()

	_, err := client.GetUpdates(0, 10)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Unauthorized")
}

func TestSendMessage(t *testing.T) {
	var gotBody SendMessageRequest
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/sendMessage", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &gotBody))
		w.Write([]byte(`{"ok":true}`))
	})
	defer server.Close()

	require.NoError(t, client.SendMessage(42, "hello"))
	require.Equal(t, int64(42), gotBody.ChatID)
	require.Equal(t, "hello", gotBody.Text)
}

func TestSendMessageAPIError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	})
	defer server.Close()

	err := client.SendMessage(42, "hello")
	require.Error(t, err)
	require.Contains(t, err.Error(), "chat not found")
}

func TestToContract(t *testing.T) {
	update := Update{
		UpdateID: 7,
		Message: &Message{
			From: User{ID: 42, Username: "bob"},
			Chat: Chat{ID: 42, Type: "private"},
			Text: "/start",
		},
	}

	converted := update.ToContract()
	require.Equal(t, 7, converted.UpdateID)
	require.NotNil(t, converted.Message)
	require.Equal(t, "bob", converted.Message.SenderUsername)
	require.Equal(t, int64(42), converted.Message.SenderChatID)
	require.Equal(t, "/start", converted.Message.Text)
}

func TestToContractWithoutMessage(t *testing.T) {
	converted := Update{UpdateID: 9}.ToContract()
	require.Equal(t, 9, converted.UpdateID)
	require.Nil(t, converted.Message)
}
