package evolution

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendText(t *testing.T) {
	var gotPath, gotKey string
	var gotBody sendTextRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("apikey")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient(server.URL, "primary", "secret-key")
	err := client.SendText(context.Background(), "5511999990001", "Olá!")

	require.NoError(t, err)
	assert.Equal(t, "/message/sendText/primary", gotPath)
	assert.Equal(t, "secret-key", gotKey)
	assert.Equal(t, "5511999990001", gotBody.Number)
	assert.Equal(t, "Olá!", gotBody.Text)
}

func TestSendTextRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"number not on whatsapp"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "primary", "secret-key")
	err := client.SendText(context.Background(), "000", "Olá!")

	require.Error(t, err)
	var sendErr *SendError
	require.ErrorAs(t, err, &sendErr)
	assert.Equal(t, http.StatusBadRequest, sendErr.StatusCode)
	assert.Contains(t, sendErr.Body, "number not on whatsapp")
}
