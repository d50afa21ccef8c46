package wordpress

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FetchPage(t *testing.T) {
	var gotPage string
	var gotUser, gotPassword string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPage = r.URL.Query().Get("page")
		gotUser, gotPassword, _ = r.BasicAuth()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id": 1, "title": "Hello"}, {"id": 2, "title": "World"}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "admin", "secret")

	records, err := client.FetchPage(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, "3", gotPage)
	assert.Equal(t, "admin", gotUser)
	assert.Equal(t, "secret", gotPassword)
	require.Len(t, records, 2)
	assert.Equal(t, "Hello", records[0]["title"])
	assert.Equal(t, float64(2), records[1]["id"])
}

func TestClient_FetchPage_SingleObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 1, "title": "Hello"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "admin", "secret")

	records, err := client.FetchPage(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Hello", records[0]["title"])
}

func TestClient_FetchPage_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "admin", "secret")

	_, err := client.FetchPage(context.Background(), 12)
	require.Error(t, err)

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, http.StatusNotFound, transportErr.StatusCode)
	assert.Equal(t, 12, transportErr.Page)
}

func TestClient_FetchPage_MissingSite(t *testing.T) {
	client := NewClient("", "admin", "secret")

	_, err := client.FetchPage(context.Background(), 1)
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestNewClient_Endpoint(t *testing.T) {
	client := NewClient("https://blog.example.com/api/", "admin", "secret")
	assert.Equal(t, "https://blog.example.com/api/posts/", client.Endpoint())
}
