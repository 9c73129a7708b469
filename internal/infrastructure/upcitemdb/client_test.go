package upcitemdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelflife/backend/internal/domain"
)

func TestNewClient(t *testing.T) {
	client := NewClient(ClientConfig{})

	assert.NotNil(t, client)
	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Equal(t, defaultTimeout, client.httpClient.Timeout)
	assert.NotNil(t, client.rateLimiter)
	assert.Equal(t, "Shelflife/1.0", client.userAgent)
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	client := NewClient(ClientConfig{BaseURL: "https://api.example.com/prod/v1/"})
	assert.Equal(t, "https://api.example.com/prod/v1", client.baseURL)
}

func TestFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lookup", r.URL.Path)
		assert.Equal(t, "012993441012", r.URL.Query().Get("upc"))
		assert.Equal(t, "TestAgent/2.0", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"OK","total":1,"items":[{"title":"Snack"}]}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, UserAgent: "TestAgent/2.0"})

	resp, err := client.Fetch(context.Background(), "012993441012")

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, resp.Succeeded())
	assert.JSONEq(t, `{"code":"OK","total":1,"items":[{"title":"Snack"}]}`, string(resp.Body))
}

func TestFetch_EscapesUPC(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "12&x=1 3", r.URL.Query().Get("upc"))
		assert.Empty(t, r.URL.Query().Get("x"))
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})

	_, err := client.Fetch(context.Background(), "12&x=1 3")
	require.NoError(t, err)
}

func TestFetch_NonSuccessStatusIsNotAnError(t *testing.T) {
	statuses := []int{http.StatusNotFound, http.StatusTooManyRequests, http.StatusBadGateway}

	for _, status := range statuses {
		t.Run(http.StatusText(status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				w.Write([]byte(`{"code":"ERR"}`))
			}))
			defer server.Close()

			client := NewClient(ClientConfig{BaseURL: server.URL})

			resp, err := client.Fetch(context.Background(), "12345678")

			require.NoError(t, err)
			assert.Equal(t, status, resp.StatusCode)
			assert.False(t, resp.Succeeded())
		})
	}
}

func TestFetch_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})

	resp, err := client.Fetch(context.Background(), "12345678")

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestFetch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, Timeout: 50 * time.Millisecond})

	resp, err := client.Fetch(context.Background(), "12345678")

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestFetch_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	resp, err := client.Fetch(ctx, "12345678")

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFetch_RequestCreationError(t *testing.T) {
	client := NewClient(ClientConfig{BaseURL: "://invalid-url"})

	resp, err := client.Fetch(context.Background(), "12345678")

	assert.Nil(t, resp)
	assert.Error(t, err)
}

func TestFetch_OversizedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"OK","total":1,"items":[{"title":"Snack","description":"`))
		w.Write([]byte(strings.Repeat("x", maxBodyBytes)))
		w.Write([]byte(`"}]}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})

	resp, err := client.Fetch(context.Background(), "012993441012")

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestFetch_BodyAtLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat(" ", maxBodyBytes-2) + "{}"))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})

	resp, err := client.Fetch(context.Background(), "012993441012")

	require.NoError(t, err)
	assert.Len(t, resp.Body, maxBodyBytes)
}
