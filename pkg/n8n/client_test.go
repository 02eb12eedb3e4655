package n8n

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_ListWorkflows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/workflows", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-N8N-API-KEY"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"wf1","name":"Calendar sync","active":true}]}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithAPIKey("test-key"))

	workflows, err := client.ListWorkflows(context.Background())
	require.NoError(t, err)
	require.Len(t, workflows, 1)
	assert.Equal(t, "wf1", workflows[0].ID)
	assert.True(t, workflows[0].Active)
}

func TestClient_GetWorkflow_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	_, err := client.GetWorkflow(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
}

func TestClient_RetriesServerErrors(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			http.Error(w, "boom", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"nodes":[]}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithRetry(3, time.Millisecond))

	doc, err := client.GetWorkflow(context.Background(), "wf1")
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, doc, "nodes")
}
