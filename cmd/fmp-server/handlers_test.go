package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MehdiZare/langchain-fmp-data/pkg/agent"
)

type fakeTool struct {
	mu       sync.Mutex
	inputs   []agent.Input
	result   any
	threads  int
	deadline bool
}

func (f *fakeTool) Invoke(ctx context.Context, in agent.Input) any {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, in)
	_, f.deadline = ctx.Deadline()
	return f.result
}

func (f *fakeTool) GetThreadID(refresh bool) agent.ThreadID {
	f.mu.Lock()
	defer f.mu.Unlock()
	if refresh {
		f.threads++
	}
	return agent.ThreadID("thread-" + string(rune('a'+f.threads)))
}

func newRouter(tool queryTool, timeout time.Duration) *mux.Router {
	r := mux.NewRouter()
	NewHandler(tool, timeout).RegisterRoutes(r)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestHealth(t *testing.T) {
	rec, body := do(t, newRouter(&fakeTool{}, 0), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestQuery_NaturalLanguage(t *testing.T) {
	tool := &fakeTool{result: "AAPL is at 190"}
	rec, body := do(t, newRouter(tool, time.Minute), http.MethodPost, "/v1/query", `{"query":"AAPL price"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "AAPL is at 190", body["result"])
	assert.Equal(t, "thread-a", body["thread_id"])

	require.Len(t, tool.inputs, 1)
	assert.Equal(t, "AAPL price", tool.inputs[0].Query)
	assert.Equal(t, agent.NaturalLanguage, tool.inputs[0].ResponseFormat)
	assert.True(t, tool.deadline)
}

func TestQuery_StructuredResult(t *testing.T) {
	tool := &fakeTool{result: agent.Response{
		NaturalLanguage: "done",
		Data:            map[string]any{"price": 190.0},
	}}
	rec, body := do(t, newRouter(tool, 0), http.MethodPost, "/v1/query",
		`{"query":"AAPL price","response_format":"both"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	result, ok := body["result"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "done", result["natural_language"])
	assert.Equal(t, map[string]any{"price": 190.0}, result["data"])
	assert.Equal(t, agent.Both, tool.inputs[0].ResponseFormat)
	assert.False(t, tool.deadline)
}

func TestQuery_BadRequests(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"invalid json", `{"query":`, "invalid JSON payload"},
		{"empty query", `{"query":"  "}`, "query is required"},
		{"bad format", `{"query":"x","response_format":"xml"}`, "xml"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tool := &fakeTool{}
			rec, body := do(t, newRouter(tool, 0), http.MethodPost, "/v1/query", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, body["error"], tc.want)
			assert.Empty(t, tool.inputs)
		})
	}
}

func TestRouting_MethodNotAllowed(t *testing.T) {
	router := newRouter(&fakeTool{}, 0)
	cases := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/v1/query"},
		{http.MethodPost, "/v1/thread"},
		{http.MethodPost, "/healthz"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.target, func(t *testing.T) {
			rec, body := do(t, router, tc.method, tc.target, "")
			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, "method not allowed", body["error"])
		})
	}
}

func TestRouting_NotFound(t *testing.T) {
	rec, body := do(t, newRouter(&fakeTool{}, 0), http.MethodGet, "/v2/query", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", body["error"])
}

func TestQuery_BodyTooLarge(t *testing.T) {
	tool := &fakeTool{}
	payload := `{"query":"` + strings.Repeat("a", maxQueryBody) + `"}`

	rec, body := do(t, newRouter(tool, 0), http.MethodPost, "/v1/query", payload)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "request body too large", body["error"])
	assert.Empty(t, tool.inputs)
}

func TestThread(t *testing.T) {
	router := newRouter(&fakeTool{}, 0)

	_, body := do(t, router, http.MethodGet, "/v1/thread", "")
	assert.Equal(t, "thread-a", body["thread_id"])

	_, body = do(t, router, http.MethodGet, "/v1/thread?refresh=true", "")
	assert.Equal(t, "thread-b", body["thread_id"])

	_, body = do(t, router, http.MethodGet, "/v1/thread", "")
	assert.Equal(t, "thread-b", body["thread_id"])
}
