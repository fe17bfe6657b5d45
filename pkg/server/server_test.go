package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaymesh/relay/pkg/a2a"
	"github.com/relaymesh/relay/pkg/config"
	"github.com/relaymesh/relay/pkg/runtime"
)

func startAgent(t *testing.T, card a2a.AgentCard, reply string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc(a2a.WellKnownCardPath, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(card)
	})
	mux.HandleFunc("/message/send", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(a2a.Task{
			ID:     "task-1",
			Status: a2a.TaskStatus{State: a2a.TaskStateCompleted},
			Artifacts: []a2a.Artifact{
				{Parts: []a2a.Part{{Kind: a2a.PartKindText, Text: reply}}},
			},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// newTestServer builds a discovered two-agent server.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	greeting := startAgent(t, a2a.AgentCard{
		Name:        "greeting_agent",
		Description: "A friendly agent that greets users",
		Skills: []a2a.AgentSkill{
			{ID: "greet", Name: "Greet", Description: "Greets the user", Tags: []string{"greeting"}},
		},
	}, "Hello!")
	timeSrv := startAgent(t, a2a.AgentCard{
		Name:        "time_agent",
		Description: "Tells the current time",
		Skills: []a2a.AgentSkill{
			{ID: "tell_time", Name: "Tell Time", Description: "Returns the current time", Tags: []string{"time"}},
		},
	}, "It is 10:30")

	useLLM := false
	cfg := &config.Config{
		Agents: []config.AgentEntry{
			{Name: "greeting_agent", URL: greeting.URL},
			{Name: "time_agent", URL: timeSrv.URL},
		},
		Router: config.RouterConfig{UseLLM: &useLLM},
	}
	cfg.SetDefaults()

	rt := runtime.New(cfg)
	_, err := rt.Refresh(context.Background())
	require.NoError(t, err)

	return New(rt)
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s.Handler(), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAgents(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s.Handler(), http.MethodGet, "/v1/agents", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Agents []a2a.AgentCard `json:"agents"`
		Total  int             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Agents, 2)
	assert.Equal(t, "greeting_agent", resp.Agents[0].Name)
	assert.Equal(t, "time_agent", resp.Agents[1].Name)
}

func TestRefresh(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/refresh", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Configured int `json:"configured"`
		Discovered int `json:"discovered"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Configured)
	assert.Equal(t, 2, resp.Discovered)
}

func TestRoute(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/route", queryRequest{Query: "What time is it?"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp routeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "time_agent", resp.Agent)
	assert.Equal(t, "fallback", resp.Method)
	assert.True(t, resp.Matched)
}

func TestRoute_BadRequests(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", "{nope"},
		{"missing query", "{}"},
		{"empty query", `{"query": ""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/route", bytes.NewReader([]byte(tt.body)))
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestQuery(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/query", queryRequest{Query: "What time is it?"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp queryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "time_agent", resp.Agent)
	assert.Equal(t, "It is 10:30", resp.Response)
}

func TestRoute_NoAgents(t *testing.T) {
	useLLM := false
	cfg := &config.Config{
		Agents: []config.AgentEntry{
			{Name: "ghost_agent", URL: "http://127.0.0.1:1"},
		},
		Router: config.RouterConfig{UseLLM: &useLLM},
	}
	cfg.SetDefaults()

	rt := runtime.New(cfg)
	_, err := rt.Refresh(context.Background())
	require.NoError(t, err)

	s := New(rt)
	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/route", queryRequest{Query: "hello"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = doJSON(t, s.Handler(), http.MethodPost, "/v1/query", queryRequest{Query: "hello"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestQuery_AgentUnreachable(t *testing.T) {
	// Discover the agent, then take it down before dispatch.
	agent := startAgent(t, a2a.AgentCard{
		Name:        "greeting_agent",
		Description: "A friendly agent that greets users",
	}, "Hello!")

	useLLM := false
	cfg := &config.Config{
		Agents: []config.AgentEntry{
			{Name: "greeting_agent", URL: agent.URL},
		},
		Router: config.RouterConfig{UseLLM: &useLLM},
	}
	cfg.SetDefaults()

	rt := runtime.New(cfg)
	_, err := rt.Refresh(context.Background())
	require.NoError(t, err)

	agent.Close()

	s := New(rt)
	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/query", queryRequest{Query: "hello"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
