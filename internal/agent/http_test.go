package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbiohub/cbioqa/internal/openaiwire"
)

func TestHTTPAgentParsesChatCompletion(t *testing.T) {
	var gotReq openaiwire.ChatCompletionRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		resp := openaiwire.NewResponse("gpt-4o-mini",
			gotReq.Messages, "There are 392 studies in the portal.")
		resp.ModelInfo = map[string]any{"sql_queries": "SELECT count() FROM cancer_study"}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	a := NewHTTPAgent(TypeMCPClickHouse, srv.URL, MCPAgentTimeout, true)

	answer, err := a.Ask(context.Background(), "How many studies are in the portal?")
	require.NoError(t, err)

	assert.Equal(t, "There are 392 studies in the portal.", answer.Text)
	assert.Equal(t, TypeMCPClickHouse, answer.Info.AgentType)
	assert.Equal(t, "gpt-4o-mini", answer.Info.Model)
	assert.Equal(t, "SELECT count() FROM cancer_study", answer.Info.SQLQueries)
	assert.Greater(t, answer.Info.ResponseSecs, 0.0)

	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Equal(t, "How many studies are in the portal?", gotReq.Messages[0].Content)
	assert.False(t, gotReq.Stream)
	assert.True(t, gotReq.IncludeModelInfo)
}

func TestHTTPAgentNullBaselineOmitsModelInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openaiwire.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.IncludeModelInfo)

		resp := openaiwire.NewResponse("baseline", req.Messages, "I cannot access the database.")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	a := NewHTTPAgent(TypeQANull, srv.URL, NullAgentTimeout, false)

	answer, err := a.Ask(context.Background(), "What is the TP53 mutation frequency?")
	require.NoError(t, err)
	assert.Equal(t, "I cannot access the database.", answer.Text)
	assert.Zero(t, answer.Info.ResponseSecs)
}

func TestHTTPAgentFallsBackToRawBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("plain text answer without JSON framing"))
	}))
	defer srv.Close()

	a := NewHTTPAgent(TypeNavNull, srv.URL, NullAgentTimeout, false)

	answer, err := a.Ask(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "plain text answer without JSON framing", answer.Text)
}

func TestHTTPAgentErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream model unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	a := NewHTTPAgent(TypeMCPClickHouse, srv.URL, MCPAgentTimeout, true)

	_, err := a.Ask(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestHTTPAgentTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	a := NewHTTPAgent(TypeQANull, srv.URL, 20*time.Millisecond, false)

	_, err := a.Ask(context.Background(), "anything")
	require.Error(t, err)
}

func TestNewAgentValidation(t *testing.T) {
	_, err := New(context.Background(), "no-such-agent", Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown agent type")

	_, err = New(context.Background(), TypeMCPClickHouse, Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no endpoint configured")
}
