package openaiwire

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// AskFunc answers a single question; the server wraps it in OpenAI framing.
type AskFunc func(ctx context.Context, question string) (string, error)

// Server exposes an agent behind POST /chat/completions, OpenAI-style.
// Streaming requests get SSE chunk frames, others a single JSON body.
type Server struct {
	Ask   AskFunc
	Model string
	Log   *zap.Logger
	// SQLMarkdown, when set, supplies a SQL appendix for include_sql
	// requests.
	SQLMarkdown func() string
}

// serverRequest decodes the request with OpenAI-adapter defaults: both
// stream and include_sql are on unless the client says otherwise.
type serverRequest struct {
	Messages   []Message `json:"messages"`
	Stream     *bool     `json:"stream"`
	IncludeSQL *bool     `json:"include_sql"`
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat/completions", s.handleChatCompletions)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func (s *Server) handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req serverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	question, ok := LastUserMessage(req.Messages)
	if !ok || question == "" {
		http.Error(w, "A user message is required to ask a question.", http.StatusBadRequest)
		return
	}

	stream := req.Stream == nil || *req.Stream
	includeSQL := req.IncludeSQL == nil || *req.IncludeSQL

	s.Log.Info("incoming chat completion",
		zap.Bool("stream", stream),
		zap.Int("messages", len(req.Messages)))

	answer, err := s.Ask(r.Context(), question)
	if err != nil {
		s.Log.Error("agent failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	if includeSQL && s.SQLMarkdown != nil {
		if md := s.SQLMarkdown(); md != "" {
			answer = answer + "\n\n---\n" + md
		}
	}

	if stream {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		if err := WriteSSE(w, s.Model, ChunkContent(answer, DefaultChunkSize)); err != nil {
			s.Log.Error("failed to write SSE stream", zap.Error(err))
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(NewResponse(s.Model, req.Messages, answer)); err != nil {
		s.Log.Error("failed to encode response", zap.Error(err))
	}
}
