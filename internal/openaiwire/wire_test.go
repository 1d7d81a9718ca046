package openaiwire

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewCompletionID(t *testing.T) {
	id := NewCompletionID()
	assert.True(t, strings.HasPrefix(id, "chatcmpl-"))
	assert.NotEqual(t, id, NewCompletionID())
}

func TestLastUserMessage(t *testing.T) {
	msgs := []Message{
		{Role: "system", Content: "you are a helpful bot"},
		{Role: "user", Content: "first question"},
		{Role: "assistant", Content: "an answer"},
		{Role: "User", Content: "second question"},
	}

	got, ok := LastUserMessage(msgs)
	require.True(t, ok)
	assert.Equal(t, "second question", got)

	_, ok = LastUserMessage([]Message{{Role: "assistant", Content: "x"}})
	assert.False(t, ok)
}

func TestChunkContent(t *testing.T) {
	tests := []struct {
		name      string
		answer    string
		chunkSize int
		want      []string
	}{
		{name: "empty answer yields one chunk", answer: "", chunkSize: 10, want: []string{""}},
		{name: "short answer", answer: "hello", chunkSize: 10, want: []string{"hello"}},
		{name: "exact boundary", answer: "abcdef", chunkSize: 3, want: []string{"abc", "def"}},
		{name: "uneven split", answer: "abcdefg", chunkSize: 3, want: []string{"abc", "def", "g"}},
		{name: "multibyte rune on boundary", answer: "aaé", chunkSize: 3, want: []string{"aa", "é"}},
		{name: "chunk smaller than rune", answer: "日本", chunkSize: 2, want: []string{"日", "本"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChunkContent(tt.answer, tt.chunkSize)
			assert.Equal(t, tt.want, got)
			for _, chunk := range got {
				assert.True(t, utf8.ValidString(chunk), "chunk %q is not valid UTF-8", chunk)
			}
		})
	}
}

func TestWriteSSEPreservesMultibyteText(t *testing.T) {
	answer := "Étude TCGA: 392 études, résumé complet"

	var buf bytes.Buffer
	require.NoError(t, WriteSSE(&buf, "cbioqa", ChunkContent(answer, 7)))

	var rebuilt strings.Builder
	for _, line := range strings.Split(buf.String(), "\n\n") {
		payload := strings.TrimPrefix(line, "data: ")
		if payload == "" || payload == "[DONE]" {
			continue
		}
		var frame streamFrame
		require.NoError(t, json.Unmarshal([]byte(payload), &frame))
		rebuilt.WriteString(frame.Choices[0].Delta.Content)
	}

	assert.Equal(t, answer, rebuilt.String())
}

func TestNewResponseUsage(t *testing.T) {
	msgs := []Message{{Role: "user", Content: "how many studies are there"}}
	resp := NewResponse("cbioqa", msgs, "There are 392 studies.")

	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "assistant", resp.Choices[0].Message.Role)
	assert.Equal(t, "stop", resp.Choices[0].FinishReason)
	assert.Equal(t, "chat.completion", resp.Object)

	// Word-split estimates: 5 prompt words, 4 completion words.
	assert.Equal(t, 5, resp.Usage.PromptTokens)
	assert.Equal(t, 4, resp.Usage.CompletionTokens)
	assert.Equal(t, 9, resp.Usage.TotalTokens)
}

func TestWriteSSEFraming(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSSE(&buf, "cbioqa", []string{"part one ", "part two"}))

	out := buf.String()
	frames := strings.Split(strings.TrimSuffix(out, "\n\n"), "\n\n")

	// two content frames, one stop frame, one [DONE]
	require.Len(t, frames, 4)
	assert.Equal(t, "data: [DONE]", frames[3])

	var first streamFrame
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(frames[0], "data: ")), &first))
	assert.Equal(t, "chat.completion.chunk", first.Object)
	assert.Equal(t, "part one ", first.Choices[0].Delta.Content)
	assert.Nil(t, first.Choices[0].FinishReason)

	var last streamFrame
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(frames[2], "data: ")), &last))
	require.NotNil(t, last.Choices[0].FinishReason)
	assert.Equal(t, "stop", *last.Choices[0].FinishReason)
}

func newTestServer(ask AskFunc) *Server {
	return &Server{Ask: ask, Model: "cbioqa", Log: zap.NewNop()}
}

func postJSON(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat/completions", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestServerNonStreaming(t *testing.T) {
	srv := newTestServer(func(_ context.Context, q string) (string, error) {
		assert.Equal(t, "How many studies are in the portal?", q)
		return "There are 392 studies.", nil
	})

	rec := postJSON(t, srv.Handler(),
		`{"messages":[{"role":"user","content":"How many studies are in the portal?"}],"stream":false}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ChatCompletionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	content, ok := resp.Content()
	require.True(t, ok)
	assert.Equal(t, "There are 392 studies.", content)
	assert.Equal(t, "cbioqa", resp.Model)
}

func TestServerStreamingDefault(t *testing.T) {
	srv := newTestServer(func(context.Context, string) (string, error) {
		return "answer", nil
	})

	// stream omitted defaults to true
	rec := postJSON(t, srv.Handler(),
		`{"messages":[{"role":"user","content":"q"}]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "data: [DONE]")
}

func TestServerRequiresUserMessage(t *testing.T) {
	srv := newTestServer(func(context.Context, string) (string, error) {
		t.Fatal("ask should not be called")
		return "", nil
	})

	rec := postJSON(t, srv.Handler(),
		`{"messages":[{"role":"assistant","content":"hi"}],"stream":false}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServerAgentError(t *testing.T) {
	srv := newTestServer(func(context.Context, string) (string, error) {
		return "", errors.New("model unavailable")
	})

	rec := postJSON(t, srv.Handler(),
		`{"messages":[{"role":"user","content":"q"}],"stream":false}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestServerAppendsSQLMarkdown(t *testing.T) {
	srv := newTestServer(func(context.Context, string) (string, error) {
		return "answer", nil
	})
	srv.SQLMarkdown = func() string { return "## SQL Queries Executed\n\nSELECT 1" }

	rec := postJSON(t, srv.Handler(),
		`{"messages":[{"role":"user","content":"q"}],"stream":false}`)

	var resp ChatCompletionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	content, _ := resp.Content()
	assert.Contains(t, content, "answer\n\n---\n## SQL Queries Executed")

	// include_sql=false suppresses the appendix
	rec = postJSON(t, srv.Handler(),
		`{"messages":[{"role":"user","content":"q"}],"stream":false,"include_sql":false}`)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	content, _ = resp.Content()
	assert.Equal(t, "answer", content)
}

func TestServerHealth(t *testing.T) {
	srv := newTestServer(nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
