package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cbiohub/cbioqa/internal/openaiwire"
)

const (
	// NullAgentTimeout bounds requests to the baseline agents, which answer
	// from the model alone.
	NullAgentTimeout = 60 * time.Second
	// MCPAgentTimeout bounds requests to MCP-backed agents, which may run
	// several database round-trips per question.
	MCPAgentTimeout = 300 * time.Second
)

// HTTPAgent talks to an OpenAI-compatible /chat/completions endpoint.
type HTTPAgent struct {
	name             string
	baseURL          string
	client           *http.Client
	includeModelInfo bool
}

// NewHTTPAgent creates an agent for the given endpoint. When includeModelInfo
// is set, the request asks the server to report model metadata and the reply's
// round-trip time is recorded.
func NewHTTPAgent(name, baseURL string, timeout time.Duration, includeModelInfo bool) *HTTPAgent {
	return &HTTPAgent{
		name:             name,
		baseURL:          strings.TrimRight(baseURL, "/"),
		client:           &http.Client{Timeout: timeout},
		includeModelInfo: includeModelInfo,
	}
}

func (a *HTTPAgent) Name() string { return a.name }

// Ask sends the question as a single user message and returns the first
// choice's content. If the body is not a chat completion, the raw body is
// returned as the answer text so malformed agents still produce something to
// evaluate.
func (a *HTTPAgent) Ask(ctx context.Context, question string) (Answer, error) {
	reqBody := openaiwire.ChatCompletionRequest{
		Messages:         []openaiwire.Message{{Role: "user", Content: question}},
		Stream:           false,
		IncludeModelInfo: a.includeModelInfo,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return Answer{}, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return Answer{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := a.client.Do(req)
	if err != nil {
		return Answer{}, fmt.Errorf("request to %s failed: %w", a.name, err)
	}
	defer func() { _ = resp.Body.Close() }()
	elapsed := time.Since(start)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Answer{}, fmt.Errorf("failed to read response from %s: %w", a.name, err)
	}
	if resp.StatusCode != http.StatusOK {
		return Answer{}, fmt.Errorf("%s returned status %d: %s", a.name, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	answer := Answer{
		Info: ModelInfo{AgentType: a.name},
	}
	if a.includeModelInfo {
		answer.Info.ResponseSecs = elapsed.Seconds()
	}

	var completion openaiwire.ChatCompletionResponse
	if err := json.Unmarshal(body, &completion); err == nil {
		if content, ok := completion.Content(); ok {
			answer.Text = content
			answer.Info.Model = completion.Model
			answer.Info.PromptTokens = completion.Usage.PromptTokens
			answer.Info.ResponseTokens = completion.Usage.CompletionTokens
			if sql, ok := completion.ModelInfo["sql_queries"].(string); ok {
				answer.Info.SQLQueries = sql
			}
			return answer, nil
		}
	}

	answer.Text = string(body)
	return answer, nil
}
