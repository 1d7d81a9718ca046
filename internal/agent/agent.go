// Package agent provides clients for the question-answering agents under
// evaluation. All agents answer natural-language questions about cBioPortal
// data; they differ in transport (OpenAI-compatible HTTP endpoints or the
// Gemini API directly) and in whether an MCP server backs them.
package agent

import "context"

// ModelInfo describes the model that produced an answer, when the agent
// reports it.
type ModelInfo struct {
	AgentType      string  `json:"agent_type,omitempty"`
	Model          string  `json:"model,omitempty"`
	ResponseSecs   float64 `json:"response_time_seconds,omitempty"`
	SQLQueries     string  `json:"sql_queries,omitempty"`
	PromptTokens   int     `json:"prompt_tokens,omitempty"`
	ResponseTokens int     `json:"response_tokens,omitempty"`
}

// Answer is an agent's reply to one question.
type Answer struct {
	Text string
	Info ModelInfo
}

// Agent answers a single question.
type Agent interface {
	// Name identifies the agent type, e.g. "mcp-clickhouse".
	Name() string
	// Ask sends the question and returns the agent's answer.
	Ask(ctx context.Context, question string) (Answer, error)
}
