package agent

import (
	"context"
	"fmt"
	"sort"
)

// Supported agent types.
const (
	TypeMCPClickHouse = "mcp-clickhouse"
	TypeNavNull       = "cbio-nav-null"
	TypeQANull        = "cbio-qa-null"
	TypeMCPNavigator  = "mcp-navigator-agent"
	TypeGemini        = "gemini"
)

// Config carries everything needed to construct any agent type.
type Config struct {
	MCPClickHouseURL string
	NavNullURL       string
	QANullURL        string
	MCPNavigatorURL  string

	GeminiAPIKey  string
	GeminiModel   string
	SchemaContext string
}

// Types lists the supported agent type names in sorted order.
func Types() []string {
	types := []string{
		TypeMCPClickHouse,
		TypeNavNull,
		TypeQANull,
		TypeMCPNavigator,
		TypeGemini,
	}
	sort.Strings(types)
	return types
}

// New constructs the agent for the given type name. MCP-backed agents get the
// long timeout and request model metadata; null baselines get the short one.
func New(ctx context.Context, agentType string, cfg Config) (Agent, error) {
	switch agentType {
	case TypeMCPClickHouse:
		if cfg.MCPClickHouseURL == "" {
			return nil, fmt.Errorf("no endpoint configured for %s", agentType)
		}
		return NewHTTPAgent(agentType, cfg.MCPClickHouseURL, MCPAgentTimeout, true), nil
	case TypeMCPNavigator:
		if cfg.MCPNavigatorURL == "" {
			return nil, fmt.Errorf("no endpoint configured for %s", agentType)
		}
		return NewHTTPAgent(agentType, cfg.MCPNavigatorURL, MCPAgentTimeout, true), nil
	case TypeNavNull:
		if cfg.NavNullURL == "" {
			return nil, fmt.Errorf("no endpoint configured for %s", agentType)
		}
		return NewHTTPAgent(agentType, cfg.NavNullURL, NullAgentTimeout, false), nil
	case TypeQANull:
		if cfg.QANullURL == "" {
			return nil, fmt.Errorf("no endpoint configured for %s", agentType)
		}
		return NewHTTPAgent(agentType, cfg.QANullURL, NullAgentTimeout, false), nil
	case TypeGemini:
		return NewGeminiAgent(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.SchemaContext)
	default:
		return nil, fmt.Errorf("unknown agent type %q (supported: %v)", agentType, Types())
	}
}
