package agent

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiModel is a thin text-generation wrapper around the Gemini API. It is
// shared by the direct Gemini agent and the LLM judge.
type GeminiModel struct {
	client      *genai.Client
	model       string
	system      string
	temperature float32
	maxTokens   int32
}

// NewGeminiModel creates a Gemini text model. system may be empty; model
// falls back to DefaultGeminiModel.
func NewGeminiModel(ctx context.Context, apiKey, model, system string, temperature float32, maxTokens int32) (*GeminiModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiModel{
		client:      client,
		model:       model,
		system:      system,
		temperature: temperature,
		maxTokens:   maxTokens,
	}, nil
}

// Model returns the configured model name.
func (m *GeminiModel) Model() string { return m.model }

// Generate sends the prompt and returns the model's text reply.
func (m *GeminiModel) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](m.temperature),
	}
	if m.maxTokens > 0 {
		config.MaxOutputTokens = m.maxTokens
	}
	if m.system != "" {
		config.SystemInstruction = genai.NewContentFromText(m.system, genai.RoleUser)
	}

	result, err := m.client.Models.GenerateContent(ctx, m.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("Gemini generate failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("Gemini returned an empty response")
	}

	return text, nil
}

// GeminiAgent answers questions by calling the Gemini API directly, with the
// cBioPortal system prompt and optionally a schema context document prepended
// to each question. It has no database access, so it serves as a
// schema-informed baseline rather than a grounded agent.
type GeminiAgent struct {
	model         *GeminiModel
	schemaContext string
}

// NewGeminiAgent creates the direct Gemini agent. schemaContext may be empty.
func NewGeminiAgent(ctx context.Context, apiKey, model, schemaContext string) (*GeminiAgent, error) {
	gm, err := NewGeminiModel(ctx, apiKey, model, SystemPrompt, 0, 4096)
	if err != nil {
		return nil, err
	}
	return &GeminiAgent{model: gm, schemaContext: schemaContext}, nil
}

func (a *GeminiAgent) Name() string { return TypeGemini }

func (a *GeminiAgent) Ask(ctx context.Context, question string) (Answer, error) {
	prompt := question
	if a.schemaContext != "" {
		prompt = fmt.Sprintf("Database schema reference:\n\n%s\n\nQuestion: %s", a.schemaContext, question)
	}

	start := time.Now()
	text, err := a.model.Generate(ctx, prompt)
	if err != nil {
		return Answer{}, err
	}

	return Answer{
		Text: text,
		Info: ModelInfo{
			AgentType:    TypeGemini,
			Model:        a.model.Model(),
			ResponseSecs: time.Since(start).Seconds(),
		},
	}, nil
}
