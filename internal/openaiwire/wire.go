// Package openaiwire shapes chat responses in OpenAI-compatible forms,
// both non-streaming JSON and SSE chunk frames.
package openaiwire

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// DefaultChunkSize is how many bytes of answer text go into each SSE chunk.
const DefaultChunkSize = 1200

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionRequest is the request body for /chat/completions.
type ChatCompletionRequest struct {
	Messages         []Message `json:"messages"`
	Stream           bool      `json:"stream"`
	IncludeSQL       bool      `json:"include_sql,omitempty"`
	IncludeModelInfo bool      `json:"include_model_info,omitempty"`
}

// Choice is one completion choice.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// Usage carries rough token counts. Counts are word splits, not a real
// tokenizer.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatCompletionResponse is the non-streaming response body.
type ChatCompletionResponse struct {
	ID        string         `json:"id"`
	Object    string         `json:"object"`
	Created   int64          `json:"created"`
	Model     string         `json:"model"`
	Choices   []Choice       `json:"choices"`
	Usage     Usage          `json:"usage"`
	ModelInfo map[string]any `json:"model_info,omitempty"`
}

// Content returns the assistant content of the first choice, and whether one
// was present.
func (r *ChatCompletionResponse) Content() (string, bool) {
	if len(r.Choices) == 0 {
		return "", false
	}
	return r.Choices[0].Message.Content, true
}

// NewCompletionID returns a fresh chatcmpl-prefixed id.
func NewCompletionID() string {
	return "chatcmpl-" + uuid.NewString()
}

// LastUserMessage returns the content of the most recent user message.
func LastUserMessage(messages []Message) (string, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if strings.EqualFold(messages[i].Role, "user") {
			return messages[i].Content, true
		}
	}
	return "", false
}

// ChunkContent splits answer text into chunks for the SSE writer. An empty
// answer yields a single empty chunk so the stream still carries one delta.
// Chunks break on rune boundaries so multi-byte characters are never torn
// across frames.
func ChunkContent(answer string, chunkSize int) []string {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if answer == "" {
		return []string{""}
	}

	var chunks []string
	for start := 0; start < len(answer); {
		end := start + chunkSize
		if end >= len(answer) {
			chunks = append(chunks, answer[start:])
			break
		}
		for end > start && !utf8.RuneStart(answer[end]) {
			end--
		}
		if end == start {
			// chunkSize is smaller than the rune at start; emit it whole
			_, size := utf8.DecodeRuneInString(answer[start:])
			end = start + size
		}
		chunks = append(chunks, answer[start:end])
		start = end
	}
	return chunks
}

// NewResponse builds a full ChatCompletionResponse for the given answer.
func NewResponse(model string, promptMessages []Message, answer string) ChatCompletionResponse {
	promptWords := 0
	for _, m := range promptMessages {
		promptWords += len(strings.Fields(m.Content))
	}
	completionWords := len(strings.Fields(answer))

	return ChatCompletionResponse{
		ID:      NewCompletionID(),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   model,
		Choices: []Choice{
			{
				Index:        0,
				Message:      Message{Role: "assistant", Content: answer},
				FinishReason: "stop",
			},
		},
		Usage: Usage{
			PromptTokens:     promptWords,
			CompletionTokens: completionWords,
			TotalTokens:      promptWords + completionWords,
		},
	}
}

type streamDelta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

type streamChoice struct {
	Index        int         `json:"index"`
	Delta        streamDelta `json:"delta"`
	FinishReason *string     `json:"finish_reason"`
}

type streamFrame struct {
	ID      string         `json:"id"`
	Object  string         `json:"object"`
	Created int64          `json:"created"`
	Model   string         `json:"model"`
	Choices []streamChoice `json:"choices"`
}

// WriteSSE writes the answer chunks as OpenAI-style chat.completion.chunk
// frames, finishing with an empty-delta stop frame and "data: [DONE]".
func WriteSSE(w io.Writer, model string, chunks []string) error {
	created := time.Now().Unix()
	id := NewCompletionID()

	writeFrame := func(frame streamFrame) error {
		payload, err := json.Marshal(frame)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "data: %s\n\n", payload)
		return err
	}

	for _, chunk := range chunks {
		frame := streamFrame{
			ID:      id,
			Object:  "chat.completion.chunk",
			Created: created,
			Model:   model,
			Choices: []streamChoice{
				{Index: 0, Delta: streamDelta{Role: "assistant", Content: chunk}},
			},
		}
		if err := writeFrame(frame); err != nil {
			return err
		}
	}

	stop := "stop"
	final := streamFrame{
		ID:      id,
		Object:  "chat.completion.chunk",
		Created: created,
		Model:   model,
		Choices: []streamChoice{
			{Index: 0, Delta: streamDelta{}, FinishReason: &stop},
		},
	}
	if err := writeFrame(final); err != nil {
		return err
	}

	_, err := fmt.Fprint(w, "data: [DONE]\n\n")
	return err
}
