package providers

import "context"

// LLMProvider is the chat-completion boundary. ChatStream behaves like Chat
// but invokes onDelta for each text fragment as it arrives; the returned
// LLMResponse is the fully accumulated turn, tool calls included.
type LLMProvider interface {
	Chat(ctx context.Context, messages []Message, tools []ToolDefinition, model string, options map[string]any) (*LLMResponse, error)
	ChatStream(ctx context.Context, messages []Message, tools []ToolDefinition, model string, options map[string]any, onDelta func(delta string)) (*LLMResponse, error)
	GetDefaultModel() string
}
