package provider

import (
	"context"
	"errors"

	"github.com/thomasma/langgraph-researcher/config"
)

// Client represents different LLM providers
type Client string

const (
	OpenAI Client = "openai"
	Groq   Client = "groq"
)

// Tool describes a callable capability offered to the model. Parameters
// maps argument names to their descriptions; every argument is a string.
// Execute, when set, lets the adapter run the tool and feed the result
// back to the model; a nil Execute means the tool is advertised only.
// Execute never fails: implementations fold errors into the returned text.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]string
	Execute     func(ctx context.Context, args map[string]string) string
}

// ToolCall records a single tool invocation requested by the model.
type ToolCall struct {
	Name      string
	Arguments map[string]string
}

// Completion is the result of one Complete call: the generated text plus
// every tool invocation the model made along the way, in order.
type Completion struct {
	Text      string
	ToolCalls []ToolCall
}

// Provider is the interface all LLM implementations must satisfy. An empty
// completion is a normal result; transport and auth failures are errors.
type Provider interface {
	Complete(ctx context.Context, prompt string, tools []Tool) (Completion, error)
}

// NewProvider creates a new LLM client based on the provided configuration.
// Credentials come from the config record, never from ambient environment.
func NewProvider(cfg config.LLMProvider) (Provider, error) {
	switch Client(cfg.Type) {
	case OpenAI:
		return NewOpenAIClient(cfg), nil
	case Groq:
		return NewGroqClient(cfg), nil
	default:
		return nil, errors.New("unsupported LLM provider: " + cfg.Type)
	}
}
