package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/thomasma/langgraph-researcher/utils"
)

// OpenAI-compatible chat completion wire format. Groq exposes the same API
// surface, so both adapters share these types and the request loop.

type chatMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	ToolCalls  []chatToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
}

type chatToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function functionCall `json:"function"`
}

type functionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON-encoded argument object
}

type toolDef struct {
	Type     string      `json:"type"`
	Function functionDef `json:"function"`
}

type functionDef struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Tools       []toolDef     `json:"tools,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// chatClient drives one OpenAI-compatible chat completions endpoint.
type chatClient struct {
	endpoint      string
	apiKey        string
	model         string
	temperature   float64
	maxTokens     int
	maxToolRounds int
	httpClient    *http.Client
}

// Complete sends the prompt and, when the model invokes executable tools,
// runs at most maxToolRounds result round-trips before returning the final
// text. Every tool invocation the model made is recorded in order.
func (c *chatClient) Complete(ctx context.Context, prompt string, tools []Tool) (Completion, error) {
	messages := []chatMessage{{Role: "system", Content: prompt}}
	defs := toolDefs(tools)

	var calls []ToolCall
	for round := 0; ; round++ {
		msg, err := c.send(ctx, messages, defs)
		if err != nil {
			return Completion{}, err
		}

		parsed := make([]ToolCall, 0, len(msg.ToolCalls))
		for _, tc := range msg.ToolCalls {
			parsed = append(parsed, ToolCall{
				Name:      tc.Function.Name,
				Arguments: parseArguments(tc.Function.Arguments),
			})
		}
		calls = append(calls, parsed...)

		if len(msg.ToolCalls) == 0 || round >= c.maxToolRounds || !anyExecutable(tools, msg.ToolCalls) {
			return Completion{Text: msg.Content, ToolCalls: calls}, nil
		}

		messages = append(messages, msg)
		for i, tc := range msg.ToolCalls {
			result := "tool not available"
			if t := findTool(tools, tc.Function.Name); t != nil && t.Execute != nil {
				result = t.Execute(ctx, parsed[i].Arguments)
			}
			messages = append(messages, chatMessage{Role: "tool", Content: result, ToolCallID: tc.ID})
		}
	}
}

// send performs a single chat completions request
func (c *chatClient) send(ctx context.Context, messages []chatMessage, tools []toolDef) (chatMessage, error) {
	requestBody := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Tools:       tools,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return chatMessage{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return chatMessage{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return chatMessage{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return chatMessage{}, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return chatMessage{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return chatMessage{}, fmt.Errorf("no choices in response")
	}
	return chatResp.Choices[0].Message, nil
}

func toolDefs(tools []Tool) []toolDef {
	if len(tools) == 0 {
		return nil
	}
	defs := make([]toolDef, 0, len(tools))
	for _, t := range tools {
		props := make(map[string]any, len(t.Parameters))
		required := make([]string, 0, len(t.Parameters))
		for name, desc := range t.Parameters {
			props[name] = map[string]any{"type": "string", "description": desc}
			required = append(required, name)
		}
		defs = append(defs, toolDef{
			Type: "function",
			Function: functionDef{
				Name:        t.Name,
				Description: t.Description,
				Parameters: map[string]any{
					"type":       "object",
					"properties": props,
					"required":   required,
				},
			},
		})
	}
	return defs
}

// parseArguments decodes the model's JSON argument blob into flat strings.
// Malformed arguments yield an empty map rather than an error: a bad tool
// call is the model's problem, not a transport failure.
func parseArguments(raw string) map[string]string {
	args := map[string]string{}
	if raw == "" {
		return args
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return args
	}
	for k, v := range decoded {
		args[k] = utils.Str(v)
	}
	return args
}

func findTool(tools []Tool, name string) *Tool {
	for i := range tools {
		if tools[i].Name == name {
			return &tools[i]
		}
	}
	return nil
}

func anyExecutable(tools []Tool, calls []chatToolCall) bool {
	for _, tc := range calls {
		if t := findTool(tools, tc.Function.Name); t != nil && t.Execute != nil {
			return true
		}
	}
	return false
}
