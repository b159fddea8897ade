package provider

import (
	"net/http"
	"time"

	"github.com/thomasma/langgraph-researcher/config"
)

const openaiAPIURL = "https://api.openai.com/v1"

// OpenAIClient implements Provider using OpenAI's chat completions API
type OpenAIClient struct {
	chatClient
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(cfg config.LLMProvider) *OpenAIClient {
	base := cfg.BaseURL
	if base == "" {
		base = openaiAPIURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &OpenAIClient{chatClient{
		endpoint:      base + "/chat/completions",
		apiKey:        cfg.APIKey,
		model:         cfg.Model,
		temperature:   cfg.Temperature,
		maxTokens:     cfg.MaxTokens,
		maxToolRounds: 3,
		httpClient:    &http.Client{Timeout: timeout},
	}}
}
