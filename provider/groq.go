package provider

import (
	"net/http"
	"time"

	"github.com/thomasma/langgraph-researcher/config"
)

// https://console.groq.com/docs/openai — Groq serves an OpenAI-compatible API
const groqAPIURL = "https://api.groq.com/openai/v1"

// GroqClient implements Provider using Groq's chat completions API
type GroqClient struct {
	chatClient
}

// NewGroqClient creates a new Groq client
func NewGroqClient(cfg config.LLMProvider) *GroqClient {
	base := cfg.BaseURL
	if base == "" {
		base = groqAPIURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &GroqClient{chatClient{
		endpoint:      base + "/chat/completions",
		apiKey:        cfg.APIKey,
		model:         cfg.Model,
		temperature:   cfg.Temperature,
		maxTokens:     cfg.MaxTokens,
		maxToolRounds: 3,
		httpClient:    &http.Client{Timeout: timeout},
	}}
}
