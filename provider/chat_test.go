package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/thomasma/langgraph-researcher/config"
)

func TestCompleteSingleRound(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"generated text"}}]}`)
	}))
	defer srv.Close()

	client := NewOpenAIClient(config.LLMProvider{APIKey: "test-key", BaseURL: srv.URL, Model: "m"})

	got, err := client.Complete(context.Background(), "prompt", nil)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got.Text != "generated text" {
		t.Fatalf("Text = %q, want %q", got.Text, "generated text")
	}
	if len(got.ToolCalls) != 0 {
		t.Fatalf("ToolCalls = %v, want none", got.ToolCalls)
	}
}

func TestCompleteExecutesToolRound(t *testing.T) {
	t.Parallel()
	var requests []chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		requests = append(requests, req)
		w.Header().Set("Content-Type", "application/json")
		if len(requests) == 1 {
			fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"","tool_calls":[{"id":"call_1","type":"function","function":{"name":"web_search_tool","arguments":"{\"query\":\"solar etfs\"}"}}]}}]}`)
			return
		}
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"final answer"}}]}`)
	}))
	defer srv.Close()

	client := NewGroqClient(config.LLMProvider{APIKey: "k", BaseURL: srv.URL, Model: "m"})

	var executedWith string
	tools := []Tool{{
		Name:       "web_search_tool",
		Parameters: map[string]string{"query": "the search query"},
		Execute: func(_ context.Context, args map[string]string) string {
			executedWith = args["query"]
			return "search result text"
		},
	}}

	got, err := client.Complete(context.Background(), "prompt", tools)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got.Text != "final answer" {
		t.Fatalf("Text = %q, want %q", got.Text, "final answer")
	}
	if len(got.ToolCalls) != 1 || got.ToolCalls[0].Name != "web_search_tool" {
		t.Fatalf("ToolCalls = %v, want one web_search_tool call", got.ToolCalls)
	}
	if got.ToolCalls[0].Arguments["query"] != "solar etfs" {
		t.Fatalf("tool call arguments = %v", got.ToolCalls[0].Arguments)
	}
	if executedWith != "solar etfs" {
		t.Fatalf("tool executed with %q, want %q", executedWith, "solar etfs")
	}

	if len(requests) != 2 {
		t.Fatalf("server saw %d requests, want 2", len(requests))
	}
	second := requests[1].Messages
	last := second[len(second)-1]
	if last.Role != "tool" || last.Content != "search result text" || last.ToolCallID != "call_1" {
		t.Fatalf("tool result message = %+v", last)
	}
}

func TestCompleteAdvertisedOnlyToolsDoNotLoop(t *testing.T) {
	t.Parallel()
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"text","tool_calls":[{"id":"c1","type":"function","function":{"name":"web_search_tool","arguments":"{\"query\":\"x\"}"}}]}}]}`)
	}))
	defer srv.Close()

	client := NewOpenAIClient(config.LLMProvider{APIKey: "k", BaseURL: srv.URL, Model: "m"})
	tools := []Tool{{Name: "web_search_tool", Parameters: map[string]string{"query": "q"}}} // no Execute

	got, err := client.Complete(context.Background(), "prompt", tools)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if calls != 1 {
		t.Fatalf("server saw %d calls, want 1", calls)
	}
	if len(got.ToolCalls) != 1 {
		t.Fatalf("ToolCalls = %v, want the advertised-only invocation recorded", got.ToolCalls)
	}
}

func TestCompleteSurfacesAPIErrors(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewOpenAIClient(config.LLMProvider{APIKey: "bad", BaseURL: srv.URL, Model: "m"})

	_, err := client.Complete(context.Background(), "prompt", nil)
	if err == nil {
		t.Fatal("Complete() expected error, got nil")
	}
}

func TestNewProviderRejectsUnknownType(t *testing.T) {
	t.Parallel()
	if _, err := NewProvider(config.LLMProvider{Type: "anthropic"}); err == nil {
		t.Fatal("NewProvider() expected error for unsupported type")
	}
}
