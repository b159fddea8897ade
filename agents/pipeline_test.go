package agents

import (
	"context"
	"errors"
	"io"
	"log"
	"reflect"
	"strings"
	"testing"

	"github.com/thomasma/langgraph-researcher/provider"
	"github.com/thomasma/langgraph-researcher/tools"
	"github.com/thomasma/langgraph-researcher/tools/web_search/models"
)

// stubLLM replays scripted completions and counts calls across the stage
// providers it is shared between.
type stubLLM struct {
	n         *int
	responses []provider.Completion
	errAt     int // 1-based call index that fails; 0 never fails
}

func (s stubLLM) Complete(_ context.Context, _ string, _ []provider.Tool) (provider.Completion, error) {
	*s.n++
	if s.errAt != 0 && *s.n == s.errAt {
		return provider.Completion{}, errors.New("completion service unavailable")
	}
	if *s.n > len(s.responses) {
		return provider.Completion{}, nil
	}
	return s.responses[*s.n-1], nil
}

type stubSearcher struct{}

func (stubSearcher) Discover(_ context.Context, _ string, _ int) ([]models.Result, error) {
	return nil, nil
}

func newTestPipeline(responses []provider.Completion, errAt int) (*Pipeline, *int) {
	calls := 0
	llm := stubLLM{n: &calls, responses: responses, errAt: errAt}
	lookup := tools.NewLookup(stubSearcher{}, 3)
	logger := log.New(io.Discard, "", 0)
	return NewPipeline(llm, llm, llm, lookup, logger, nil), &calls
}

const formattedResponse = "EXECUTIVE SUMMARY\nKey findings.\nDETAILED RESEARCH\nAll the detail.\nINVESTMENT OPPORTUNITIES\nFive ETFs."

func TestRunReportSectionOrder(t *testing.T) {
	t.Parallel()
	p, _ := newTestPipeline([]provider.Completion{
		{Text: "research findings, see https://example.com/report"},
		{Text: formattedResponse},
		{Text: "validation looks clean"},
	}, 0)

	state, err := p.Run(context.Background(), "solar energy")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	report := state.FinalReport
	if !strings.HasPrefix(report, "# Research Report: solar energy") {
		t.Fatalf("report does not start with title: %q", report[:60])
	}
	headers := []string{
		"## Executive Summary",
		"## Detailed Research",
		"## Investment Opportunities",
		"## Validation Report",
		"## Sources",
		"## Validation Status",
	}
	last := -1
	for _, h := range headers {
		idx := strings.Index(report, h)
		if idx < 0 {
			t.Fatalf("report missing header %q", h)
		}
		if idx < last {
			t.Fatalf("header %q out of order", h)
		}
		last = idx
	}
	if !strings.Contains(report, "*Report generated by Multi-Agent Research System*") {
		t.Fatalf("report missing attribution line")
	}
}

func TestRunStopsAtFailedStage(t *testing.T) {
	t.Parallel()
	p, calls := newTestPipeline([]provider.Completion{
		{Text: "research ok"},
	}, 2) // second completion call is the format stage

	state, err := p.Run(context.Background(), "anything")
	if err == nil {
		t.Fatal("Run() expected error, got nil")
	}
	if state != nil {
		t.Fatalf("Run() state = %+v, want nil on failure", state)
	}

	var se *StageError
	if !errors.As(err, &se) {
		t.Fatalf("error %v is not a *StageError", err)
	}
	if se.Stage != "format" {
		t.Fatalf("failed stage = %q, want %q", se.Stage, "format")
	}
	if *calls != 2 {
		t.Fatalf("completion calls = %d, want 2 (validate must not run)", *calls)
	}
}

func TestResearchSourcesFromToolInvocations(t *testing.T) {
	t.Parallel()
	p, _ := newTestPipeline([]provider.Completion{
		{
			Text: "findings",
			ToolCalls: []provider.ToolCall{
				{Name: tools.WebSearchToolName, Arguments: map[string]string{"query": "lithium supply"}},
			},
		},
		{Text: formattedResponse},
		{Text: "clean"},
	}, 0)

	state, err := p.Run(context.Background(), "lithium")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := []string{"Web search: lithium supply"}
	if !reflect.DeepEqual(state.Sources, want) {
		t.Fatalf("Sources = %v, want %v", state.Sources, want)
	}
}

func TestResearchSourcesFallback(t *testing.T) {
	t.Parallel()
	p, _ := newTestPipeline([]provider.Completion{
		{Text: "findings with no links and no tool use"},
		{Text: formattedResponse},
		{Text: "clean"},
	}, 0)

	state, err := p.Run(context.Background(), "rare earths")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := []string{"Web search query: rare earths"}
	if !reflect.DeepEqual(state.Sources, want) {
		t.Fatalf("Sources = %v, want %v", state.Sources, want)
	}
}

func TestValidateFlagsIssues(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name     string
		response string
		want     []string
	}{
		{"issue word present", "One Issue was found in the statistics", []string{"Some claims may need verification"}},
		{"clean response", "all claims verified, nothing to report", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, _ := newTestPipeline([]provider.Completion{
				{Text: "research"},
				{Text: formattedResponse},
				{Text: tc.response},
			}, 0)

			state, err := p.Run(context.Background(), "topic")
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if !reflect.DeepEqual(state.ValidationIssues, tc.want) {
				t.Fatalf("ValidationIssues = %v, want %v", state.ValidationIssues, tc.want)
			}
			if state.Validation.ConfidenceScore != 8 {
				t.Fatalf("ConfidenceScore = %d, want 8", state.Validation.ConfidenceScore)
			}
		})
	}
}

func TestReportPlaceholderWhenSummaryMissing(t *testing.T) {
	t.Parallel()
	p, _ := newTestPipeline([]provider.Completion{
		{Text: "research"},
		{Text: "a formatter response without any recognized markers"},
		{Text: "clean"},
	}, 0)

	state, err := p.Run(context.Background(), "topic")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if state.Sections.Summary != "" {
		t.Fatalf("Summary = %q, want empty", state.Sections.Summary)
	}
	if !strings.Contains(state.FinalReport, "## Executive Summary\nNo summary available\n") {
		t.Fatalf("report missing summary placeholder:\n%s", state.FinalReport)
	}
}

func TestRunConversationLog(t *testing.T) {
	t.Parallel()
	p, _ := newTestPipeline([]provider.Completion{
		{Text: "research"},
		{Text: formattedResponse},
		{Text: "clean"},
	}, 0)

	state, err := p.Run(context.Background(), "topic")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(state.Messages) != 5 {
		t.Fatalf("conversation log has %d entries, want 5", len(state.Messages))
	}
	if state.Messages[0].Role != "human" {
		t.Fatalf("first entry role = %q, want human", state.Messages[0].Role)
	}
	last := state.Messages[len(state.Messages)-1]
	if last.Content != "Research report completed" {
		t.Fatalf("last entry = %q, want completion marker", last.Content)
	}
}

type recordingStore struct {
	id    string
	state *State
}

func (r *recordingStore) Save(_ context.Context, id string, state *State) error {
	r.id = id
	r.state = state
	return nil
}

func TestRunSessionCheckpoints(t *testing.T) {
	t.Parallel()
	p, _ := newTestPipeline([]provider.Completion{
		{Text: "research"},
		{Text: formattedResponse},
		{Text: "clean"},
	}, 0)
	store := &recordingStore{}
	p.AttachCheckpoints(store)

	state, err := p.RunSession(context.Background(), "topic", "sess-42")
	if err != nil {
		t.Fatalf("RunSession() error = %v", err)
	}
	if store.id != "sess-42" {
		t.Fatalf("checkpoint session = %q, want sess-42", store.id)
	}
	if store.state == nil || store.state.RunID != state.RunID {
		t.Fatalf("checkpoint state not saved")
	}
}
