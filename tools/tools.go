// Package tools exposes the lookup capabilities the pipeline offers to the
// model: a general web search and a fact-check search. Both return text
// unconditionally — a failed lookup comes back as a readable failure note
// inside the result string, so callers never branch on lookup errors and a
// run can proceed on degraded lookups.
package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/thomasma/langgraph-researcher/provider"
	"github.com/thomasma/langgraph-researcher/tools/web_search"
	"github.com/thomasma/langgraph-researcher/tools/web_search/models"
)

const (
	WebSearchToolName = "web_search_tool"
	FactCheckToolName = "fact_check_tool"
)

// Lookup bundles the two agent-facing lookup tools over one web searcher.
type Lookup struct {
	searcher   web_search.WebSearcher
	maxResults int
}

func NewLookup(searcher web_search.WebSearcher, maxResults int) *Lookup {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &Lookup{searcher: searcher, maxResults: maxResults}
}

// WebSearch searches the web for information on a given topic
func (l *Lookup) WebSearch(ctx context.Context, query string) string {
	results, err := l.searcher.Discover(ctx, query, l.maxResults)
	if err != nil {
		return fmt.Sprintf("Search failed: %s", err)
	}
	return fmt.Sprintf("Search results for '%s':\n%s", query, renderResults(results))
}

// FactCheck verifies a claim by searching for corroboration
func (l *Lookup) FactCheck(ctx context.Context, claim string) string {
	results, err := l.searcher.Discover(ctx, fmt.Sprintf("fact check verify: %s", claim), l.maxResults)
	if err != nil {
		return fmt.Sprintf("Fact-check failed: %s", err)
	}
	return fmt.Sprintf("Fact-check results for '%s':\n%s", claim, renderResults(results))
}

// Tools returns the lookup capabilities in the form the LLM providers bind.
func (l *Lookup) Tools() []provider.Tool {
	return []provider.Tool{
		{
			Name:        WebSearchToolName,
			Description: "Search the web for information on any topic. Use this to find current information, news, and facts about any subject.",
			Parameters:  map[string]string{"query": "The search query"},
			Execute: func(ctx context.Context, args map[string]string) string {
				return l.WebSearch(ctx, args["query"])
			},
		},
		{
			Name:        FactCheckToolName,
			Description: "Verify facts and claims by searching for verification. Use this to check if a specific statement or fact is accurate.",
			Parameters:  map[string]string{"claim": "The statement to verify"},
			Execute: func(ctx context.Context, args map[string]string) string {
				return l.FactCheck(ctx, args["claim"])
			},
		},
	}
}

func renderResults(results []models.Result) string {
	if len(results) == 0 {
		return "No results found."
	}
	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "- %s (%s): %s\n", r.Title, r.URL, r.Snippet)
	}
	return strings.TrimRight(b.String(), "\n")
}
