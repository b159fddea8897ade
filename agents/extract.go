package agents

import (
	"regexp"
	"strings"

	"github.com/thomasma/langgraph-researcher/provider"
	"github.com/thomasma/langgraph-researcher/tools"
)

// The section markers the formatter prompt asks for. Extraction is
// marker-literal and order sensitive on purpose: a response missing a
// marker degrades to "everything is detail" instead of erroring.
const (
	markerSummary    = "EXECUTIVE SUMMARY"
	markerDetailed   = "DETAILED RESEARCH"
	markerInvestment = "INVESTMENT OPPORTUNITIES"
)

var urlPattern = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)

const maxURLSources = 3

// collectSources assembles the source list for a research response: one
// entry per web-search tool invocation, a single topic fallback when the
// model made none, then up to the first three URLs found in the raw text.
func collectSources(topic, raw string, calls []provider.ToolCall) []string {
	var sources []string
	for _, c := range calls {
		if c.Name != tools.WebSearchToolName {
			continue
		}
		query := c.Arguments["query"]
		if query == "" {
			query = "N/A"
		}
		sources = append(sources, "Web search: "+query)
	}
	if len(sources) == 0 {
		sources = append(sources, "Web search query: "+topic)
	}
	for i, url := range urlPattern.FindAllString(raw, -1) {
		if i >= maxURLSources {
			break
		}
		sources = append(sources, "Source: "+url)
	}
	return sources
}

// splitSections shreds the formatter response into its three sections.
// The text before the first DETAILED RESEARCH marker, minus the EXECUTIVE
// SUMMARY marker, is the summary. The part after it is detail until an
// INVESTMENT OPPORTUNITIES marker, then investment. With no DETAILED
// RESEARCH marker at all, the whole response is detail.
func splitSections(formatted string) Sections {
	parts := strings.Split(formatted, markerDetailed)
	if len(parts) == 1 {
		return Sections{Detailed: formatted}
	}

	summary := strings.TrimSpace(strings.ReplaceAll(parts[0], markerSummary, ""))
	rest := parts[1]
	if !strings.Contains(rest, markerInvestment) {
		return Sections{Summary: summary, Detailed: strings.TrimSpace(rest)}
	}

	sub := strings.Split(rest, markerInvestment)
	return Sections{
		Summary:    summary,
		Detailed:   strings.TrimSpace(sub[0]),
		Investment: strings.TrimSpace(sub[1]),
	}
}

// hasIssueFlag reports whether a validation response flags anything,
// judged by the presence of either trigger word in any case.
func hasIssueFlag(report string) bool {
	lower := strings.ToLower(report)
	return strings.Contains(lower, "flagged") || strings.Contains(lower, "issue")
}
