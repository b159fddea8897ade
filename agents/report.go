package agents

import (
	"fmt"
	"strings"
	"time"
)

const (
	noSummaryNote    = "No summary available"
	noDetailNote     = "No detailed content available"
	noInvestmentNote = "No investment opportunities identified"
	noValidationNote = "No validation available"
	noSourcesNote    = "No sources listed"
)

const reportTemplate = `# Research Report: %s

## Executive Summary
%s

## Detailed Research
%s

## Investment Opportunities
%s

## Validation Report
%s

## Sources
%s

## Validation Status
- Confidence Score: %d/10
- Issues Found: %d
- Validation Date: %s

---
*Report generated by Multi-Agent Research System*
`

// renderReport interpolates the accumulated state into the fixed markdown
// report layout. Section order and headings are part of the contract that
// downstream consumers of the saved report rely on.
func renderReport(s *State) string {
	return fmt.Sprintf(reportTemplate,
		s.Topic,
		orNote(s.Sections.Summary, noSummaryNote),
		orNote(s.Sections.Detailed, noDetailNote),
		orNote(s.Sections.Investment, noInvestmentNote),
		orNote(s.Validation.Report, noValidationNote),
		sourceList(s.Sources),
		s.Validation.ConfidenceScore,
		len(s.ValidationIssues),
		s.Validation.GeneratedAt.Format(time.RFC3339),
	)
}

func orNote(v, note string) string {
	if v == "" {
		return note
	}
	return v
}

func sourceList(sources []string) string {
	if len(sources) == 0 {
		return noSourcesNote
	}
	lines := make([]string, len(sources))
	for i, source := range sources {
		lines[i] = "- " + source
	}
	return strings.Join(lines, "\n")
}
