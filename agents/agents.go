package agents

import (
	"context"
	"fmt"
	"time"
)

const researchPrompt = `You are a research specialist. Conduct comprehensive research on: %s

Your task:
1. Use the web_search_tool to gather information from multiple sources
2. Look for recent developments, key facts, statistics, and expert opinions
3. Identify credible sources and citations
4. Look for different perspectives on the topic
5. Note any controversial or disputed claims
6. Use fact_check_tool to verify important claims
7. IMPORTANT: Research and identify the top 5 investment vehicles for retail investors related to this topic

For the investment vehicles section, prioritize and search for:
- ETFs (Exchange-Traded Funds) - Focus on sector-specific, thematic, and broad market ETFs
- Individual stocks of major companies in the sector
- Mutual funds focused on the sector
- REITs (Real Estate Investment Trusts) if applicable
- Include current ticker symbols, fund names, expense ratios, and brief descriptions
- Note recent performance data, assets under management, and analyst ratings
- Search specifically for "ETFs" and "exchange-traded funds" related to the topic

Perform multiple targeted searches to get comprehensive coverage. Provide detailed research findings with proper source attribution.`

const formatPrompt = `You are a content formatter. Take the research data and structure it into three clear sections.

Topic: %s

Research Data:
%s

Create three sections:

1. EXECUTIVE SUMMARY (2-3 paragraphs):
- Key findings and main points
- Most important statistics or facts
- Overall conclusion or implications

2. DETAILED RESEARCH (comprehensive):
- Full research findings with sources
- Supporting evidence and data
- Different perspectives and viewpoints
- Specific examples and case studies
- Citations and references

3. INVESTMENT OPPORTUNITIES (if applicable):
- Top 5 investment vehicles for retail investors (prioritize ETFs)
- Include ETF ticker symbols, stock symbols, fund names, and descriptions
- Recent performance data, expense ratios, and analyst ratings
- Risk considerations and investment thesis
- Focus on ETFs as the primary investment vehicle for retail investors

Format this as a professional research report with clear section headers.`

const validatePrompt = `You are a fact-checker and validator. Review the research for accuracy and reliability.

Topic: %s

Original Research:
%s

Formatted Content:
Summary: %s
Detailed: %s

Your tasks:
1. Identify any claims that seem questionable or unverified
2. Check for potential fake quotes or misattributed statements
3. Look for outdated information or statistics
4. Flag any biased or one-sided perspectives
5. Verify that sources are credible and properly cited
6. Check for logical inconsistencies

Provide a validation report with:
- Overall confidence score (1-10)
- List of flagged issues
- Recommendations for improvement
- Verification status of key claims`

// The numeric score is never extracted from the validator's free text; a
// fixed value is reported next to the full report instead.
const defaultConfidenceScore = 8

const issueFlagNote = "Some claims may need verification"

// research conducts the first stage: a tool-assisted research pass that
// fills RawResearch and Sources.
func (p *Pipeline) research(ctx context.Context, s *State) error {
	prompt := fmt.Sprintf(researchPrompt, s.Topic)
	completion, err := p.researchLLM.Complete(ctx, prompt, p.lookup.Tools())
	if err != nil {
		return err
	}
	s.RawResearch = completion.Text
	s.Sources = collectSources(s.Topic, completion.Text, completion.ToolCalls)
	s.appendMessage("research", completion.Text)
	return nil
}

// format restructures the raw research into the three report sections.
func (p *Pipeline) format(ctx context.Context, s *State) error {
	prompt := fmt.Sprintf(formatPrompt, s.Topic, s.RawResearch)
	completion, err := p.formatLLM.Complete(ctx, prompt, nil)
	if err != nil {
		return err
	}
	s.Sections = splitSections(completion.Text)
	s.appendMessage("format", completion.Text)
	return nil
}

// validate reviews the formatted content and records the validation
// report, the fixed confidence score, and any generic issue flag.
func (p *Pipeline) validate(ctx context.Context, s *State) error {
	prompt := fmt.Sprintf(validatePrompt, s.Topic, s.RawResearch, s.Sections.Summary, s.Sections.Detailed)
	completion, err := p.validateLLM.Complete(ctx, prompt, p.lookup.Tools())
	if err != nil {
		return err
	}
	s.Validation = Validation{
		Report:          completion.Text,
		ConfidenceScore: defaultConfidenceScore,
		GeneratedAt:     time.Now(),
	}
	if hasIssueFlag(completion.Text) {
		s.ValidationIssues = []string{issueFlagNote}
	}
	s.appendMessage("validate", completion.Text)
	return nil
}

// finalize renders the accumulated state into the final report. It makes
// no model call and fails only on a broken contract, never on content.
func (p *Pipeline) finalize(_ context.Context, s *State) error {
	s.FinalReport = renderReport(s)
	s.appendMessage("finalize", "Research report completed")
	return nil
}
