package agents

import (
	"errors"
	"time"
)

// ErrSessionNotFound is returned when no checkpoint exists for a session ID.
var ErrSessionNotFound = errors.New("session not found")

// DefaultSessionID is the checkpoint key used when the caller names none.
const DefaultSessionID = "research_session"

// Message is one entry in a run's conversation log.
type Message struct {
	Role    string    `json:"role"` // human, ai
	Agent   string    `json:"agent,omitempty"`
	Content string    `json:"content"`
	Time    time.Time `json:"time"`
}

// Sections holds the formatter's three report sections.
type Sections struct {
	Summary    string `json:"summary"`
	Detailed   string `json:"detailed"`
	Investment string `json:"investment"`
}

// Validation holds the validator's output. ConfidenceScore is reported
// alongside the full text; it is not parsed out of the model response.
type Validation struct {
	Report          string    `json:"report"`
	ConfidenceScore int       `json:"confidence_score"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// State is the single mutable record threaded through the pipeline. Every
// field is declared up front and written once per run, in stage order, by
// the stage noted on it; no stage touches a field owned by an earlier one.
// Messages is the exception: it is append-only and every stage adds exactly
// one entry.
type State struct {
	RunID string `json:"run_id"`
	Topic string `json:"topic"` // set at construction, immutable afterward

	Messages []Message `json:"conversation_log"`

	RawResearch string   `json:"raw_research"` // research
	Sources     []string `json:"sources"`      // research

	Sections Sections `json:"formatted_sections"` // format

	Validation       Validation `json:"validation"`        // validate
	ValidationIssues []string   `json:"validation_issues"` // validate

	FinalReport string `json:"final_report"` // finalize

	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
}

// NewState constructs a fresh per-run state with empty defaults.
func NewState(topic string) *State {
	now := time.Now()
	return &State{
		Topic:     topic,
		StartedAt: now,
		Messages: []Message{
			{Role: "human", Content: "Research topic: " + topic, Time: now},
		},
	}
}

func (s *State) appendMessage(agent, content string) {
	s.Messages = append(s.Messages, Message{
		Role:    "ai",
		Agent:   agent,
		Content: content,
		Time:    time.Now(),
	})
}
