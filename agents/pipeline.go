// Package agents implements the four-stage research pipeline: a research
// pass with lookup tools, a formatting pass, a validation pass, and a
// final report render. One State record flows through the stages in order;
// there is no branching, no retry, and no parallelism.
package agents

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/thomasma/langgraph-researcher/provider"
	"github.com/thomasma/langgraph-researcher/telemetry"
	"github.com/thomasma/langgraph-researcher/tools"
)

// StageError reports which stage aborted a run. The underlying service
// error is wrapped unmodified.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// CheckpointStore persists finished run states under a session ID.
type CheckpointStore interface {
	Save(ctx context.Context, id string, state *State) error
}

type stage struct {
	name string
	run  func(ctx context.Context, s *State) error
}

// Pipeline owns the ordered stage list and the collaborators the stages
// call. Stages depend on the Provider interface only, never on a concrete
// model client.
type Pipeline struct {
	researchLLM provider.Provider
	formatLLM   provider.Provider
	validateLLM provider.Provider
	lookup      *tools.Lookup

	logger      *log.Logger
	telemetry   *telemetry.Telemetry
	checkpoints CheckpointStore

	stages []stage
}

// NewPipeline wires the four stages to their providers. Each stage may run
// on a different model; the original system routed research to one vendor
// and formatting/validation to another.
func NewPipeline(research, format, validate provider.Provider, lookup *tools.Lookup, logger *log.Logger, tele *telemetry.Telemetry) *Pipeline {
	if logger == nil {
		logger = log.New(log.Writer(), "[PIPELINE] ", log.LstdFlags)
	}
	p := &Pipeline{
		researchLLM: research,
		formatLLM:   format,
		validateLLM: validate,
		lookup:      lookup,
		logger:      logger,
		telemetry:   tele,
	}
	p.stages = []stage{
		{"research", p.research},
		{"format", p.format},
		{"validate", p.validate},
		{"finalize", p.finalize},
	}
	return p
}

// AttachCheckpoints makes Run persist finished states under their session
// ID. Checkpoint failures are logged, never fatal: the report was already
// produced.
func (p *Pipeline) AttachCheckpoints(store CheckpointStore) {
	p.checkpoints = store
}

// Run executes the stages strictly in order against a fresh state. The
// first stage failure halts the run and the returned error names the
// stage; there is no retry and no partial-success result.
func (p *Pipeline) Run(ctx context.Context, topic string) (*State, error) {
	return p.RunSession(ctx, topic, DefaultSessionID)
}

// RunSession is Run with an explicit checkpoint session ID.
func (p *Pipeline) RunSession(ctx context.Context, topic, sessionID string) (*State, error) {
	state := NewState(topic)
	state.RunID = uuid.New().String()
	start := time.Now()
	p.logger.Printf("run %s: starting research on %q", state.RunID, topic)

	for _, st := range p.stages {
		stageStart := time.Now()
		p.logger.Printf("run %s: %s stage starting", state.RunID, st.name)
		if err := st.run(ctx, state); err != nil {
			p.telemetry.RecordStage(st.name, time.Since(stageStart), true)
			p.telemetry.RecordRun("error", time.Since(start))
			p.logger.Printf("run %s: %s stage failed: %v", state.RunID, st.name, err)
			return nil, &StageError{Stage: st.name, Err: err}
		}
		p.telemetry.RecordStage(st.name, time.Since(stageStart), false)
	}

	state.CompletedAt = time.Now()
	p.telemetry.RecordRun("success", time.Since(start))
	p.logger.Printf("run %s: completed in %s", state.RunID, state.CompletedAt.Sub(start).Round(time.Millisecond))

	if p.checkpoints != nil {
		if sessionID == "" {
			sessionID = DefaultSessionID
		}
		if err := p.checkpoints.Save(ctx, sessionID, state); err != nil {
			p.logger.Printf("run %s: checkpoint save for session %q failed: %v", state.RunID, sessionID, err)
		}
	}
	return state, nil
}
