package planning

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// State constants for statekit integration.
// These must remain as untyped string constants for statekit.StateID
// compatibility. Values are kept in sync with the Phase constants in phase.go.
const (
	StateIngestion      = "ingestion"
	StatePrioritization = "prioritization"
	StateDependencies   = "dependencies"
	StateEstimation     = "estimation"
	StatePreview        = "preview"
	StateAnalysis       = "analysis"
)

// init validates at startup that FSM state constants match Phase values.
func init() {
	stateMap := map[string]Phase{
		StateIngestion:      PhaseIngestion,
		StatePrioritization: PhasePrioritization,
		StateDependencies:   PhaseDependencies,
		StateEstimation:     PhaseEstimation,
		StatePreview:        PhasePreview,
		StateAnalysis:       PhaseAnalysis,
	}

	for fsmState, phase := range stateMap {
		if fsmState != string(phase) {
			panic(fmt.Sprintf("FSM state %q does not match Phase %q - constants are out of sync", fsmState, phase))
		}
	}
}

// Workflow events.
const (
	EventAdvance = "advance"
	EventRetreat = "retreat"
)

// PhaseContext carries workflow state data.
type PhaseContext struct {
	PlanID string
	// PlanExists gates arbitrary phase jumps: there is nothing to navigate
	// back to before a plan is created.
	PlanExists func(planID string) bool
}

// PhaseMachine governs the six-stage planning workflow.
type PhaseMachine struct {
	interpreter *statekit.Interpreter[PhaseContext]
}

// NewPhaseMachine builds a workflow machine starting at the given phase.
func NewPhaseMachine(initial Phase, planID string, planExists func(string) bool) (*PhaseMachine, error) {
	if !initial.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPhase, initial)
	}
	if planExists == nil {
		planExists = func(string) bool { return true }
	}

	builder := statekit.NewMachine[PhaseContext]("plan-phase-machine").
		WithInitial(statekit.StateID(initial)).
		WithContext(PhaseContext{
			PlanID:     planID,
			PlanExists: planExists,
		}).
		WithGuard("planGuard", func(ctx PhaseContext, e statekit.Event) bool {
			return ctx.PlanExists(ctx.PlanID)
		})

	// Advancing is strictly one phase at a time; jump events carry the
	// target phase and require an existing plan.
	builder.State(StateIngestion).
		On(EventAdvance).Target(StatePrioritization).
		On(jumpEvent(PhasePrioritization)).Target(StatePrioritization).Guard("planGuard").
		On(jumpEvent(PhaseDependencies)).Target(StateDependencies).Guard("planGuard").
		On(jumpEvent(PhaseEstimation)).Target(StateEstimation).Guard("planGuard").
		On(jumpEvent(PhasePreview)).Target(StatePreview).Guard("planGuard").
		On(jumpEvent(PhaseAnalysis)).Target(StateAnalysis).Guard("planGuard").
		Done()

	builder.State(StatePrioritization).
		On(EventAdvance).Target(StateDependencies).
		On(EventRetreat).Target(StateIngestion).
		On(jumpEvent(PhaseIngestion)).Target(StateIngestion).Guard("planGuard").
		On(jumpEvent(PhaseDependencies)).Target(StateDependencies).Guard("planGuard").
		On(jumpEvent(PhaseEstimation)).Target(StateEstimation).Guard("planGuard").
		On(jumpEvent(PhasePreview)).Target(StatePreview).Guard("planGuard").
		On(jumpEvent(PhaseAnalysis)).Target(StateAnalysis).Guard("planGuard").
		Done()

	builder.State(StateDependencies).
		On(EventAdvance).Target(StateEstimation).
		On(EventRetreat).Target(StatePrioritization).
		On(jumpEvent(PhaseIngestion)).Target(StateIngestion).Guard("planGuard").
		On(jumpEvent(PhasePrioritization)).Target(StatePrioritization).Guard("planGuard").
		On(jumpEvent(PhaseEstimation)).Target(StateEstimation).Guard("planGuard").
		On(jumpEvent(PhasePreview)).Target(StatePreview).Guard("planGuard").
		On(jumpEvent(PhaseAnalysis)).Target(StateAnalysis).Guard("planGuard").
		Done()

	builder.State(StateEstimation).
		On(EventAdvance).Target(StatePreview).
		On(EventRetreat).Target(StateDependencies).
		On(jumpEvent(PhaseIngestion)).Target(StateIngestion).Guard("planGuard").
		On(jumpEvent(PhasePrioritization)).Target(StatePrioritization).Guard("planGuard").
		On(jumpEvent(PhaseDependencies)).Target(StateDependencies).Guard("planGuard").
		On(jumpEvent(PhasePreview)).Target(StatePreview).Guard("planGuard").
		On(jumpEvent(PhaseAnalysis)).Target(StateAnalysis).Guard("planGuard").
		Done()

	builder.State(StatePreview).
		On(EventAdvance).Target(StateAnalysis).
		On(EventRetreat).Target(StateEstimation).
		On(jumpEvent(PhaseIngestion)).Target(StateIngestion).Guard("planGuard").
		On(jumpEvent(PhasePrioritization)).Target(StatePrioritization).Guard("planGuard").
		On(jumpEvent(PhaseDependencies)).Target(StateDependencies).Guard("planGuard").
		On(jumpEvent(PhaseEstimation)).Target(StateEstimation).Guard("planGuard").
		Done()

	// No terminal "closed" state: analysis is re-enterable indefinitely for
	// continued what-if exploration.
	builder.State(StateAnalysis).
		On(EventRetreat).Target(StatePreview).
		On(jumpEvent(PhaseIngestion)).Target(StateIngestion).Guard("planGuard").
		On(jumpEvent(PhasePrioritization)).Target(StatePrioritization).Guard("planGuard").
		On(jumpEvent(PhaseDependencies)).Target(StateDependencies).Guard("planGuard").
		On(jumpEvent(PhaseEstimation)).Target(StateEstimation).Guard("planGuard").
		On(jumpEvent(PhasePreview)).Target(StatePreview).Guard("planGuard").
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build phase machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &PhaseMachine{interpreter: interpreter}, nil
}

func jumpEvent(p Phase) statekit.EventType {
	return statekit.EventType("jump-" + string(p))
}

// Current returns the active phase.
func (m *PhaseMachine) Current() Phase {
	return Phase(m.interpreter.State().Value)
}

// Advance moves the workflow one phase forward. At the terminal phase this
// is a no-op and reports false; callers use the report to decide whether an
// autosave checkpoint is due.
func (m *PhaseMachine) Advance() bool {
	return m.send(EventAdvance)
}

// Retreat moves the workflow one phase back. A no-op at the initial phase.
func (m *PhaseMachine) Retreat() bool {
	return m.send(EventRetreat)
}

// JumpTo navigates to an arbitrary phase. Permitted only when the plan
// already exists; otherwise the guard blocks the transition.
func (m *PhaseMachine) JumpTo(target Phase) error {
	if !target.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPhase, target)
	}
	if m.Current() == target {
		return nil
	}
	if !m.send(jumpEvent(target)) {
		return ErrPhaseJumpWithoutPlan
	}
	return nil
}

// send fires an event and reports whether the state changed. In statekit a
// transition that matches no edge, or whose guard fails, leaves the state
// unchanged.
func (m *PhaseMachine) send(event statekit.EventType) bool {
	before := m.interpreter.State().Value
	m.interpreter.Send(statekit.Event{Type: event})
	return m.interpreter.State().Value != before
}
