package planning

// Phase is one stage of the planning workflow.
type Phase string

const (
	PhaseIngestion      Phase = "ingestion"
	PhasePrioritization Phase = "prioritization"
	PhaseDependencies   Phase = "dependencies"
	PhaseEstimation     Phase = "estimation"
	PhasePreview        Phase = "preview"
	PhaseAnalysis       Phase = "analysis"
)

// phaseOrder fixes the strict forward order of the workflow.
var phaseOrder = []Phase{
	PhaseIngestion,
	PhasePrioritization,
	PhaseDependencies,
	PhaseEstimation,
	PhasePreview,
	PhaseAnalysis,
}

// AllPhases returns the phases in workflow order.
func AllPhases() []Phase {
	out := make([]Phase, len(phaseOrder))
	copy(out, phaseOrder)
	return out
}

// IsValid checks if the phase is one of the six workflow stages.
func (p Phase) IsValid() bool {
	return p.Index() >= 0
}

// Index returns the position of the phase in the workflow, or -1 if invalid.
func (p Phase) Index() int {
	for i, ph := range phaseOrder {
		if ph == p {
			return i
		}
	}
	return -1
}

// Next returns the following phase. The terminal phase returns itself:
// analysis is re-enterable indefinitely and never closes.
func (p Phase) Next() Phase {
	i := p.Index()
	if i < 0 || i == len(phaseOrder)-1 {
		return p
	}
	return phaseOrder[i+1]
}

// Previous returns the preceding phase, or the phase itself at the start.
func (p Phase) Previous() Phase {
	i := p.Index()
	if i <= 0 {
		return p
	}
	return phaseOrder[i-1]
}

// ParsePhase parses a string into a Phase.
func ParsePhase(s string) (Phase, bool) {
	p := Phase(s)
	return p, p.IsValid()
}
