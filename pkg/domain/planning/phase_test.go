package planning

import "testing"

func TestPhase_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		phase    Phase
		expected bool
	}{
		{"ingestion", PhaseIngestion, true},
		{"prioritization", PhasePrioritization, true},
		{"dependencies", PhaseDependencies, true},
		{"estimation", PhaseEstimation, true},
		{"preview", PhasePreview, true},
		{"analysis", PhaseAnalysis, true},
		{"invalid", Phase("review"), false},
		{"empty", Phase(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.phase.IsValid(); got != tt.expected {
				t.Errorf("IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestPhase_NextPrevious(t *testing.T) {
	tests := []struct {
		phase    Phase
		next     Phase
		previous Phase
	}{
		{PhaseIngestion, PhasePrioritization, PhaseIngestion},
		{PhasePrioritization, PhaseDependencies, PhaseIngestion},
		{PhaseDependencies, PhaseEstimation, PhasePrioritization},
		{PhaseEstimation, PhasePreview, PhaseDependencies},
		{PhasePreview, PhaseAnalysis, PhaseEstimation},
		// Analysis is terminal but re-enterable; it never advances past itself.
		{PhaseAnalysis, PhaseAnalysis, PhasePreview},
	}

	for _, tt := range tests {
		t.Run(string(tt.phase), func(t *testing.T) {
			if got := tt.phase.Next(); got != tt.next {
				t.Errorf("Next() = %v, want %v", got, tt.next)
			}
			if got := tt.phase.Previous(); got != tt.previous {
				t.Errorf("Previous() = %v, want %v", got, tt.previous)
			}
		})
	}
}

func TestParsePhase(t *testing.T) {
	if p, ok := ParsePhase("preview"); !ok || p != PhasePreview {
		t.Errorf("ParsePhase(preview) = %v, %v", p, ok)
	}
	if _, ok := ParsePhase("done"); ok {
		t.Error("ParsePhase(done) accepted an unknown phase")
	}
}

func TestAllPhases_Order(t *testing.T) {
	phases := AllPhases()
	if len(phases) != 6 {
		t.Fatalf("AllPhases() = %d phases, want 6", len(phases))
	}
	for i, p := range phases {
		if p.Index() != i {
			t.Errorf("phase %s at position %d has Index() %d", p, i, p.Index())
		}
	}
}
