package advisory

import (
	"context"

	"github.com/felixgeelhaar/flowplan/pkg/domain/planning"
	"github.com/felixgeelhaar/flowplan/pkg/domain/scheduling"
)

// Request carries the scheduled task set an advisor reasons about.
type Request struct {
	Tasks  []planning.Task
	Result *scheduling.Result
}

// Response holds free-form advisory strings. The scheduler passes them
// through untouched; they never influence computed dates.
type Response struct {
	Suggestions []string
}

// Provider generates linking/sequencing suggestions for a scheduled plan.
// It is an opaque external service from the engine's point of view: a
// failing provider must never invalidate the schedule it was asked about.
type Provider interface {
	ID() string
	Suggest(ctx context.Context, req Request) (*Response, error)
}
