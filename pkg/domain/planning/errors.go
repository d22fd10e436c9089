package planning

import "errors"

// Planning domain errors.
var (
	// ErrNoPlan indicates no plan exists yet for the requested operation.
	ErrNoPlan = errors.New("no plan found")
	// ErrPlanNotFound indicates the referenced plan ID does not exist.
	ErrPlanNotFound = errors.New("plan not found")
	// ErrTaskNotFound indicates a task ID is absent from the plan.
	ErrTaskNotFound = errors.New("task not found in plan")
	// ErrDuplicateTask indicates a task with the same ID already exists.
	ErrDuplicateTask = errors.New("task with this id already exists")
	// ErrInvalidDateRange indicates an override whose end precedes its start
	// or whose dates are unparsable. The prior range is retained.
	ErrInvalidDateRange = errors.New("invalid date range: end precedes start")
	// ErrInvalidPhase indicates an unknown workflow phase value.
	ErrInvalidPhase = errors.New("invalid workflow phase")
	// ErrPhaseJumpWithoutPlan indicates arbitrary phase navigation was
	// attempted before a plan exists.
	ErrPhaseJumpWithoutPlan = errors.New("phase navigation requires an existing plan")
	// ErrNegativeDuration indicates a task estimate below zero minutes.
	ErrNegativeDuration = errors.New("estimated duration cannot be negative")
)
