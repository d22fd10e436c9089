package cli

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/flowplan/pkg/application"
	"github.com/felixgeelhaar/flowplan/pkg/domain/baseline"
	"github.com/felixgeelhaar/flowplan/pkg/domain/dependency"
	"github.com/felixgeelhaar/flowplan/pkg/domain/planning"
	"github.com/felixgeelhaar/flowplan/pkg/domain/scheduling"
)

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// MapError converts known domain errors into CLIErrors with actionable
// hints. Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var compErr *scheduling.ComputationError
	if errors.As(err, &compErr) {
		return NewCLIError(
			compErr.Error(),
			"Fix the task set before a schedule can be presented — no partial schedule is shown",
			err,
		)
	}

	switch {
	case errors.Is(err, dependency.ErrCyclicDependency):
		return NewCLIError("dependency rejected", "This edge would create a cycle; the graph was left unchanged", err)
	case errors.Is(err, dependency.ErrSelfDependency):
		return NewCLIError("dependency rejected", "A task cannot depend on itself", err)
	case errors.Is(err, dependency.ErrDuplicateEdge):
		return NewCLIError("dependency rejected", "That dependency already exists", err)
	case errors.Is(err, planning.ErrInvalidDateRange):
		return NewCLIError("override rejected", "End date precedes start date; the prior range was retained", err)
	case errors.Is(err, planning.ErrNoPlan), errors.Is(err, planning.ErrPlanNotFound):
		return NewCLIError("no plan found", "Run 'flowplan init <project>' and 'flowplan plan create' first", err)
	case errors.Is(err, planning.ErrTaskNotFound):
		return NewCLIError("task not found", "Run 'flowplan task list' to see available tasks", err)
	case errors.Is(err, planning.ErrPhaseJumpWithoutPlan):
		return NewCLIError("phase navigation rejected", "Create a plan before jumping between phases", err)
	case errors.Is(err, baseline.ErrBaselineNotFound):
		return NewCLIError("baseline not found", "Run 'flowplan baseline list' to see frozen baselines", err)
	case errors.Is(err, baseline.ErrPlanMismatch):
		return NewCLIError("comparison refused", "The baseline belongs to a different project; nothing was merged", err)
	case errors.Is(err, application.ErrSyncConflict):
		return NewCLIError("sync refused", "The plan belongs to a different project than this workspace", err)
	case errors.Is(err, application.ErrStaleComputation):
		return NewCLIError("schedule discarded", "The task set changed during computation; rerun 'flowplan schedule generate'", err)
	case errors.Is(err, application.ErrNoRecordSource):
		return NewCLIError("no record database configured", "Set record_db in .flowplan/config.yaml or FLOWPLAN_RECORD_DB", err)
	}

	return err
}

// printError renders a CLIError with its hint, or the raw error otherwise.
func printError(err error) {
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		fmt.Printf("Error: %s\n", cliErr.Message)
		if cliErr.Hint != "" {
			fmt.Printf("Hint:  %s\n", cliErr.Hint)
		}
		return
	}
	fmt.Printf("Error: %v\n", err)
}
