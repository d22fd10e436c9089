package application

import "errors"

// Application-level errors.
var (
	// ErrStaleComputation indicates the task set changed while a schedule
	// computation was in flight. The stale result is discarded, never
	// merged; the previous good result stays visible.
	ErrStaleComputation = errors.New("schedule computation is stale: task set changed")
	// ErrSyncConflict indicates task identities between the plan and the
	// system of record cannot be matched. Loading is refused rather than
	// silently merging mismatched data.
	ErrSyncConflict = errors.New("plan does not match the active project")
	// ErrNoRecordSource indicates no system-of-record database is
	// configured for delta checks.
	ErrNoRecordSource = errors.New("no record database configured")
	// ErrImportRejected indicates an imported task document failed schema
	// validation.
	ErrImportRejected = errors.New("task import rejected by schema validation")
)
