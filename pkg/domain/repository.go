package domain

import (
	"time"

	"github.com/felixgeelhaar/flowplan/pkg/domain/baseline"
	"github.com/felixgeelhaar/flowplan/pkg/domain/planning"
	"github.com/felixgeelhaar/flowplan/pkg/domain/scheduling"
)

// WorkspaceRepository handles persistence of flowplan artifacts in the
// .flowplan/ directory. Plans are always written as full snapshots, never
// as partial diffs.
type WorkspaceRepository interface {
	Initialize() error
	IsInitialized() bool

	SavePlan(plan *planning.Plan) error
	LoadPlan(planID string) (*planning.Plan, error)
	ListPlans(projectID string) ([]*planning.Plan, error)
	DeletePlan(planID string) error

	SaveScheduleResult(planID string, result *scheduling.Result) error
	LoadScheduleResult(planID string) (*scheduling.Result, error)

	SaveBaseline(b *baseline.Baseline) error
	LoadBaseline(baselineID string) (*baseline.Baseline, error)
	ListBaselines(planID string) ([]*baseline.Baseline, error)

	SaveConfig(cfg *WorkspaceConfig) error
	LoadConfig() (*WorkspaceConfig, error)

	RecordEvent(event Event) error
	LoadEvents() ([]Event, error)
}

// Journal records workflow checkpoints. Services depend on this interface
// rather than a concrete store.
type Journal interface {
	Record(action string, planID string, metadata map[string]interface{}) error
}

// Event is a single journaled checkpoint (phase transition, save, freeze).
type Event struct {
	ID        string                 `json:"id"`
	Timestamp time.Time              `json:"timestamp"`
	Action    string                 `json:"action"`
	PlanID    string                 `json:"plan_id,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// WorkspaceConfig is the serialized representation of config.yaml.
type WorkspaceConfig struct {
	// ProjectID identifies the project this workspace plans for.
	ProjectID string `yaml:"project_id"`
	// ProjectStart is the ISO8601 date scheduling starts from.
	ProjectStart string `yaml:"project_start"`
	// RecordDB points at the system-of-record SQLite database used for
	// delta checks. Empty disables sync.
	RecordDB string `yaml:"record_db,omitempty"`
	// AutosaveDebounceMs bounds how often watch-triggered recomputes run.
	AutosaveDebounceMs int `yaml:"autosave_debounce_ms,omitempty"`
}

// StartDate parses the configured project start, defaulting to today.
func (c *WorkspaceConfig) StartDate() (time.Time, error) {
	if c == nil || c.ProjectStart == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse("2006-01-02", c.ProjectStart)
}
