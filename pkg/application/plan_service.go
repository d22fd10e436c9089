package application

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/flowplan/pkg/domain"
	"github.com/felixgeelhaar/flowplan/pkg/domain/planning"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
)

// taskImportSchemaJSON validates task documents ingested during the
// ingestion phase.
const taskImportSchemaJSON = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id", "title"],
		"properties": {
			"id": {"type": "string", "minLength": 1},
			"title": {"type": "string", "minLength": 1},
			"estimated_duration": {"type": "integer", "minimum": 0},
			"depends_on": {"type": "array", "items": {"type": "string"}},
			"goal_id": {"type": "string"}
		}
	}
}`

var taskImportSchemaLoader = gojsonschema.NewStringLoader(taskImportSchemaJSON)

// PlanService owns the Plan lifecycle: creation, full-snapshot updates,
// and the phase workflow with its autosave checkpoints.
type PlanService struct {
	repo    domain.WorkspaceRepository
	journal domain.Journal
}

func NewPlanService(repo domain.WorkspaceRepository, journal domain.Journal) *PlanService {
	return &PlanService{repo: repo, journal: journal}
}

// CreatePlan starts a planning session for a project scope. The plan
// begins in the ingestion phase.
func (s *PlanService) CreatePlan(projectID, name, description string) (*planning.Plan, error) {
	if projectID == "" || name == "" {
		return nil, fmt.Errorf("plan requires a project id and a name")
	}

	now := time.Now()
	plan := &planning.Plan{
		ID:           uuid.New().String(),
		ProjectID:    projectID,
		Name:         name,
		Description:  description,
		Tasks:        []planning.Task{},
		CurrentPhase: planning.PhaseIngestion,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.SavePlan(plan); err != nil {
		return nil, fmt.Errorf("failed to save plan: %w", err)
	}
	if err := s.journal.Record("plan.create", plan.ID, map[string]interface{}{
		"project_id": projectID,
		"name":       name,
	}); err != nil {
		return nil, fmt.Errorf("write journal: %w", err)
	}
	return plan, nil
}

func (s *PlanService) GetPlan(planID string) (*planning.Plan, error) {
	return s.repo.LoadPlan(planID)
}

func (s *PlanService) ListPlans(projectID string) ([]*planning.Plan, error) {
	return s.repo.ListPlans(projectID)
}

func (s *PlanService) DeletePlan(planID string) error {
	if err := s.repo.DeletePlan(planID); err != nil {
		return err
	}
	return s.journal.Record("plan.delete", planID, nil)
}

// UpdatePlan replaces the stored snapshot wholesale. Partial writes are
// never performed.
func (s *PlanService) UpdatePlan(plan *planning.Plan) error {
	plan.UpdatedAt = time.Now()
	if err := s.repo.SavePlan(plan); err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}
	return s.journal.Record("plan.update", plan.ID, map[string]interface{}{
		"task_count": len(plan.Tasks),
		"phase":      string(plan.CurrentPhase),
	})
}

// PhaseTransition reports the outcome of a workflow navigation. Saved
// yields the autosave outcome: an empty string on success, otherwise a
// non-fatal warning. The transition itself never blocks on the save.
type PhaseTransition struct {
	Plan  *planning.Plan
	Moved bool
	Saved <-chan string
}

// AdvancePhase moves the workflow one phase forward and checkpoints the
// full snapshot asynchronously. A save failure surfaces as a warning on
// the Saved channel, never as a blocked or failed transition.
func (s *PlanService) AdvancePhase(planID string) (*PhaseTransition, error) {
	return s.navigate(planID, func(m *planning.PhaseMachine) bool {
		return m.Advance()
	}, true)
}

// RetreatPhase moves the workflow one phase back. Backward navigation does
// not checkpoint.
func (s *PlanService) RetreatPhase(planID string) (*PhaseTransition, error) {
	return s.navigate(planID, func(m *planning.PhaseMachine) bool {
		return m.Retreat()
	}, false)
}

// JumpPhase navigates to an arbitrary phase. The machine guard rejects the
// jump unless the plan already exists.
func (s *PlanService) JumpPhase(planID string, target planning.Phase) (*planning.Plan, error) {
	plan, err := s.repo.LoadPlan(planID)
	if err != nil {
		return nil, err
	}

	machine, err := planning.NewPhaseMachine(plan.CurrentPhase, plan.ID, s.planExists)
	if err != nil {
		return nil, err
	}
	if err := machine.JumpTo(target); err != nil {
		return nil, err
	}

	session, err := planning.Apply(planning.NewSession(plan), planning.SetPhase{Phase: machine.Current()})
	if err != nil {
		return nil, err
	}
	plan = session.Plan

	if err := s.repo.SavePlan(plan); err != nil {
		return nil, fmt.Errorf("failed to save plan: %w", err)
	}
	if err := s.journal.Record("phase.jump", plan.ID, map[string]interface{}{
		"phase": string(plan.CurrentPhase),
	}); err != nil {
		return nil, fmt.Errorf("write journal: %w", err)
	}
	return plan, nil
}

func (s *PlanService) navigate(planID string, move func(*planning.PhaseMachine) bool, checkpoint bool) (*PhaseTransition, error) {
	plan, err := s.repo.LoadPlan(planID)
	if err != nil {
		return nil, err
	}

	machine, err := planning.NewPhaseMachine(plan.CurrentPhase, plan.ID, s.planExists)
	if err != nil {
		return nil, err
	}

	moved := move(machine)
	saved := make(chan string, 1)
	transition := &PhaseTransition{Plan: plan, Moved: moved, Saved: saved}
	if !moved {
		saved <- ""
		return transition, nil
	}

	session, err := planning.Apply(planning.NewSession(plan), planning.SetPhase{Phase: machine.Current()})
	if err != nil {
		return nil, err
	}
	transition.Plan = session.Plan

	if !checkpoint {
		saved <- ""
		return transition, nil
	}

	// Autosave runs off the transition path; the dragged-forward workflow
	// never waits on disk.
	go func(snapshot *planning.Plan) {
		if err := s.repo.SavePlan(snapshot); err != nil {
			saved <- fmt.Sprintf("autosave failed: %v", err)
			return
		}
		if err := s.journal.Record("phase.advance", snapshot.ID, map[string]interface{}{
			"phase": string(snapshot.CurrentPhase),
		}); err != nil {
			saved <- fmt.Sprintf("autosave journal failed: %v", err)
			return
		}
		saved <- ""
	}(transition.Plan.Clone())

	return transition, nil
}

func (s *PlanService) planExists(planID string) bool {
	_, err := s.repo.LoadPlan(planID)
	return err == nil
}

// ImportTasks validates a JSON task document against the import schema and
// appends its tasks to the plan. Used to seed the ingestion phase.
func (s *PlanService) ImportTasks(planID string, data []byte) (*planning.Plan, error) {
	result, err := gojsonschema.Validate(taskImportSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportRejected, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrImportRejected, strings.Join(msgs, "; "))
	}

	var tasks []planning.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportRejected, err)
	}

	plan, err := s.repo.LoadPlan(planID)
	if err != nil {
		return nil, err
	}

	session := planning.NewSession(plan)
	for _, t := range tasks {
		// Dependencies are committed in a second pass so imports are not
		// sensitive to document order.
		bare := t.Clone()
		bare.DependsOn = nil
		session, err = planning.Apply(session, planning.AddTask{Task: bare})
		if err != nil {
			return nil, err
		}
	}
	for _, t := range tasks {
		for _, dep := range t.DependsOn {
			session, err = planning.Apply(session, planning.AddDependency{TaskID: t.ID, DependsOn: dep})
			if err != nil {
				return nil, err
			}
		}
	}

	if err := s.repo.SavePlan(session.Plan); err != nil {
		return nil, fmt.Errorf("failed to save plan: %w", err)
	}
	if err := s.journal.Record("plan.import", planID, map[string]interface{}{
		"task_count": len(tasks),
	}); err != nil {
		return nil, fmt.Errorf("write journal: %w", err)
	}
	return session.Plan, nil
}
