package baseline

import (
	"time"

	"github.com/felixgeelhaar/flowplan/pkg/domain/planning"
	"github.com/google/uuid"
)

// Entry is a frozen {task, start, end} tuple.
type Entry struct {
	TaskID string    `json:"task_id"`
	Title  string    `json:"title,omitempty"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// Baseline is an immutable snapshot of planned dates, frozen explicitly by
// the user and used only for read-side comparison. It is never mutated
// after creation.
type Baseline struct {
	ID        string    `json:"id"`
	PlanID    string    `json:"plan_id"`
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	TakenAt   time.Time `json:"taken_at"`
	Entries   []Entry   `json:"entries"`
}

// Freeze captures the current plan dates as a new baseline. Tasks without
// computed dates are skipped: there is nothing to compare them against.
func Freeze(plan *planning.Plan, name string) *Baseline {
	b := &Baseline{
		ID:        uuid.New().String(),
		PlanID:    plan.ID,
		ProjectID: plan.ProjectID,
		Name:      name,
		TakenAt:   time.Now(),
	}
	for _, t := range plan.Tasks {
		if t.StartDate == nil || t.DueDate == nil {
			continue
		}
		b.Entries = append(b.Entries, Entry{
			TaskID: t.ID,
			Title:  t.Title,
			Start:  *t.StartDate,
			End:    *t.DueDate,
		})
	}
	return b
}

// Entry returns the frozen tuple for a task ID.
func (b *Baseline) Entry(taskID string) (Entry, bool) {
	for _, e := range b.Entries {
		if e.TaskID == taskID {
			return e, true
		}
	}
	return Entry{}, false
}
