package planning

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Task is a unit of schedulable work inside a Plan.
type Task struct {
	ID string `json:"id" yaml:"id"`
	// Title is the user-facing name of the task.
	Title string `json:"title" yaml:"title"`
	// EstimatedDuration is the effort estimate in minutes. Zero is a valid,
	// schedulable estimate: the task occupies a zero-length slot.
	EstimatedDuration int `json:"estimated_duration" yaml:"estimated_duration"`
	// DependsOn lists IDs of tasks that must finish before this one starts.
	DependsOn []string `json:"depends_on" yaml:"depends_on"`
	// StartDate and DueDate are either computed by the scheduler or pinned
	// by a manual override.
	StartDate *time.Time `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	DueDate   *time.Time `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	// GoalID groups tasks for presentation only. It has no scheduling effect.
	GoalID string `json:"goal_id,omitempty" yaml:"goal_id,omitempty"`
}

// DependsOnTask reports whether the task lists depID as a direct dependency.
func (t Task) DependsOnTask(depID string) bool {
	for _, d := range t.DependsOn {
		if d == depID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	c := t
	if t.DependsOn != nil {
		c.DependsOn = make([]string, len(t.DependsOn))
		copy(c.DependsOn, t.DependsOn)
	}
	if t.StartDate != nil {
		d := *t.StartDate
		c.StartDate = &d
	}
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	return c
}

// Plan is the unit of persistence for a planning session. Every phase
// transition and explicit save writes the full snapshot; a Plan is never
// partially overwritten.
type Plan struct {
	ID           string    `json:"id" yaml:"id"`
	ProjectID    string    `json:"project_id" yaml:"project_id"`
	Name         string    `json:"name" yaml:"name"`
	Description  string    `json:"description,omitempty" yaml:"description,omitempty"`
	Tasks        []Task    `json:"tasks" yaml:"tasks"`
	CurrentPhase Phase     `json:"current_phase" yaml:"current_phase"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"updated_at"`
}

// TaskByID returns the task with the given ID, or false if absent.
func (p *Plan) TaskByID(id string) (Task, bool) {
	for _, t := range p.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// Clone returns a deep copy of the plan. Mutating commands operate on
// copies so the previous snapshot stays intact.
func (p *Plan) Clone() *Plan {
	c := *p
	c.Tasks = make([]Task, len(p.Tasks))
	for i, t := range p.Tasks {
		c.Tasks[i] = t.Clone()
	}
	return &c
}

// Hash returns a deterministic hash of the plan structure, used to detect
// divergence between snapshots.
func (p *Plan) Hash() string {
	h := sha256.New()
	h.Write([]byte(p.ID))
	h.Write([]byte(p.ProjectID))
	h.Write([]byte(p.CurrentPhase))
	for _, t := range p.Tasks {
		h.Write([]byte(t.ID))
		h.Write([]byte(t.Title))
		h.Write([]byte{byte(t.EstimatedDuration), byte(t.EstimatedDuration >> 8)})
		for _, d := range t.DependsOn {
			h.Write([]byte(d))
		}
		if t.StartDate != nil {
			h.Write([]byte(t.StartDate.Format(time.RFC3339)))
		}
		if t.DueDate != nil {
			h.Write([]byte(t.DueDate.Format(time.RFC3339)))
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
