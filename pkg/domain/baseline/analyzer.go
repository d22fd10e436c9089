package baseline

import (
	"math"
	"time"

	"github.com/felixgeelhaar/flowplan/pkg/domain/planning"
)

// Status classifies a task's drift against the baseline.
type Status string

const (
	StatusOnTrack Status = "ontrack"
	StatusDelayed Status = "delayed"
	StatusAhead   Status = "ahead"
)

// Delta is the per-task comparison between live dates and the frozen
// baseline tuple.
type Delta struct {
	TaskID        string     `json:"id"`
	Title         string     `json:"title"`
	BaselineStart *time.Time `json:"baseline_start,omitempty"`
	BaselineEnd   *time.Time `json:"baseline_end,omitempty"`
	Start         *time.Time `json:"start,omitempty"`
	Due           *time.Time `json:"due,omitempty"`
	// DelayDays is positive when the live due date slipped past the
	// baseline, negative when it moved ahead.
	DelayDays int    `json:"delay_days"`
	Status    Status `json:"status"`
	// IsNew marks scope added after the baseline was frozen.
	IsNew bool `json:"is_new,omitempty"`
}

// Report aggregates per-task deltas into schedule KPIs.
type Report struct {
	Deltas []Delta `json:"comparison"`
	// TotalDelayDays sums positive delays only.
	TotalDelayDays int `json:"total_delay_days"`
	DelayedCount   int `json:"delayed_count"`
	AheadCount     int `json:"ahead_count"`
	NewCount       int `json:"new_count"`
	// HealthScore is bounded to [0,100] and monotonically non-increasing
	// in total delay.
	HealthScore int `json:"health_score"`
}

// healthPenaltyPerDay scales total delay into the health score.
const healthPenaltyPerDay = 5

// Analyzer diffs a live task set against a frozen baseline.
type Analyzer struct{}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Compare matches live tasks to baseline entries by ID and classifies each
// as ontrack, delayed or ahead. Live tasks without a baseline counterpart
// are reported as new scope with zero delay.
func (a *Analyzer) Compare(live []planning.Task, base *Baseline) Report {
	report := Report{Deltas: make([]Delta, 0, len(live))}

	for _, t := range live {
		d := Delta{TaskID: t.ID, Title: t.Title, Start: t.StartDate, Due: t.DueDate, Status: StatusOnTrack}

		entry, ok := base.Entry(t.ID)
		if !ok {
			d.IsNew = true
			report.NewCount++
			report.Deltas = append(report.Deltas, d)
			continue
		}

		bs, be := entry.Start, entry.End
		d.BaselineStart = &bs
		d.BaselineEnd = &be

		if t.DueDate != nil {
			d.DelayDays = delayDays(be, *t.DueDate)
		}
		switch {
		case d.DelayDays > 0:
			d.Status = StatusDelayed
			report.DelayedCount++
			report.TotalDelayDays += d.DelayDays
		case d.DelayDays < 0:
			d.Status = StatusAhead
			report.AheadCount++
		}
		report.Deltas = append(report.Deltas, d)
	}

	score := 100 - healthPenaltyPerDay*report.TotalDelayDays
	if score < 0 {
		score = 0
	}
	report.HealthScore = score
	return report
}

// delayDays returns ceil((live - baseline) in days).
func delayDays(baseline, live time.Time) int {
	diff := live.Sub(baseline).Hours() / 24
	return int(math.Ceil(diff))
}
