package advisory

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/flowplan/pkg/domain/advisory"
)

// HeuristicProvider is the built-in advisor. It suggests linking unlinked
// tasks after critical-path work so the plan gains sequencing signal.
type HeuristicProvider struct{}

// NewHeuristicProvider creates the default advisor.
func NewHeuristicProvider() *HeuristicProvider {
	return &HeuristicProvider{}
}

func (p *HeuristicProvider) ID() string {
	return "heuristic"
}

// Suggest emits one suggestion per dependency-free task, proposing a link
// after the last critical-path task.
func (p *HeuristicProvider) Suggest(ctx context.Context, req advisory.Request) (*advisory.Response, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	resp := &advisory.Response{}
	if req.Result == nil || len(req.Result.CriticalPath) == 0 {
		return resp, nil
	}
	anchor := req.Result.CriticalPath[len(req.Result.CriticalPath)-1]

	onPath := make(map[string]bool, len(req.Result.CriticalPath))
	for _, id := range req.Result.CriticalPath {
		onPath[id] = true
	}

	for _, t := range req.Tasks {
		if len(t.DependsOn) > 0 || onPath[t.ID] || t.ID == anchor {
			continue
		}
		resp.Suggestions = append(resp.Suggestions,
			fmt.Sprintf("consider linking task %s after task %s", t.ID, anchor))
	}
	return resp, nil
}
