package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPlanIDFromPath(t *testing.T) {
	tests := []struct {
		path string
		id   string
		ok   bool
	}{
		{"/ws/.flowplan/plan-abc123.json", "abc123", true},
		{"plan-x.json", "x", true},
		{"/ws/.flowplan/config.yaml", "", false},
		{"/ws/.flowplan/baselines.json", "", false},
		{"/ws/.flowplan/overrides.json", "", false},
		{"plan-.json", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			id, ok := planIDFromPath(tt.path)
			if ok != tt.ok || id != tt.id {
				t.Errorf("planIDFromPath(%q) = %q, %v, want %q, %v", tt.path, id, ok, tt.id, tt.ok)
			}
		})
	}
}

func TestPlanWatcher_FiresOnSnapshotWrite(t *testing.T) {
	dir := t.TempDir()

	fired := make(chan string, 1)
	w, err := NewPlanWatcher(dir, 20*time.Millisecond, func(planID string) {
		select {
		case fired <- planID:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewPlanWatcher() = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher a moment to register the directory.
	time.Sleep(50 * time.Millisecond)

	path := filepath.Join(dir, "plan-p1.json")
	if err := os.WriteFile(path, []byte(`{"id":"p1"}`), 0600); err != nil {
		t.Fatalf("WriteFile() = %v", err)
	}

	select {
	case id := <-fired:
		if id != "p1" {
			t.Errorf("onChange fired with %q, want p1", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("onChange never fired after a snapshot write")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancellation")
	}
}

func TestPlanWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()

	fired := make(chan string, 1)
	w, err := NewPlanWatcher(dir, 20*time.Millisecond, func(planID string) {
		select {
		case fired <- planID:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewPlanWatcher() = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("project_id: p"), 0600); err != nil {
		t.Fatalf("WriteFile() = %v", err)
	}

	select {
	case id := <-fired:
		t.Errorf("onChange fired for a non-plan file: %q", id)
	case <-time.After(200 * time.Millisecond):
	}
}
