// Package wiring builds the application services for a workspace root.
package wiring

import (
	"fmt"
	"os"

	infraadvisory "github.com/felixgeelhaar/flowplan/pkg/advisory"
	"github.com/felixgeelhaar/flowplan/pkg/application"
	"github.com/felixgeelhaar/flowplan/pkg/storage"
	"github.com/felixgeelhaar/flowplan/pkg/storage/record"
)

// AppServices bundles the services a CLI invocation needs.
type AppServices struct {
	Repo     *storage.FilesystemRepository
	Plan     *application.PlanService
	Schedule *application.ScheduleService
	Baseline *application.BaselineService
	Sync     *application.SyncService
}

// BuildAppServices wires the services for a workspace root. A missing or
// unreadable record database disables sync but never fails the build; the
// error is returned alongside the services as a warning.
func BuildAppServices(root string) (*AppServices, error) {
	repo := storage.NewFilesystemRepository(root)
	journal := storage.NewJournalWriter(repo)

	advisor := infraadvisory.NewResilientProvider(infraadvisory.NewHeuristicProvider())

	services := &AppServices{
		Repo:     repo,
		Plan:     application.NewPlanService(repo, journal),
		Schedule: application.NewScheduleService(repo, advisor, journal),
		Baseline: application.NewBaselineService(repo, journal),
	}

	var warn error
	services.Sync = application.NewSyncService(repo, nil, journal)
	if src, err := loadRecordSource(repo); err != nil {
		warn = err
	} else if src != nil {
		services.Sync = application.NewSyncService(repo, src, journal)
	}

	return services, warn
}

// loadRecordSource opens the configured system-of-record database.
// FLOWPLAN_RECORD_DB overrides the workspace config.
func loadRecordSource(repo *storage.FilesystemRepository) (application.RecordSource, error) {
	path := os.Getenv("FLOWPLAN_RECORD_DB")
	if path == "" {
		cfg, err := repo.LoadConfig()
		if err != nil {
			return nil, err
		}
		if cfg == nil || cfg.RecordDB == "" {
			return nil, nil
		}
		path = cfg.RecordDB
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("record database %s: %w", path, err)
	}
	return record.Open(path)
}
