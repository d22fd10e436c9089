package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/felixgeelhaar/flowplan/internal/infrastructure/watch"
	"github.com/felixgeelhaar/flowplan/pkg/application"
	"github.com/felixgeelhaar/flowplan/pkg/storage"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Recompute schedules when plan snapshots change",
	Long: `Watch the workspace for plan snapshot writes and recompute the
schedule automatically. Rapid successive writes coalesce into a single
recompute. Session pins are re-injected on every run, so pinned tasks
keep their dates across recomputes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		debounceMs, _ := cmd.Flags().GetInt("debounce")

		root, err := getProjectRoot()
		if err != nil {
			return err
		}
		services, err := loadServices(root)
		if err != nil {
			return err
		}

		dir := filepath.Join(root, storage.FlowplanDir)
		ctx := cmd.Context()

		watcher, err := watch.NewPlanWatcher(dir, time.Duration(debounceMs)*time.Millisecond, func(planID string) {
			overrides, err := services.Repo.LoadSessionOverrides(planID)
			if err != nil {
				printError(MapError(err))
				return
			}
			result, err := services.Schedule.GenerateSchedule(ctx, planID, overrides)
			if err != nil {
				// A concurrent edit already superseded this run; the next
				// event recomputes from the fresher snapshot.
				if errors.Is(err, application.ErrStaleComputation) {
					return
				}
				printError(MapError(err))
				return
			}
			fmt.Printf("[%s] recomputed plan %s, finish %s\n",
				time.Now().Format("15:04:05"), planID, result.ProjectFinish.Format("2006-01-02"))
		})
		if err != nil {
			return err
		}

		fmt.Printf("Watching %s (Ctrl+C to stop)\n", dir)
		if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().Int("debounce", 500, "debounce window in milliseconds")
	RootCmd.AddCommand(watchCmd)
}
