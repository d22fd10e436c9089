package cli

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/flowplan/pkg/domain/planning"
	"github.com/spf13/cobra"
)

var overrideCmd = &cobra.Command{
	Use:   "override",
	Short: "Pin and unpin task dates",
	Long: `Pin task dates so recomputation leaves them alone.

A pinned task keeps exactly the dates you set; its dependents are
recomputed around it. Pins last until cleared or until an explicit
resync hands the dates back to the scheduler.`,
}

var overrideSetCmd = &cobra.Command{
	Use:   "set <plan-id> <task-id> <start> <end>",
	Short: "Pin a task to explicit start and end dates (YYYY-MM-DD)",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		planID, taskID := args[0], args[1]

		start, err := time.Parse("2006-01-02", args[2])
		if err != nil {
			return fmt.Errorf("invalid start date %q: %w", args[2], err)
		}
		end, err := time.Parse("2006-01-02", args[3])
		if err != nil {
			return fmt.Errorf("invalid end date %q: %w", args[3], err)
		}

		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		plan, err := services.Plan.GetPlan(planID)
		if err != nil {
			return MapError(err)
		}

		overrides, err := services.Repo.LoadSessionOverrides(planID)
		if err != nil {
			return MapError(err)
		}

		session := planning.Session{Plan: plan, Overrides: overrides}
		session, err = planning.Apply(session, planning.SetOverride{TaskID: taskID, Start: start, End: end})
		if err != nil {
			return MapError(err)
		}

		if err := services.Repo.SaveSessionOverrides(planID, session.Overrides); err != nil {
			return MapError(err)
		}

		fmt.Printf("Pinned %s to %s -> %s\n", taskID, args[2], args[3])
		fmt.Println("Run 'flowplan schedule generate' to shift dependents around the pin.")
		return nil
	},
}

var overrideClearCmd = &cobra.Command{
	Use:   "clear <plan-id> <task-id>",
	Short: "Unpin a single task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		planID, taskID := args[0], args[1]

		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		overrides, err := services.Repo.LoadSessionOverrides(planID)
		if err != nil {
			return MapError(err)
		}
		overrides.Clear(taskID)
		if err := services.Repo.SaveSessionOverrides(planID, overrides); err != nil {
			return MapError(err)
		}

		fmt.Printf("Unpinned %s\n", taskID)
		return nil
	},
}

var overrideResyncCmd = &cobra.Command{
	Use:   "resync <plan-id>",
	Short: "Drop every pin so the next recompute owns all dates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		if err := services.Repo.ClearSessionOverrides(args[0]); err != nil {
			return MapError(err)
		}
		fmt.Println("All pins dropped. Run 'flowplan schedule generate' to recompute.")
		return nil
	},
}

var overrideListCmd = &cobra.Command{
	Use:   "list <plan-id>",
	Short: "List the pinned tasks of a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		overrides, err := services.Repo.LoadSessionOverrides(args[0])
		if err != nil {
			return MapError(err)
		}
		if len(overrides) == 0 {
			fmt.Println("No pinned tasks.")
			return nil
		}
		for taskID, ov := range overrides {
			fmt.Printf("  %s  %s -> %s\n", taskID,
				ov.Start.Format("2006-01-02"), ov.End.Format("2006-01-02"))
		}
		return nil
	},
}

func init() {
	overrideCmd.AddCommand(overrideSetCmd)
	overrideCmd.AddCommand(overrideClearCmd)
	overrideCmd.AddCommand(overrideResyncCmd)
	overrideCmd.AddCommand(overrideListCmd)
	RootCmd.AddCommand(overrideCmd)
}
