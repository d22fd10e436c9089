package cli

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Detect and merge drift against the system of record",
}

var syncDeltasCmd = &cobra.Command{
	Use:   "deltas <plan-id>",
	Short: "Show how the plan diverged from the system of record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		deltas, err := services.Sync.Deltas(args[0])
		if err != nil {
			return MapError(err)
		}

		if asJSON {
			data, err := json.MarshalIndent(deltas, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		if deltas.IsEmpty() {
			fmt.Println("Plan is in sync with the system of record.")
			return nil
		}
		if len(deltas.NewTasks) > 0 {
			fmt.Printf("New tasks (%d):\n", len(deltas.NewTasks))
			for _, t := range deltas.NewTasks {
				fmt.Printf("  %s  %s (%dm)\n", t.ID, t.Title, t.EstimatedDuration)
			}
		}
		if len(deltas.ExistingTaskUpdates) > 0 {
			fmt.Printf("Updated tasks (%d):\n", len(deltas.ExistingTaskUpdates))
			for _, t := range deltas.ExistingTaskUpdates {
				fmt.Printf("  %s  %s (%dm)\n", t.ID, t.Title, t.EstimatedDuration)
			}
		}
		fmt.Println("\nRun 'flowplan sync merge' to apply these changes.")
		return nil
	},
}

var syncMergeCmd = &cobra.Command{
	Use:   "merge <plan-id>",
	Short: "Apply the detected deltas to the plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		plan, err := services.Sync.Merge(args[0])
		if err != nil {
			return MapError(err)
		}

		fmt.Printf("Plan %s synced (%d tasks).\n", plan.ID, len(plan.Tasks))
		fmt.Println("Run 'flowplan schedule generate' to recompute dates.")
		return nil
	},
}

func init() {
	syncDeltasCmd.Flags().Bool("json", false, "emit deltas as JSON")
	syncCmd.AddCommand(syncDeltasCmd)
	syncCmd.AddCommand(syncMergeCmd)
	RootCmd.AddCommand(syncCmd)
}
