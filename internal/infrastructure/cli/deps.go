package cli

import (
	"fmt"

	"github.com/felixgeelhaar/flowplan/pkg/domain/planning"
	"github.com/spf13/cobra"
)

var depsCmd = &cobra.Command{
	Use:   "deps",
	Short: "Manage task dependencies",
}

var depsAddCmd = &cobra.Command{
	Use:   "add <plan-id> <task-id> <depends-on>",
	Short: "Declare that a task depends on another",
	Long: `Declare that a task cannot start before another task ends.

The edge is checked against the full graph before it is committed; an
edge that would close a cycle is rejected and the graph stays unchanged.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		planID, taskID, dependsOn := args[0], args[1], args[2]

		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		plan, err := services.Plan.GetPlan(planID)
		if err != nil {
			return MapError(err)
		}

		session, err := planning.Apply(planning.NewSession(plan), planning.AddDependency{
			TaskID:    taskID,
			DependsOn: dependsOn,
		})
		if err != nil {
			return MapError(err)
		}
		if err := services.Plan.UpdatePlan(session.Plan); err != nil {
			return MapError(err)
		}

		fmt.Printf("%s now depends on %s\n", taskID, dependsOn)
		return nil
	},
}

var depsRemoveCmd = &cobra.Command{
	Use:   "remove <plan-id> <task-id> <depends-on>",
	Short: "Remove a dependency edge",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		planID, taskID, dependsOn := args[0], args[1], args[2]

		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		plan, err := services.Plan.GetPlan(planID)
		if err != nil {
			return MapError(err)
		}

		session, err := planning.Apply(planning.NewSession(plan), planning.RemoveDependency{
			TaskID:    taskID,
			DependsOn: dependsOn,
		})
		if err != nil {
			return MapError(err)
		}
		if err := services.Plan.UpdatePlan(session.Plan); err != nil {
			return MapError(err)
		}

		fmt.Printf("%s no longer depends on %s\n", taskID, dependsOn)
		return nil
	},
}

var depsListCmd = &cobra.Command{
	Use:   "list <plan-id>",
	Short: "List the dependency edges of a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		plan, err := services.Plan.GetPlan(args[0])
		if err != nil {
			return MapError(err)
		}

		count := 0
		for _, t := range plan.Tasks {
			for _, dep := range t.DependsOn {
				fmt.Printf("  %s -> %s\n", dep, t.ID)
				count++
			}
		}
		if count == 0 {
			fmt.Println("No dependencies defined. Every task starts at project start.")
		}
		return nil
	},
}

func init() {
	depsCmd.AddCommand(depsAddCmd)
	depsCmd.AddCommand(depsRemoveCmd)
	depsCmd.AddCommand(depsListCmd)
	RootCmd.AddCommand(depsCmd)
}
