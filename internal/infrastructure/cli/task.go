package cli

import (
	"fmt"
	"os"

	"github.com/felixgeelhaar/flowplan/pkg/domain/planning"
	"github.com/spf13/cobra"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks in a plan",
}

var taskAddCmd = &cobra.Command{
	Use:   "add <plan-id> <task-id>",
	Short: "Add a task to a plan",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		planID, taskID := args[0], args[1]
		title, _ := cmd.Flags().GetString("title")
		duration, _ := cmd.Flags().GetInt("duration")
		goalID, _ := cmd.Flags().GetString("goal")

		if title == "" {
			return fmt.Errorf("--title is required")
		}

		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		plan, err := services.Plan.GetPlan(planID)
		if err != nil {
			return MapError(err)
		}

		session, err := planning.Apply(planning.NewSession(plan), planning.AddTask{
			Task: planning.Task{
				ID:                taskID,
				Title:             title,
				EstimatedDuration: duration,
				GoalID:            goalID,
			},
		})
		if err != nil {
			return MapError(err)
		}
		if err := services.Plan.UpdatePlan(session.Plan); err != nil {
			return MapError(err)
		}

		fmt.Printf("Added task %s to plan %s\n", taskID, planID)
		return nil
	},
}

var taskSetDurationCmd = &cobra.Command{
	Use:   "set-duration <plan-id> <task-id> <minutes>",
	Short: "Update a task's effort estimate",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		planID, taskID := args[0], args[1]
		var minutes int
		if _, err := fmt.Sscanf(args[2], "%d", &minutes); err != nil {
			return fmt.Errorf("invalid minutes value %q", args[2])
		}

		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		plan, err := services.Plan.GetPlan(planID)
		if err != nil {
			return MapError(err)
		}

		session, err := planning.Apply(planning.NewSession(plan), planning.SetDuration{TaskID: taskID, Minutes: minutes})
		if err != nil {
			return MapError(err)
		}
		if err := services.Plan.UpdatePlan(session.Plan); err != nil {
			return MapError(err)
		}

		fmt.Printf("Task %s estimate set to %dm\n", taskID, minutes)
		return nil
	},
}

var taskImportCmd = &cobra.Command{
	Use:   "import <plan-id> <file.json>",
	Short: "Import tasks from a JSON document into a plan",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		planID, file := args[0], args[1]

		data, err := os.ReadFile(file) // #nosec G304 -- user-supplied import path
		if err != nil {
			return fmt.Errorf("read import file: %w", err)
		}

		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		plan, err := services.Plan.ImportTasks(planID, data)
		if err != nil {
			return MapError(err)
		}

		fmt.Printf("Imported tasks into plan %s (now %d tasks)\n", planID, len(plan.Tasks))
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list <plan-id>",
	Short: "List tasks in a plan",
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

		if len(plan.Tasks) == 0 {
			fmt.Println("No tasks yet. Use 'flowplan task add' or 'flowplan task import'.")
			return nil
		}
		for _, t := range plan.Tasks {
			fmt.Printf("  %s  %s (%dm)", t.ID, t.Title, t.EstimatedDuration)
			if len(t.DependsOn) > 0 {
				fmt.Printf("  deps=%v", t.DependsOn)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	taskAddCmd.Flags().String("title", "", "task title")
	taskAddCmd.Flags().Int("duration", 0, "effort estimate in minutes")
	taskAddCmd.Flags().String("goal", "", "goal id for grouping")
	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskSetDurationCmd)
	taskCmd.AddCommand(taskImportCmd)
	taskCmd.AddCommand(taskListCmd)
	RootCmd.AddCommand(taskCmd)
}
