package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage planning sessions",
}

var planCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new plan for the workspace project",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		description, _ := cmd.Flags().GetString("description")

		if name == "" {
			return fmt.Errorf("--name is required")
		}

		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		cfg, err := services.Repo.LoadConfig()
		if err != nil {
			return err
		}
		if cfg == nil || cfg.ProjectID == "" {
			return fmt.Errorf("workspace is not initialized; run 'flowplan init <project-id>' first")
		}

		plan, err := services.Plan.CreatePlan(cfg.ProjectID, name, description)
		if err != nil {
			return MapError(err)
		}

		fmt.Printf("Created plan %s (%s)\n", plan.Name, plan.ID)
		fmt.Printf("  Phase: %s\n", plan.CurrentPhase)
		return nil
	},
}

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List plans in this workspace",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		plans, err := services.Plan.ListPlans("")
		if err != nil {
			return MapError(err)
		}
		if len(plans) == 0 {
			fmt.Println("No plans yet. Use 'flowplan plan create --name <name>'.")
			return nil
		}

		fmt.Printf("Plans (%d):\n\n", len(plans))
		for _, p := range plans {
			fmt.Printf("  %s\n", p.Name)
			fmt.Printf("    ID:    %s\n", p.ID)
			fmt.Printf("    Phase: %s\n", p.CurrentPhase)
			fmt.Printf("    Tasks: %d\n", len(p.Tasks))
			fmt.Println()
		}
		return nil
	},
}

var planShowCmd = &cobra.Command{
	Use:   "show <plan-id>",
	Short: "Show a plan snapshot",
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

		fmt.Printf("%s (%s)\n", plan.Name, plan.ID)
		fmt.Printf("  Project: %s\n", plan.ProjectID)
		fmt.Printf("  Phase:   %s\n", plan.CurrentPhase)
		fmt.Printf("  Tasks:   %d\n\n", len(plan.Tasks))
		for _, t := range plan.Tasks {
			fmt.Printf("  %s  %s (%dm)\n", t.ID, t.Title, t.EstimatedDuration)
			if len(t.DependsOn) > 0 {
				fmt.Printf("      depends on: %v\n", t.DependsOn)
			}
			if t.StartDate != nil && t.DueDate != nil {
				fmt.Printf("      %s -> %s\n", t.StartDate.Format("2006-01-02"), t.DueDate.Format("2006-01-02"))
			}
		}
		return nil
	},
}

var planDeleteCmd = &cobra.Command{
	Use:   "delete <plan-id>",
	Short: "Delete a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		if err := services.Plan.DeletePlan(args[0]); err != nil {
			return MapError(err)
		}
		fmt.Printf("Deleted plan %s\n", args[0])
		return nil
	},
}

func init() {
	planCreateCmd.Flags().String("name", "", "plan name")
	planCreateCmd.Flags().String("description", "", "plan description")
	planCmd.AddCommand(planCreateCmd)
	planCmd.AddCommand(planListCmd)
	planCmd.AddCommand(planShowCmd)
	planCmd.AddCommand(planDeleteCmd)
	RootCmd.AddCommand(planCmd)
}
