package cli

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/flowplan/pkg/domain/planning"
	"github.com/spf13/cobra"
)

var phaseCmd = &cobra.Command{
	Use:   "phase",
	Short: "Navigate the planning workflow",
	Long: `Navigate the six-phase planning workflow:

  ` + strings.Join(phaseNames(), " -> ") + `

Forward navigation checkpoints the plan in the background; a failed
checkpoint is reported as a warning and never blocks the workflow.`,
}

func phaseNames() []string {
	phases := planning.AllPhases()
	names := make([]string, len(phases))
	for i, p := range phases {
		names[i] = string(p)
	}
	return names
}

var phaseNextCmd = &cobra.Command{
	Use:   "next <plan-id>",
	Short: "Advance the workflow one phase",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		transition, err := services.Plan.AdvancePhase(args[0])
		if err != nil {
			return MapError(err)
		}
		if !transition.Moved {
			fmt.Printf("Already in the final phase (%s).\n", transition.Plan.CurrentPhase)
			return nil
		}

		fmt.Printf("Phase: %s\n", transition.Plan.CurrentPhase)
		if warn := <-transition.Saved; warn != "" {
			fmt.Printf("Warning: %s\n", warn)
		}
		return nil
	},
}

var phasePrevCmd = &cobra.Command{
	Use:   "previous <plan-id>",
	Short: "Step the workflow one phase back",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		transition, err := services.Plan.RetreatPhase(args[0])
		if err != nil {
			return MapError(err)
		}
		if !transition.Moved {
			fmt.Printf("Already in the first phase (%s).\n", transition.Plan.CurrentPhase)
			return nil
		}

		if err := services.Plan.UpdatePlan(transition.Plan); err != nil {
			return MapError(err)
		}
		fmt.Printf("Phase: %s\n", transition.Plan.CurrentPhase)
		return nil
	},
}

var phaseJumpCmd = &cobra.Command{
	Use:   "jump <plan-id> <phase>",
	Short: "Jump directly to a phase",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, ok := planning.ParsePhase(args[1])
		if !ok {
			return fmt.Errorf("unknown phase %q (one of: %s)", args[1], strings.Join(phaseNames(), ", "))
		}

		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		plan, err := services.Plan.JumpPhase(args[0], target)
		if err != nil {
			return MapError(err)
		}
		fmt.Printf("Phase: %s\n", plan.CurrentPhase)
		return nil
	},
}

var phaseShowCmd = &cobra.Command{
	Use:   "show <plan-id>",
	Short: "Show the plan's position in the workflow",
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

		for _, p := range planning.AllPhases() {
			marker := "  "
			if p == plan.CurrentPhase {
				marker = "> "
			}
			fmt.Printf("%s%s\n", marker, p)
		}
		return nil
	},
}

func init() {
	phaseCmd.AddCommand(phaseNextCmd)
	phaseCmd.AddCommand(phasePrevCmd)
	phaseCmd.AddCommand(phaseJumpCmd)
	phaseCmd.AddCommand(phaseShowCmd)
	RootCmd.AddCommand(phaseCmd)
}
