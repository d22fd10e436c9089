package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/felixgeelhaar/flowplan/pkg/domain/planning"
	"github.com/felixgeelhaar/flowplan/pkg/domain/scheduling"
	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Compute and present plan schedules",
}

var scheduleGenerateCmd = &cobra.Command{
	Use:   "generate <plan-id>",
	Short: "Recompute the schedule for a plan",
	Long: `Recompute start and due dates for every task in the plan.

Manually pinned dates are re-injected before the computation runs, so a
pinned task keeps its dates and its dependents shift around it. If the
plan changes while the computation is in flight the result is discarded
and the previous schedule stays in place.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		planID := args[0]
		debug, _ := cmd.Flags().GetBool("debug")

		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		overrides, err := services.Repo.LoadSessionOverrides(planID)
		if err != nil {
			return MapError(err)
		}

		result, err := services.Schedule.GenerateSchedule(cmd.Context(), planID, overrides)
		if err != nil {
			return MapError(err)
		}

		plan, err := services.Plan.GetPlan(planID)
		if err != nil {
			return MapError(err)
		}

		renderSchedule(plan, result, debug)
		return nil
	},
}

var scheduleShowCmd = &cobra.Command{
	Use:   "show <plan-id>",
	Short: "Show the last computed schedule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		planID := args[0]
		debug, _ := cmd.Flags().GetBool("debug")

		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		result, err := services.Schedule.StoredResult(planID)
		if errors.Is(err, scheduling.ErrResultNotFound) {
			fmt.Println("No schedule computed yet. Run 'flowplan schedule generate'.")
			return nil
		}
		if err != nil {
			return MapError(err)
		}
		plan, err := services.Plan.GetPlan(planID)
		if err != nil {
			return MapError(err)
		}

		renderSchedule(plan, result, debug)
		return nil
	},
}

func renderSchedule(plan *planning.Plan, result *scheduling.Result, debug bool) {
	onPath := make(map[string]bool, len(result.CriticalPath))
	for _, id := range result.CriticalPath {
		onPath[id] = true
	}

	columns := []table.Column{
		{Title: "Task", Width: 12},
		{Title: "Title", Width: 28},
		{Title: "Start", Width: 12},
		{Title: "Due", Width: 12},
		{Title: "Critical", Width: 8},
	}

	rows := make([]table.Row, 0, len(result.Entries))
	for _, t := range plan.Tasks {
		span, ok := result.Slot(t.ID)
		if !ok {
			continue
		}
		mark := ""
		if onPath[t.ID] {
			mark = "*"
		}
		rows = append(rows, table.Row{
			t.ID,
			t.Title,
			span.Start.Format("2006-01-02"),
			span.End.Format("2006-01-02"),
			mark,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i][2] != rows[j][2] {
			return rows[i][2] < rows[j][2]
		}
		return rows[i][3] < rows[j][3]
	})

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Bold(true)
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)

	fmt.Printf("Schedule for %s\n\n", plan.Name)
	fmt.Println(t.View())

	if len(result.CriticalPath) > 0 {
		fmt.Printf("\nCritical path: %s\n", strings.Join(result.CriticalPath, " -> "))
		fmt.Printf("Project finish: %s\n", result.ProjectFinish.Format("2006-01-02"))
	}
	for _, w := range result.Warnings {
		fmt.Printf("Warning: %s\n", w)
	}
	for _, sug := range result.Suggestions {
		fmt.Printf("Suggestion: %s\n", sug)
	}
	if debug {
		for _, line := range result.DebugLogs {
			fmt.Printf("debug: %s\n", line)
		}
	}
}

func init() {
	scheduleGenerateCmd.Flags().Bool("debug", false, "print the computation trace")
	scheduleShowCmd.Flags().Bool("debug", false, "print the computation trace")
	scheduleCmd.AddCommand(scheduleGenerateCmd)
	scheduleCmd.AddCommand(scheduleShowCmd)
	RootCmd.AddCommand(scheduleCmd)
}
