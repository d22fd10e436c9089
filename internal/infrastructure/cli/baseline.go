package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/felixgeelhaar/flowplan/pkg/domain/baseline"
	"github.com/spf13/cobra"
)

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Freeze and compare schedule baselines",
}

var baselineFreezeCmd = &cobra.Command{
	Use:   "freeze <plan-id>",
	Short: "Freeze the plan's current dates as an immutable baseline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			return fmt.Errorf("--name is required")
		}

		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		b, err := services.Baseline.Freeze(args[0], name)
		if err != nil {
			return MapError(err)
		}

		fmt.Printf("Froze baseline %q (%s) with %d entries\n", b.Name, b.ID, len(b.Entries))
		if len(b.Entries) == 0 {
			fmt.Println("Note: no task had computed dates. Run 'flowplan schedule generate' first.")
		}
		return nil
	},
}

var baselineListCmd = &cobra.Command{
	Use:   "list <plan-id>",
	Short: "List the frozen baselines of a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		baselines, err := services.Baseline.List(args[0])
		if err != nil {
			return MapError(err)
		}
		if len(baselines) == 0 {
			fmt.Println("No baselines yet. Use 'flowplan baseline freeze --name <name>'.")
			return nil
		}

		fmt.Printf("Baselines (%d):\n\n", len(baselines))
		for _, b := range baselines {
			fmt.Printf("  %s\n", b.Name)
			fmt.Printf("    ID:      %s\n", b.ID)
			fmt.Printf("    Taken:   %s\n", b.TakenAt.Format("2006-01-02 15:04"))
			fmt.Printf("    Entries: %d\n", len(b.Entries))
			fmt.Println()
		}
		return nil
	},
}

var baselineCompareCmd = &cobra.Command{
	Use:   "compare <baseline-id> <plan-id>",
	Short: "Compare the live plan against a frozen baseline",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		report, err := services.Baseline.Compare(args[0], args[1])
		if err != nil {
			return MapError(err)
		}

		renderBaselineReport(report)
		return nil
	},
}

func renderBaselineReport(report *baseline.Report) {
	columns := []table.Column{
		{Title: "Task", Width: 12},
		{Title: "Title", Width: 24},
		{Title: "Baseline End", Width: 12},
		{Title: "Due", Width: 12},
		{Title: "Delay", Width: 6},
		{Title: "Status", Width: 8},
	}

	rows := make([]table.Row, 0, len(report.Deltas))
	for _, d := range report.Deltas {
		baselineEnd, due := "-", "-"
		if d.BaselineEnd != nil {
			baselineEnd = d.BaselineEnd.Format("2006-01-02")
		}
		if d.Due != nil {
			due = d.Due.Format("2006-01-02")
		}
		status := string(d.Status)
		if d.IsNew {
			status = "new"
		}
		rows = append(rows, table.Row{
			d.TaskID, d.Title, baselineEnd, due, strconv.Itoa(d.DelayDays), status,
		})
	}

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

	fmt.Println(t.View())
	fmt.Printf("\nDelayed: %d  Ahead: %d  New: %d\n", report.DelayedCount, report.AheadCount, report.NewCount)
	fmt.Printf("Total delay: %d days\n", report.TotalDelayDays)
	fmt.Printf("Health score: %d/100\n", report.HealthScore)
}

func init() {
	baselineFreezeCmd.Flags().String("name", "", "baseline name")
	baselineCmd.AddCommand(baselineFreezeCmd)
	baselineCmd.AddCommand(baselineListCmd)
	baselineCmd.AddCommand(baselineCompareCmd)
	RootCmd.AddCommand(baselineCmd)
}
