package cli

import (
	"fmt"

	"github.com/felixgeelhaar/flowplan/pkg/domain"
	"github.com/felixgeelhaar/flowplan/pkg/storage"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init <project-id>",
	Short: "Initialize a flowplan workspace for a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID := args[0]
		startDate, _ := cmd.Flags().GetString("start")
		recordDB, _ := cmd.Flags().GetString("record-db")

		root, err := getProjectRoot()
		if err != nil {
			return err
		}

		repo := storage.NewFilesystemRepository(root)
		if repo.IsInitialized() {
			return fmt.Errorf("workspace already initialized at %s", root)
		}
		if err := repo.Initialize(); err != nil {
			return err
		}

		cfg := &domain.WorkspaceConfig{
			ProjectID:    projectID,
			ProjectStart: startDate,
			RecordDB:     recordDB,
		}
		if err := repo.SaveConfig(cfg); err != nil {
			return err
		}

		fmt.Printf("Initialized flowplan workspace for project %s\n", projectID)
		if startDate != "" {
			fmt.Printf("  Project start: %s\n", startDate)
		}
		fmt.Println("Run 'flowplan plan create --name <name>' to start planning.")
		return nil
	},
}

func init() {
	initCmd.Flags().String("start", "", "project start date (YYYY-MM-DD, defaults to today)")
	initCmd.Flags().String("record-db", "", "path to the system-of-record task database")
	RootCmd.AddCommand(initCmd)
}
