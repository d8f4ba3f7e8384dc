package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// GenerateCmd creates the generate command
func GenerateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate a fresh draft schedule, discarding unsaved edits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := app.Session.Generate(app.Ctx)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Draft schedule generated with %d slots\n\n", len(snapshot.Slots))
			renderSchedule(snapshot)
			printAlerts(snapshot.Alerts)

			return nil
		},
	}
}
