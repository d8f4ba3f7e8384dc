package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AssignCmd creates the assign command
func AssignCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign <slot_id> <role> [volunteer_id]",
		Short: "Assign a volunteer to a role in a slot, or clear it with --clear",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			slotID, role := args[0], args[1]
			clear, _ := cmd.Flags().GetBool("clear")

			volunteerID := ""
			if len(args) == 3 {
				volunteerID = args[2]
			}
			if !clear && volunteerID == "" {
				return fmt.Errorf("provide a volunteer_id or pass --clear")
			}
			if clear && volunteerID != "" {
				return fmt.Errorf("--clear cannot be combined with a volunteer_id")
			}

			snapshot, err := app.Session.Apply(app.Ctx, slotID, role, volunteerID)
			if err != nil {
				return err
			}

			if clear {
				fmt.Printf("\n✓ Cleared %s in slot %s\n\n", role, slotID)
			} else {
				fmt.Printf("\n✓ Assigned %s to %s in slot %s\n\n", volunteerID, role, slotID)
			}
			renderSchedule(snapshot)
			printAlerts(snapshot.Alerts)

			return nil
		},
	}

	cmd.Flags().Bool("clear", false, "Clear the role instead of assigning")

	return cmd
}
