package commands

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// CandidatesCmd creates the candidates command
func CandidatesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "candidates <slot_id> <role> [search]",
		Short: "List eligible volunteers for a slot and role with availability badges",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			slotID, role := args[0], args[1]
			search := ""
			if len(args) == 3 {
				search = args[2]
			}

			candidates, err := app.Session.Candidates(app.Ctx, slotID, role, search)
			if err != nil {
				return err
			}

			if len(candidates) == 0 {
				fmt.Println("No eligible volunteers found.")
				return nil
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"ID", "Name", "Availability"})
			for _, candidate := range candidates {
				tw.AppendRow(table.Row{
					candidate.Volunteer.ID,
					candidate.Volunteer.FullName(),
					string(candidate.Badge),
				})
			}
			tw.Render()

			return nil
		},
	}
}
