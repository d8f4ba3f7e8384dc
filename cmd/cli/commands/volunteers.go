package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/dancove/ministry-rota/pkg/core/notify"
)

// ListVolunteersCmd creates the listVolunteers command
func ListVolunteersCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listVolunteers",
		Short: "List the volunteer roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			volunteers, err := app.Database.ListVolunteers(app.Ctx, app.Cfg.LinkID)
			if err != nil {
				return err
			}

			if len(volunteers) == 0 {
				fmt.Println("No volunteers on the roster.")
				return nil
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"ID", "Name", "Active", "Willing", "Roles", "Phone"})
			for _, volunteer := range volunteers {
				tw.AppendRow(table.Row{
					volunteer.ID,
					volunteer.FullName(),
					volunteer.Active,
					string(volunteer.Willing),
					strings.Join(volunteer.Roles, ", "),
					notify.MaskPhone(volunteer.Phone),
				})
			}
			tw.Render()

			return nil
		},
	}
}

// SetPhoneCmd creates the setPhone command
func SetPhoneCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setPhone <volunteer_id> <phone>",
		Short: "Update a volunteer's contact number",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			volunteerID, phone := args[0], args[1]

			if err := app.Session.SetVolunteerPhone(app.Ctx, volunteerID, phone); err != nil {
				return err
			}

			fmt.Printf("\n✓ Contact number updated for %s (%s)\n", volunteerID, notify.MaskPhone(phone))
			return nil
		},
	}
}
