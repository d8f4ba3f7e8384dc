package commands

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/dancove/ministry-rota/pkg/core/model"
	"github.com/dancove/ministry-rota/pkg/core/notify"
)

// RecipientsCmd creates the recipients command
func RecipientsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "recipients <category>",
		Short: "Preview who would receive a notification category",
		Long:  `Preview the recipient list for a notification category (full-schedule, reminder-3d, reminder-1d, day-of) based on the published schedule. No messages are sent.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category := model.NotificationCategory(args[0])
			if !category.IsValid() {
				return fmt.Errorf("unknown notification category %q", args[0])
			}

			snapshot, err := app.Session.Published(app.Ctx)
			if err != nil {
				return err
			}
			if snapshot == nil {
				return fmt.Errorf("no published schedule to notify about")
			}

			roster, err := app.Database.ListVolunteers(app.Ctx, app.Cfg.LinkID)
			if err != nil {
				return err
			}

			previews := notify.ResolveRecipients(*snapshot, category, roster)
			if len(previews) == 0 {
				fmt.Println("No volunteers are assigned in the published schedule.")
				return nil
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"Name", "Contact", "Slots"})
			for _, preview := range previews {
				contact := preview.Phone
				if !preview.HasContact {
					contact = "(none)"
				}
				tw.AppendRow(table.Row{preview.VolunteerName, contact, len(preview.Slots)})
			}
			tw.Render()

			reachable := notify.WillReceive(previews)
			fmt.Printf("\n%d of %d recipients can be reached.\n", reachable, len(previews))
			if reachable < len(previews) {
				fmt.Printf("⚠️  %d volunteers have no contact number.\n", len(previews)-reachable)
			}

			return nil
		},
	}
}
