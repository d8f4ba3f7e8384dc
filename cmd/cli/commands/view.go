package commands

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/dancove/ministry-rota/pkg/core/model"
	"github.com/dancove/ministry-rota/pkg/core/schedule"
)

// ViewCmd creates the view command
func ViewCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "View the working schedule (or the published one with --published)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			published, _ := cmd.Flags().GetBool("published")

			if published {
				snapshot, err := app.Session.Published(app.Ctx)
				if err != nil {
					return err
				}
				if snapshot == nil {
					fmt.Println("No schedule has been published yet.")
					return nil
				}
				publishedAt := "unknown"
				if snapshot.PublishedAt != nil {
					publishedAt = snapshot.PublishedAt.Format("2006-01-02 15:04")
				}
				fmt.Printf("\nPublished schedule (published %s):\n\n", publishedAt)
				renderSchedule(*snapshot)
				printAlerts(snapshot.Alerts)
				return nil
			}

			snapshot, ok := app.Session.Working()
			if !ok {
				fmt.Println("No working schedule - run generate first.")
				return nil
			}
			fmt.Printf("\nWorking schedule (%s):\n\n", snapshot.Status)
			renderSchedule(snapshot)
			printAlerts(snapshot.Alerts)
			return nil
		},
	}

	cmd.Flags().Bool("published", false, "Show the live published schedule instead of the working copy")

	return cmd
}

// renderSchedule prints the schedule as a grid: one row per slot in
// chronological order, one column per distinct role. Altered assignments are
// marked with an asterisk, unfilled roles with a dash.
func renderSchedule(snapshot model.ScheduleSnapshot) {
	ordered := schedule.OrderSlots(snapshot.Slots)
	roles := schedule.RoleColumns(ordered)

	header := table.Row{"Slot", "Date", "Time", "Label"}
	for _, role := range roles {
		header = append(header, role)
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(header)

	for _, slot := range ordered {
		row := table.Row{slot.ID, slot.Date, slot.TimeOfDay, slot.Label}
		for _, role := range roles {
			row = append(row, cellFor(slot, role))
		}
		tw.AppendRow(row)
	}

	tw.Render()
}

func cellFor(slot model.Slot, role string) string {
	for _, assignment := range slot.Assignments {
		if assignment.Role == role {
			if assignment.Altered {
				return assignment.VolunteerName + " *"
			}
			return assignment.VolunteerName
		}
	}
	for _, missing := range slot.Missing {
		if missing == role {
			return "-"
		}
	}
	return ""
}

func printAlerts(alerts []string) {
	if len(alerts) == 0 {
		return
	}
	fmt.Printf("\n⚠️  %d unfilled roles:\n", len(alerts))
	for _, alert := range alerts {
		fmt.Printf("  ✗ %s\n", alert)
	}
	fmt.Println()
}
