package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// SaveDraftCmd creates the saveDraft command
func SaveDraftCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "saveDraft",
		Short: "Persist the working schedule as a draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Session.SaveDraft(app.Ctx); err != nil {
				return err
			}
			fmt.Println("\n✓ Draft saved.")
			return nil
		},
	}
}

// PublishCmd creates the publish command
func PublishCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publish",
		Short: "Publish the working schedule, making it the live version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Session.Publish(app.Ctx); err != nil {
				return err
			}
			fmt.Println("\n✓ Schedule published.")
			fmt.Println("Volunteers can now be notified with the send command.")
			return nil
		},
	}
}
