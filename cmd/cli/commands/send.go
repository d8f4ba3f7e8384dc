package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dancove/ministry-rota/pkg/core/dispatch"
	"github.com/dancove/ministry-rota/pkg/core/model"
)

// SendCmd creates the send command
func SendCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send <category>",
		Short: "Dispatch a notification category and track it to completion",
		Long:  `Submit a dispatch job for a notification category (full-schedule, reminder-3d, reminder-1d, day-of) and poll until it reaches a terminal state. A running worker executes the job.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category := model.NotificationCategory(args[0])
			testMode, _ := cmd.Flags().GetBool("test")
			testContact, _ := cmd.Flags().GetString("test-contact")

			if testMode {
				fmt.Printf("Test mode: all messages go to %s\n", testContact)
			}

			outcome, err := app.Orchestrator.Submit(app.Ctx, app.Cfg.LinkID, category, testMode, testContact)
			if err != nil {
				return err
			}

			switch outcome.Kind {
			case dispatch.OutcomeCompleted:
				fmt.Printf("\n✓ Dispatch completed (job %s, %d polls)\n\n", outcome.JobID, outcome.Polls)
				fmt.Printf("Sent:   %d\n", outcome.Result.Sent)
				fmt.Printf("Errors: %d\n", outcome.Result.Errors)
				if outcome.Result.Warning != "" {
					fmt.Printf("⚠️  %s\n", outcome.Result.Warning)
				}
				if outcome.PartialFailure() {
					fmt.Println("\n⚠️  Some messages failed to send - check the worker logs.")
				}
			case dispatch.OutcomeFailed:
				fmt.Printf("\n✗ Dispatch failed (job %s): %s\n", outcome.JobID, outcome.Error)
			case dispatch.OutcomeTimedOut:
				fmt.Printf("\n⚠️  Gave up waiting for job %s after %d polls.\n", outcome.JobID, outcome.Polls)
				fmt.Println("The job may still complete - is a worker running?")
			}

			return nil
		},
	}

	cmd.Flags().Bool("test", false, "Send every message to the test contact instead of real recipients")
	cmd.Flags().String("test-contact", "", "Contact number that receives all messages in test mode")

	return cmd
}
