package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dancove/ministry-rota/pkg/generator"
)

// CoverageCmd creates the coverage command
func CoverageCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coverage",
		Short: "Check the working schedule against the configured service patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			days, _ := cmd.Flags().GetInt("days")

			snapshot, ok := app.Session.Working()
			if !ok {
				return fmt.Errorf("no working schedule - run generate first")
			}

			start := time.Now()
			end := start.AddDate(0, 0, days)
			gaps, err := generator.CoverageCheck(snapshot, app.Cfg.ServicePatterns, start, end)
			if err != nil {
				return err
			}

			if len(gaps) == 0 {
				fmt.Printf("\n✓ All configured occurrences in the next %d days have slots.\n", days)
				return nil
			}

			fmt.Printf("\n⚠️  %d configured occurrences have no slot:\n", len(gaps))
			for _, gap := range gaps {
				fmt.Printf("  ✗ %s on %s\n", gap.Label, gap.Date)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Int("days", 28, "Coverage window in days from today")

	return cmd
}
