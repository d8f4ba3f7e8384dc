package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dancove/ministry-rota/internal/config"
	"github.com/dancove/ministry-rota/pkg/clients/gmailclient"
	"github.com/dancove/ministry-rota/pkg/clients/smsclient"
	"github.com/dancove/ministry-rota/pkg/utils"
	"github.com/dancove/ministry-rota/pkg/worker"
)

// WorkerCmd creates the worker command
func WorkerCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run the dispatch worker until interrupted",
		Long:  `Run the dispatch worker loop: claims queued dispatch jobs, resolves recipients from the published schedule and delivers messages through the configured channels.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			channels := app.Cfg.Channels
			if channels.Count() == 0 {
				return fmt.Errorf("no delivery channels configured")
			}

			var sms worker.SMSSender
			if channels.SMS != nil {
				sms = smsclient.NewClient(app.Ctx, *channels.SMS)
				app.Logger.Info("SMS channel configured")
			}

			var email worker.EmailSender
			digest := ""
			if channels.Gmail != nil {
				oauthCfg, err := config.LoadOAuthClientWithEnv(app.Env)
				if err != nil {
					return fmt.Errorf("failed to load OAuth client config: %w", err)
				}

				oauthConfig, err := utils.GetOAuthConfig(oauthCfg)
				if err != nil {
					return err
				}
				token, err := utils.GetTokenWithFlow(app.Ctx, oauthConfig, app.Env)
				if err != nil {
					return fmt.Errorf("failed to obtain gmail token: %w", err)
				}

				client, err := gmailclient.NewClient(app.Ctx, oauthCfg, token, *channels.Gmail)
				if err != nil {
					return err
				}
				email = client
				digest = channels.Gmail.UserID
				app.Logger.Info("Gmail channel configured")
			}

			w := worker.New(
				app.Database,
				sms,
				email,
				digest,
				app.Cfg.OrganizationName,
				channels.RatePerSec,
				app.Logger,
			)

			return w.Run(app.Ctx)
		},
	}
}
