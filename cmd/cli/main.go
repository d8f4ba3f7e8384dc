package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dancove/ministry-rota/cmd/cli/commands"
	"github.com/dancove/ministry-rota/internal/config"
	"github.com/dancove/ministry-rota/pkg/core/dispatch"
	"github.com/dancove/ministry-rota/pkg/core/session"
	"github.com/dancove/ministry-rota/pkg/generator"
	"github.com/dancove/ministry-rota/pkg/postgres"
	"github.com/dancove/ministry-rota/pkg/utils/logging"
)

var (
	env string
	app = &commands.AppContext{}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rota",
		Short: "Ministry Rota CLI - Manage volunteer serving schedules",
		Long:  `A CLI tool for generating, editing and publishing volunteer serving schedules, and for dispatching notifications to scheduled volunteers.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.GenerateCmd(app))
	rootCmd.AddCommand(commands.ViewCmd(app))
	rootCmd.AddCommand(commands.CandidatesCmd(app))
	rootCmd.AddCommand(commands.AssignCmd(app))
	rootCmd.AddCommand(commands.SaveDraftCmd(app))
	rootCmd.AddCommand(commands.PublishCmd(app))
	rootCmd.AddCommand(commands.CoverageCmd(app))
	rootCmd.AddCommand(commands.RecipientsCmd(app))
	rootCmd.AddCommand(commands.SendCmd(app))
	rootCmd.AddCommand(commands.WorkerCmd(app))
	rootCmd.AddCommand(commands.ListVolunteersCmd(app))
	rootCmd.AddCommand(commands.SetPhoneCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp fills the shared AppContext with logger, config, database and the
// schedule session. Runs once before any command.
func initApp() error {
	ctx := context.Background()

	logger, err := logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Starting application", zap.String("environment", env))

	logger.Info("Loading configuration")
	cfg, err := config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Debug("Configuration loaded successfully")

	logger.Info("Connecting to database")
	database, err := postgres.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("Running database migrations")
	if err := database.RunMigrations(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	gen := generator.New(cfg.ServicePatterns, database, logger)

	app.Cfg = cfg
	app.Database = database
	app.Session = session.NewSession(cfg.LinkID, gen, database, database, logger)

	// Surface session notices (roster warnings, save failures) as they arrive
	go func() {
		for notice := range app.Session.Notices() {
			switch notice.Level {
			case session.LevelError:
				logger.Error(notice.Message)
			case session.LevelWarn:
				logger.Warn(notice.Message)
			default:
				logger.Info(notice.Message)
			}
		}
	}()
	app.Orchestrator = dispatch.NewOrchestrator(database, dispatch.SystemClock(), cfg.Channels.Count(), logger)
	app.Logger = logger
	app.Ctx = ctx
	app.Env = env

	return nil
}
