package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/dancove/ministry-rota/internal/config"
	"github.com/dancove/ministry-rota/pkg/core/dispatch"
	"github.com/dancove/ministry-rota/pkg/core/session"
	"github.com/dancove/ministry-rota/pkg/db"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg          *config.Config
	Database     db.Database
	Session      *session.Session
	Orchestrator *dispatch.Orchestrator
	Logger       *zap.Logger
	Ctx          context.Context

	// Env selects config and token files, e.g. "test" or "prod"
	Env string
}
