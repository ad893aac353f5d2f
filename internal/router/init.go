package router

import (
	userapp "github.com/userdir/user-directory-api/internal/application"
	"github.com/userdir/user-directory-api/internal/container"
	pginfra "github.com/userdir/user-directory-api/internal/infrastructure/postgres"
	handlers "github.com/userdir/user-directory-api/internal/interface/http"
	"github.com/userdir/user-directory-api/internal/router/modules"
)

// InitModules builds the dependency graph from the container singletons and
// registers every feature module. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()

	userRepo := pginfra.NewUserRepository(container.GetGateway())
	svc := userapp.NewService(userRepo, container.GetRedis(), container.GetLogger(), cfg.StatsCacheTTL)

	userHandler := handlers.NewUserHandler(svc, container.GetLogger())
	statsHandler := handlers.NewStatsHandler(svc, container.GetLogger())

	r.Add(modules.NewUserModule(userHandler))
	r.Add(modules.NewStatsModule(statsHandler))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
