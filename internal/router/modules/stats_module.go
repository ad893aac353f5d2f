package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/userdir/user-directory-api/internal/container"
	handlers "github.com/userdir/user-directory-api/internal/interface/http"
	"github.com/userdir/user-directory-api/internal/interface/middleware"
)

// StatsModule wires the aggregate statistics routes.
type StatsModule struct {
	Handler *handlers.StatsHandler
}

func NewStatsModule(h *handlers.StatsHandler) *StatsModule {
	return &StatsModule{Handler: h}
}

func (m *StatsModule) Register(rg *gin.RouterGroup) {
	limiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	stats := rg.Group("/stats")
	{
		stats.GET("", limiter, m.Handler.Overview)
		stats.GET("/countries", limiter, m.Handler.Countries)
		stats.GET("/recent", limiter, m.Handler.Recent)
	}
}
