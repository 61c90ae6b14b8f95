package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/maxviazov/nba-stats-manager/internal/ingest"
	"github.com/maxviazov/nba-stats-manager/internal/service"
)

// Deps is what the HTTP shell needs from the process.
// Cache and Source are optional.
type Deps struct {
	Store  Pinger
	Cache  Pinger
	Stats  service.StatsService
	Source ingest.Source
	Season string
}

// Register mounts all public routes on the given engine.
// Middleware is attached by the caller so tests can run routes bare.
func Register(r *gin.Engine, d Deps) {
	h := NewHealthHandler(d.Store, d.Cache)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	// Docs endpoints (root-level)
	RegisterDocs(r)

	api := r.Group(APIV1Prefix)
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		if d.Stats == nil {
			return
		}
		NewRefreshHandler(d.Stats, d.Source, d.Season).Register(api)
		NewPlayerHandler(d.Stats).Register(api)
		NewTeamHandler(d.Stats).Register(api)
		NewChartHandler(d.Stats).Register(api)
		NewExportHandler(d.Stats).Register(api)
	}
}
