package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/nba-stats-manager/internal/service"
	"github.com/maxviazov/nba-stats-manager/pkg/response"
)

// ChartHandler serves chart inputs as JSON. Rendering is up to the client.
type ChartHandler struct {
	svc service.StatsService
}

func NewChartHandler(svc service.StatsService) *ChartHandler { return &ChartHandler{svc: svc} }

func (h *ChartHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/charts")
	{
		g.GET("/scatter", h.scatter)
		g.GET("/shooting", h.shooting)
		g.GET("/team", h.team)
	}
}

func (h *ChartHandler) scatter(c *gin.Context) {
	points, err := h.svc.ScatterPoints(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, points)
}

func (h *ChartHandler) shooting(c *gin.Context) {
	limit, err := queryLimit(c)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	players, err := h.svc.ShootingLeaders(c.Request.Context(), limit)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, players)
}

func (h *ChartHandler) team(c *gin.Context) {
	players, err := h.svc.TeamAnalysis(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, players)
}
