package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/nba-stats-manager/internal/service"
	"github.com/maxviazov/nba-stats-manager/pkg/response"
)

type PlayerHandler struct {
	svc service.StatsService
}

func NewPlayerHandler(svc service.StatsService) *PlayerHandler { return &PlayerHandler{svc: svc} }

func (h *PlayerHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/players")
	{
		g.GET("/top", h.top)
		g.GET("/efficiency", h.efficiency)
		g.GET("/compare", h.compare)
	}
}

func (h *PlayerHandler) top(c *gin.Context) {
	limit, err := queryLimit(c)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	players, err := h.svc.TopScorers(c.Request.Context(), limit)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, players)
}

func (h *PlayerHandler) efficiency(c *gin.Context) {
	limit, err := queryLimit(c)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	ranked, err := h.svc.EfficiencyLeaders(c.Request.Context(), limit)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, ranked)
}

func (h *PlayerHandler) compare(c *gin.Context) {
	cmp, err := h.svc.ComparePlayers(c.Request.Context(), c.Query("p1"), c.Query("p2"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	if !cmp.Found {
		response.WriteNotFound(c, cmp.Missing)
		return
	}
	response.WriteData(c, http.StatusOK, cmp)
}
