package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/nba-stats-manager/internal/ingest"
	"github.com/maxviazov/nba-stats-manager/internal/service"
	"github.com/maxviazov/nba-stats-manager/pkg/response"
)

type TeamHandler struct {
	svc service.StatsService
}

func NewTeamHandler(svc service.StatsService) *TeamHandler { return &TeamHandler{svc: svc} }

func (h *TeamHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/teams")
	{
		g.GET("/search", h.search)
		g.GET("/standings", h.standings)
		g.POST("/standings", h.upsertStandings)
	}
}

func (h *TeamHandler) search(c *gin.Context) {
	players, err := h.svc.TeamStats(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, players)
}

func (h *TeamHandler) standings(c *gin.Context) {
	teams, err := h.svc.ListTeams(c.Request.Context(), c.Query("season"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, teams)
}

// upsertStandings accepts a JSON array of teams or {"teams": [...]}.
func (h *TeamHandler) upsertStandings(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		response.WriteError(c, err)
		return
	}
	teams, err := ingest.DecodeTeams(body)
	if err != nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "body", Message: "must be a JSON array of teams or an object with teams"}}))
		return
	}
	res, err := h.svc.UpsertTeams(c.Request.Context(), teams)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}
