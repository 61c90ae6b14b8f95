package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/nba-stats-manager/internal/ingest"
	"github.com/maxviazov/nba-stats-manager/internal/model"
	"github.com/maxviazov/nba-stats-manager/internal/service"
	"github.com/maxviazov/nba-stats-manager/pkg/response"
)

type RefreshHandler struct {
	svc    service.StatsService
	src    ingest.Source
	season string
}

// NewRefreshHandler wires the write endpoints. src may be nil, in which case
// the remote refresh reports no_source.
func NewRefreshHandler(svc service.StatsService, src ingest.Source, season string) *RefreshHandler {
	return &RefreshHandler{svc: svc, src: src, season: season}
}

func (h *RefreshHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/refresh")
	{
		g.POST("", h.refresh)
		g.POST("/remote", h.remote)
	}
}

type refreshRequest struct {
	Season  string            `json:"season"`
	Records []model.RawRecord `json:"records"`
}

func (h *RefreshHandler) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "body", Message: "must be a JSON object with records"}}))
		return
	}
	res, err := h.svc.Refresh(c.Request.Context(), req.Records, req.Season)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

func (h *RefreshHandler) remote(c *gin.Context) {
	season := c.DefaultQuery("season", h.season)
	res, err := h.svc.RefreshFrom(c.Request.Context(), h.src, season)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}
