package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/nba-stats-manager/internal/service"
	"github.com/maxviazov/nba-stats-manager/pkg/response"
)

const exportFilename = "nba_stats_export.csv"

type ExportHandler struct {
	svc service.StatsService
}

func NewExportHandler(svc service.StatsService) *ExportHandler { return &ExportHandler{svc: svc} }

func (h *ExportHandler) Register(r *gin.RouterGroup) {
	r.GET("/export", h.download)
}

// download buffers the CSV so a failure still yields a proper error status.
func (h *ExportHandler) download(c *gin.Context) {
	var buf bytes.Buffer
	n, err := h.svc.ExportTo(c.Request.Context(), &buf)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	c.Header("X-Record-Count", strconv.Itoa(n))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
