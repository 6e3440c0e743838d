package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alimgiray/streakcard/internal/services"
	"github.com/alimgiray/streakcard/pkg/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type UsageHandler struct {
	usageService *services.UsageService
}

// NewUsageHandler creates the usage handler; a nil service means recording is disabled.
func NewUsageHandler(usageService *services.UsageService) *UsageHandler {
	return &UsageHandler{
		usageService: usageService,
	}
}

// Summary returns aggregated render counts
func (h *UsageHandler) Summary(c *gin.Context) {
	if h.usageService == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "usage recording is disabled"})
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	summary, err := h.usageService.Summary(limit)
	if err != nil {
		logger.WithError(err).Error("Failed to load usage summary")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load usage summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Export downloads the usage report as an Excel workbook
func (h *UsageHandler) Export(c *gin.Context) {
	if h.usageService == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "usage recording is disabled"})
		return
	}

	var buf bytes.Buffer
	if err := h.usageService.ExportXLSX(&buf); err != nil {
		logger.WithError(err).Error("Failed to export usage")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export usage"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="usage.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
