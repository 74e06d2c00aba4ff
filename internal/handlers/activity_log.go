package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/collabhub/backend/internal/services"
	"github.com/collabhub/backend/pkg/response"
)

type ActivityLogHandler struct {
	logService *services.ActivityLogService
}

func NewActivityLogHandler(db *gorm.DB) *ActivityLogHandler {
	return &ActivityLogHandler{
		logService: services.NewActivityLogService(db),
	}
}

// List returns filtered, paginated activity logs
// GET /api/v1/admin/activity-logs
func (h *ActivityLogHandler) List(c *gin.Context) {
	var req services.ActivityLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.logService.List(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Activity logs fetched successfully", gin.H{
		"total":     result.Total,
		"page":      result.Page,
		"page_size": result.PageSize,
		"items":     result.Items,
	})
}

// Modules returns the distinct module names seen in the logs
// GET /api/v1/admin/activity-logs/modules
func (h *ActivityLogHandler) Modules(c *gin.Context) {
	modules, err := h.logService.GetModules()
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Modules fetched successfully", gin.H{"modules": modules})
}
