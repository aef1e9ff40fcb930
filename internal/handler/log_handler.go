package handler

import (
	"net/http"

	"go-event-platform/internal/auth"
	"go-event-platform/internal/model"
	"go-event-platform/internal/service"
	"go-event-platform/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LogHandler struct {
	service service.AuditLogService
}

func NewLogHandler(service service.AuditLogService) *LogHandler {
	return &LogHandler{service: service}
}

func (h *LogHandler) RegisterRoutes(r *gin.Engine, authRequired gin.HandlerFunc) {
	router := r.Group("/api/v1")
	{
		router.GET("logs", authRequired, auth.RequireRole(model.RoleAdmin), h.List)
	}
}

func (h *LogHandler) List(c *gin.Context) {
	var query PaginationQuery
	if err := BindQuery(c, &query); err != nil {
		return
	}
	logs, count, err := h.service.List(c, query.Page, query.Size)
	if err != nil {
		logger.WithComponent("handler").Error("list audit logs failed",
			zap.String("operation", "List"), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs, "count": count})
}
