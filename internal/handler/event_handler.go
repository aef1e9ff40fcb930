package handler

import (
	"errors"
	"net/http"
	"time"

	"go-event-platform/internal/auth"
	"go-event-platform/internal/model"
	"go-event-platform/internal/service"
	apperrors "go-event-platform/pkg/app_errors"
	"go-event-platform/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventHandler struct {
	service service.EventService
}

func NewEventHandler(service service.EventService) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) RegisterRoutes(r *gin.Engine, authRequired gin.HandlerFunc) {
	router := r.Group("/api/v1")
	{
		router.GET("events", h.List)
		router.GET("events/:uuid", h.GetByEventID)
		router.POST("events", authRequired, h.Create)
		router.PUT("events/:uuid", authRequired, h.UpdateByEventID)
		router.DELETE("events/:uuid", authRequired, h.DeleteByEventID)
	}
}

// CreateEventRequest 建立活動請求
type CreateEventRequest struct {
	Name        string               `json:"name"`
	Description *string              `json:"description"`
	StartDate   time.Time            `json:"start_date" binding:"required"`
	EndDate     time.Time            `json:"end_date" binding:"required"`
	Location    *string              `json:"location"`
	Category    *model.EventCategory `json:"category"`
	Price       float64              `json:"price"`
	Capacity    *int                 `json:"capacity"`
}

// UpdateEventRequest 更新活動請求，所有欄位都可選
type UpdateEventRequest struct {
	Name        *string              `json:"name"`
	Description *string              `json:"description"`
	OwnerID     *int                 `json:"owner_id"`
	StartDate   *time.Time           `json:"start_date"`
	EndDate     *time.Time           `json:"end_date"`
	Location    *string              `json:"location"`
	Category    *model.EventCategory `json:"category"`
	Price       *float64             `json:"price"`
	Capacity    *int                 `json:"capacity"`
}

func (h *EventHandler) List(c *gin.Context) {
	var query PaginationQuery
	if err := BindQuery(c, &query); err != nil {
		return
	}
	events, count, err := h.service.List(c, query.Page, query.Size)
	if err != nil {
		h.handleError(c, err, "List")
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events, "count": count})
}

func (h *EventHandler) GetByEventID(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event uuid"})
		return
	}
	event, err := h.service.GetByEventID(c, eventID)
	if err != nil {
		h.handleError(c, err, "GetByEventID")
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Create(c *gin.Context) {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	var req CreateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	event := &model.Event{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Location:    req.Location,
		Category:    req.Category,
		Price:       req.Price,
		Capacity:    req.Capacity,
	}
	created, err := h.service.Create(c, actor, event)
	if err != nil {
		h.handleError(c, err, "Create")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"event": created, "message": "Event created successfully"})
}

func (h *EventHandler) UpdateByEventID(c *gin.Context) {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	eventID, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event uuid"})
		return
	}
	var req UpdateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	params := model.UpdateEventParams{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     req.OwnerID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Location:    req.Location,
		Category:    req.Category,
		Price:       req.Price,
		Capacity:    req.Capacity,
	}
	updated, err := h.service.UpdateByEventID(c, actor, eventID, params)
	if err != nil {
		// 更新找不到活動回 404，其餘錯誤走共用對照
		if errors.Is(err, apperrors.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No such event"})
			return
		}
		h.handleError(c, err, "UpdateByEventID")
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": updated, "message": "Event updated successfully"})
}

func (h *EventHandler) DeleteByEventID(c *gin.Context) {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	eventID, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event uuid"})
		return
	}
	deleted, err := h.service.DeleteByEventID(c, actor, eventID)
	if err != nil {
		h.handleError(c, err, "DeleteByEventID")
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": deleted, "message": "Event deleted successfully"})
}

func (h *EventHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusBadRequest, gin.H{"error": "No such event"})
	case errors.Is(err, apperrors.ErrUserNotFound):
		log.Warn("User not found")
		c.JSON(http.StatusBadRequest, gin.H{"error": "No such user"})
	case errors.Is(err, apperrors.ErrMissingFields):
		log.Warn("Missing fields")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
	case errors.Is(err, apperrors.ErrUnauthorized):
		log.Warn("Unauthorized")
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
