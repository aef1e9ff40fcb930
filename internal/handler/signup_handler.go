package handler

import (
	"errors"
	"net/http"

	"go-event-platform/internal/auth"
	"go-event-platform/internal/model"
	"go-event-platform/internal/service"
	apperrors "go-event-platform/pkg/app_errors"
	"go-event-platform/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SignupHandler struct {
	service service.SignupService
}

func NewSignupHandler(service service.SignupService) *SignupHandler {
	return &SignupHandler{service: service}
}

func (h *SignupHandler) RegisterRoutes(r *gin.Engine, authRequired gin.HandlerFunc) {
	router := r.Group("/api/v1")
	{
		router.GET("signups", authRequired, h.ListByUser)
		router.GET("signups/:uuid", authRequired, h.GetForEvent)
		router.POST("signups/:uuid", authRequired, h.SignupToEvent)
		router.DELETE("signups/:uuid", authRequired, h.DeleteSignup)
	}
}

func (h *SignupHandler) GetForEvent(c *gin.Context) {
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
	signup, err := h.service.GetForEvent(c, actor, eventID)
	if err != nil {
		h.handleError(c, err, "GetForEvent")
		return
	}
	if signup == nil {
		c.Status(http.StatusNoContent)
		return
	}
	// 查詢結果是陣列；(event, user) 最多一筆所以只會有一個元素
	c.JSON(http.StatusOK, []*model.Signup{signup})
}

func (h *SignupHandler) ListByUser(c *gin.Context) {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	var query PaginationQuery
	if err := BindQuery(c, &query); err != nil {
		return
	}
	signups, count, err := h.service.ListByUser(c, actor, query.Page, query.Size)
	if err != nil {
		h.handleError(c, err, "ListByUser")
		return
	}
	c.JSON(http.StatusOK, gin.H{"eventsSignups": signups, "count": count})
}

func (h *SignupHandler) SignupToEvent(c *gin.Context) {
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
	signup, err := h.service.SignupToEvent(c, actor, eventID)
	if err != nil {
		h.handleError(c, err, "SignupToEvent")
		return
	}
	c.JSON(http.StatusOK, gin.H{"eventSignup": signup, "message": "Event signup created successfully"})
}

func (h *SignupHandler) DeleteSignup(c *gin.Context) {
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
	deleted, err := h.service.DeleteSignup(c, actor, eventID)
	if err != nil {
		h.handleError(c, err, "DeleteSignup")
		return
	}
	c.JSON(http.StatusOK, gin.H{"eventSignup": deleted, "message": "Event sign-up deleted successfully"})
}

func (h *SignupHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "No such event"})
	case errors.Is(err, apperrors.ErrAlreadySignedUp):
		log.Warn("Already signed up")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Already signed up"})
	case errors.Is(err, apperrors.ErrEventFull):
		log.Warn("Event is full")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event is full"})
	case errors.Is(err, apperrors.ErrSignupNotFound):
		log.Warn("Signup not found")
		c.JSON(http.StatusBadRequest, gin.H{"error": "No such event sign-up"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
