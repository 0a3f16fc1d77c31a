package notifications

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"scholardocs/internal/shared/server/middleware"
	"scholardocs/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches notification routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/notifications", h.list)
	rg.GET("/notifications/unread-count", h.unreadCount)
	rg.PATCH("/notifications/read-all", h.markAllRead)
	rg.PATCH("/notifications/:notificationId/read", h.markRead)
	rg.DELETE("/notifications/:notificationId", h.remove)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	page := 1
	limit := 20
	if v := c.Query("page"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid pagination parameters", nil)
			return
		}
		page = parsed
	}
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid pagination parameters", nil)
			return
		}
		limit = parsed
	}
	unreadOnly := c.Query("unreadOnly") == "true"

	list, pagination, err := h.Svc.List(c.Request.Context(), userID, page, limit, unreadOnly)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to fetch notifications", nil)
		return
	}

	resp := ListResponse{
		Notifications: make([]NotificationResponse, 0, len(list)),
		Pagination:    pagination,
	}
	for _, n := range list {
		resp.Notifications = append(resp.Notifications, toResponse(n))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) unreadCount(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	count, err := h.Svc.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to get unread count", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"count": count})
}

func (h *Handler) markRead(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	err := h.Svc.MarkRead(c.Request.Context(), c.Param("notificationId"), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "Notification not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to mark notification as read", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func (h *Handler) markAllRead(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.MarkAllRead(c.Request.Context(), userID); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to mark all notifications as read", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	err := h.Svc.Delete(c.Request.Context(), c.Param("notificationId"), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "Notification not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to delete notification", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"message": "Notification deleted"})
}
