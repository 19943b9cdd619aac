package handlers

import (
	"math"
	"net/http"

	"github.com/feedpulse/backend/internal/models"
	"github.com/feedpulse/backend/internal/repositories"
	"github.com/feedpulse/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationService services.NotificationService
	userRepository      repositories.UserRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService services.NotificationService, userRepo repositories.UserRepository) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		userRepository:      userRepo,
	}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
}

// EnrichedNotification includes sender info
type EnrichedNotification struct {
	models.Notification
	Sender *models.UserCompact `json:"sender,omitempty"`
}

func (h *NotificationHandler) enrichNotifications(notifications []models.Notification) []EnrichedNotification {
	enriched := make([]EnrichedNotification, len(notifications))
	userCache := make(map[uint]models.UserCompact)

	for i, n := range notifications {
		enriched[i] = EnrichedNotification{Notification: n}
		if n.SenderID == nil {
			continue
		}
		if sender, ok := userCache[*n.SenderID]; ok {
			enriched[i].Sender = &sender
			continue
		}
		user, err := h.userRepository.GetUserByID(*n.SenderID)
		if err == nil {
			compact := user.ToCompact()
			userCache[*n.SenderID] = compact
			enriched[i].Sender = &compact
		}
	}
	return enriched
}

// GetNotifications returns paginated notifications for the current user
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	limit, offset := queryPagination(c, 20)
	unreadOnly := c.QueryParam("unread_only") == "true"

	notifications, total, err := h.notificationService.List(currentUserID, unreadOnly, limit, offset)
	if err != nil {
		return domainError(err)
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	enriched := h.enrichNotifications(notifications)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"notifications": enriched,
		},
		"meta": echo.Map{
			"totalItems":   total,
			"totalPages":   totalPages,
			"itemsPerPage": limit,
			"offset":       offset,
		},
	})
}

// GetUnreadCount returns the number of unread notifications
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	count, err := h.notificationService.UnreadCount(currentUserID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"unread_count": count})
}

// MarkAsRead marks a single notification as read (recipient only)
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	notification, err := h.notificationService.MarkAsRead(currentUserID, id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"notification": notification}})
}

// MarkAllAsRead marks all of the current user's notifications as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if err := h.notificationService.MarkAllAsRead(currentUserID); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
