package notifications

import (
	"net/http"

	"fanlink-backend/middleware"
	"fanlink-backend/models"
	"fanlink-backend/services"
	"fanlink-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	identity  *services.IdentityService
	messaging *services.MessagingService
}

func New(identity *services.IdentityService, messaging *services.MessagingService) *Handler {
	return &Handler{identity: identity, messaging: messaging}
}

func (h *Handler) me(c *gin.Context) (*models.Profile, bool) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}
	profile, err := h.identity.EnsureProfile(principal)
	if err != nil {
		utils.HandleServiceError(c, err)
		return nil, false
	}
	return profile, true
}

// GetNotifications lists the caller's notifications
// @Summary List notifications
// @Description Return the connected user's notifications, newest first
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Notification
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /notifications [get]
func (h *Handler) GetNotifications(c *gin.Context) {
	profile, ok := h.me(c)
	if !ok {
		return
	}

	notifications, err := h.messaging.Notifications(profile.ID)
	if err != nil {
		utils.LogErrorWithUser(profile.ID, err, "Error retrieving notifications in GetNotifications")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching notifications"})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// MarkRead marks one notification as read
// @Summary Mark a notification as read
// @Description Mark a notification as read. Only its owner may do this.
// @Tags notifications
// @Produce json
// @Param notificationId path string true "ID of the notification"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Notification marked as read"
// @Failure 403 {object} map[string]string "error: Not your notification"
// @Failure 404 {object} map[string]string "error: Notification not found"
// @Router /notifications/{notificationId}/read [put]
func (h *Handler) MarkRead(c *gin.Context) {
	notificationID := c.Param("notificationId")
	if _, err := uuid.Parse(notificationID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	profile, ok := h.me(c)
	if !ok {
		return
	}

	if err := h.messaging.MarkNotificationRead(notificationID, profile.ID); err != nil {
		utils.LogErrorWithUser(profile.ID, err, "Error marking the notification as read in MarkRead")
		utils.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}
