package messages

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

// SendMessage sends a private message to another profile
// @Summary Send a private message
// @Description Send a private message to another user
// @Tags messages
// @Accept json
// @Produce json
// @Param message body models.PrivateMessageCreate true "Message to send"
// @Security BearerAuth
// @Success 201 {object} models.PrivateMessage
// @Failure 400 {object} map[string]string "error: Invalid request data"
// @Failure 404 {object} map[string]string "error: Receiver not found"
// @Router /messages [post]
func (h *Handler) SendMessage(c *gin.Context) {
	profile, ok := h.me(c)
	if !ok {
		return
	}

	var input models.PrivateMessageCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data: " + err.Error()})
		return
	}
	if _, err := uuid.Parse(input.ReceiverID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid receiver ID"})
		return
	}

	message, err := h.messaging.SendMessage(profile.ID, input)
	if err != nil {
		utils.LogErrorWithUser(profile.ID, err, "Error sending the message in SendMessage")
		utils.HandleServiceError(c, err)
		return
	}

	utils.LogSuccessWithUser(profile.ID, "Message sent successfully in SendMessage")
	c.JSON(http.StatusCreated, message)
}

// GetConversation returns the exchange with another profile
// @Summary Get a conversation
// @Description Return all messages exchanged with another user, oldest first
// @Tags messages
// @Produce json
// @Param profileId path string true "ID of the other profile"
// @Security BearerAuth
// @Success 200 {array} models.PrivateMessage
// @Failure 400 {object} map[string]string "error: Invalid profile ID"
// @Router /messages/{profileId} [get]
func (h *Handler) GetConversation(c *gin.Context) {
	otherID := c.Param("profileId")
	if _, err := uuid.Parse(otherID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile ID"})
		return
	}

	profile, ok := h.me(c)
	if !ok {
		return
	}

	messages, err := h.messaging.Conversation(profile.ID, otherID)
	if err != nil {
		utils.LogErrorWithUser(profile.ID, err, "Error retrieving the conversation in GetConversation")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching messages"})
		return
	}

	c.JSON(http.StatusOK, messages)
}

// MarkRead marks a received message as read
// @Summary Mark a message as read
// @Description Mark a message as read. Only the receiver may do this.
// @Tags messages
// @Produce json
// @Param messageId path string true "ID of the message"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Message marked as read"
// @Failure 403 {object} map[string]string "error: Only the receiver can mark a message as read"
// @Failure 404 {object} map[string]string "error: Message not found"
// @Router /messages/{messageId}/read [put]
func (h *Handler) MarkRead(c *gin.Context) {
	messageID := c.Param("messageId")
	if _, err := uuid.Parse(messageID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message ID"})
		return
	}

	profile, ok := h.me(c)
	if !ok {
		return
	}

	if err := h.messaging.MarkMessageRead(messageID, profile.ID); err != nil {
		utils.LogErrorWithUser(profile.ID, err, "Error marking the message as read in MarkRead")
		utils.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message marked as read"})
}
