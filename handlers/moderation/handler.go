package moderation

import (
	"net/http"
	"strconv"

	"fanlink-backend/middleware"
	"fanlink-backend/models"
	"fanlink-backend/services"
	"fanlink-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	identity   *services.IdentityService
	moderation *services.ModerationService
}

func New(identity *services.IdentityService, moderation *services.ModerationService) *Handler {
	return &Handler{identity: identity, moderation: moderation}
}

// moderator resolves the acting admin to a profile id.
func (h *Handler) moderator(c *gin.Context) (string, bool) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return "", false
	}
	profile, err := h.identity.EnsureProfile(principal)
	if err != nil {
		utils.HandleServiceError(c, err)
		return "", false
	}
	return profile.ID, true
}

// GetQueue returns the pending moderation queue
// @Summary Get the moderation queue
// @Description Return pending posts oldest first, so the first submitted is the first reviewed
// @Tags moderation
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Security BearerAuth
// @Success 200 {array} models.Post
// @Failure 403 {object} map[string]string "error: Access denied"
// @Router /moderation/posts [get]
func (h *Handler) GetQueue(c *gin.Context) {
	limit, offset := pagination(c, 20)

	posts, err := h.moderation.PendingPosts(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving pending posts: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, posts)
}

// ApprovePost approves a pending post
// @Summary Approve a post
// @Description Move a pending post to approved and append an audit log entry
// @Tags moderation
// @Produce json
// @Param id path string true "Post ID"
// @Security BearerAuth
// @Success 200 {object} models.Post
// @Failure 404 {object} map[string]string "error: Post not found"
// @Failure 409 {object} map[string]string "error: Post already moderated"
// @Router /moderation/posts/{id}/approve [post]
func (h *Handler) ApprovePost(c *gin.Context) {
	moderatorID, ok := h.moderator(c)
	if !ok {
		return
	}

	postID := c.Param("id")
	if _, err := uuid.Parse(postID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	post, err := h.moderation.ApprovePost(postID, moderatorID)
	if err != nil {
		utils.LogErrorWithUser(moderatorID, err, "Error approving post in ApprovePost")
		utils.HandleServiceError(c, err)
		return
	}

	utils.LogSuccessWithUser(moderatorID, "Post approved successfully in ApprovePost")
	c.JSON(http.StatusOK, post)
}

// RejectPost rejects a pending post
// @Summary Reject a post
// @Description Move a pending post to rejected with an optional reason and append an audit log entry
// @Tags moderation
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param body body models.RejectPostInput false "Rejection reason"
// @Security BearerAuth
// @Success 200 {object} models.Post
// @Failure 400 {object} map[string]string "error: Reason required"
// @Failure 404 {object} map[string]string "error: Post not found"
// @Failure 409 {object} map[string]string "error: Post already moderated"
// @Router /moderation/posts/{id}/reject [post]
func (h *Handler) RejectPost(c *gin.Context) {
	moderatorID, ok := h.moderator(c)
	if !ok {
		return
	}

	postID := c.Param("id")
	if _, err := uuid.Parse(postID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	// The reason body is optional
	var input models.RejectPostInput
	_ = c.ShouldBindJSON(&input)

	post, err := h.moderation.RejectPost(postID, moderatorID, input.Reason)
	if err != nil {
		utils.LogErrorWithUser(moderatorID, err, "Error rejecting post in RejectPost")
		utils.HandleServiceError(c, err)
		return
	}

	utils.LogSuccessWithUser(moderatorID, "Post rejected successfully in RejectPost")
	c.JSON(http.StatusOK, post)
}

// GetPendingVerifications lists creators awaiting verification
// @Summary Get pending creator verifications
// @Description Return creator accounts with a pending verification request, oldest first
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.CreatorAccount
// @Router /moderation/verifications [get]
func (h *Handler) GetPendingVerifications(c *gin.Context) {
	accounts, err := h.moderation.PendingVerifications()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving pending verifications: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, accounts)
}

// VerifyCreator grants the verified badge
// @Summary Verify a creator
// @Description Grant the verified badge to a creator with a pending request
// @Tags moderation
// @Produce json
// @Param id path string true "Creator ID"
// @Security BearerAuth
// @Success 200 {object} models.CreatorAccount
// @Failure 404 {object} map[string]string "error: Creator not found"
// @Failure 409 {object} map[string]string "error: No pending verification"
// @Router /moderation/creators/{id}/verify [post]
func (h *Handler) VerifyCreator(c *gin.Context) {
	moderatorID, ok := h.moderator(c)
	if !ok {
		return
	}

	creatorID := c.Param("id")
	if _, err := uuid.Parse(creatorID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid creator ID"})
		return
	}

	account, err := h.moderation.VerifyCreator(creatorID, moderatorID)
	if err != nil {
		utils.LogErrorWithUser(moderatorID, err, "Error verifying creator in VerifyCreator")
		utils.HandleServiceError(c, err)
		return
	}

	utils.LogSuccessWithUser(moderatorID, "Creator verified successfully in VerifyCreator")
	c.JSON(http.StatusOK, account)
}

// RejectVerification denies a verification request
// @Summary Reject a creator verification
// @Description Deny the pending request and drop the account back to unverified
// @Tags moderation
// @Accept json
// @Produce json
// @Param id path string true "Creator ID"
// @Param body body models.RejectPostInput false "Rejection reason"
// @Security BearerAuth
// @Success 200 {object} models.CreatorAccount
// @Failure 404 {object} map[string]string "error: Creator not found"
// @Failure 409 {object} map[string]string "error: No pending verification"
// @Router /moderation/creators/{id}/reject [post]
func (h *Handler) RejectVerification(c *gin.Context) {
	moderatorID, ok := h.moderator(c)
	if !ok {
		return
	}

	creatorID := c.Param("id")
	if _, err := uuid.Parse(creatorID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid creator ID"})
		return
	}

	var input models.RejectPostInput
	_ = c.ShouldBindJSON(&input)

	account, err := h.moderation.RejectVerification(creatorID, moderatorID, input.Reason)
	if err != nil {
		utils.LogErrorWithUser(moderatorID, err, "Error rejecting verification in RejectVerification")
		utils.HandleServiceError(c, err)
		return
	}

	utils.LogSuccessWithUser(moderatorID, "Verification rejected successfully in RejectVerification")
	c.JSON(http.StatusOK, account)
}

// GetLogs returns the moderation audit trail
// @Summary Get moderation logs
// @Description Return the append-only audit trail, newest first
// @Tags moderation
// @Produce json
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset" default(0)
// @Security BearerAuth
// @Success 200 {array} models.ModerationLogEntry
// @Router /moderation/logs [get]
func (h *Handler) GetLogs(c *gin.Context) {
	limit, offset := pagination(c, 50)

	entries, err := h.moderation.Logs(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving moderation logs: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, entries)
}

func pagination(c *gin.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit <= 0 || limit > 100 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
