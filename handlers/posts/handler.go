package posts

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"fanlink-backend/middleware"
	"fanlink-backend/models"
	"fanlink-backend/services"
	"fanlink-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	identity   *services.IdentityService
	creators   *services.CreatorService
	posts      *services.PostService
	moderation *services.ModerationService
	storage    *utils.Storage
}

func New(identity *services.IdentityService, creators *services.CreatorService, posts *services.PostService, moderation *services.ModerationService, storage *utils.Storage) *Handler {
	return &Handler{identity: identity, creators: creators, posts: posts, moderation: moderation, storage: storage}
}

// CreatePost publishes a new post for the caller's creator account
// @Summary Create a new post
// @Description Create a new post with the provided information. The creator account is provisioned on first use.
// @Tags posts
// @Accept multipart/form-data
// @Produce json
// @Param caption formData string false "Post caption"
// @Param isPaid formData boolean false "Is the post paid"
// @Param price formData int false "Price in minor units, required when paid"
// @Param visibility formData string false "public, subscribers or private"
// @Param tags formData string false "JSON array of tags"
// @Param scheduledAt formData string false "RFC3339 publish time"
// @Param media formData file false "Post media"
// @Security BearerAuth
// @Success 201 {object} models.Post
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	profile, err := h.identity.EnsureProfile(principal)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	account, err := h.creators.EnsureCreatorAccount(profile.ID)
	if err != nil {
		utils.LogErrorWithUser(profile.ID, err, "Error provisioning creator account in CreatePost")
		utils.HandleServiceError(c, err)
		return
	}

	input, ok := h.bindCreateForm(c, profile.ID)
	if !ok {
		return
	}

	post, err := h.posts.CreatePost(account.ID, input)
	if err != nil {
		utils.LogErrorWithUser(profile.ID, err, "Error creating post in CreatePost")
		utils.HandleServiceError(c, err)
		return
	}

	// Best-effort content safety check; the post stays pending when the
	// classifier has nothing to say.
	if post.Status == models.PostPending {
		postID := post.ID
		go func() {
			if err := h.moderation.AutoModerate(postID); err != nil {
				utils.LogError(err, "Auto-moderation failed")
			}
		}()
	}

	utils.LogSuccessWithUser(profile.ID, "Post created successfully in CreatePost")
	c.JSON(http.StatusCreated, post)
}

func (h *Handler) bindCreateForm(c *gin.Context, ownerID string) (models.PostCreate, bool) {
	var input models.PostCreate

	input.Caption = c.Request.FormValue("caption")
	input.IsPaid = c.Request.FormValue("isPaid") == "true"

	if priceStr := c.Request.FormValue("price"); priceStr != "" {
		price, err := strconv.Atoi(priceStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price format"})
			return input, false
		}
		input.Price = &price
	}

	if visibility := c.Request.FormValue("visibility"); visibility != "" {
		input.Visibility = models.Visibility(visibility)
	}

	if tagsStr := c.Request.FormValue("tags"); tagsStr != "" {
		if err := json.Unmarshal([]byte(tagsStr), &input.Tags); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tags format: " + err.Error()})
			return input, false
		}
	}

	if scheduledStr := c.Request.FormValue("scheduledAt"); scheduledStr != "" {
		scheduledAt, err := time.Parse(time.RFC3339, scheduledStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scheduledAt format, expected RFC3339"})
			return input, false
		}
		input.ScheduledAt = &scheduledAt
	}

	file, err := c.FormFile("media")
	if err == nil && file != nil {
		mediaURL, err := h.storage.Upload(file, "creator-content", ownerID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error uploading media: " + err.Error()})
			return input, false
		}
		input.MediaURL = mediaURL
		input.MediaType = models.MediaImage
		if mt := c.Request.FormValue("mediaType"); mt != "" {
			input.MediaType = models.MediaType(mt)
		}
	}

	return input, true
}

// GetFeed returns the approved post feed for the viewer
// @Summary Get the post feed
// @Description Retrieve approved posts newest first. Gated content is redacted for viewers without an active subscription.
// @Tags posts
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} models.FeedItem
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /feed [get]
func (h *Handler) GetFeed(c *gin.Context) {
	limit, offset := pagination(c, 20)

	viewerID := h.viewerProfileID(c)
	items, err := h.posts.Feed(viewerID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving posts: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, items)
}

// GetPostByID returns a single post for the viewer
// @Summary Get a post by ID
// @Description Retrieve a post by its ID, redacted when the viewer is not entitled
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} models.FeedItem
// @Failure 404 {object} map[string]string "error: Post not found"
// @Router /posts/{id} [get]
func (h *Handler) GetPostByID(c *gin.Context) {
	postID := c.Param("id")
	if _, err := uuid.Parse(postID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	item, err := h.posts.GetPost(postID, h.viewerProfileID(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// GetCreatorPosts lists a creator's posts
// @Summary Get a creator's posts
// @Description Retrieve a creator's posts. The owner sees all statuses, others only approved content.
// @Tags posts
// @Produce json
// @Param id path string true "Creator ID"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} models.FeedItem
// @Router /creators/{id}/posts [get]
func (h *Handler) GetCreatorPosts(c *gin.Context) {
	creatorID := c.Param("id")
	if _, err := uuid.Parse(creatorID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid creator ID"})
		return
	}

	limit, offset := pagination(c, 20)
	items, err := h.posts.CreatorPosts(creatorID, h.viewerProfileID(c), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving posts: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, items)
}

// UpdatePost edits a post that has not been moderated yet
// @Summary Update a post
// @Description Update caption, media or settings of an unmoderated post. Only the owner may edit.
// @Tags posts
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param post body models.PostUpdate true "Fields to update"
// @Security BearerAuth
// @Success 200 {object} models.Post
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 403 {object} map[string]string "error: Not the owner"
// @Failure 404 {object} map[string]string "error: Post not found"
// @Failure 409 {object} map[string]string "error: Post can no longer be edited"
// @Router /posts/{id} [put]
func (h *Handler) UpdatePost(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	postID := c.Param("id")
	if _, err := uuid.Parse(postID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var update models.PostUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	profile, err := h.identity.EnsureProfile(principal)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	post, err := h.posts.UpdatePost(postID, profile.ID, update)
	if err != nil {
		utils.LogErrorWithUser(profile.ID, err, "Error updating post in UpdatePost")
		utils.HandleServiceError(c, err)
		return
	}

	utils.LogSuccessWithUser(profile.ID, "Post updated successfully in UpdatePost")
	c.JSON(http.StatusOK, post)
}

// DeletePost discards a post that never went live
// @Summary Delete a post
// @Description Delete an unapproved post. Only the owner may delete.
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Post deleted successfully"
// @Failure 403 {object} map[string]string "error: Not the owner"
// @Failure 404 {object} map[string]string "error: Post not found"
// @Failure 409 {object} map[string]string "error: Approved content cannot be deleted"
// @Router /posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	postID := c.Param("id")
	if _, err := uuid.Parse(postID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	profile, err := h.identity.EnsureProfile(principal)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	if err := h.posts.DeletePost(postID, profile.ID); err != nil {
		utils.LogErrorWithUser(profile.ID, err, "Error deleting post in DeletePost")
		utils.HandleServiceError(c, err)
		return
	}

	utils.LogSuccessWithUser(profile.ID, "Post deleted successfully in DeletePost")
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// viewerProfileID resolves the optional principal to a profile id, ""
// for anonymous viewers.
func (h *Handler) viewerProfileID(c *gin.Context) string {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		return ""
	}
	profile, err := h.identity.EnsureProfile(principal)
	if err != nil {
		return ""
	}
	return profile.ID
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
