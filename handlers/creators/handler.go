package creators

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
	identity *services.IdentityService
	creators *services.CreatorService
	storage  *utils.Storage
}

func New(identity *services.IdentityService, creators *services.CreatorService, storage *utils.Storage) *Handler {
	return &Handler{identity: identity, creators: creators, storage: storage}
}

// me resolves the caller to a profile, provisioning on first use.
func (h *Handler) me(c *gin.Context) (*models.Profile, bool) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return nil, false
	}
	profile, err := h.identity.EnsureProfile(principal)
	if err != nil {
		utils.HandleServiceError(c, err)
		return nil, false
	}
	return profile, true
}

// EnsureCreator provisions the caller's creator account
// @Summary Become a creator
// @Description Return the caller's creator account, creating a default one on first use
// @Tags creators
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.CreatorAccount
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /creators [post]
func (h *Handler) EnsureCreator(c *gin.Context) {
	profile, ok := h.me(c)
	if !ok {
		return
	}

	account, err := h.creators.EnsureCreatorAccount(profile.ID)
	if err != nil {
		utils.LogErrorWithUser(profile.ID, err, "Error provisioning creator account in EnsureCreator")
		utils.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

// GetCreators lists verified creators
// @Summary List creators
// @Description Return verified creators ordered by subscriber count
// @Tags creators
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} models.CreatorAccount
// @Router /creators [get]
func (h *Handler) GetCreators(c *gin.Context) {
	limit, offset := pagination(c, 20)

	accounts, err := h.creators.ListCreators(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving creators: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, accounts)
}

// SearchCreators searches verified creators by name or bio
// @Summary Search creators
// @Description Search verified creators by display name or bio
// @Tags creators
// @Produce json
// @Param q query string true "Search text"
// @Success 200 {array} models.CreatorAccount
// @Router /creators/search [get]
func (h *Handler) SearchCreators(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter q is required"})
		return
	}

	accounts, err := h.creators.SearchCreators(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error searching creators: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, accounts)
}

// GetCreator returns a creator account by id
// @Summary Get a creator by ID
// @Description Return a creator account
// @Tags creators
// @Produce json
// @Param id path string true "Creator ID"
// @Success 200 {object} models.CreatorAccount
// @Failure 404 {object} map[string]string "error: Creator not found"
// @Router /creators/{id} [get]
func (h *Handler) GetCreator(c *gin.Context) {
	creatorID := c.Param("id")
	if _, err := uuid.Parse(creatorID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid creator ID"})
		return
	}

	account, err := h.creators.GetCreator(creatorID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

// UpdateMe updates the caller's creator settings
// @Summary Update the caller's creator account
// @Description Update display name, bio, cover or monthly price
// @Tags creators
// @Accept json
// @Produce json
// @Param creator body models.CreatorUpdate true "Fields to update"
// @Security BearerAuth
// @Success 200 {object} models.CreatorAccount
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /creators/me [put]
func (h *Handler) UpdateMe(c *gin.Context) {
	profile, ok := h.me(c)
	if !ok {
		return
	}

	var update models.CreatorUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	account, err := h.creators.UpdateCreator(profile.ID, update)
	if err != nil {
		utils.LogErrorWithUser(profile.ID, err, "Error updating creator account in UpdateMe")
		utils.HandleServiceError(c, err)
		return
	}

	utils.LogSuccessWithUser(profile.ID, "Creator account updated successfully in UpdateMe")
	c.JSON(http.StatusOK, account)
}

// MyStats returns the caller's creator dashboard counters
// @Summary Creator statistics
// @Description Return subscriber and approved post counts for the caller's creator account
// @Tags creators
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.CreatorStats
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Creator not found"
// @Router /creators/me/stats [get]
func (h *Handler) MyStats(c *gin.Context) {
	profile, ok := h.me(c)
	if !ok {
		return
	}

	account, err := h.creators.GetCreatorByProfile(profile.ID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	stats, err := h.creators.CreatorStats(account.ID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// RequestVerification files a verification request with an id document
// @Summary Request creator verification
// @Description Upload an identity document and move the creator account to pending verification
// @Tags creators
// @Accept multipart/form-data
// @Produce json
// @Param document formData file true "Identity document (image or PDF)"
// @Security BearerAuth
// @Success 200 {object} models.CreatorAccount
// @Failure 400 {object} map[string]string "error: Document is required"
// @Failure 409 {object} map[string]string "error: Verification already requested"
// @Router /creators/me/verification [post]
func (h *Handler) RequestVerification(c *gin.Context) {
	profile, ok := h.me(c)
	if !ok {
		return
	}

	file, err := c.FormFile("document")
	if err != nil || file == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identity document is required"})
		return
	}

	documentURL, err := h.storage.Upload(file, "verification", profile.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error uploading document: " + err.Error()})
		return
	}

	account, err := h.creators.RequestVerification(profile.ID, documentURL)
	if err != nil {
		utils.LogErrorWithUser(profile.ID, err, "Error requesting verification in RequestVerification")
		utils.HandleServiceError(c, err)
		return
	}

	utils.LogSuccessWithUser(profile.ID, "Verification requested successfully in RequestVerification")
	c.JSON(http.StatusOK, account)
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
