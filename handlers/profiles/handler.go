package profiles

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
	identity *services.IdentityService
}

func New(identity *services.IdentityService) *Handler {
	return &Handler{identity: identity}
}

// GetMe resolves the caller's profile, provisioning it on first use
// @Summary Get the connected user's profile
// @Description Return the profile bound to the authenticated principal, creating it on first use
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Profile
// @Failure 400 {object} map[string]string "error: Invalid principal"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /profiles/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	profile, err := h.identity.EnsureProfile(principal)
	if err != nil {
		utils.LogError(err, "Error resolving profile in GetMe")
		utils.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateMe updates the connected user's profile
// @Summary Update the connected user's profile
// @Description Update username, full name or avatar of the connected user
// @Tags profiles
// @Accept json
// @Produce json
// @Param profile body models.ProfileUpdate true "Fields to update"
// @Security BearerAuth
// @Success 200 {object} models.Profile
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /profiles/me [put]
func (h *Handler) UpdateMe(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in token"})
		return
	}

	var update models.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	profile, err := h.identity.EnsureProfile(principal)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	updated, err := h.identity.UpdateProfile(profile.ID, update)
	if err != nil {
		utils.LogErrorWithUser(profile.ID, err, "Error updating profile in UpdateMe")
		utils.HandleServiceError(c, err)
		return
	}

	utils.LogSuccessWithUser(profile.ID, "Profile updated successfully in UpdateMe")
	c.JSON(http.StatusOK, updated)
}

// GetProfile returns a profile by id
// @Summary Get a profile by ID
// @Description Return a public profile
// @Tags profiles
// @Produce json
// @Param id path string true "Profile ID"
// @Success 200 {object} models.Profile
// @Failure 404 {object} map[string]string "error: Profile not found"
// @Router /profiles/{id} [get]
func (h *Handler) GetProfile(c *gin.Context) {
	profileID := c.Param("id")
	if _, err := uuid.Parse(profileID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile ID"})
		return
	}

	profile, err := h.identity.GetProfile(profileID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetAllProfiles lists every profile, admin only
// @Summary Get all profiles
// @Description Return all profiles, newest first
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string][]models.Profile
// @Failure 403 {object} map[string]string "error: Access denied"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /users [get]
func (h *Handler) GetAllProfiles(c *gin.Context) {
	profiles, err := h.identity.ListProfiles()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving profiles: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": profiles})
}
