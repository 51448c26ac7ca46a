package profile

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yash-goyal8/cornell-match-sub000/internal/middleware"
	"github.com/yash-goyal8/cornell-match-sub000/pkg/responses"
	"github.com/yash-goyal8/cornell-match-sub000/pkg/validator"
)

// ProfileController handles profile-related HTTP requests.
type ProfileController struct {
	repo ProfileRepository
}

// NewProfileController creates a new profile controller.
func NewProfileController(repo ProfileRepository) *ProfileController {
	return &ProfileController{repo: repo}
}

type OnboardingRequest struct {
	DisplayName       string   `json:"display_name" binding:"required,min=1,max=100"`
	Program           string   `json:"program" binding:"required,oneof=design engineering business info_science arts"`
	Skills            []string `json:"skills" binding:"max=20,dive,max=50"`
	StudioPreferences []string `json:"studio_preferences" binding:"required,min=1"`
	Bio               string   `json:"bio" binding:"max=500"`
	Avatar            string   `json:"avatar"`
	ExternalLink      string   `json:"external_link" binding:"omitempty,url"`
}

type UpdateProfileRequest struct {
	DisplayName       *string   `json:"display_name" binding:"omitempty,min=1,max=100"`
	Program           *string   `json:"program" binding:"omitempty,oneof=design engineering business info_science arts"`
	Skills            *[]string `json:"skills" binding:"omitempty,max=20,dive,max=50"`
	StudioPreferences *[]string `json:"studio_preferences" binding:"omitempty,min=1"`
	Bio               *string   `json:"bio" binding:"omitempty,max=500"`
	Avatar            *string   `json:"avatar"`
	ExternalLink      *string   `json:"external_link" binding:"omitempty,url"`
}

// CompleteOnboarding godoc
// @Summary Complete profile onboarding
// @Description Fills in the profile created at signup with program, skills and studio preferences.
// @Tags Profiles
// @Accept json
// @Produce json
// @Param profile body OnboardingRequest true "Onboarding data"
// @Success 200 {object} responses.SuccessResponse{data=Profile}
// @Failure 400 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /profiles/me/onboarding [post]
func (pc *ProfileController) CompleteOnboarding(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	var req OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": validator.ParseError(err)})
		return
	}

	prof, err := pc.repo.GetByID(userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to load profile: "+err.Error())
		return
	}
	if prof == nil {
		responses.NotFound(c, "Profile")
		return
	}

	prof.DisplayName = req.DisplayName
	prof.Program = req.Program
	prof.Skills = EncodeStrings(req.Skills)
	prof.StudioPreferences = EncodeStrings(req.StudioPreferences)
	prof.Bio = req.Bio
	prof.Avatar = req.Avatar
	prof.ExternalLink = req.ExternalLink
	prof.Onboarded = true

	if err := pc.repo.Update(prof); err != nil {
		responses.InternalServerError(c, "Failed to save profile: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Onboarding completed", prof)
}

// UpdateMyProfile godoc
// @Summary Update own profile
// @Tags Profiles
// @Accept json
// @Produce json
// @Param profile body UpdateProfileRequest true "Fields to update"
// @Success 200 {object} responses.SuccessResponse{data=Profile}
// @Security ApiKeyAuth
// @Router /profiles/me [put]
func (pc *ProfileController) UpdateMyProfile(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": validator.ParseError(err)})
		return
	}

	prof, err := pc.repo.GetByID(userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to load profile: "+err.Error())
		return
	}
	if prof == nil {
		responses.NotFound(c, "Profile")
		return
	}

	if req.DisplayName != nil {
		prof.DisplayName = *req.DisplayName
	}
	if req.Program != nil {
		prof.Program = *req.Program
	}
	if req.Skills != nil {
		prof.Skills = EncodeStrings(*req.Skills)
	}
	if req.StudioPreferences != nil {
		prof.StudioPreferences = EncodeStrings(*req.StudioPreferences)
	}
	if req.Bio != nil {
		prof.Bio = *req.Bio
	}
	if req.Avatar != nil {
		prof.Avatar = *req.Avatar
	}
	if req.ExternalLink != nil {
		prof.ExternalLink = *req.ExternalLink
	}

	if err := pc.repo.Update(prof); err != nil {
		responses.InternalServerError(c, "Failed to save profile: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Profile updated", prof)
}

// GetProfile godoc
// @Summary Get a profile by id
// @Tags Profiles
// @Produce json
// @Param user_id path uint true "Profile ID"
// @Success 200 {object} responses.SuccessResponse{data=Profile}
// @Failure 404 {object} responses.ErrorResponse
// @Router /profiles/{user_id} [get]
func (pc *ProfileController) GetProfile(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid profile ID")
		return
	}

	prof, err := pc.repo.GetByID(uint(id))
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve profile: "+err.Error())
		return
	}
	if prof == nil {
		responses.NotFound(c, "Profile")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", prof)
}

// GetDiscovery godoc
// @Summary List swipe candidates
// @Description Returns onboarded profiles the current user has not swiped on yet.
// @Tags Profiles
// @Produce json
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} responses.PaginatedResponse{data=[]Profile}
// @Security ApiKeyAuth
// @Router /profiles/discovery [get]
func (pc *ProfileController) GetDiscovery(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	profiles, total, err := pc.repo.GetDiscoveryCandidates(userID, page, limit)
	if err != nil {
		responses.InternalServerError(c, "Failed to load candidates: "+err.Error())
		return
	}
	responses.SendPaginated(c, http.StatusOK, "", profiles, total, page, limit)
}
