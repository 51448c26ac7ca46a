package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yash-goyal8/cornell-match-sub000/config"
	"github.com/yash-goyal8/cornell-match-sub000/internal/middleware"
	"github.com/yash-goyal8/cornell-match-sub000/internal/profile"
	"github.com/yash-goyal8/cornell-match-sub000/pkg/logger"
	"github.com/yash-goyal8/cornell-match-sub000/pkg/responses"
	"github.com/yash-goyal8/cornell-match-sub000/pkg/token"
	"github.com/yash-goyal8/cornell-match-sub000/pkg/utils"
	"github.com/yash-goyal8/cornell-match-sub000/pkg/validator"
)

// AuthController handles signup and login.
type AuthController struct {
	profiles profile.ProfileRepository
	config   *config.Config
	log      *logger.Logger
}

// NewAuthController creates a new auth controller.
func NewAuthController(profiles profile.ProfileRepository, cfg *config.Config) *AuthController {
	return &AuthController{
		profiles: profiles,
		config:   cfg,
		log:      logger.New().WithField("component", "auth"),
	}
}

// Register godoc
// @Summary Register a new account
// @Description Creates a profile with credentials. Onboarding completes the profile afterwards.
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration details"
// @Success 201 {object} responses.SuccessResponse{data=AuthResponse}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": validator.ParseError(err)})
		return
	}

	email := strings.ToLower(req.Email)

	existing, err := ac.profiles.GetByEmail(email)
	if err != nil {
		responses.InternalServerError(c, "Lookup failed")
		return
	}
	if existing != nil {
		responses.SendError(c, http.StatusConflict, "An account with this email already exists")
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		responses.InternalServerError(c, "Error hashing password")
		return
	}

	prof := &profile.Profile{
		Email:       email,
		Password:    hashed,
		DisplayName: req.DisplayName,
	}
	if err := ac.profiles.Create(prof); err != nil {
		ac.log.WithError(err).Error("profile creation failed")
		responses.InternalServerError(c, "Account creation failed")
		return
	}

	accessToken, err := token.GenerateJWT(prof.ID, ac.config.JWT.AccessTokenSecret, ac.config.JWT.AccessTokenExpiryMinutes)
	if err != nil {
		responses.InternalServerError(c, "Token generation failed")
		return
	}

	ac.log.WithField("user_id", prof.ID).Info("account registered")
	responses.SendSuccess(c, http.StatusCreated, "Account registered", AuthResponse{
		AccessToken: accessToken,
		Profile:     prof,
	})
}

// Login godoc
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} responses.SuccessResponse{data=AuthResponse}
// @Failure 401 {object} responses.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": validator.ParseError(err)})
		return
	}

	prof, err := ac.profiles.GetByEmail(strings.ToLower(req.Email))
	if err != nil {
		responses.InternalServerError(c, "Lookup failed")
		return
	}
	if prof == nil || !utils.CheckPassword(prof.Password, req.Password) {
		responses.Unauthorized(c, "Invalid email or password")
		return
	}

	accessToken, err := token.GenerateJWT(prof.ID, ac.config.JWT.AccessTokenSecret, ac.config.JWT.AccessTokenExpiryMinutes)
	if err != nil {
		responses.InternalServerError(c, "Token generation failed")
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Logged in", AuthResponse{
		AccessToken: accessToken,
		Profile:     prof,
	})
}

// Me godoc
// @Summary Current account
// @Tags Auth
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=profile.Profile}
// @Security ApiKeyAuth
// @Router /auth/me [get]
func (ac *AuthController) Me(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}
	prof, err := ac.profiles.GetByID(userID)
	if err != nil {
		responses.InternalServerError(c, "Lookup failed")
		return
	}
	if prof == nil {
		responses.NotFound(c, "Profile")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", prof)
}
