package profile

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yash-goyal8/cornell-match-sub000/config"
	mw "github.com/yash-goyal8/cornell-match-sub000/internal/middleware"
)

// ProfileRoutes sets up all profile-related routes.
func ProfileRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	repo := NewProfileRepository(db)
	controller := NewProfileController(repo)

	authRoutes := router.Group("/")
	authRoutes.Use(mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		authRoutes.POST("/profiles/me/onboarding", controller.CompleteOnboarding)
		authRoutes.PUT("/profiles/me", controller.UpdateMyProfile)
		authRoutes.GET("/profiles/discovery", controller.GetDiscovery)
		authRoutes.GET("/profiles/:user_id", controller.GetProfile)
	}
}
