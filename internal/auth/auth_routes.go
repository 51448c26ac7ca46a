package auth

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yash-goyal8/cornell-match-sub000/config"
	mw "github.com/yash-goyal8/cornell-match-sub000/internal/middleware"
	"github.com/yash-goyal8/cornell-match-sub000/internal/profile"
)

// AuthRoutes sets up signup/login routes.
func AuthRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	profiles := profile.NewProfileRepository(db)
	controller := NewAuthController(profiles, appConfig)

	router.POST("/auth/register", controller.Register)
	router.POST("/auth/login", controller.Login)

	authed := router.Group("/")
	authed.Use(mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		authed.GET("/auth/me", controller.Me)
	}
}
