package team

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yash-goyal8/cornell-match-sub000/config"
	mw "github.com/yash-goyal8/cornell-match-sub000/internal/middleware"
	"github.com/yash-goyal8/cornell-match-sub000/internal/profile"
)

// TeamRoutes sets up team routes.
func TeamRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	repo := NewTeamRepository(db)
	profiles := profile.NewProfileRepository(db)
	controller := NewTeamController(db, repo, profiles)

	authRoutes := router.Group("/teams")
	authRoutes.Use(mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db), mw.SessionMiddleware(db))
	{
		authRoutes.POST("", controller.CreateTeam)
		authRoutes.GET("", controller.ListTeams)
		authRoutes.GET("/me", controller.GetMyTeam)
		authRoutes.POST("/leave", controller.LeaveTeam)
		authRoutes.GET("/:id", controller.GetTeam)
		authRoutes.PUT("/:id", controller.UpdateTeam)
		authRoutes.DELETE("/:id", controller.DeleteTeam)
		authRoutes.GET("/:id/members", controller.GetMembers)
		authRoutes.PUT("/:id/members/:user_id/role", controller.UpdateMemberRole)
	}
}
