package match

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yash-goyal8/cornell-match-sub000/config"
	"github.com/yash-goyal8/cornell-match-sub000/internal/chat"
	mw "github.com/yash-goyal8/cornell-match-sub000/internal/middleware"
	"github.com/yash-goyal8/cornell-match-sub000/internal/profile"
	"github.com/yash-goyal8/cornell-match-sub000/internal/team"
)

// MatchRoutes sets up swipe and join-request routes. Recorders receive every
// swipe processed by the factory.
func MatchRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, recorders ...SwipeRecorder) {
	matches := NewMatchRepository(db)
	chats := chat.NewChatRepository(db)
	teams := team.NewTeamRepository(db)
	profiles := profile.NewProfileRepository(db)

	factory := NewFactory(matches, chats, appConfig.Matching.AtomicCreate)
	for _, recorder := range recorders {
		factory.AddRecorder(recorder)
	}
	resolver := NewResolver(matches, teams, chats)
	controller := NewMatchController(factory, resolver, matches, profiles, teams)

	authRoutes := router.Group("/")
	authRoutes.Use(mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db), mw.SessionMiddleware(db))
	{
		authRoutes.POST("/swipes", controller.Swipe)
		authRoutes.GET("/matches", controller.GetMyMatches)
		authRoutes.GET("/matches/pending", controller.GetPending)
		authRoutes.POST("/matches/:id/accept", controller.Accept)
		authRoutes.POST("/matches/:id/reject", controller.Reject)
	}
}
