package history

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yash-goyal8/cornell-match-sub000/config"
	"github.com/yash-goyal8/cornell-match-sub000/internal/match"
	mw "github.com/yash-goyal8/cornell-match-sub000/internal/middleware"
	"github.com/yash-goyal8/cornell-match-sub000/internal/profile"
	"github.com/yash-goyal8/cornell-match-sub000/internal/team"
)

// HistoryRoutes sets up activity ledger routes around a shared ledger, which
// also listens to the match factory as a swipe recorder.
func HistoryRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, ledger *Ledger) {
	reconstructor := NewReconstructor(
		match.NewMatchRepository(db),
		profile.NewProfileRepository(db),
		team.NewTeamRepository(db),
		appConfig.Matching.HistoryWindow,
	)
	controller := NewHistoryController(ledger, reconstructor)

	authRoutes := router.Group("/history")
	authRoutes.Use(mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		authRoutes.GET("", controller.GetActivity)
		authRoutes.POST("/undo", controller.UndoLast)
		authRoutes.DELETE("/:index", controller.UndoAt)
	}
}
