package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/yash-goyal8/cornell-match-sub000/config"
	"github.com/yash-goyal8/cornell-match-sub000/internal/auth"
	"github.com/yash-goyal8/cornell-match-sub000/internal/chat"
	"github.com/yash-goyal8/cornell-match-sub000/internal/history"
	"github.com/yash-goyal8/cornell-match-sub000/internal/match"
	mw "github.com/yash-goyal8/cornell-match-sub000/internal/middleware"
	"github.com/yash-goyal8/cornell-match-sub000/internal/profile"
	"github.com/yash-goyal8/cornell-match-sub000/internal/team"
)

// SetupRoutes builds the gin engine and mounts every module under /api. The
// hub and ledger are process-wide singletons owned by main.
func SetupRoutes(db *gorm.DB, appConfig *config.Config, hub *chat.Hub, ledger *history.Ledger) *gin.Engine {
	if appConfig.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(mw.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{appConfig.App.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	api := r.Group("/api")
	auth.AuthRoutes(api, db, appConfig)
	profile.ProfileRoutes(api, db, appConfig)
	team.TeamRoutes(api, db, appConfig)
	match.MatchRoutes(api, db, appConfig, ledger)
	chat.ChatRoutes(api, db, appConfig, hub)
	history.HistoryRoutes(api, db, appConfig, ledger)

	return r
}
