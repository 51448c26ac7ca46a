package chat

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yash-goyal8/cornell-match-sub000/config"
	mw "github.com/yash-goyal8/cornell-match-sub000/internal/middleware"
)

// ChatRoutes sets up conversation and message routes.
func ChatRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, hub *Hub) {
	repo := NewChatRepository(db)
	controller := NewChatController(repo, hub)

	authRoutes := router.Group("/")
	authRoutes.Use(mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		authRoutes.GET("/conversations", controller.ListMyConversations)
		authRoutes.GET("/conversations/:conversation_id/messages", controller.GetMessages)
		authRoutes.POST("/conversations/:conversation_id/messages", controller.SendMessage)
		authRoutes.POST("/conversations/:conversation_id/read", controller.MarkRead)
		authRoutes.GET("/conversations/:conversation_id/ws", controller.ServeWS)
	}
}
