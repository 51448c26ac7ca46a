package main

import (
	"log"

	"github.com/yash-goyal8/cornell-match-sub000/config"
	_ "github.com/yash-goyal8/cornell-match-sub000/docs"
	"github.com/yash-goyal8/cornell-match-sub000/internal/chat"
	"github.com/yash-goyal8/cornell-match-sub000/internal/history"
	"github.com/yash-goyal8/cornell-match-sub000/internal/match"
	"github.com/yash-goyal8/cornell-match-sub000/internal/profile"
	"github.com/yash-goyal8/cornell-match-sub000/internal/team"
	"github.com/yash-goyal8/cornell-match-sub000/pkg/logger"
	"github.com/yash-goyal8/cornell-match-sub000/routes"
)

// @title Studio Match API
// @version 1.0
// @description Team matching and conversation service for spring studio courses.
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	if err := config.Initialize(); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	cfg := config.GetConfig()
	logger.Setup(cfg.App.LogLevel)

	err := config.DB.AutoMigrate(
		&profile.Profile{},
		&team.Team{}, &team.TeamMember{},
		&match.Match{},
		&chat.Conversation{}, &chat.ConversationParticipant{},
		&chat.Message{}, &chat.MessageRead{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	hub := chat.NewHub()
	go hub.Run()
	ledger := history.NewLedger()

	r := routes.SetupRoutes(config.DB, cfg, hub, ledger)

	log.Printf("Starting server on port %s in %s mode\n", cfg.App.Port, cfg.App.Env)
	if err := r.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
