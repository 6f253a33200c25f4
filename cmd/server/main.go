package main

import (
	"log"

	"github.com/burrowlab/burrowtrack/internal/api"
	"github.com/burrowlab/burrowtrack/internal/config"
	"github.com/burrowlab/burrowtrack/internal/database"

	// Import analyzer packages to register them
	_ "github.com/burrowlab/burrowtrack/internal/analysis/behavior"
)

func main() {
	cfg := config.Load()

	dbConfig := database.Config{
		Path: cfg.DBPath,
	}
	if err := database.Init(dbConfig); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	router := api.SetupRouter(cfg)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
