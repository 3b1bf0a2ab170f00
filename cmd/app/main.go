package main

import (
	"caltrack/cmd/config"
	migration "caltrack/cmd/database/migrate"
	"caltrack/internal/scheduler"
	"caltrack/internal/utils"

	"github.com/gofiber/fiber/v2/log"
)

func main() {
	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	app, billingService, foodService, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("failed to build application: %v", err)
	}

	jobs, err := scheduler.Start(billingService, foodService)
	if err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer func() {
		if err := jobs.Shutdown(); err != nil {
			log.Errorf("scheduler shutdown: %v", err)
		}
	}()

	port := utils.GetConfig("PORT")
	if port == "" {
		port = "8080"
	}
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
