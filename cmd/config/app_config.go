package config

import (
	"caltrack/internal/api/handlers"
	"caltrack/internal/api/routes"
	"caltrack/internal/middleware"
	"caltrack/internal/utils"
	"caltrack/internal/utils/storage"
	"caltrack/pkg/ai"
	"caltrack/pkg/autopilot"
	"caltrack/pkg/billing"
	"caltrack/pkg/food"
	"caltrack/pkg/goal"
	"caltrack/pkg/identity"
	"caltrack/pkg/jwt"
	"caltrack/pkg/plan"
	"caltrack/pkg/weight"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, billing.BillingService, food.FoodService, error) {
	utils.InitValidator()
	billing.InitStripe()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   utils.GetConfig("TIMEZONE"),
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	extractor := ai.NewOpenAIExtractor()
	stripeClient := billing.NewStripeClient()
	alerter := billing.NewAlerter()

	// Repository
	identityRepository := identity.NewIdentityRepository(db)
	planRepository := plan.NewPlanRepository(db)
	goalRepository := goal.NewGoalRepository(db)
	weightRepository := weight.NewWeightRepository(db)
	foodRepository := food.NewFoodRepository(db)
	autopilotRepository := autopilot.NewAutopilotRepository(db)
	billingRepository := billing.NewBillingRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	identityService := identity.NewIdentityService(identityRepository, jwtService)
	planService := plan.NewPlanService(planRepository)
	goalService := goal.NewGoalService(goalRepository)
	weightService := weight.NewWeightService(weightRepository)
	foodService := food.NewFoodService(foodRepository, planService, extractor, s3)
	autopilotService := autopilot.NewAutopilotService(autopilotRepository)
	billingService := billing.NewBillingService(billingRepository, stripeClient, alerter)

	// Handler
	userHandler := handlers.NewUserHandler(identityService, planService, validator)
	foodHandler := handlers.NewFoodHandler(foodService, validator)
	goalHandler := handlers.NewGoalHandler(goalService, validator)
	weightHandler := handlers.NewWeightHandler(weightService, validator)
	autopilotHandler := handlers.NewAutopilotHandler(autopilotService, validator)
	billingHandler := handlers.NewBillingHandler(billingService, validator)
	adminHandler := handlers.NewAdminHandler(planService, billingService, validator)

	// routes
	routesConfig := routes.Config{
		App:              app,
		UserHandler:      userHandler,
		FoodHandler:      foodHandler,
		GoalHandler:      goalHandler,
		WeightHandler:    weightHandler,
		AutopilotHandler: autopilotHandler,
		BillingHandler:   billingHandler,
		AdminHandler:     adminHandler,
		Middleware:       middlewares,
		IdentityService:  identityService,
	}
	routesConfig.Setup()
	return app, billingService, foodService, nil
}
