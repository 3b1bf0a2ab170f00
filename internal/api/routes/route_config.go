package routes

import (
	"caltrack/internal/api/handlers"
	"caltrack/internal/middleware"
	"caltrack/pkg/identity"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App              *fiber.App
	UserHandler      handlers.UserHandler
	FoodHandler      handlers.FoodHandler
	GoalHandler      handlers.GoalHandler
	WeightHandler    handlers.WeightHandler
	AutopilotHandler handlers.AutopilotHandler
	BillingHandler   handlers.BillingHandler
	AdminHandler     handlers.AdminHandler
	Middleware       middleware.Middleware
	IdentityService  identity.IdentityService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.User()
	c.Food()
	c.Goal()
	c.Weight()
	c.Autopilot()
	c.Billing()
	c.Admin()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Post("/api/v1/sessions", c.UserHandler.CreateSession)
	c.App.Post("/webhook/stripe", c.BillingHandler.StripeWebhook)
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users", c.Middleware.IdentityMiddleware(c.IdentityService))
	{
		user.Get("/me", c.UserHandler.Me)
		user.Get("/profile", c.UserHandler.GetProfile)
		user.Patch("/profile", c.UserHandler.UpdateProfile)
		user.Get("/entitlements", c.UserHandler.GetEntitlements)
	}
}

func (c *Config) Food() {
	food := c.App.Group("/api/v1/food-entries", c.Middleware.IdentityMiddleware(c.IdentityService))
	{
		food.Post("", c.FoodHandler.AddEntry)
		food.Post("/ai", c.FoodHandler.AddEntryFromText)
		food.Get("", c.FoodHandler.GetEntries)
		food.Get("/totals", c.FoodHandler.GetDayTotals)
		food.Get("/export", c.FoodHandler.Export)
		food.Delete("/:id", c.FoodHandler.DeleteEntry)
	}
}

func (c *Config) Goal() {
	goal := c.App.Group("/api/v1/goal", c.Middleware.IdentityMiddleware(c.IdentityService))
	{
		goal.Get("", c.GoalHandler.GetGoal)
		goal.Put("", c.GoalHandler.SetGoal)
	}
}

func (c *Config) Weight() {
	weight := c.App.Group("/api/v1/weights", c.Middleware.IdentityMiddleware(c.IdentityService))
	{
		weight.Post("", c.WeightHandler.WeighIn)
		weight.Get("", c.WeightHandler.GetWeights)
	}
}

func (c *Config) Autopilot() {
	autopilot := c.App.Group("/api/v1/autopilot", c.Middleware.IdentityMiddleware(c.IdentityService))
	{
		autopilot.Get("/review", c.AutopilotHandler.Review)
		autopilot.Post("/decision", c.AutopilotHandler.Decide)
	}
}

func (c *Config) Billing() {
	billing := c.App.Group("/api/v1/billing", c.Middleware.IdentityMiddleware(c.IdentityService))
	{
		billing.Post("/checkout", c.BillingHandler.CreateCheckout)
		billing.Get("/subscription", c.BillingHandler.GetSubscription)
	}
}

func (c *Config) Admin() {
	admin := c.App.Group("/api/v1/admin", c.Middleware.AdminMiddleware())
	{
		admin.Post("/premium-pass", c.AdminHandler.GrantPass)
		admin.Delete("/premium-pass", c.AdminHandler.RevokePass)
		admin.Post("/reconcile", c.AdminHandler.TriggerReconcile)
		admin.Get("/reconcile-runs", c.AdminHandler.RecentReconcileRuns)
		admin.Get("/webhook-events", c.AdminHandler.RecentWebhookEvents)
	}
}
