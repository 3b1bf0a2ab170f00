package migration

import (
	"caltrack/entities"
	"fmt"
	"log"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	models := []interface{}{
		&entities.UserProfile{},
		&entities.DeviceLink{},
		&entities.ReferralSubscription{},
		&entities.CalorieGoal{},
		&entities.FoodEntry{},
		&entities.FoodEntryArchive{},
		&entities.DailyWeight{},
		&entities.AiUsageEvent{},
		&entities.StripeWebhookEvent{},
		&entities.SubscriptionReconcileRun{},
		&entities.AuditLog{},
	}
	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			log.Fatalf("Error migrating %T: %v", model, err)
			return err
		}
	}

	fmt.Println("Database migration complete")
	return nil
}
