package goal

import (
	"caltrack/entities"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	GoalRepository interface {
		GetProfile(ctx context.Context, userID string) (*entities.UserProfile, error)
		GetGoal(ctx context.Context, userID string) (*entities.CalorieGoal, error)
		UpsertGoal(ctx context.Context, goal *entities.CalorieGoal) error
		DayTotal(ctx context.Context, userID string, date time.Time) (int, bool, error)
	}

	goalRepository struct {
		db *gorm.DB
	}
)

func NewGoalRepository(db *gorm.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) GetProfile(ctx context.Context, userID string) (*entities.UserProfile, error) {
	var profile entities.UserProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *goalRepository) GetGoal(ctx context.Context, userID string) (*entities.CalorieGoal, error) {
	var goal entities.CalorieGoal
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&goal).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}

func (r *goalRepository) UpsertGoal(ctx context.Context, goal *entities.CalorieGoal) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"daily_calories", "updated_at"}),
		}).
		Create(goal).Error
}

// DayTotal returns the summed calories for the day and whether any entries
// exist at all. A day with entries summing to zero is distinct from a day
// with no rows.
func (r *goalRepository) DayTotal(ctx context.Context, userID string, date time.Time) (int, bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.FoodEntry{}).
		Where("user_id = ? AND entry_date = ?", userID, date).
		Count(&count).Error; err != nil {
		return 0, false, err
	}
	if count == 0 {
		return 0, false, nil
	}

	var total int64
	err := r.db.WithContext(ctx).Model(&entities.FoodEntry{}).
		Where("user_id = ? AND entry_date = ?", userID, date).
		Select("COALESCE(SUM(calories), 0)").
		Row().Scan(&total)
	if err != nil {
		return 0, false, err
	}
	return int(total), true, nil
}
