package autopilot

import (
	"caltrack/entities"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	AutopilotRepository interface {
		GetProfile(ctx context.Context, userID string) (*entities.UserProfile, error)
		GetGoal(ctx context.Context, userID string) (*entities.CalorieGoal, error)
		DailyTotals(ctx context.Context, userID string, from, to time.Time) (map[string]int, error)
		GetWeighIns(ctx context.Context, userID string, since time.Time) ([]*entities.DailyWeight, error)
		SetReviewWeek(ctx context.Context, userID string, week time.Time) error
		SetGoalCalories(ctx context.Context, userID string, calories int) error
	}

	autopilotRepository struct {
		db *gorm.DB
	}
)

func NewAutopilotRepository(db *gorm.DB) AutopilotRepository {
	return &autopilotRepository{db: db}
}

func (r *autopilotRepository) GetProfile(ctx context.Context, userID string) (*entities.UserProfile, error) {
	var profile entities.UserProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *autopilotRepository) GetGoal(ctx context.Context, userID string) (*entities.CalorieGoal, error) {
	var goal entities.CalorieGoal
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&goal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &goal, nil
}

// DailyTotals returns summed calories keyed by YYYY-MM-DD for days that have
// at least one entry in [from, to].
func (r *autopilotRepository) DailyTotals(ctx context.Context, userID string, from, to time.Time) (map[string]int, error) {
	type row struct {
		EntryDate time.Time
		Total     int
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&entities.FoodEntry{}).
		Select("entry_date, COALESCE(SUM(calories), 0) AS total").
		Where("user_id = ? AND entry_date >= ? AND entry_date <= ?", userID, from, to).
		Group("entry_date").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int, len(rows))
	for _, r := range rows {
		totals[r.EntryDate.Format("2006-01-02")] = r.Total
	}
	return totals, nil
}

func (r *autopilotRepository) GetWeighIns(ctx context.Context, userID string, since time.Time) ([]*entities.DailyWeight, error) {
	var weights []*entities.DailyWeight
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND entry_date >= ?", userID, since).
		Order("entry_date ASC").
		Find(&weights).Error
	return weights, err
}

func (r *autopilotRepository) SetReviewWeek(ctx context.Context, userID string, week time.Time) error {
	return r.db.WithContext(ctx).Model(&entities.UserProfile{}).
		Where("user_id = ?", userID).
		Update("autopilot_last_review_week", week).Error
}

func (r *autopilotRepository) SetGoalCalories(ctx context.Context, userID string, calories int) error {
	goal := &entities.CalorieGoal{UserID: userID, DailyCalories: calories}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"daily_calories", "updated_at"}),
		}).
		Create(goal).Error
}
