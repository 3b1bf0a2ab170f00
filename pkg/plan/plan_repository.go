package plan

import (
	"caltrack/entities"
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	PlanRepository interface {
		GetProfile(ctx context.Context, userID string) (*entities.UserProfile, error)
		SaveProfile(ctx context.Context, profile *entities.UserProfile) error
		CountFoodEntries(ctx context.Context, userID string, date time.Time) (int64, error)
		CountAiActions(ctx context.Context, userID string, date time.Time) (int64, error)
		RecordAiAction(ctx context.Context, userID string, date time.Time, actionType string) error
	}

	planRepository struct {
		db *gorm.DB
	}
)

func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) GetProfile(ctx context.Context, userID string) (*entities.UserProfile, error) {
	var profile entities.UserProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *planRepository) SaveProfile(ctx context.Context, profile *entities.UserProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *planRepository) CountFoodEntries(ctx context.Context, userID string, date time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.FoodEntry{}).
		Where("user_id = ? AND entry_date = ?", userID, date).
		Count(&count).Error
	return count, err
}

func (r *planRepository) CountAiActions(ctx context.Context, userID string, date time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.AiUsageEvent{}).
		Where("user_id = ? AND entry_date = ?", userID, date).
		Count(&count).Error
	return count, err
}

func (r *planRepository) RecordAiAction(ctx context.Context, userID string, date time.Time, actionType string) error {
	event := &entities.AiUsageEvent{
		ID:         uuid.New(),
		UserID:     userID,
		EntryDate:  date,
		ActionType: actionType,
	}
	return r.db.WithContext(ctx).Create(event).Error
}
