package weight

import (
	"caltrack/entities"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	WeightRepository interface {
		UpsertWeight(ctx context.Context, weight *entities.DailyWeight) error
		GetWeights(ctx context.Context, userID string, since time.Time) ([]*entities.DailyWeight, error)
	}

	weightRepository struct {
		db *gorm.DB
	}
)

func NewWeightRepository(db *gorm.DB) WeightRepository {
	return &weightRepository{db: db}
}

// UpsertWeight keeps one row per (user, entry_date); a second weigh-in for
// the same day replaces the first.
func (r *weightRepository) UpsertWeight(ctx context.Context, weight *entities.DailyWeight) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "entry_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"weight_lbs", "body_fat_percent", "updated_at"}),
		}).
		Create(weight).Error
}

func (r *weightRepository) GetWeights(ctx context.Context, userID string, since time.Time) ([]*entities.DailyWeight, error) {
	var weights []*entities.DailyWeight
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND entry_date >= ?", userID, since).
		Order("entry_date ASC").
		Find(&weights).Error
	return weights, err
}
