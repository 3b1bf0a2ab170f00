package billing

import (
	"caltrack/entities"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	BillingRepository interface {
		GetProfile(ctx context.Context, userID string) (*entities.UserProfile, error)
		GetProfileByCustomerID(ctx context.Context, customerID string) (*entities.UserProfile, error)
		ListProfilesWithStripeRef(ctx context.Context) ([]*entities.UserProfile, error)
		SaveProfile(ctx context.Context, profile *entities.UserProfile) error

		InsertWebhookEvent(ctx context.Context, event *entities.StripeWebhookEvent) (bool, error)
		UpdateWebhookEvent(ctx context.Context, event *entities.StripeWebhookEvent) error
		RecentWebhookEvents(ctx context.Context, limit int) ([]*entities.StripeWebhookEvent, error)

		AddReconcileRun(ctx context.Context, run *entities.SubscriptionReconcileRun) error
		RecentReconcileRuns(ctx context.Context, limit int) ([]*entities.SubscriptionReconcileRun, error)
		AddAuditLog(ctx context.Context, log *entities.AuditLog) error
	}

	billingRepository struct {
		db *gorm.DB
	}
)

func NewBillingRepository(db *gorm.DB) BillingRepository {
	return &billingRepository{db: db}
}

func (r *billingRepository) GetProfile(ctx context.Context, userID string) (*entities.UserProfile, error) {
	var profile entities.UserProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *billingRepository) GetProfileByCustomerID(ctx context.Context, customerID string) (*entities.UserProfile, error) {
	var profile entities.UserProfile
	if err := r.db.WithContext(ctx).Where("stripe_customer_id = ?", customerID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *billingRepository) ListProfilesWithStripeRef(ctx context.Context) ([]*entities.UserProfile, error) {
	var profiles []*entities.UserProfile
	err := r.db.WithContext(ctx).
		Where("stripe_subscription_id <> '' OR stripe_customer_id <> ''").
		Order("user_id ASC").
		Find(&profiles).Error
	return profiles, err
}

func (r *billingRepository) SaveProfile(ctx context.Context, profile *entities.UserProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

// InsertWebhookEvent reports false when the event id was already stored; the
// unique index does the deduplication.
func (r *billingRepository) InsertWebhookEvent(ctx context.Context, event *entities.StripeWebhookEvent) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "stripe_event_id"}}, DoNothing: true}).
		Create(event)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *billingRepository) UpdateWebhookEvent(ctx context.Context, event *entities.StripeWebhookEvent) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *billingRepository) RecentWebhookEvents(ctx context.Context, limit int) ([]*entities.StripeWebhookEvent, error) {
	var events []*entities.StripeWebhookEvent
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *billingRepository) AddReconcileRun(ctx context.Context, run *entities.SubscriptionReconcileRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *billingRepository) RecentReconcileRuns(ctx context.Context, limit int) ([]*entities.SubscriptionReconcileRun, error) {
	var runs []*entities.SubscriptionReconcileRun
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}

func (r *billingRepository) AddAuditLog(ctx context.Context, log *entities.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}
