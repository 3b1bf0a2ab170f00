package identity

import (
	"caltrack/entities"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	IdentityRepository interface {
		GetProfile(ctx context.Context, userID string) (*entities.UserProfile, error)
		EnsureProfile(ctx context.Context, userID string, email string) error
		SaveProfile(ctx context.Context, profile *entities.UserProfile) error

		GetDeviceLink(ctx context.Context, deviceID string) (*entities.DeviceLink, error)
		LinkDevice(ctx context.Context, deviceID string, userID string) error

		FindUnclaimedReferralByEmail(ctx context.Context, email string) (*entities.ReferralSubscription, error)
		ClaimReferral(ctx context.Context, id uuid.UUID, userID string) (bool, error)
	}

	identityRepository struct {
		db *gorm.DB
	}
)

func NewIdentityRepository(db *gorm.DB) IdentityRepository {
	return &identityRepository{db: db}
}

func (r *identityRepository) GetProfile(ctx context.Context, userID string) (*entities.UserProfile, error) {
	var profile entities.UserProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *identityRepository) EnsureProfile(ctx context.Context, userID string, email string) error {
	profile := &entities.UserProfile{
		UserID:             userID,
		Email:              email,
		PlanTier:           "free",
		SubscriptionStatus: "inactive",
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(profile).Error; err != nil {
		return err
	}

	if email == "" {
		return nil
	}
	// Backfill the email on a profile created from an anonymous path.
	return r.db.WithContext(ctx).Model(&entities.UserProfile{}).
		Where("user_id = ? AND (email = '' OR email IS NULL)", userID).
		Update("email", email).Error
}

func (r *identityRepository) SaveProfile(ctx context.Context, profile *entities.UserProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *identityRepository) GetDeviceLink(ctx context.Context, deviceID string) (*entities.DeviceLink, error) {
	var link entities.DeviceLink
	if err := r.db.WithContext(ctx).Where("device_id = ?", deviceID).First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *identityRepository) LinkDevice(ctx context.Context, deviceID string, userID string) error {
	link := &entities.DeviceLink{ID: uuid.New(), DeviceID: deviceID, UserID: userID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "device_id"}}, DoNothing: true}).
		Create(link).Error
}

func (r *identityRepository) FindUnclaimedReferralByEmail(ctx context.Context, email string) (*entities.ReferralSubscription, error) {
	var ref entities.ReferralSubscription
	err := r.db.WithContext(ctx).
		Where("email = ? AND (claimed_by = '' OR claimed_by IS NULL)", email).
		Order("created_at ASC").
		First(&ref).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ref, nil
}

// ClaimReferral marks the referral as claimed if no one else has. The guarded
// update is what makes the attach at-most-once.
func (r *identityRepository) ClaimReferral(ctx context.Context, id uuid.UUID, userID string) (bool, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&entities.ReferralSubscription{}).
		Where("id = ? AND (claimed_by = '' OR claimed_by IS NULL)", id).
		Updates(map[string]interface{}{"claimed_by": userID, "claimed_at": &now})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
