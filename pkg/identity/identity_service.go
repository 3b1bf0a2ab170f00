package identity

import (
	"caltrack/domain"
	"caltrack/entities"
	"caltrack/internal/utils"
	"caltrack/pkg/jwt"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"regexp"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

var deviceIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{12,200}$`)

type (
	IdentityService interface {
		Resolve(ctx context.Context, bearerToken string, deviceID string) (domain.Identity, error)
		CreateSession(ctx context.Context, req domain.CreateSessionRequest) (domain.CreateSessionResponse, error)
		GetProfile(ctx context.Context, userID string) (domain.ProfileResponse, error)
		UpdateProfile(ctx context.Context, req domain.UpdateProfileRequest, userID string) (domain.ProfileResponse, error)
	}

	identityService struct {
		identityRepository IdentityRepository
		jwtService         jwt.JWTService
	}
)

func NewIdentityService(identityRepository IdentityRepository, jwtService jwt.JWTService) IdentityService {
	return &identityService{
		identityRepository: identityRepository,
		jwtService:         jwtService,
	}
}

// Resolve determines the caller's logical identity from a verified token or a
// self-declared device id, in that order of preference.
func (s *identityService) Resolve(ctx context.Context, bearerToken string, deviceID string) (domain.Identity, error) {
	if bearerToken != "" {
		assertion, err := s.jwtService.GetAssertionByToken(bearerToken)
		if err != nil {
			return domain.Identity{}, err
		}
		return s.resolveVerified(ctx, assertion, deviceID)
	}

	if deviceIDPattern.MatchString(deviceID) {
		return s.resolveDevice(ctx, deviceID)
	}

	return domain.Identity{}, domain.ErrUnauthenticated
}

func (s *identityService) resolveVerified(ctx context.Context, assertion domain.Assertion, deviceID string) (domain.Identity, error) {
	if err := s.identityRepository.EnsureProfile(ctx, assertion.Subject, assertion.Email); err != nil {
		return domain.Identity{}, err
	}

	if deviceIDPattern.MatchString(deviceID) {
		if err := s.identityRepository.LinkDevice(ctx, deviceID, assertion.Subject); err != nil {
			log.Errorf("failed to link device for user %s: %v", assertion.Subject, err)
		}
	}

	if assertion.Email != "" && utils.GetFeatures().ReferralClaims {
		if err := s.attachReferralSubscription(ctx, assertion.Subject, assertion.Email); err != nil {
			log.Errorf("referral attach failed for user %s: %v", assertion.Subject, err)
		}
	}

	return domain.Identity{
		UserID:       assertion.Subject,
		IdentityType: domain.IdentityTypeUser,
		Email:        assertion.Email,
	}, nil
}

func (s *identityService) resolveDevice(ctx context.Context, deviceID string) (domain.Identity, error) {
	link, err := s.identityRepository.GetDeviceLink(ctx, deviceID)
	if err == nil {
		return domain.Identity{
			UserID:       link.UserID,
			IdentityType: domain.IdentityTypeDeviceLinked,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Identity{}, err
	}

	pseudonym := DeriveDeviceUserID(deviceID)
	if err := s.identityRepository.EnsureProfile(ctx, pseudonym, ""); err != nil {
		return domain.Identity{}, err
	}
	return domain.Identity{
		UserID:       pseudonym,
		IdentityType: domain.IdentityTypeDeviceAnonymous,
	}, nil
}

// attachReferralSubscription claims a subscription purchased by email before
// signup. Local subscription fields are only written when still empty.
func (s *identityService) attachReferralSubscription(ctx context.Context, userID string, email string) error {
	ref, err := s.identityRepository.FindUnclaimedReferralByEmail(ctx, email)
	if err != nil || ref == nil {
		return err
	}

	claimed, err := s.identityRepository.ClaimReferral(ctx, ref.ID, userID)
	if err != nil || !claimed {
		return err
	}

	profile, err := s.identityRepository.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if profile.StripeSubscriptionID != "" {
		// Already linked to billing, leave the local fields untouched.
		return nil
	}

	profile.StripeCustomerID = ref.StripeCustomerID
	profile.StripeSubscriptionID = ref.StripeSubscriptionID
	profile.SubscriptionStatus = ref.SubscriptionStatus
	if ref.SubscriptionStatus == domain.SubscriptionStatusActive || ref.SubscriptionStatus == domain.SubscriptionStatusTrialing {
		profile.PlanTier = domain.PlanTierPremium
	}
	return s.identityRepository.SaveProfile(ctx, profile)
}

func (s *identityService) CreateSession(ctx context.Context, req domain.CreateSessionRequest) (domain.CreateSessionResponse, error) {
	if !deviceIDPattern.MatchString(req.DeviceID) {
		return domain.CreateSessionResponse{}, domain.ErrInvalidDeviceID
	}

	identity, err := s.resolveDevice(ctx, req.DeviceID)
	if err != nil {
		return domain.CreateSessionResponse{}, err
	}

	token := s.jwtService.GenerateTokenUser(identity.UserID, "")
	return domain.CreateSessionResponse{
		Token:        token,
		UserID:       identity.UserID,
		IdentityType: identity.IdentityType,
	}, nil
}

func (s *identityService) GetProfile(ctx context.Context, userID string) (domain.ProfileResponse, error) {
	profile, err := s.identityRepository.GetProfile(ctx, userID)
	if err != nil {
		return domain.ProfileResponse{}, err
	}
	return profileResponse(profile), nil
}

// UpdateProfile applies partial settings updates. Only the fields present in
// the request change; everything else keeps its stored value.
func (s *identityService) UpdateProfile(ctx context.Context, req domain.UpdateProfileRequest, userID string) (domain.ProfileResponse, error) {
	profile, err := s.identityRepository.GetProfile(ctx, userID)
	if err != nil {
		return domain.ProfileResponse{}, err
	}

	if req.GoalWeightLbs != nil {
		profile.GoalWeightLbs = req.GoalWeightLbs
	}
	if req.GoalDate != nil {
		goalDate, err := utils.ParseCivilDate(*req.GoalDate)
		if err != nil {
			return domain.ProfileResponse{}, err
		}
		profile.GoalDate = &goalDate
	}
	if req.GoalBodyFatPercent != nil {
		profile.GoalBodyFatPercent = req.GoalBodyFatPercent
	}
	if req.GoalBodyFatDate != nil {
		bfDate, err := utils.ParseCivilDate(*req.GoalBodyFatDate)
		if err != nil {
			return domain.ProfileResponse{}, err
		}
		profile.GoalBodyFatDate = &bfDate
	}
	if req.CurrentBodyFatPercent != nil {
		profile.CurrentBodyFatPercent = req.CurrentBodyFatPercent
	}
	if req.CurrentBodyFatWeightLbs != nil {
		profile.CurrentBodyFatWeightLbs = req.CurrentBodyFatWeightLbs
	}
	if req.AutopilotEnabled != nil {
		profile.AutopilotEnabled = *req.AutopilotEnabled
	}
	if req.AutopilotMode != nil {
		profile.AutopilotMode = *req.AutopilotMode
	}
	if req.RolloverEnabled != nil {
		profile.RolloverEnabled = *req.RolloverEnabled
	}
	if req.RolloverCap != nil {
		profile.RolloverCap = *req.RolloverCap
	}

	if err := s.identityRepository.SaveProfile(ctx, profile); err != nil {
		return domain.ProfileResponse{}, err
	}
	return profileResponse(profile), nil
}

func profileResponse(profile *entities.UserProfile) domain.ProfileResponse {
	resp := domain.ProfileResponse{
		UserID:                  profile.UserID,
		Email:                   profile.Email,
		PlanTier:                profile.PlanTier,
		SubscriptionStatus:      profile.SubscriptionStatus,
		GoalWeightLbs:           profile.GoalWeightLbs,
		GoalBodyFatPercent:      profile.GoalBodyFatPercent,
		CurrentBodyFatPercent:   profile.CurrentBodyFatPercent,
		CurrentBodyFatWeightLbs: profile.CurrentBodyFatWeightLbs,
		AutopilotEnabled:        profile.AutopilotEnabled,
		AutopilotMode:           profile.AutopilotMode,
		RolloverEnabled:         profile.RolloverEnabled,
		RolloverCap:             profile.RolloverCap,
	}
	if profile.GoalDate != nil {
		resp.GoalDate = utils.FormatCivilDate(*profile.GoalDate)
	}
	if profile.GoalBodyFatDate != nil {
		resp.GoalBodyFatDate = utils.FormatCivilDate(*profile.GoalBodyFatDate)
	}
	return resp
}

// DeriveDeviceUserID derives the deterministic pseudonymous user id for an
// unlinked device: device_<first 40 hex chars of sha256(device_id)>.
func DeriveDeviceUserID(deviceID string) string {
	sum := sha256.Sum256([]byte(deviceID))
	return "device_" + hex.EncodeToString(sum[:])[:40]
}
