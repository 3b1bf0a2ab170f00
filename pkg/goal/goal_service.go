package goal

import (
	"caltrack/domain"
	"caltrack/entities"
	"caltrack/internal/utils"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type (
	GoalService interface {
		GetGoal(ctx context.Context, userID string) (domain.GoalResponse, error)
		SetGoal(ctx context.Context, req domain.SetGoalRequest, userID string) (domain.GoalResponse, error)
	}

	goalService struct {
		goalRepository GoalRepository
		now            func() time.Time
	}
)

func NewGoalService(goalRepository GoalRepository) GoalService {
	return &goalService{
		goalRepository: goalRepository,
		now:            time.Now,
	}
}

// ComputeRollover carries yesterday's surplus or deficit into today's
// effective goal, bounded by the cap. A day with no logged entries carries
// nothing: there is no rollover data, which is not the same as a zero total.
func ComputeRollover(enabled bool, cap int, baseGoal int, yesterdayTotal int, hasEntries bool) domain.RolloverResult {
	if cap < domain.RolloverCapMin {
		cap = domain.RolloverCapMin
	}
	if cap > domain.RolloverCapMax {
		cap = domain.RolloverCapMax
	}

	result := domain.RolloverResult{Enabled: enabled, Cap: cap, EffectiveGoal: baseGoal}
	if !enabled || baseGoal <= 0 || !hasEntries {
		return result
	}

	delta := baseGoal - yesterdayTotal
	if delta > cap {
		delta = cap
	}
	if delta < -cap {
		delta = -cap
	}
	result.Delta = delta
	result.EffectiveGoal = baseGoal + delta
	return result
}

// GetGoal returns the stored base goal with the rollover view recomputed for
// today. Nothing about the rollover is persisted.
func (s *goalService) GetGoal(ctx context.Context, userID string) (domain.GoalResponse, error) {
	stored, err := s.goalRepository.GetGoal(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.GoalResponse{}, domain.ErrNoCalorieGoal
		}
		return domain.GoalResponse{}, err
	}

	profile, err := s.goalRepository.GetProfile(ctx, userID)
	if err != nil {
		return domain.GoalResponse{}, err
	}

	loc := utils.CivilLocation()
	yesterday := utils.CivilDate(s.now(), loc).AddDate(0, 0, -1)
	total, hasEntries, err := s.goalRepository.DayTotal(ctx, userID, yesterday)
	if err != nil {
		return domain.GoalResponse{}, err
	}

	rollover := ComputeRollover(profile.RolloverEnabled, profile.RolloverCap, stored.DailyCalories, total, hasEntries)
	return domain.GoalResponse{
		DailyCalories: stored.DailyCalories,
		Rollover:      rollover,
	}, nil
}

func (s *goalService) SetGoal(ctx context.Context, req domain.SetGoalRequest, userID string) (domain.GoalResponse, error) {
	goal := &entities.CalorieGoal{
		UserID:        userID,
		DailyCalories: req.DailyCalories,
	}
	if err := s.goalRepository.UpsertGoal(ctx, goal); err != nil {
		return domain.GoalResponse{}, err
	}
	return s.GetGoal(ctx, userID)
}
