package autopilot

import (
	"caltrack/domain"
	"caltrack/entities"
	"caltrack/internal/utils"
	"context"
	"math"
	"time"
)

const (
	foodDaysWindow   = 7
	foodDaysRequired = 4
	weighInWindow    = 14
	weighInsRequired = 2
	spanDaysRequired = 6

	// 1 lb of body weight per week is roughly a 500 kcal/day imbalance.
	kcalPerLbPerWeek = 500.0

	minDesiredRate     = -2.0
	maxDesiredRate     = 1.0
	defaultDesiredRate = -1.0

	minTargetCalories = 1200
	maxTargetCalories = 4500
	maxWeeklyChange   = 150

	minBodyFatPercent = 1.0
	maxBodyFatPercent = 80.0
)

type (
	AutopilotService interface {
		Review(ctx context.Context, userID string) (domain.AutopilotReview, error)
		Decide(ctx context.Context, req domain.AutopilotDecisionRequest, userID string) (domain.AutopilotDecisionResponse, error)
	}

	autopilotService struct {
		autopilotRepository AutopilotRepository
		now                 func() time.Time
	}
)

func NewAutopilotService(autopilotRepository AutopilotRepository) AutopilotService {
	return &autopilotService{
		autopilotRepository: autopilotRepository,
		now:                 time.Now,
	}
}

func (s *autopilotService) Review(ctx context.Context, userID string) (domain.AutopilotReview, error) {
	profile, err := s.autopilotRepository.GetProfile(ctx, userID)
	if err != nil {
		return domain.AutopilotReview{}, err
	}
	goal, err := s.autopilotRepository.GetGoal(ctx, userID)
	if err != nil {
		return domain.AutopilotReview{}, err
	}

	loc := utils.CivilLocation()
	today := utils.CivilDate(s.now(), loc)

	totals, err := s.autopilotRepository.DailyTotals(ctx, userID, today.AddDate(0, 0, -(foodDaysWindow-1)), today)
	if err != nil {
		return domain.AutopilotReview{}, err
	}
	weighIns, err := s.autopilotRepository.GetWeighIns(ctx, userID, today.AddDate(0, 0, -(weighInWindow-1)))
	if err != nil {
		return domain.AutopilotReview{}, err
	}

	return ComputeReview(profile, goal, totals, weighIns, today), nil
}

// ComputeReview runs the sufficiency gates in order and, when all pass,
// produces the bounded calorie suggestion. Insufficiency is a named state
// with remediation counts, never an error.
func ComputeReview(profile *entities.UserProfile, goal *entities.CalorieGoal, totalsByDay map[string]int, weighIns []*entities.DailyWeight, today time.Time) domain.AutopilotReview {
	if !profile.AutopilotEnabled {
		return domain.AutopilotReview{Reason: domain.ReasonAutopilotDisabled}
	}

	if goal == nil || goal.DailyCalories <= 0 {
		return domain.AutopilotReview{Reason: domain.ReasonNoCalorieGoal}
	}

	foodDays := 0
	caloriesSum := 0
	for i := 0; i < foodDaysWindow; i++ {
		day := today.AddDate(0, 0, -i).Format("2006-01-02")
		if total := totalsByDay[day]; total > 0 {
			foodDays++
			caloriesSum += total
		}
	}
	if foodDays < foodDaysRequired {
		return domain.AutopilotReview{
			Reason:       domain.ReasonNotEnoughFoodDays,
			FoodDaysHave: foodDays,
			FoodDaysNeed: foodDaysRequired,
		}
	}

	if len(weighIns) < weighInsRequired {
		return domain.AutopilotReview{
			Reason:       domain.ReasonNotEnoughWeighIns,
			WeighInsHave: len(weighIns),
			WeighInsNeed: weighInsRequired,
		}
	}

	first := weighIns[0]
	last := weighIns[len(weighIns)-1]
	spanDays := utils.DaysBetween(first.EntryDate, last.EntryDate)
	if spanDays < spanDaysRequired {
		return domain.AutopilotReview{
			Reason:       domain.ReasonWeighInsTooClose,
			SpanDaysHave: spanDays,
			SpanDaysNeed: spanDaysRequired,
		}
	}

	targetWeight, goalDate, reason := resolveTargetWeight(profile)
	if reason != "" {
		return domain.AutopilotReview{Reason: reason}
	}

	observedRate := (last.WeightLbs - first.WeightLbs) / float64(spanDays) * 7.0

	desiredRate := defaultDesiredRate
	if goalDate != nil {
		weeksToGoal := float64(utils.DaysBetween(today, *goalDate)) / 7.0
		if weeksToGoal > 0.25 {
			desiredRate = (targetWeight - last.WeightLbs) / weeksToGoal
		}
	}
	desiredRate = clampFloat(desiredRate, minDesiredRate, maxDesiredRate)

	avgCalories := float64(caloriesSum) / float64(foodDays)
	maintenance := avgCalories - observedRate*kcalPerLbPerWeek
	// A negative desired rate (losing) sets the target below maintenance.
	targetCalories := clampFloat(maintenance+desiredRate*kcalPerLbPerWeek, minTargetCalories, maxTargetCalories)

	// Smooth the applied change to at most 150 kcal per weekly review.
	delta := clampFloat(targetCalories-float64(goal.DailyCalories), -maxWeeklyChange, maxWeeklyChange)
	suggested := int(math.Round((float64(goal.DailyCalories)+delta)/10.0) * 10)

	review := domain.AutopilotReview{
		Ready:               true,
		CurrentGoal:         goal.DailyCalories,
		SuggestedGoal:       suggested,
		ObservedRateLbsWeek: observedRate,
		DesiredRateLbsWeek:  desiredRate,
		InferredMaintenance: int(math.Round(maintenance)),
		TargetWeightLbs:     targetWeight,
	}

	week := utils.WeekStart(today)
	if profile.AutopilotLastReviewWeek != nil && !profile.AutopilotLastReviewWeek.Before(week) {
		review.AlreadyReviewedWeek = true
	}
	return review
}

// resolveTargetWeight picks the target from the direct goal weight or, in
// body-fat mode, back-calculates it from lean mass.
func resolveTargetWeight(profile *entities.UserProfile) (float64, *time.Time, string) {
	if profile.AutopilotMode == domain.AutopilotModeBodyFat {
		if profile.GoalBodyFatPercent == nil || profile.CurrentBodyFatPercent == nil || profile.CurrentBodyFatWeightLbs == nil {
			return 0, nil, domain.ReasonNoTargetBodyFat
		}
		currentBF := clampFloat(*profile.CurrentBodyFatPercent, minBodyFatPercent, maxBodyFatPercent)
		targetBF := clampFloat(*profile.GoalBodyFatPercent, minBodyFatPercent, maxBodyFatPercent)
		leanMass := *profile.CurrentBodyFatWeightLbs * (1 - currentBF/100)
		targetWeight := leanMass / (1 - targetBF/100)
		return targetWeight, profile.GoalBodyFatDate, ""
	}

	if profile.GoalWeightLbs == nil {
		return 0, nil, domain.ReasonNoTargetWeight
	}
	return *profile.GoalWeightLbs, profile.GoalDate, ""
}

// Decide records the weekly review outcome. Accepting applies the suggested
// goal; both accept and decline mark the week reviewed. A second decision in
// the same week changes nothing.
func (s *autopilotService) Decide(ctx context.Context, req domain.AutopilotDecisionRequest, userID string) (domain.AutopilotDecisionResponse, error) {
	review, err := s.Review(ctx, userID)
	if err != nil {
		return domain.AutopilotDecisionResponse{}, err
	}
	if !review.Ready || review.AlreadyReviewedWeek {
		return domain.AutopilotDecisionResponse{Applied: false}, nil
	}

	loc := utils.CivilLocation()
	week := utils.WeekStart(utils.CivilDate(s.now(), loc))
	if err := s.autopilotRepository.SetReviewWeek(ctx, userID, week); err != nil {
		return domain.AutopilotDecisionResponse{}, err
	}

	if !req.Accept {
		return domain.AutopilotDecisionResponse{Applied: false}, nil
	}

	if err := s.autopilotRepository.SetGoalCalories(ctx, userID, review.SuggestedGoal); err != nil {
		return domain.AutopilotDecisionResponse{}, err
	}
	return domain.AutopilotDecisionResponse{
		Applied:       true,
		DailyCalories: review.SuggestedGoal,
	}, nil
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
