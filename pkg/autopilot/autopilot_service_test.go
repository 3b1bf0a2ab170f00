package autopilot

import (
	"caltrack/domain"
	"caltrack/entities"
	"caltrack/internal/utils"
	"context"
	"testing"
	"time"
)

var testToday = time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC) // Thursday

func enabledProfile() *entities.UserProfile {
	target := 180.0
	return &entities.UserProfile{
		UserID:           "u1",
		AutopilotEnabled: true,
		AutopilotMode:    domain.AutopilotModeWeight,
		GoalWeightLbs:    &target,
	}
}

func sevenFoodDays(calories int) map[string]int {
	totals := make(map[string]int)
	for i := 0; i < 7; i++ {
		totals[testToday.AddDate(0, 0, -i).Format("2006-01-02")] = calories
	}
	return totals
}

func weighInPair(firstLbs, lastLbs float64, spanDays int) []*entities.DailyWeight {
	return []*entities.DailyWeight{
		{UserID: "u1", EntryDate: testToday.AddDate(0, 0, -spanDays), WeightLbs: firstLbs},
		{UserID: "u1", EntryDate: testToday, WeightLbs: lastLbs},
	}
}

func TestReviewGateOrder(t *testing.T) {
	goal := &entities.CalorieGoal{UserID: "u1", DailyCalories: 2000}

	t.Run("disabled wins over everything", func(t *testing.T) {
		profile := enabledProfile()
		profile.AutopilotEnabled = false
		review := ComputeReview(profile, nil, nil, nil, testToday)
		if review.Reason != domain.ReasonAutopilotDisabled {
			t.Fatalf("reason = %q, want %q", review.Reason, domain.ReasonAutopilotDisabled)
		}
	})

	t.Run("no goal", func(t *testing.T) {
		review := ComputeReview(enabledProfile(), nil, nil, nil, testToday)
		if review.Reason != domain.ReasonNoCalorieGoal {
			t.Fatalf("reason = %q, want %q", review.Reason, domain.ReasonNoCalorieGoal)
		}
	})

	t.Run("not enough food days", func(t *testing.T) {
		totals := make(map[string]int)
		for i := 0; i < 3; i++ {
			totals[testToday.AddDate(0, 0, -i).Format("2006-01-02")] = 2000
		}
		review := ComputeReview(enabledProfile(), goal, totals, nil, testToday)
		if review.Reason != domain.ReasonNotEnoughFoodDays {
			t.Fatalf("reason = %q, want %q", review.Reason, domain.ReasonNotEnoughFoodDays)
		}
		if review.FoodDaysHave != 3 || review.FoodDaysNeed != 4 {
			t.Fatalf("food days = %d/%d, want 3/4", review.FoodDaysHave, review.FoodDaysNeed)
		}
	})

	t.Run("not enough weigh-ins", func(t *testing.T) {
		weighIns := []*entities.DailyWeight{{UserID: "u1", EntryDate: testToday, WeightLbs: 200}}
		review := ComputeReview(enabledProfile(), goal, sevenFoodDays(2000), weighIns, testToday)
		if review.Reason != domain.ReasonNotEnoughWeighIns {
			t.Fatalf("reason = %q, want %q", review.Reason, domain.ReasonNotEnoughWeighIns)
		}
		if review.WeighInsHave != 1 || review.WeighInsNeed != 2 {
			t.Fatalf("weigh-ins = %d/%d, want 1/2", review.WeighInsHave, review.WeighInsNeed)
		}
	})

	t.Run("weigh-ins too close", func(t *testing.T) {
		review := ComputeReview(enabledProfile(), goal, sevenFoodDays(2000), weighInPair(200, 199, 3), testToday)
		if review.Reason != domain.ReasonWeighInsTooClose {
			t.Fatalf("reason = %q, want %q", review.Reason, domain.ReasonWeighInsTooClose)
		}
		if review.SpanDaysHave != 3 || review.SpanDaysNeed != 6 {
			t.Fatalf("span = %d/%d, want 3/6", review.SpanDaysHave, review.SpanDaysNeed)
		}
	})

	t.Run("no target weight", func(t *testing.T) {
		profile := enabledProfile()
		profile.GoalWeightLbs = nil
		review := ComputeReview(profile, goal, sevenFoodDays(2000), weighInPair(200, 199, 7), testToday)
		if review.Reason != domain.ReasonNoTargetWeight {
			t.Fatalf("reason = %q, want %q", review.Reason, domain.ReasonNoTargetWeight)
		}
	})

	t.Run("bodyfat mode missing inputs", func(t *testing.T) {
		profile := enabledProfile()
		profile.AutopilotMode = domain.AutopilotModeBodyFat
		review := ComputeReview(profile, goal, sevenFoodDays(2000), weighInPair(200, 199, 7), testToday)
		if review.Reason != domain.ReasonNoTargetBodyFat {
			t.Fatalf("reason = %q, want %q", review.Reason, domain.ReasonNoTargetBodyFat)
		}
	})
}

func TestReviewSuggestionBoundedByWeeklyChange(t *testing.T) {
	// Stable weight at maintenance 2000; default desired rate of -1 lb/week
	// wants 1500, but a single review moves at most 150.
	goal := &entities.CalorieGoal{UserID: "u1", DailyCalories: 2000}
	review := ComputeReview(enabledProfile(), goal, sevenFoodDays(2000), weighInPair(200, 200, 7), testToday)

	if !review.Ready {
		t.Fatalf("review not ready: %+v", review)
	}
	if review.ObservedRateLbsWeek != 0 {
		t.Fatalf("observed rate = %v, want 0", review.ObservedRateLbsWeek)
	}
	if review.InferredMaintenance != 2000 {
		t.Fatalf("maintenance = %d, want 2000", review.InferredMaintenance)
	}
	if review.SuggestedGoal != 1850 {
		t.Fatalf("suggested = %d, want 1850", review.SuggestedGoal)
	}
}

func TestReviewTargetClampedToFloor(t *testing.T) {
	// Gaining on a low intake infers a very low maintenance; the raw target
	// clamps to 1200 before smoothing.
	goal := &entities.CalorieGoal{UserID: "u1", DailyCalories: 1300}
	review := ComputeReview(enabledProfile(), goal, sevenFoodDays(1250), weighInPair(199, 200, 7), testToday)

	if !review.Ready {
		t.Fatalf("review not ready: %+v", review)
	}
	if review.SuggestedGoal != 1200 {
		t.Fatalf("suggested = %d, want 1200", review.SuggestedGoal)
	}
}

func TestReviewDesiredRateClamped(t *testing.T) {
	// One week to lose 20 lbs asks for -20 lbs/week; clamps to -2.
	profile := enabledProfile()
	goalDate := testToday.AddDate(0, 0, 7)
	profile.GoalDate = &goalDate

	goal := &entities.CalorieGoal{UserID: "u1", DailyCalories: 2000}
	review := ComputeReview(profile, goal, sevenFoodDays(2000), weighInPair(200, 200, 7), testToday)

	if !review.Ready {
		t.Fatalf("review not ready: %+v", review)
	}
	if review.DesiredRateLbsWeek != -2.0 {
		t.Fatalf("desired rate = %v, want -2", review.DesiredRateLbsWeek)
	}
}

func TestReviewBodyFatTargetBackCalculated(t *testing.T) {
	profile := enabledProfile()
	profile.AutopilotMode = domain.AutopilotModeBodyFat
	currentBF := 30.0
	targetBF := 20.0
	weight := 200.0
	profile.CurrentBodyFatPercent = &currentBF
	profile.GoalBodyFatPercent = &targetBF
	profile.CurrentBodyFatWeightLbs = &weight

	goal := &entities.CalorieGoal{UserID: "u1", DailyCalories: 2000}
	review := ComputeReview(profile, goal, sevenFoodDays(2000), weighInPair(200, 200, 7), testToday)

	if !review.Ready {
		t.Fatalf("review not ready: %+v", review)
	}
	// Lean mass 140 lbs at 20% body fat is a 175 lb target.
	if review.TargetWeightLbs != 175.0 {
		t.Fatalf("target weight = %v, want 175", review.TargetWeightLbs)
	}
}

func TestReviewAlreadyReviewedThisWeek(t *testing.T) {
	profile := enabledProfile()
	week := utils.WeekStart(testToday)
	profile.AutopilotLastReviewWeek = &week

	goal := &entities.CalorieGoal{UserID: "u1", DailyCalories: 2000}
	review := ComputeReview(profile, goal, sevenFoodDays(2000), weighInPair(200, 200, 7), testToday)

	if !review.Ready {
		t.Fatalf("review not ready: %+v", review)
	}
	if !review.AlreadyReviewedWeek {
		t.Fatal("expected AlreadyReviewedWeek")
	}
}

type fakeAutopilotRepo struct {
	profile    *entities.UserProfile
	goal       *entities.CalorieGoal
	totals     map[string]int
	weighIns   []*entities.DailyWeight
	reviewWeek *time.Time
	setGoal    *int
}

func (f *fakeAutopilotRepo) GetProfile(ctx context.Context, userID string) (*entities.UserProfile, error) {
	return f.profile, nil
}

func (f *fakeAutopilotRepo) GetGoal(ctx context.Context, userID string) (*entities.CalorieGoal, error) {
	return f.goal, nil
}

func (f *fakeAutopilotRepo) DailyTotals(ctx context.Context, userID string, from, to time.Time) (map[string]int, error) {
	return f.totals, nil
}

func (f *fakeAutopilotRepo) GetWeighIns(ctx context.Context, userID string, since time.Time) ([]*entities.DailyWeight, error) {
	return f.weighIns, nil
}

func (f *fakeAutopilotRepo) SetReviewWeek(ctx context.Context, userID string, week time.Time) error {
	f.reviewWeek = &week
	return nil
}

func (f *fakeAutopilotRepo) SetGoalCalories(ctx context.Context, userID string, calories int) error {
	f.setGoal = &calories
	return nil
}

func readyRepo() *fakeAutopilotRepo {
	return &fakeAutopilotRepo{
		profile:  enabledProfile(),
		goal:     &entities.CalorieGoal{UserID: "u1", DailyCalories: 2000},
		totals:   sevenFoodDays(2000),
		weighIns: weighInPair(200, 200, 7),
	}
}

func newTestAutopilotService(repo *fakeAutopilotRepo) *autopilotService {
	return &autopilotService{
		autopilotRepository: repo,
		now:                 func() time.Time { return testToday.Add(12 * time.Hour) },
	}
}

func TestDecideAcceptAppliesSuggestion(t *testing.T) {
	repo := readyRepo()
	svc := newTestAutopilotService(repo)

	res, err := svc.Decide(context.Background(), domain.AutopilotDecisionRequest{Accept: true}, "u1")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if !res.Applied || res.DailyCalories != 1850 {
		t.Fatalf("decision = %+v, want applied 1850", res)
	}
	if repo.setGoal == nil || *repo.setGoal != 1850 {
		t.Fatalf("goal write = %v, want 1850", repo.setGoal)
	}
	if repo.reviewWeek == nil || !repo.reviewWeek.Equal(utils.WeekStart(testToday)) {
		t.Fatalf("review week = %v, want %v", repo.reviewWeek, utils.WeekStart(testToday))
	}
}

func TestDecideDeclineStillMarksWeek(t *testing.T) {
	repo := readyRepo()
	svc := newTestAutopilotService(repo)

	res, err := svc.Decide(context.Background(), domain.AutopilotDecisionRequest{Accept: false}, "u1")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if res.Applied {
		t.Fatal("decline must not apply")
	}
	if repo.setGoal != nil {
		t.Fatalf("goal write = %v, want none", repo.setGoal)
	}
	if repo.reviewWeek == nil {
		t.Fatal("decline must still mark the week reviewed")
	}
}

func TestDecideSecondTimeSameWeekIsNoop(t *testing.T) {
	repo := readyRepo()
	week := utils.WeekStart(testToday)
	repo.profile.AutopilotLastReviewWeek = &week
	svc := newTestAutopilotService(repo)

	res, err := svc.Decide(context.Background(), domain.AutopilotDecisionRequest{Accept: true}, "u1")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if res.Applied {
		t.Fatal("second decision in the same week must not apply")
	}
	if repo.setGoal != nil || repo.reviewWeek != nil {
		t.Fatal("second decision must write nothing")
	}
}

func TestDecideNotReadyIsNoop(t *testing.T) {
	repo := readyRepo()
	repo.goal = nil
	svc := newTestAutopilotService(repo)

	res, err := svc.Decide(context.Background(), domain.AutopilotDecisionRequest{Accept: true}, "u1")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if res.Applied || repo.reviewWeek != nil {
		t.Fatal("not-ready decision must write nothing")
	}
}
