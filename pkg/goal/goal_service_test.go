package goal

import (
	"caltrack/domain"
	"caltrack/entities"
	"context"
	"testing"
	"time"

	"gorm.io/gorm"
)

func TestComputeRollover(t *testing.T) {
	cases := []struct {
		name           string
		enabled        bool
		cap            int
		baseGoal       int
		yesterdayTotal int
		hasEntries     bool
		wantDelta      int
		wantEffective  int
	}{
		{"disabled carries nothing", false, 500, 2000, 1500, true, 0, 2000},
		{"no entries carries nothing", true, 500, 2000, 0, false, 0, 2000},
		{"deficit carried forward", true, 500, 2000, 1800, true, 200, 2200},
		{"surplus clamped to cap", true, 500, 2000, 2600, true, -500, 1500},
		{"deficit clamped to cap", true, 500, 2000, 200, true, 500, 2500},
		{"exact hit carries zero", true, 500, 2000, 2000, true, 0, 2000},
		{"cap above max clamps to 2000", true, 9999, 2000, 4500, true, -2000, 0},
		{"negative cap clamps to zero", true, -10, 2000, 1500, true, 0, 2000},
		{"zero base goal carries nothing", true, 500, 0, 1500, true, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeRollover(tc.enabled, tc.cap, tc.baseGoal, tc.yesterdayTotal, tc.hasEntries)
			if got.Delta != tc.wantDelta {
				t.Fatalf("delta = %d, want %d", got.Delta, tc.wantDelta)
			}
			if got.EffectiveGoal != tc.wantEffective {
				t.Fatalf("effective goal = %d, want %d", got.EffectiveGoal, tc.wantEffective)
			}
		})
	}
}

type fakeGoalRepo struct {
	profile    *entities.UserProfile
	goal       *entities.CalorieGoal
	dayTotal   int
	hasEntries bool
	upserted   *entities.CalorieGoal
}

func (f *fakeGoalRepo) GetProfile(ctx context.Context, userID string) (*entities.UserProfile, error) {
	return f.profile, nil
}

func (f *fakeGoalRepo) GetGoal(ctx context.Context, userID string) (*entities.CalorieGoal, error) {
	if f.goal == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.goal, nil
}

func (f *fakeGoalRepo) UpsertGoal(ctx context.Context, goal *entities.CalorieGoal) error {
	f.upserted = goal
	f.goal = goal
	return nil
}

func (f *fakeGoalRepo) DayTotal(ctx context.Context, userID string, date time.Time) (int, bool, error) {
	return f.dayTotal, f.hasEntries, nil
}

func newTestGoalService(repo *fakeGoalRepo) *goalService {
	return &goalService{
		goalRepository: repo,
		now:            func() time.Time { return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC) },
	}
}

func TestGetGoalNoneSet(t *testing.T) {
	svc := newTestGoalService(&fakeGoalRepo{})

	_, err := svc.GetGoal(context.Background(), "u1")
	if err != domain.ErrNoCalorieGoal {
		t.Fatalf("err = %v, want ErrNoCalorieGoal", err)
	}
}

func TestGetGoalRecomputesRollover(t *testing.T) {
	repo := &fakeGoalRepo{
		profile:    &entities.UserProfile{UserID: "u1", RolloverEnabled: true, RolloverCap: 500},
		goal:       &entities.CalorieGoal{UserID: "u1", DailyCalories: 2000},
		dayTotal:   2600,
		hasEntries: true,
	}
	svc := newTestGoalService(repo)

	res, err := svc.GetGoal(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetGoal: %v", err)
	}
	if res.DailyCalories != 2000 {
		t.Fatalf("base goal = %d, want 2000", res.DailyCalories)
	}
	if res.Rollover.Delta != -500 || res.Rollover.EffectiveGoal != 1500 {
		t.Fatalf("rollover = %+v, want delta -500 effective 1500", res.Rollover)
	}
}

func TestSetGoalUpsertsAndReturnsView(t *testing.T) {
	repo := &fakeGoalRepo{
		profile: &entities.UserProfile{UserID: "u1"},
	}
	svc := newTestGoalService(repo)

	res, err := svc.SetGoal(context.Background(), domain.SetGoalRequest{DailyCalories: 1850}, "u1")
	if err != nil {
		t.Fatalf("SetGoal: %v", err)
	}
	if repo.upserted == nil || repo.upserted.DailyCalories != 1850 {
		t.Fatalf("upserted = %+v, want 1850", repo.upserted)
	}
	if res.DailyCalories != 1850 {
		t.Fatalf("returned goal = %d, want 1850", res.DailyCalories)
	}
	if res.Rollover.Delta != 0 {
		t.Fatalf("rollover on fresh goal = %d, want 0", res.Rollover.Delta)
	}
}
