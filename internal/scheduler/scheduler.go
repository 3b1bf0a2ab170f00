package scheduler

import (
	"caltrack/pkg/billing"
	"caltrack/pkg/food"
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Start registers the background jobs: nightly subscription reconciliation
// and food entry lifecycle (archive and prune). Both jobs swallow their own
// errors so one bad night never kills the scheduler.
func Start(billingService billing.BillingService, foodService food.FoodService) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0))),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
			defer cancel()

			result, err := billingService.ReconcileSubscriptions(ctx, "scheduler")
			if err != nil {
				log.Errorf("nightly reconcile failed: %v", err)
				return
			}
			log.Infof("nightly reconcile: checked=%d updated=%d errors=%d",
				result.Checked, result.Updated, result.Errors)
		}),
	)
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(4, 0, 0))),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
			defer cancel()

			if err := foodService.RunLifecycle(ctx); err != nil {
				log.Errorf("food entry lifecycle failed: %v", err)
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	s.Start()
	return s, nil
}
