package scheduler

import (
	"time"

	"github.com/ikkim/storefront/internal/app/service"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CartJanitor periodically purges carts that were emptied and abandoned.
type CartJanitor struct {
	cron        *cron.Cron
	cartService service.CartService
	schedule    string
	maxAge      time.Duration
}

func NewCartJanitor(cartService service.CartService, schedule string, maxAge time.Duration) *CartJanitor {
	return &CartJanitor{
		cron:        cron.New(),
		cartService: cartService,
		schedule:    schedule,
		maxAge:      maxAge,
	}
}

// Start registers the purge job and starts the cron runner.
func (j *CartJanitor) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		if _, err := j.RunOnce(); err != nil {
			logger.Error("Scheduled cart purge failed", err)
		}
	})
	if err != nil {
		logger.Error("Failed to add cron job for cart purge", err, map[string]interface{}{
			"schedule": j.schedule,
		})
		return err
	}

	j.cron.Start()
	logger.Info("Cart janitor started", map[string]interface{}{
		"schedule": j.schedule,
		"max_age":  j.maxAge.String(),
	})
	return nil
}

// RunOnce purges immediately and reports how many carts went away.
func (j *CartJanitor) RunOnce() (int64, error) {
	logger.Debug("Running cart purge", map[string]interface{}{
		"max_age": j.maxAge.String(),
	})
	return j.cartService.PurgeEmptyCarts(j.maxAge)
}

// Stop waits for a running job to finish.
func (j *CartJanitor) Stop() {
	logger.Info("Stopping cart janitor...", nil)
	<-j.cron.Stop().Done()
	logger.Info("Cart janitor stopped", nil)
}
