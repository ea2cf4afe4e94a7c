// jobs/scheduler.go
package jobs

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// StartScheduler wires the recurring jobs and starts the cron loop. The
// returned cron can be stopped on shutdown.
func StartScheduler(abandoned *AbandonedCartJob, bestSellers *BestSellerJob) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc("@hourly", abandoned.Run); err != nil {
		return nil, fmt.Errorf("scheduling abandoned cart sweep: %w", err)
	}
	if _, err := c.AddFunc("@daily", bestSellers.Run); err != nil {
		return nil, fmt.Errorf("scheduling best seller recompute: %w", err)
	}
	c.Start()
	return c, nil
}
