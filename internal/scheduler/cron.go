package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartCron wires the scheduler tick onto a fixed cadence (one minute by
// default, the finest schedulable granularity) and starts it. The returned
// cron can be stopped on shutdown.
func StartCron(spec string, s *Scheduler) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(spec, func() {
		if err := s.Tick(context.Background()); err != nil {
			logrus.WithError(err).Error("Reservation scan failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler spec %q: %v", spec, err)
	}

	c.Start()
	return c, nil
}
