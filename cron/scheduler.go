package cron

import (
	"context"
	"time"

	"neoncut/services/booking"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is a periodic maintenance task.
type Job struct {
	Name string
	Spec string
	Run  func()
}

// BookingJobs returns the engine's periodic maintenance: slot regeneration,
// availability cache purge and idle-session sweep.
func BookingJobs(engine *booking.Engine, idleTTL time.Duration, logger *zap.Logger) []Job {
	return []Job{
		{
			Name: "refresh-slots",
			Spec: "@every 15m",
			Run: func() {
				ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
				defer cancel()
				if err := engine.RefreshSlots(ctx); err != nil {
					logger.Error("slot refresh failed", zap.Error(err))
				}
			},
		},
		{
			Name: "purge-availability-cache",
			Spec: "@every 10m",
			Run: func() {
				if n := engine.PurgeAvailabilityCache(); n > 0 {
					logger.Debug("availability cache purged", zap.Int("removed", n))
				}
			},
		},
		{
			Name: "sweep-idle-sessions",
			Spec: "@every 5m",
			Run: func() {
				engine.SweepIdleSessions(idleTTL)
			},
		},
	}
}

// StartScheduler registers jobs on a new cron and starts it. Stop the
// returned cron on shutdown.
func StartScheduler(jobs []Job, logger *zap.Logger) (*cron.Cron, error) {
	cl := cronLogger{logger.Sugar()}
	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))

	for _, j := range jobs {
		if _, err := c.AddFunc(j.Spec, j.Run); err != nil {
			return nil, err
		}
		logger.Info("scheduled job", zap.String("job", j.Name), zap.String("spec", j.Spec))
	}
	c.Start()
	return c, nil
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
