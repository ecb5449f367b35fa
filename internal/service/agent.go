package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"herald/internal/logging"
	"herald/internal/store"
)

const (
	// 09:00 every day, server local time.
	defaultSchedule = "0 9 * * *"
	cycleTimeout    = 30 * time.Minute
)

// FullRunner runs one compose-and-publish cycle.
type FullRunner interface {
	RunFull(ctx context.Context, topic string) error
}

type AgentConfig struct {
	Schedule  string
	Topic     string
	MaxPerDay int
	Runner    FullRunner
	Posts     store.PostStore
	Logger    logging.Logger
}

// Agent posts on a cron schedule, holding to the daily cap when a history
// store is available to count against.
type Agent struct {
	cron      *cron.Cron
	schedule  string
	topic     string
	maxPerDay int
	runner    FullRunner
	posts     store.PostStore
	logger    logging.Logger
}

func NewAgent(cfg AgentConfig) *Agent {
	schedule := cfg.Schedule
	if schedule == "" {
		schedule = defaultSchedule
	}
	return &Agent{
		cron:      cron.New(),
		schedule:  schedule,
		topic:     cfg.Topic,
		maxPerDay: cfg.MaxPerDay,
		runner:    cfg.Runner,
		posts:     cfg.Posts,
		logger:    cfg.Logger,
	}
}

// Start schedules the posting cycle and begins the cron loop.
func (a *Agent) Start() error {
	_, err := a.cron.AddFunc(a.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cycleTimeout)
		defer cancel()
		a.runCycle(ctx)
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", a.schedule, err)
	}

	a.cron.Start()
	a.logger.WithFields(logging.Fields{
		"schedule":    a.schedule,
		"max_per_day": a.maxPerDay,
	}).Info("Posting schedule active")
	return nil
}

// Stop halts the scheduler and waits for a running cycle to finish.
func (a *Agent) Stop() {
	<-a.cron.Stop().Done()
}

func (a *Agent) runCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.WithField("panic", fmt.Sprint(r)).Error("Posting cycle panic")
		}
	}()

	// Enforce daily limit (0 = unlimited)
	if a.maxPerDay > 0 && a.posts != nil {
		count, err := a.posts.CountToday(ctx)
		if err != nil {
			a.logger.WithError(err).Warn("Failed to count today's posts - skipping cycle")
			return
		}
		if count >= a.maxPerDay {
			a.logger.WithField("count", count).Info("Daily post limit reached, skipping cycle")
			return
		}
	}

	a.logger.WithField("topic", a.topic).Info("Starting scheduled posting cycle")
	if err := a.runner.RunFull(ctx, a.topic); err != nil {
		a.logger.WithError(err).Error("Scheduled posting cycle failed")
		return
	}
	a.logger.Info("Scheduled posting cycle complete")
}
