package main

import (
	"github.com/rs/zerolog/log"

	"blogcms-backend/internal/config"
	"blogcms-backend/internal/infrastructure/queue"
)

// asynqScheduler wraps queue.Scheduler for the worker binary
type asynqScheduler struct {
	*queue.Scheduler
}

// setupScheduler creates the cron scheduler and registers recurring jobs
func setupScheduler(cfg *Config, jobConfig config.JobConfig) *asynqScheduler {
	scheduler := queue.NewScheduler(cfg.redisOpt(), jobConfig)

	if err := scheduler.RegisterMaintenanceJobs(); err != nil {
		log.Fatal().Err(err).Msg("Failed to register scheduled jobs")
	}

	go func() {
		log.Info().Msg("Scheduler starting...")
		if err := scheduler.Start(); err != nil {
			log.Fatal().Err(err).Msg("Scheduler failed")
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

// Shutdown gracefully shuts down the scheduler
func (s *asynqScheduler) Shutdown() {
	log.Info().Msg("Scheduler shutting down...")
	s.Scheduler.Shutdown()
	log.Info().Msg("Scheduler stopped")
}
