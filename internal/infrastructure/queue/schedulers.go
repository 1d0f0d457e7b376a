package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"blogcms-backend/internal/config"
	"blogcms-backend/internal/shared"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
}

func NewScheduler(redisOpt asynq.RedisClientOpt, jobConfig config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobConfig,
	}
}

func (s *Scheduler) RegisterMaintenanceJobs() error {
	return s.registerSyncAuditJob()
}

// ================================================
// Nightly sync audit (daily at 3 AM UTC)
// ================================================
// Catches published posts whose public surfaces drifted without anyone
// noticing: expired sync hashes, failed pipeline steps, manual edits.
func (s *Scheduler) registerSyncAuditJob() error {
	payload, err := json.Marshal(shared.SyncAuditPayload{Limit: s.jobConfig.SyncAuditLimit})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeSyncAudit, payload)

	_, err = s.scheduler.Register(
		"0 3 * * *",
		task,
		asynq.Queue(shared.QueueMaintenance),
		asynq.MaxRetry(1),
		asynq.Timeout(15*time.Minute),
	)
	if err != nil {
		log.Error().Err(err).Msg("Failed to register SyncAudit job")
		return err
	}

	log.Info().Int("limit", s.jobConfig.SyncAuditLimit).Msg("Registered SyncAudit: daily at 3 AM UTC")
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
