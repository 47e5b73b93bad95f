package queue

import (
	"time"

	"github.com/hibiken/asynq"

	"bookgraph/internal/config"
	integrityJob "bookgraph/internal/domains/integrity/job"
	"bookgraph/internal/shared"
	"bookgraph/pkg/logger"
)

// registrar is the part of asynq.Scheduler the job table needs.
type registrar interface {
	Register(cronspec string, task *asynq.Task, opts ...asynq.Option) (string, error)
}

type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
}

func NewScheduler(redisOpt asynq.RedisConnOpt, jobConfig config.JobConfig) *Scheduler {
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

func (s *Scheduler) RegisterJobs() error {
	return registerJobs(s.scheduler, s.jobConfig)
}

func registerJobs(r registrar, jobConfig config.JobConfig) error {
	if err := registerAuditReferencesJob(r, jobConfig); err != nil {
		return err
	}
	return nil
}

// ================================================
// Audit dangling author references (JOB_AUDIT_CRON)
// ================================================
func registerAuditReferencesJob(r registrar, jobConfig config.JobConfig) error {
	task, err := integrityJob.NewAuditReferencesTask(jobConfig.AuditPageSize)
	if err != nil {
		return err
	}

	_, err = r.Register(
		jobConfig.AuditCron,
		task,
		asynq.Queue(shared.QueueIntegrity),
		asynq.MaxRetry(1),
		asynq.Timeout(30*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register AuditReferences job", err)
		return err
	}

	logger.Info("Registered AuditReferences job", map[string]interface{}{
		"cron":      jobConfig.AuditCron,
		"page_size": jobConfig.AuditPageSize,
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
