package jobs

import (
	"context"

	"skytone/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type AudioCleanupJob struct {
	audioCleanup *services.AudioCleanupService
	log          logger.Logger
	schedule     services.Schedule
}

func NewAudioCleanupJob(
	audioCleanup *services.AudioCleanupService,
	schedule services.Schedule,
) *AudioCleanupJob {
	log := logger.New("audioCleanupJob")
	log.Info("Creating new audio cleanup job", "schedule", schedule)

	return &AudioCleanupJob{
		audioCleanup: audioCleanup,
		log:          log,
		schedule:     schedule,
	}
}

func (j *AudioCleanupJob) Name() string {
	return "OrphanedAudioCleanup"
}

func (j *AudioCleanupJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	log.Info("Starting scheduled audio cleanup")

	if err := j.audioCleanup.CleanupOrphans(ctx); err != nil {
		return log.Err("scheduled audio cleanup failed", err)
	}

	log.Info("Scheduled audio cleanup completed")
	return nil
}

func (j *AudioCleanupJob) Schedule() services.Schedule {
	return j.schedule
}
