package repositories

import (
	"context"

	. "skytone/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type SynthesisJobRepository interface {
	Create(ctx context.Context, tx *gorm.DB, job *SynthesisJob) error
	Update(ctx context.Context, tx *gorm.DB, job *SynthesisJob) error
	ListByBGM(ctx context.Context, tx *gorm.DB, bgmID int) ([]*SynthesisJob, error)
}

type synthesisJobRepository struct {
	log logger.Logger
}

func NewSynthesisJobRepository() SynthesisJobRepository {
	return &synthesisJobRepository{
		log: logger.New("synthesisJobRepository"),
	}
}

func (r *synthesisJobRepository) Create(ctx context.Context, tx *gorm.DB, job *SynthesisJob) error {
	log := r.log.Function("Create")

	err := gorm.G[SynthesisJob](tx).Create(ctx, job)
	if err != nil {
		return log.Err("failed to create synthesis job", err, "bgmID", job.BGMID)
	}

	return nil
}

func (r *synthesisJobRepository) Update(ctx context.Context, tx *gorm.DB, job *SynthesisJob) error {
	log := r.log.Function("Update")

	err := tx.WithContext(ctx).Save(job).Error
	if err != nil {
		return log.Err("failed to update synthesis job", err, "id", job.ID)
	}

	return nil
}

func (r *synthesisJobRepository) ListByBGM(
	ctx context.Context,
	tx *gorm.DB,
	bgmID int,
) ([]*SynthesisJob, error) {
	log := r.log.Function("ListByBGM")

	jobs, err := gorm.G[*SynthesisJob](tx).
		Where("bgm_id = ?", bgmID).
		Order("created_at DESC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list synthesis jobs", err, "bgmID", bgmID)
	}

	return jobs, nil
}
