package services

import (
	"skytone/config"
	"skytone/internal/database"
	"skytone/internal/repositories"
)

type Service struct {
	Weather      *WeatherService
	Concept      *ConceptService
	ElevenLabs   *ElevenLabsService
	Replicate    *ReplicateService
	AudioStore   *AudioStoreService
	Synthesis    *SynthesisService
	AudioCleanup *AudioCleanupService
	Transaction  *TransactionService
	Scheduler    *SchedulerService
}

func New(db database.DB, config config.Config) (Service, error) {
	transactionService := NewTransactionService(db)
	repos := repositories.New(db)

	audioStoreService, err := NewAudioStoreService(config)
	if err != nil {
		return Service{}, err
	}

	weatherService := NewWeatherService(config, db.Cache.General)
	conceptService := NewConceptService(config)
	elevenLabsService := NewElevenLabsService(config)
	replicateService := NewReplicateService(config)
	synthesisService := NewSynthesisService(
		elevenLabsService,
		replicateService,
		audioStoreService,
		repos.BGM,
		repos.SynthesisJob,
	)
	audioCleanupService := NewAudioCleanupService(db, audioStoreService, repos.BGM)
	schedulerService := NewSchedulerService()

	return Service{
		Weather:      weatherService,
		Concept:      conceptService,
		ElevenLabs:   elevenLabsService,
		Replicate:    replicateService,
		AudioStore:   audioStoreService,
		Synthesis:    synthesisService,
		AudioCleanup: audioCleanupService,
		Transaction:  transactionService,
		Scheduler:    schedulerService,
	}, nil
}
