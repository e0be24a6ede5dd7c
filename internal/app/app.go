package app

import (
	"context"

	"skytone/config"
	"skytone/internal/controllers"
	"skytone/internal/database"
	"skytone/internal/events"
	"skytone/internal/handlers/middleware"
	"skytone/internal/jobs"
	"skytone/internal/repositories"
	"skytone/internal/services"
	"skytone/internal/websockets"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	EventBus   *events.EventBus
	Config     config.Config

	Services     services.Service
	Repositories repositories.Repository
	Controllers  controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events, config)

	service, err := services.New(db, config)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	repos := repositories.New(db)

	websocket, err := websockets.New(db, eventBus, config)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	middleware := middleware.New(db, eventBus, config)
	controllers := controllers.New(service, repos, eventBus, config, db)

	if config.SchedulerEnabled {
		// Orphan sweep runs at 2:00 AM UTC daily.
		audioCleanupJob := jobs.NewAudioCleanupJob(service.AudioCleanup, services.Daily)
		if err := service.Scheduler.AddJob(audioCleanupJob); err != nil {
			return &App{}, log.Err("failed to register audio cleanup job", err)
		}
		log.Info("Registered audio cleanup job with scheduler")

		if err := service.Scheduler.Start(context.Background()); err != nil {
			return &App{}, log.Err("failed to start scheduler", err)
		}
	}

	app := &App{
		Database:     db,
		Middleware:   middleware,
		Websocket:    websocket,
		EventBus:     eventBus,
		Config:       config,
		Services:     service,
		Repositories: repos,
		Controllers:  controllers,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.Services.Weather,
		a.Services.Concept,
		a.Services.Synthesis,
		a.Services.AudioStore,
		a.Services.AudioCleanup,
		a.Services.Transaction,
		a.Services.Scheduler,
		a.Repositories.BGM,
		a.Repositories.Playlist,
		a.Repositories.SynthesisJob,
		a.Controllers.BGM,
		a.Controllers.Playlist,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
