package container

import (
	app "coin-gauge/internal/application"
	"coin-gauge/internal/domain/entity"
	"coin-gauge/internal/domain/port"
)

type Container struct {
	UserService        *app.UserService
	MeasurementService *app.MeasurementService
	GaugeService       *app.GaugeService
	SessionService     *app.SessionService
}

// Deps — внешние зависимости измерительного конвейера.
type Deps struct {
	UserRepo   port.UserRepository
	Calibrator port.Calibrator
	Rectifier  port.Rectifier
	Detector   port.BlobDetector
	Annotator  port.Annotator
	Quality    port.QualityGate
	History    port.MeasurementRepository
}

func New(deps Deps, band entity.ToleranceBand, field entity.WorldField) *Container {
	userService := app.NewUserService(deps.UserRepo)
	measurementService := app.NewMeasurementService(band)
	gaugeService := app.NewGaugeService(
		measurementService,
		deps.Calibrator,
		deps.Rectifier,
		deps.Detector,
		deps.Annotator,
		deps.History,
		field,
	)
	sessionService := app.NewSessionService(userService, gaugeService, deps.Quality)

	return &Container{
		UserService:        userService,
		MeasurementService: measurementService,
		GaugeService:       gaugeService,
		SessionService:     sessionService,
	}
}
