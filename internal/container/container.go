package container

import (
	app "dough-vision/internal/application"
	"dough-vision/internal/domain/entity"
	"dough-vision/internal/domain/port"
	"dough-vision/internal/infrastructure/report"
)

type Container struct {
	UserService        *app.UserService
	InspectionService  *app.InspectionService
	CalibrationService *app.CalibrationService
	Reporter           *report.TextDescriber
}

// Stores хранилища, которые собираются в main.
type Stores struct {
	Users    port.UserRepository
	Model    port.ModelRepository
	Rules    port.RuleStore
	Sessions port.SessionStore
	Results  port.ResultRepository
}

func New(stores Stores, detector port.Detector, options entity.InferenceOptions) *Container {
	reporter := report.NewTextDescriber()
	userService := app.NewUserService(stores.Users)
	inspectionService := app.NewInspectionService(userService, detector, stores.Model, stores.Rules, stores.Results, reporter, options)
	calibrationService := app.NewCalibrationService(stores.Model, stores.Sessions, detector)

	return &Container{
		UserService:        userService,
		InspectionService:  inspectionService,
		CalibrationService: calibrationService,
		Reporter:           reporter,
	}
}
