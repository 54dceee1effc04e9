package repositories

// Repositories bundles every repository the services need. Repositories hold
// no connection; each call receives the *gorm.DB (or transaction) to run on.
type Repositories struct {
	Users          *UserRepository
	UserSessions   *UserSessionRepository
	Frames         *FrameRepository
	DriveSensors   *DriveSensorRepository
	IpPortSensors  *IpPortSensorRepository
	ProcessSensors *ProcessSensorRepository
	Screenshots    *ScreenshotRepository
	Authors        *AuthorRepository
	Books          *BookRepository
}

func New(screenshotRoot string) *Repositories {
	return &Repositories{
		Users:          NewUserRepository(),
		UserSessions:   NewUserSessionRepository(),
		Frames:         NewFrameRepository(),
		DriveSensors:   NewDriveSensorRepository(),
		IpPortSensors:  NewIpPortSensorRepository(),
		ProcessSensors: NewProcessSensorRepository(),
		Screenshots:    NewScreenshotRepository(screenshotRoot),
		Authors:        NewAuthorRepository(),
		Books:          NewBookRepository(),
	}
}
