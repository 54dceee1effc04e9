package services

import (
	"context"

	"frame-monitor/internal/models"
	"frame-monitor/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type DriveSensorOut struct {
	DriveLetter string           `json:"drive_letter"`
	DriveType   models.DriveType `json:"drive_type"`
	VolumeName  string           `json:"volume_name"`
	FileSystem  string           `json:"file_system"`
	AllSpace    string           `json:"all_space"`
	FreeSpace   string           `json:"free_space"`
}

type IpPortSensorOut struct {
	State      models.IpPortState `json:"state"`
	IP         string             `json:"ip"`
	Port       int                `json:"port"`
	ProcessID  int                `json:"process_id"`
	RemoteIP   string             `json:"remote_ip"`
	RemotePort int                `json:"remote_port"`
}

type ProcessSensorOut struct {
	FilePath    string `json:"file_path"`
	ProcessName string `json:"process_name"`
	ProcessID   int    `json:"process_id"`
	StartedAt   string `json:"started_at"`
}

type ScreenshotOut struct {
	Image string `json:"image"`
}

// FrameSnapshot is everything recorded for one frame.
type FrameSnapshot struct {
	RecordTime       string             `json:"record_time"`
	DriveSensors     []DriveSensorOut   `json:"drive_sensors"`
	IpPortSensors    []IpPortSensorOut  `json:"ip_port_sensors"`
	ProcessSensors   []ProcessSensorOut `json:"process_sensors"`
	ScreenshotSensor ScreenshotOut      `json:"screenshot_sensor"`
}

type SessionSummaryOut struct {
	ID          uint   `json:"id"`
	SessionID   string `json:"sessionId"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	UserName    string `json:"userName"`
	MachineName string `json:"machineName"`
}

type FrameService struct {
	db     *gorm.DB
	repos  *repositories.Repositories
	logger *zap.Logger
}

func NewFrameService(db *gorm.DB, repos *repositories.Repositories, logger *zap.Logger) *FrameService {
	return &FrameService{db: db, repos: repos, logger: logger}
}

// GetFrameDetail loads the ordinal-th frame of a session with all of its
// readings. The four sensor lookups run concurrently.
func (s *FrameService) GetFrameDetail(ctx context.Context, sessionID string, ordinal int) (*FrameSnapshot, error) {
	if parsed, err := uuid.Parse(sessionID); err == nil {
		sessionID = parsed.String()
	}
	frame, err := s.repos.Frames.FetchBySessionAndOrdinal(s.db.WithContext(ctx), sessionID, ordinal)
	if err != nil {
		return nil, err
	}

	var (
		drives     []models.DriveSensor
		ipPorts    []models.IpPortSensor
		processes  []models.ProcessSensor
		screenshot string
	)
	g, gctx := errgroup.WithContext(ctx)
	db := s.db.WithContext(gctx)
	g.Go(func() error {
		var err error
		drives, err = s.repos.DriveSensors.FetchByFrameID(db, frame.ID)
		return err
	})
	g.Go(func() error {
		var err error
		ipPorts, err = s.repos.IpPortSensors.FetchByFrameID(db, frame.ID)
		return err
	})
	g.Go(func() error {
		var err error
		processes, err = s.repos.ProcessSensors.FetchByFrameID(db, frame.ID)
		return err
	})
	g.Go(func() error {
		var err error
		screenshot, err = s.repos.Screenshots.FetchByFrameID(db, frame.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("failed to load frame readings",
			zap.String("session_id", sessionID),
			zap.Uint("frame_id", frame.ID),
			zap.Error(err))
		return nil, err
	}

	snapshot := &FrameSnapshot{
		RecordTime:       frame.FrameCreateTime.UTC().Format(TimeLayout),
		DriveSensors:     make([]DriveSensorOut, 0, len(drives)),
		IpPortSensors:    make([]IpPortSensorOut, 0, len(ipPorts)),
		ProcessSensors:   make([]ProcessSensorOut, 0, len(processes)),
		ScreenshotSensor: ScreenshotOut{Image: screenshot},
	}
	for _, d := range drives {
		snapshot.DriveSensors = append(snapshot.DriveSensors, DriveSensorOut{
			DriveLetter: d.DriveLetter,
			DriveType:   d.DriveType,
			VolumeName:  d.VolumeName,
			FileSystem:  d.FileSystem,
			AllSpace:    d.AllSpace,
			FreeSpace:   d.FreeSpace,
		})
	}
	for _, p := range ipPorts {
		snapshot.IpPortSensors = append(snapshot.IpPortSensors, IpPortSensorOut{
			State:      p.State,
			IP:         p.IP,
			Port:       p.Port,
			ProcessID:  p.ProcessID,
			RemoteIP:   p.RemoteIP,
			RemotePort: p.RemotePort,
		})
	}
	for _, p := range processes {
		snapshot.ProcessSensors = append(snapshot.ProcessSensors, ProcessSensorOut{
			FilePath:    p.FilePath,
			ProcessName: p.ProcessName,
			ProcessID:   p.ProcessID,
			StartedAt:   p.StartedAt.UTC().Format(TimeLayout),
		})
	}
	return snapshot, nil
}

// ListSessions reports the capture window of every session that has frames.
func (s *FrameService) ListSessions(ctx context.Context) ([]SessionSummaryOut, error) {
	summaries, err := s.repos.Frames.FetchAllSessionsSummary(s.db.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	out := make([]SessionSummaryOut, 0, len(summaries))
	for _, summary := range summaries {
		out = append(out, SessionSummaryOut{
			ID:          summary.UserID,
			SessionID:   summary.SessionID,
			StartDate:   summary.StartTime.UTC().Format(TimeLayout),
			EndDate:     summary.EndTime.UTC().Format(TimeLayout),
			UserName:    summary.UserName,
			MachineName: summary.MachineName,
		})
	}
	return out, nil
}
