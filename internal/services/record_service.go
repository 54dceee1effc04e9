package services

import (
	"context"

	"frame-monitor/internal/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RecordService struct {
	db     *gorm.DB
	repos  *repositories.Repositories
	logger *zap.Logger
}

func NewRecordService(db *gorm.DB, repos *repositories.Repositories, logger *zap.Logger) *RecordService {
	return &RecordService{db: db, repos: repos, logger: logger}
}

// Save stores one capture event. Identity, frame, sensor rows and the
// screenshot row commit together or not at all; a screenshot file written
// before a failure is reverted.
func (s *RecordService) Save(ctx context.Context, req *RecordRequest) error {
	rec, err := req.parse()
	if err != nil {
		return err
	}

	var written []*repositories.WrittenFile
	var frameID uint
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userID, err := s.repos.Users.Resolve(tx, rec.userName, rec.ip, rec.machineName)
		if err != nil {
			return err
		}
		userSessionID, err := s.repos.UserSessions.Resolve(tx, rec.sessionID, userID)
		if err != nil {
			return err
		}
		frameID, err = s.repos.Frames.Record(tx, rec.captureTime, userSessionID)
		if err != nil {
			return err
		}

		if err := s.repos.DriveSensors.SaveBatch(tx, rec.drives, frameID); err != nil {
			return err
		}
		if err := s.repos.IpPortSensors.SaveBatch(tx, rec.ipPorts, frameID); err != nil {
			return err
		}
		if err := s.repos.ProcessSensors.SaveBatch(tx, rec.processes, frameID); err != nil {
			return err
		}

		file, err := s.repos.Screenshots.Save(tx, rec.screenshot, frameID, rec.userName, rec.captureTime)
		if err != nil {
			return err
		}
		written = append(written, file)
		return nil
	})
	if err != nil {
		s.revert(written)
		s.logger.Error("failed to save record",
			zap.String("session_id", rec.sessionID),
			zap.String("user", rec.userName),
			zap.Error(err))
		return err
	}

	s.logger.Debug("record saved",
		zap.String("session_id", rec.sessionID),
		zap.Uint("frame_id", frameID),
		zap.Int("drives", len(rec.drives)),
		zap.Int("ip_ports", len(rec.ipPorts)),
		zap.Int("processes", len(rec.processes)))
	return nil
}

func (s *RecordService) revert(files []*repositories.WrittenFile) {
	for _, f := range files {
		if err := f.Revert(); err != nil {
			s.logger.Warn("screenshot file left orphaned", zap.String("path", f.Path), zap.Error(err))
		}
	}
}
