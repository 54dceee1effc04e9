package repositories

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"frame-monitor/internal/apperr"
	"frame-monitor/internal/models"

	"gorm.io/gorm"
)

type FrameRepository struct{}

func NewFrameRepository() *FrameRepository {
	return &FrameRepository{}
}

// Record returns the id of the frame captured at captureTime in the session,
// creating it if needed. Retries of the same capture event resolve to one row.
func (r *FrameRepository) Record(tx *gorm.DB, captureTime time.Time, userSessionID uint) (uint, error) {
	captureTime = captureTime.UTC()
	frame := models.Frame{FrameCreateTime: captureTime, UserSessionID: userSessionID}
	err := resolveOrCreate(tx, &frame,
		"frame_create_time = ? AND user_session_id = ?", captureTime, userSessionID)
	if err != nil {
		return 0, fmt.Errorf("record frame: %w", err)
	}
	return frame.ID, nil
}

// FetchBySessionAndOrdinal returns the ordinal-th frame (1-indexed, by capture
// time) of the session.
func (r *FrameRepository) FetchBySessionAndOrdinal(db *gorm.DB, sessionID string, ordinal int) (*models.Frame, error) {
	if ordinal <= 0 {
		return nil, apperr.Validation("frame number must be positive, got %d", ordinal)
	}

	var frame models.Frame
	err := db.Model(&models.Frame{}).
		Select("frames.*").
		Joins("JOIN user_sessions ON user_sessions.id = frames.user_session_id").
		Where("user_sessions.session_id = ?", sessionID).
		Order("frames.frame_create_time ASC").
		Offset(ordinal - 1).
		Take(&frame).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: frame %d of session %s", apperr.ErrNotFound, ordinal, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch frame %d of session %s: %w", ordinal, sessionID, err)
	}
	return &frame, nil
}

type sessionSummaryRow struct {
	UserID      uint
	SessionID   string
	UserName    string
	MachineName string
	StartTime   storedTime
	EndTime     storedTime
}

// FetchAllSessionsSummary reports the first and last capture time of every
// session that has at least one frame, ordered by user name.
func (r *FrameRepository) FetchAllSessionsSummary(db *gorm.DB) ([]models.SessionSummary, error) {
	var rows []sessionSummaryRow
	err := db.Table("users").
		Select(`users.id AS user_id,
			user_sessions.session_id AS session_id,
			users.name AS user_name,
			users.machine_name AS machine_name,
			MIN(frames.frame_create_time) AS start_time,
			MAX(frames.frame_create_time) AS end_time`).
		Joins("JOIN user_sessions ON user_sessions.user_id = users.id").
		Joins("JOIN frames ON frames.user_session_id = user_sessions.id").
		Group("users.id, user_sessions.session_id, users.name, users.machine_name").
		Order("users.name ASC, start_time ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("fetch session summaries: %w", err)
	}

	summaries := make([]models.SessionSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, models.SessionSummary{
			UserID:      row.UserID,
			SessionID:   row.SessionID,
			UserName:    row.UserName,
			MachineName: row.MachineName,
			StartTime:   time.Time(row.StartTime),
			EndTime:     time.Time(row.EndTime),
		})
	}
	return summaries, nil
}

// storedTime scans aggregate datetime columns, which SQLite hands back as text.
type storedTime time.Time

var storedTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
}

func (t *storedTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*t = storedTime(v.UTC())
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	case nil:
		*t = storedTime(time.Time{})
		return nil
	default:
		return fmt.Errorf("cannot scan %T into time", src)
	}
}

func (t storedTime) Value() (driver.Value, error) {
	return time.Time(t), nil
}

func (t *storedTime) parse(s string) error {
	for _, layout := range storedTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = storedTime(parsed.UTC())
			return nil
		}
	}
	return fmt.Errorf("unrecognised time %q", s)
}
