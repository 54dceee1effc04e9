package models

import (
	"time"
)

// User is a monitored person on a machine. (Name, IP, MachineName) is its
// natural key.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null;uniqueIndex:idx_users_identity,priority:1" json:"name"`
	IP          string    `gorm:"column:ip;size:39;not null;uniqueIndex:idx_users_identity,priority:2" json:"ip"`
	MachineName string    `gorm:"size:255;not null;uniqueIndex:idx_users_identity,priority:3" json:"machine_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserSession spans one power-on to power-off interval of a user's machine.
type UserSession struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID string    `gorm:"size:36;not null;uniqueIndex" json:"session_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Frame anchors every sensor reading of one capture event. A session cannot
// log two frames at the same instant.
type Frame struct {
	ID              uint         `gorm:"primaryKey" json:"id"`
	FrameCreateTime time.Time    `gorm:"not null;uniqueIndex:idx_frames_capture,priority:1" json:"frame_create_time"`
	UserSessionID   uint         `gorm:"not null;uniqueIndex:idx_frames_capture,priority:2" json:"user_session_id"`
	UserSession     *UserSession `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// SessionSummary is one row of the per-session capture window report.
type SessionSummary struct {
	UserID      uint
	SessionID   string
	UserName    string
	MachineName string
	StartTime   time.Time
	EndTime     time.Time
}

// All lists every table for AutoMigrate, parents first.
func All() []any {
	return []any{
		&User{},
		&UserSession{},
		&Frame{},
		&DriveSensor{},
		&IpPortSensor{},
		&ProcessSensor{},
		&ScreenshotSensor{},
		&Author{},
		&Book{},
	}
}
