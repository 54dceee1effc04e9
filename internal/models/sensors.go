package models

import "time"

type DriveSensor struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	DriveLetter string    `gorm:"size:1;not null" json:"drive_letter"`
	DriveType   DriveType `gorm:"size:20;not null" json:"drive_type"`
	VolumeName  string    `gorm:"size:255;not null" json:"volume_name"`
	FileSystem  string    `gorm:"size:255;not null" json:"file_system"`
	AllSpace    string    `gorm:"size:16;not null" json:"all_space"`
	FreeSpace   string    `gorm:"size:16;not null" json:"free_space"`
	FrameID     uint      `gorm:"not null;index" json:"frame_id"`
	Frame       *Frame    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type IpPortSensor struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	State      IpPortState `gorm:"size:10;not null" json:"state"`
	IP         string      `gorm:"column:ip;size:39;not null" json:"ip"`
	Port       int         `gorm:"not null" json:"port"`
	ProcessID  int         `gorm:"not null" json:"process_id"`
	RemoteIP   string      `gorm:"column:remote_ip;size:39;not null" json:"remote_ip"`
	RemotePort int         `gorm:"not null" json:"remote_port"`
	FrameID    uint        `gorm:"not null;index" json:"frame_id"`
	Frame      *Frame      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

type ProcessSensor struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FilePath    string    `gorm:"size:255;not null" json:"file_path"`
	ProcessName string    `gorm:"size:255;not null" json:"process_name"`
	ProcessID   int       `gorm:"not null" json:"process_id"`
	StartedAt   time.Time `gorm:"not null" json:"started_at"`
	FrameID     uint      `gorm:"not null;index" json:"frame_id"`
	Frame       *Frame    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ScreenshotSensor keeps only the path; the image itself lives on disk.
type ScreenshotSensor struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ImagePath string    `gorm:"type:text;not null" json:"image_path"`
	FrameID   uint      `gorm:"not null;index" json:"frame_id"`
	Frame     *Frame    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
