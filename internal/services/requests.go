package services

import (
	"time"

	"frame-monitor/internal/apperr"
	"frame-monitor/internal/models"

	"github.com/google/uuid"
)

// TimeLayout is the wire format for every timestamp in requests and responses.
const TimeLayout = "2006-01-02 15:04:05"

// RecordRequest is one capture event reported by an agent.
type RecordRequest struct {
	User             UserIn            `json:"user" binding:"required"`
	CreatedAt        string            `json:"created_at" binding:"required,datetime=2006-01-02 15:04:05"`
	SessionID        string            `json:"session_id" binding:"required,uuid"`
	DriveSensors     []DriveSensorIn   `json:"drive_sensors" binding:"dive"`
	IpPortSensors    []IpPortSensorIn  `json:"ip_port_sensors" binding:"dive"`
	ProcessSensors   []ProcessSensorIn `json:"process_sensors" binding:"dive"`
	ScreenshotSensor ScreenshotIn      `json:"screenshot_sensor" binding:"required"`
}

type UserIn struct {
	Name        string `json:"name" binding:"required,max=255,pathsafe"`
	IPAddress   string `json:"ip_address" binding:"required,max=39"`
	MachineName string `json:"machine_name" binding:"required,max=255"`
}

type DriveSensorIn struct {
	DriveLetter string           `json:"drive_letter" binding:"required,len=1"`
	DriveType   models.DriveType `json:"drive_type"`
	VolumeName  string           `json:"volume_name" binding:"max=255"`
	FileSystem  string           `json:"file_system" binding:"max=255"`
	AllSpace    string           `json:"all_space" binding:"max=16"`
	FreeSpace   string           `json:"free_space" binding:"max=16"`
}

type IpPortSensorIn struct {
	State      models.IpPortState `json:"state" binding:"required"`
	IP         string             `json:"ip" binding:"required,max=39"`
	Port       int                `json:"port" binding:"min=1,max=65535"`
	ProcessID  int                `json:"process_id" binding:"min=0"`
	RemoteIP   string             `json:"remote_ip" binding:"max=39"`
	RemotePort int                `json:"remote_port" binding:"min=0,max=65535"`
}

type ProcessSensorIn struct {
	FilePath    string `json:"file_path" binding:"required,max=255"`
	ProcessName string `json:"process_name" binding:"required,max=255"`
	ProcessID   int    `json:"process_id" binding:"min=0"`
	StartedAt   string `json:"started_at" binding:"required,datetime=2006-01-02 15:04:05"`
}

type ScreenshotIn struct {
	Image string `json:"image" binding:"required"`
}

// record is a RecordRequest after parsing, ready for storage.
type record struct {
	userName    string
	ip          string
	machineName string
	sessionID   string
	captureTime time.Time
	drives      []models.DriveSensor
	ipPorts     []models.IpPortSensor
	processes   []models.ProcessSensor
	screenshot  string
}

// parse re-checks what the storage layer relies on, so the service is safe to
// call without the HTTP binding in front of it.
func (req *RecordRequest) parse() (*record, error) {
	if req.User.Name == "" || req.User.IPAddress == "" || req.User.MachineName == "" {
		return nil, apperr.Validation("user name, ip_address and machine_name are required")
	}
	captureTime, err := time.Parse(TimeLayout, req.CreatedAt)
	if err != nil {
		return nil, apperr.Validation("created_at must be YYYY-MM-DD HH:MM:SS")
	}
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return nil, apperr.Validation("session_id must be a UUID")
	}
	if req.ScreenshotSensor.Image == "" {
		return nil, apperr.Validation("screenshot_sensor.image is required")
	}

	rec := &record{
		userName:    req.User.Name,
		ip:          req.User.IPAddress,
		machineName: req.User.MachineName,
		sessionID:   sessionID.String(),
		captureTime: captureTime,
		screenshot:  req.ScreenshotSensor.Image,
		drives:      make([]models.DriveSensor, 0, len(req.DriveSensors)),
		ipPorts:     make([]models.IpPortSensor, 0, len(req.IpPortSensors)),
		processes:   make([]models.ProcessSensor, 0, len(req.ProcessSensors)),
	}

	for _, d := range req.DriveSensors {
		if !d.DriveType.Valid() {
			return nil, apperr.Validation("invalid drive type %d", int(d.DriveType))
		}
		rec.drives = append(rec.drives, models.DriveSensor{
			DriveLetter: d.DriveLetter,
			DriveType:   d.DriveType,
			VolumeName:  d.VolumeName,
			FileSystem:  d.FileSystem,
			AllSpace:    d.AllSpace,
			FreeSpace:   d.FreeSpace,
		})
	}
	for _, p := range req.IpPortSensors {
		if !p.State.Valid() {
			return nil, apperr.Validation("invalid ip port state %q", string(p.State))
		}
		rec.ipPorts = append(rec.ipPorts, models.IpPortSensor{
			State:      p.State,
			IP:         p.IP,
			Port:       p.Port,
			ProcessID:  p.ProcessID,
			RemoteIP:   p.RemoteIP,
			RemotePort: p.RemotePort,
		})
	}
	for _, p := range req.ProcessSensors {
		startedAt, err := time.Parse(TimeLayout, p.StartedAt)
		if err != nil {
			return nil, apperr.Validation("process %q started_at must be YYYY-MM-DD HH:MM:SS", p.ProcessName)
		}
		rec.processes = append(rec.processes, models.ProcessSensor{
			FilePath:    p.FilePath,
			ProcessName: p.ProcessName,
			ProcessID:   p.ProcessID,
			StartedAt:   startedAt,
		})
	}
	return rec, nil
}
