package repositories

import (
	"fmt"

	"frame-monitor/internal/models"

	"gorm.io/gorm"
)

const sensorBatchSize = 200

// The three sensor writers append unconditionally: several identical readings
// in one frame (two drives, two sockets) are legal.

type DriveSensorRepository struct{}

func NewDriveSensorRepository() *DriveSensorRepository {
	return &DriveSensorRepository{}
}

func (r *DriveSensorRepository) SaveBatch(tx *gorm.DB, readings []models.DriveSensor, frameID uint) error {
	if len(readings) == 0 {
		return nil
	}
	for i := range readings {
		readings[i].ID = 0
		readings[i].FrameID = frameID
	}
	if err := tx.CreateInBatches(readings, sensorBatchSize).Error; err != nil {
		return fmt.Errorf("save %d drive sensors for frame %d: %w", len(readings), frameID, err)
	}
	return nil
}

func (r *DriveSensorRepository) FetchByFrameID(db *gorm.DB, frameID uint) ([]models.DriveSensor, error) {
	var readings []models.DriveSensor
	if err := db.Where("frame_id = ?", frameID).Find(&readings).Error; err != nil {
		return nil, fmt.Errorf("fetch drive sensors for frame %d: %w", frameID, err)
	}
	return readings, nil
}

type IpPortSensorRepository struct{}

func NewIpPortSensorRepository() *IpPortSensorRepository {
	return &IpPortSensorRepository{}
}

func (r *IpPortSensorRepository) SaveBatch(tx *gorm.DB, readings []models.IpPortSensor, frameID uint) error {
	if len(readings) == 0 {
		return nil
	}
	for i := range readings {
		readings[i].ID = 0
		readings[i].FrameID = frameID
	}
	if err := tx.CreateInBatches(readings, sensorBatchSize).Error; err != nil {
		return fmt.Errorf("save %d ip port sensors for frame %d: %w", len(readings), frameID, err)
	}
	return nil
}

func (r *IpPortSensorRepository) FetchByFrameID(db *gorm.DB, frameID uint) ([]models.IpPortSensor, error) {
	var readings []models.IpPortSensor
	if err := db.Where("frame_id = ?", frameID).Find(&readings).Error; err != nil {
		return nil, fmt.Errorf("fetch ip port sensors for frame %d: %w", frameID, err)
	}
	return readings, nil
}

type ProcessSensorRepository struct{}

func NewProcessSensorRepository() *ProcessSensorRepository {
	return &ProcessSensorRepository{}
}

func (r *ProcessSensorRepository) SaveBatch(tx *gorm.DB, readings []models.ProcessSensor, frameID uint) error {
	if len(readings) == 0 {
		return nil
	}
	for i := range readings {
		readings[i].ID = 0
		readings[i].FrameID = frameID
		readings[i].StartedAt = readings[i].StartedAt.UTC()
	}
	if err := tx.CreateInBatches(readings, sensorBatchSize).Error; err != nil {
		return fmt.Errorf("save %d process sensors for frame %d: %w", len(readings), frameID, err)
	}
	return nil
}

func (r *ProcessSensorRepository) FetchByFrameID(db *gorm.DB, frameID uint) ([]models.ProcessSensor, error) {
	var readings []models.ProcessSensor
	if err := db.Where("frame_id = ?", frameID).Find(&readings).Error; err != nil {
		return nil, fmt.Errorf("fetch process sensors for frame %d: %w", frameID, err)
	}
	return readings, nil
}
