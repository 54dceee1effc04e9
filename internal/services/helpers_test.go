package services

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"frame-monitor/internal/database"
	"frame-monitor/internal/repositories"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	db      *gorm.DB
	repos   *repositories.Repositories
	root    string
	records *RecordService
	frames  *FrameService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	db, err := database.Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	root := filepath.Join(dir, "screenshots")
	repos := repositories.New(root)
	return &testEnv{
		db:      db,
		repos:   repos,
		root:    root,
		records: NewRecordService(db, repos, zap.NewNop()),
		frames:  NewFrameService(db, repos, zap.NewNop()),
	}
}

func samplePNGBase64(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < 8; i++ {
		img.Set(i, i, color.RGBA{B: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func sampleRecord(t *testing.T, sessionID, createdAt string) *RecordRequest {
	t.Helper()
	return &RecordRequest{
		User: UserIn{
			Name:        "test_user",
			IPAddress:   "192.168.4.13",
			MachineName: "test_machine",
		},
		CreatedAt: createdAt,
		SessionID: sessionID,
		DriveSensors: []DriveSensorIn{{
			DriveLetter: "C",
			DriveType:   3,
			VolumeName:  "OS",
			FileSystem:  "NTFS",
			AllSpace:    "511",
			FreeSpace:   "120",
		}},
		IpPortSensors: []IpPortSensorIn{{
			State:      "listen",
			IP:         "0.0.0.0",
			Port:       135,
			ProcessID:  1168,
			RemoteIP:   "0.0.0.0",
			RemotePort: 0,
		}},
		ProcessSensors: []ProcessSensorIn{{
			FilePath:    `C:\Windows\explorer.exe`,
			ProcessName: "explorer.exe",
			ProcessID:   4242,
			StartedAt:   "2023-05-01 09:00:00",
		}},
		ScreenshotSensor: ScreenshotIn{Image: samplePNGBase64(t)},
	}
}
