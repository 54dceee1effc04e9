package repositories

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
	"time"

	"frame-monitor/internal/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04:05", value)
	require.NoError(t, err)
	return parsed
}

// seedFrame stores a user, a session and one frame and returns the frame id.
func seedFrame(t *testing.T, db *gorm.DB, userName, sessionID, captureTime string) uint {
	t.Helper()
	userID, err := NewUserRepository().Resolve(db, userName, "192.168.4.13", "machine-"+userName)
	require.NoError(t, err)
	userSessionID, err := NewUserSessionRepository().Resolve(db, sessionID, userID)
	require.NoError(t, err)
	frameID, err := NewFrameRepository().Record(db, mustTime(t, captureTime), userSessionID)
	require.NoError(t, err)
	return frameID
}

func samplePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 9))
	for x := 0; x < 16; x++ {
		img.Set(x, x%9, color.RGBA{G: 180, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
