package repositories

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"frame-monitor/internal/apperr"
	"frame-monitor/internal/imageutil"
	"frame-monitor/internal/models"

	"gorm.io/gorm"
)

const DefaultScreenshotRoot = "./screenshots"

// ScreenshotPath lays screenshots out as {root}/{user}/{YYYYMMDD}/{HHMMSS}_{frameID}.png.
// Operational tooling depends on this layout.
func ScreenshotPath(root, userName string, captureTime time.Time, frameID uint) string {
	return fmt.Sprintf("%s/%s_%d.png",
		screenshotDir(root, userName, captureTime), captureTime.Format("150405"), frameID)
}

func screenshotDir(root, userName string, captureTime time.Time) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(root, "/"), userName, captureTime.Format("20060102"))
}

type ScreenshotRepository struct {
	Root string
}

func NewScreenshotRepository(root string) *ScreenshotRepository {
	if root == "" {
		root = DefaultScreenshotRoot
	}
	return &ScreenshotRepository{Root: root}
}

// WrittenFile remembers what a screenshot write replaced so it can be undone
// when the surrounding transaction rolls back.
type WrittenFile struct {
	Path     string
	existed  bool
	previous []byte
}

// Revert puts the file back the way it was before the write.
func (f *WrittenFile) Revert() error {
	if f.existed {
		return os.WriteFile(f.Path, f.previous, 0o644)
	}
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Save decodes the base64 image, writes it under the derived path and stages
// a row pointing at it. The file write is not covered by tx; callers revert
// the returned file if tx does not commit.
func (r *ScreenshotRepository) Save(tx *gorm.DB, payload string, frameID uint, userName string, captureTime time.Time) (*WrittenFile, error) {
	if err := checkPathSegment(userName); err != nil {
		return nil, err
	}

	data, err := imageutil.DecodePNG(payload)
	if err != nil {
		return nil, fmt.Errorf("screenshot for frame %d: %w", frameID, err)
	}

	dir := screenshotDir(r.Root, userName, captureTime)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", apperr.ErrIO, dir, err)
	}

	written, err := writeFile(ScreenshotPath(r.Root, userName, captureTime, frameID), data)
	if err != nil {
		return nil, err
	}

	row := models.ScreenshotSensor{ImagePath: written.Path, FrameID: frameID}
	if err := tx.Create(&row).Error; err != nil {
		if revertErr := written.Revert(); revertErr != nil {
			err = errors.Join(err, revertErr)
		}
		return nil, fmt.Errorf("save screenshot row for frame %d: %w", frameID, err)
	}
	return written, nil
}

// FetchByFrameID returns the frame's screenshot as base64.
func (r *ScreenshotRepository) FetchByFrameID(db *gorm.DB, frameID uint) (string, error) {
	var row models.ScreenshotSensor
	err := db.Where("frame_id = ?", frameID).Order("id DESC").Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("%w: screenshot for frame %d", apperr.ErrNotFound, frameID)
	}
	if err != nil {
		return "", fmt.Errorf("fetch screenshot for frame %d: %w", frameID, err)
	}
	return imageutil.EncodeFile(row.ImagePath)
}

func writeFile(path string, data []byte) (*WrittenFile, error) {
	written := &WrittenFile{Path: path}
	previous, err := os.ReadFile(path)
	switch {
	case err == nil:
		written.existed = true
		written.previous = previous
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: read %s: %v", apperr.ErrIO, path, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("%w: write %s: %v", apperr.ErrIO, path, err)
	}
	return written, nil
}

func checkPathSegment(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return apperr.Validation("user name %q cannot be used as a directory", name)
	}
	return nil
}
