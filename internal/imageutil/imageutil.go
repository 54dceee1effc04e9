// Package imageutil converts between base64 transport payloads and image files.
package imageutil

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io/fs"
	"os"
	"strings"

	"frame-monitor/internal/apperr"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// DecodePNG turns a base64 payload into PNG bytes. PNG input is returned
// byte-for-byte; any other registered format is transcoded.
func DecodePNG(payload string) ([]byte, error) {
	raw, err := decodeBase64(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidImage, err)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidImage, err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidImage, err)
	}
	if format == "png" {
		return raw, nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: transcode %s: %v", apperr.ErrIO, format, err)
	}
	return buf.Bytes(), nil
}

// EncodeFile reads path and returns its base64 encoding.
func EncodeFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", apperr.ErrIO, path, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// EncodeFileOr encodes path, or fallback when path does not exist.
func EncodeFileOr(path, fallback string) (string, error) {
	encoded, err := EncodeFile(path)
	if err == nil {
		return encoded, nil
	}
	if _, statErr := os.Stat(path); errors.Is(statErr, fs.ErrNotExist) {
		return EncodeFile(fallback)
	}
	return "", err
}

func decodeBase64(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	// data:image/png;base64,... prefixes come from browser clients.
	if i := strings.Index(payload, ";base64,"); i >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[i+len(";base64,"):]
	}
	if raw, err := base64.StdEncoding.DecodeString(payload); err == nil {
		return raw, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
}
