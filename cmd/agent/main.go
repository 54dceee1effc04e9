package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"net"
	"os"
	"os/signal"
	"os/user"
	"strconv"
	"strings"
	"syscall"
	"time"

	"frame-monitor/internal/logger"
	"frame-monitor/internal/services"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kbinani/screenshot"
)

type agent struct {
	client    *resty.Client
	sessionID string
	user      services.UserIn
}

func main() {
	envErr := godotenv.Load()

	logger.Init(getEnv("APP_ENV", "development"), getEnv("LOG_LEVEL", "info"), getEnv("LOG_FORMAT", "console"))
	defer logger.Sync()
	if envErr != nil {
		logger.Info("No .env file found, using system defaults")
	}

	serverURL := getEnv("SERVER_URL", "http://127.0.0.1:8080")
	interval, err := strconv.Atoi(getEnv("CAPTURE_INTERVAL_SEC", "60"))
	if err != nil || interval <= 0 {
		interval = 60
	}

	a := &agent{
		client: resty.New().
			SetBaseURL(serverURL).
			SetTimeout(30 * time.Second).
			SetRetryCount(3).
			SetRetryWaitTime(5 * time.Second),
		sessionID: uuid.NewString(),
		user:      localUser(),
	}
	logger.Info("Agent started",
		logger.String("server", serverURL),
		logger.String("session_id", a.sessionID),
		logger.String("user", a.user.Name),
		logger.Duration("interval", time.Duration(interval)*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(time.Duration(interval) * time.Second)
	defer ticker.Stop()
	for {
		a.report(ctx)
		select {
		case <-ctx.Done():
			logger.Info("Agent stopped")
			return
		case <-ticker.C:
		}
	}
}

// report captures one frame and posts it. Failures are logged and the next
// tick tries again.
func (a *agent) report(ctx context.Context) {
	req, err := a.capture(ctx)
	if err != nil {
		logger.Warn("Capture failed", logger.Err(err))
		return
	}

	resp, err := a.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/api/v1.0/records")
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Warn("Upload failed", logger.Err(err))
		}
		return
	}
	if resp.IsError() {
		logger.Warn("Server rejected record",
			logger.Int("status", resp.StatusCode()),
			logger.String("body", resp.String()))
		return
	}
	logger.Debug("Record uploaded", logger.String("created_at", req.CreatedAt))
}

func (a *agent) capture(ctx context.Context) (*services.RecordRequest, error) {
	now := time.Now().UTC()
	image, err := captureDisplay()
	if err != nil {
		return nil, err
	}

	sensors := readSensors(ctx)
	return &services.RecordRequest{
		User:             a.user,
		CreatedAt:        now.Format(services.TimeLayout),
		SessionID:        a.sessionID,
		DriveSensors:     sensors.drives,
		IpPortSensors:    sensors.ipPorts,
		ProcessSensors:   sensors.processes,
		ScreenshotSensor: services.ScreenshotIn{Image: image},
	}, nil
}

func captureDisplay() (string, error) {
	if screenshot.NumActiveDisplays() <= 0 {
		return "", fmt.Errorf("no active display")
	}
	img, err := screenshot.CaptureDisplay(0)
	if err != nil {
		return "", fmt.Errorf("capture display: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode screenshot: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// --- Helper Functions ---

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func localUser() services.UserIn {
	name := getEnv("AGENT_USER_NAME", "")
	if name == "" {
		if u, err := user.Current(); err == nil {
			name = u.Username
		} else {
			name = "unknown"
		}
	}
	// Windows reports DOMAIN\user.
	if i := strings.LastIndexAny(name, `\/`); i >= 0 {
		name = name[i+1:]
	}
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return services.UserIn{
		Name:        name,
		IPAddress:   getLocalIP(),
		MachineName: hostname,
	}
}

func getLocalIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "unknown"
	}
	for _, addr := range addrs {
		if ipNet, ok := addr.(*net.IPNet); ok && !ipNet.IP.IsLoopback() {
			if ipNet.IP.To4() != nil {
				return ipNet.IP.String()
			}
		}
	}
	return "unknown"
}
