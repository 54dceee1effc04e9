package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	LogLevel    string
	LogFormat   string

	ServerPort    string
	DBName        string
	ScreenshotDir string
	CoverDir      string
	NoImagePath   string

	OpenBDURL   string
	HTTPTimeout time.Duration
}

// Load reads .env when present and then the process environment.
// The returned bool reports whether a .env file was found.
func Load() (*Config, bool) {
	envLoaded := godotenv.Load() == nil

	timeoutSec, err := strconv.Atoi(getEnv("HTTP_TIMEOUT_SEC", "10"))
	if err != nil || timeoutSec <= 0 {
		timeoutSec = 10
	}

	return &Config{
		Environment:   getEnv("APP_ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "console"),
		ServerPort:    getEnv("SERVER_PORT", ":8080"),
		DBName:        getEnv("DB_NAME", "frame_monitor.db"),
		ScreenshotDir: getEnv("SCREENSHOT_DIR", "./screenshots"),
		CoverDir:      getEnv("COVER_DIR", "./static/images"),
		NoImagePath:   getEnv("NO_IMAGE_PATH", "./static/images/no_image.png"),
		OpenBDURL:     getEnv("OPENBD_URL", "https://api.openbd.jp/v1"),
		HTTPTimeout:   time.Duration(timeoutSec) * time.Second,
	}, envLoaded
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
