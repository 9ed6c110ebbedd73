package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	ListenAddr     string
	CORSOrigins    string
	ImageDirectory string
	CurrentImage   string
	PreviousImage  string

	CameraSource   string // "snapshot" or "browser"
	SnapshotURL    string
	CameraPageURL  string
	ChromeBin      string
	WarmupFrames   int
	CaptureRetries int

	AnthropicAPIKey   string
	ClaudeModel       string
	MaxTokens         int
	InputCostPerMTok  float64
	OutputCostPerMTok float64

	ScanSchedule string

	DashboardAddr    string
	ServerURL        string
	PollIntervalSec  int
	RecentScansLimit int
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "pantry"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "pantry123"),
		PostgresDB:       getEnv("POSTGRES_DB", "pantry_monitor"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		ListenAddr:     getEnv("LISTEN_ADDR", ":5000"),
		CORSOrigins:    getEnv("CORS_ORIGINS", "*"),
		ImageDirectory: getEnv("IMAGE_DIRECTORY", "./pantry_images"),
		CurrentImage:   getEnv("CURRENT_IMAGE", "current.jpg"),
		PreviousImage:  getEnv("PREVIOUS_IMAGE", "previous.jpg"),

		CameraSource:   getEnv("CAMERA_SOURCE", "snapshot"),
		SnapshotURL:    getEnv("CAMERA_SNAPSHOT_URL", "http://localhost:8080/snapshot.jpg"),
		CameraPageURL:  getEnv("CAMERA_PAGE_URL", ""),
		ChromeBin:      getEnv("CHROME_BIN", ""),
		WarmupFrames:   getEnvInt("CAMERA_WARMUP_FRAMES", 10),
		CaptureRetries: getEnvInt("CAPTURE_RETRIES", 3),

		AnthropicAPIKey:   getEnv("ANTHROPIC_API_KEY", ""),
		ClaudeModel:       getEnv("CLAUDE_MODEL", "claude-sonnet-4-5"),
		MaxTokens:         getEnvInt("MAX_TOKENS", 2000),
		InputCostPerMTok:  getEnvFloat("INPUT_COST_PER_MTOK", 3.0),
		OutputCostPerMTok: getEnvFloat("OUTPUT_COST_PER_MTOK", 15.0),

		ScanSchedule: getEnv("SCAN_SCHEDULE", "0 9 * * *"),

		DashboardAddr:    getEnv("DASHBOARD_ADDR", ":8081"),
		ServerURL:        getEnv("SERVER_URL", "http://localhost:5000"),
		PollIntervalSec:  getEnvInt("POLL_INTERVAL_SEC", 30),
		RecentScansLimit: getEnvInt("RECENT_SCANS_LIMIT", 10),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// AdminDSN returns a connection string against the default postgres
// database, used by the setup and reset tooling before the application
// database exists.
func (c *Config) AdminDSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=postgres" +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}
