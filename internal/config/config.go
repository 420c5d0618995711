package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	App        AppConfig
	JWT        JWTConfig
	Attendance AttendanceConfig
	Storage    StorageConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
	MinConns int
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// JWTConfig holds token verification configuration. Tokens are issued by the
// auth service; this application only verifies them.
type JWTConfig struct {
	Secret string
}

// AttendanceConfig holds the working-time rules shared by the leave and
// attendance services.
type AttendanceConfig struct {
	ShiftStart   string // "HH:MM", local shift start
	ShiftEnd     string // "HH:MM", local shift end
	GraceMinutes int    // late tolerance after shift start
	WeekendDays  []time.Weekday
}

type StorageConfig struct {
	Type     string
	BasePath string
}

func Load() (*Config, error) {
	// Missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	dbMaxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	dbMinConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hrms"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: dbMaxConns,
		MinConns: dbMinConns,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	// Attendance configuration
	graceMinutes, err := strconv.Atoi(getEnv("LATE_GRACE_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid LATE_GRACE_MINUTES: %w", err)
	}

	weekendDays, err := parseWeekdays(getEnv("WEEKEND_DAYS", "Friday,Saturday"))
	if err != nil {
		return nil, fmt.Errorf("invalid WEEKEND_DAYS: %w", err)
	}

	config.Attendance = AttendanceConfig{
		ShiftStart:   getEnv("SHIFT_START", "09:00"),
		ShiftEnd:     getEnv("SHIFT_END", "17:00"),
		GraceMinutes: graceMinutes,
		WeekendDays:  weekendDays,
	}

	config.Storage = StorageConfig{
		Type:     getEnv("STORAGE_TYPE", "local"),
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.Parse("15:04", c.Attendance.ShiftStart); err != nil {
		return fmt.Errorf("SHIFT_START must be HH:MM: %w", err)
	}
	if _, err := time.Parse("15:04", c.Attendance.ShiftEnd); err != nil {
		return fmt.Errorf("SHIFT_END must be HH:MM: %w", err)
	}
	if c.Attendance.GraceMinutes < 0 {
		return fmt.Errorf("LATE_GRACE_MINUTES must not be negative")
	}
	if c.Database.MaxConns < 1 || c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS must fit within DB_MAX_CONNS")
	}
	if len(c.Attendance.WeekendDays) == 0 {
		return fmt.Errorf("WEEKEND_DAYS is required")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func parseWeekdays(value string) ([]time.Weekday, error) {
	var days []time.Weekday
	for _, part := range strings.Split(value, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		day, ok := weekdayNames[name]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", part)
		}
		days = append(days, day)
	}
	return days, nil
}
