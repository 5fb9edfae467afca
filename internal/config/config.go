package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	Port              string `yaml:"port"`
	DBConn            string `yaml:"db_conn"`
	LogLevel          string `yaml:"log_level"`
	JWTSecret         string `yaml:"jwt_secret"`
	TokenTTL          string `yaml:"token_ttl"`
	AdminUser         string `yaml:"admin_user"`
	AdminPasswordHash string `yaml:"admin_password_hash"`
	Timezone          string `yaml:"timezone"`

	HolidayCountry string   `yaml:"holiday_country"`
	HolidayFeedURL string   `yaml:"holiday_feed_url"`
	HolidayDates   []string `yaml:"holiday_dates"`
	HolidayFiles   []string `yaml:"holiday_files"`

	SQLitePath     string  `yaml:"sqlite_path"`
	SnapshotCron   string  `yaml:"snapshot_cron"`
	CalendarCron   string  `yaml:"calendar_cron"`
	AlertThreshold float64 `yaml:"alert_threshold"`

	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     string `yaml:"smtp_port"`
	SMTPUsername string `yaml:"smtp_username"`
	SMTPPassword string `yaml:"smtp_password"`
	SenderEmail  string `yaml:"sender_email"`
	AlertEmail   string `yaml:"alert_email"`
}

// NewConfig loads configuration from the optional YAML file named by
// CONFIG_PATH and then from environment variables
func NewConfig() (*Config, error) {
	return Load(getEnv("CONFIG_PATH", ""))
}

// Load reads the YAML file at path (missing file is fine), applies
// environment overrides and validates the result
func Load(path string) (*Config, error) {
	cfg := &Config{
		Port:           "8080",
		DBConn:         "host=localhost port=5432 user=finance password=finance dbname=finance sslmode=disable",
		LogLevel:       "INFO",
		TokenTTL:       "24h",
		AdminUser:      "admin",
		Timezone:       "Local",
		HolidayCountry: "ru",
		SQLitePath:     "data/snapshots.db",
		SnapshotCron:   "0 0 21 * * *",
		CalendarCron:   "0 0 4 1 * *",
		AlertThreshold: 80,
		SMTPPort:       "587",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DBConn = getEnv("DB_CONN", cfg.DBConn)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.TokenTTL = getEnv("TOKEN_TTL", cfg.TokenTTL)
	cfg.AdminUser = getEnv("ADMIN_USER", cfg.AdminUser)
	cfg.AdminPasswordHash = getEnv("ADMIN_PASSWORD_HASH", cfg.AdminPasswordHash)
	cfg.Timezone = getEnv("TZ_NAME", cfg.Timezone)
	cfg.HolidayCountry = getEnv("HOLIDAY_COUNTRY", cfg.HolidayCountry)
	cfg.HolidayFeedURL = getEnv("HOLIDAY_FEED_URL", cfg.HolidayFeedURL)
	cfg.SQLitePath = getEnv("SQLITE_PATH", cfg.SQLitePath)
	cfg.SnapshotCron = getEnv("CRON_SNAPSHOT", cfg.SnapshotCron)
	cfg.CalendarCron = getEnv("CRON_CALENDAR", cfg.CalendarCron)
	cfg.SMTPHost = getEnv("SMTP_HOST", cfg.SMTPHost)
	cfg.SMTPPort = getEnv("SMTP_PORT", cfg.SMTPPort)
	cfg.SMTPUsername = getEnv("SMTP_USERNAME", cfg.SMTPUsername)
	cfg.SMTPPassword = getEnv("SMTP_PASSWORD", cfg.SMTPPassword)
	cfg.SenderEmail = getEnv("SENDER_EMAIL", cfg.SenderEmail)
	cfg.AlertEmail = getEnv("ALERT_EMAIL", cfg.AlertEmail)
	if v, ok := os.LookupEnv("HOLIDAY_DATES"); ok {
		cfg.HolidayDates = splitList(v)
	}
	if v, ok := os.LookupEnv("HOLIDAY_FILES"); ok {
		cfg.HolidayFiles = splitList(v)
	}
	if v, ok := os.LookupEnv("ALERT_THRESHOLD"); ok {
		threshold, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ALERT_THRESHOLD %q: %w", v, err)
		}
		cfg.AlertThreshold = threshold
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required fields and value ranges
func (c *Config) Validate() error {
	if c.DBConn == "" {
		return fmt.Errorf("DB_CONN is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	if _, err := c.TokenLifetime(); err != nil {
		return fmt.Errorf("invalid token_ttl %q: %w", c.TokenTTL, err)
	}
	if _, err := c.HolidayDateList(); err != nil {
		return err
	}
	if c.AlertThreshold < 0 {
		return fmt.Errorf("alert_threshold must be >= 0")
	}
	return nil
}

// Location resolves the configured timezone used to decide "today"
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// TokenLifetime returns how long issued tokens stay valid
func (c *Config) TokenLifetime() (time.Duration, error) {
	return time.ParseDuration(c.TokenTTL)
}

// HolidayDateList parses the statically configured holidays (YYYY-MM-DD)
func (c *Config) HolidayDateList() ([]time.Time, error) {
	dates := make([]time.Time, 0, len(c.HolidayDates))
	for _, raw := range c.HolidayDates {
		d, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid holiday date %q: %w", raw, err)
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// MailEnabled reports whether enough SMTP settings exist to send alerts
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.SenderEmail != "" && c.AlertEmail != ""
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
